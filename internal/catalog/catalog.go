package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/selfhostedhub/compare/internal/config"
	"github.com/selfhostedhub/compare/internal/progress"
	"github.com/selfhostedhub/compare/internal/types"
	"github.com/selfhostedhub/compare/internal/validation"
)

//go:embed all:data
var embeddedFS embed.FS

// EmbeddedSource names the built-in catalog in logs and reports
const EmbeddedSource = "embedded"

// toolPattern matches record files below a category directory
const toolPattern = "/**/*.{yaml,yml,json}"

// Catalog is the loaded set of categories and their tool records
type Catalog struct {
	Categories *types.CategoriesConfig
	Config     *config.DataConfig
	Source     string

	tools map[string][]*types.Tool
}

// Tools returns the records of a category in display order
func (c *Catalog) Tools(category string) ([]*types.Tool, error) {
	if _, err := c.Categories.Category(category); err != nil {
		return nil, err
	}
	return c.tools[category], nil
}

// Tool looks up one record by id
func (c *Catalog) Tool(category, id string) (*types.Tool, bool) {
	for _, t := range c.tools[category] {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Count returns the number of loaded records over all categories
func (c *Catalog) Count() int {
	n := 0
	for _, tools := range c.tools {
		n += len(tools)
	}
	return n
}

// Loader reads a catalog from the embedded data or a data directory
type Loader struct {
	dataDir  string
	excludes []string
	validate bool
	progress *progress.Progress
	logger   *slog.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithDataDir loads from an external directory instead of the embedded data
func WithDataDir(dir string) Option {
	return func(l *Loader) { l.dataDir = dir }
}

// WithExcludes adds doublestar patterns of record files to ignore
func WithExcludes(patterns []string) Option {
	return func(l *Loader) { l.excludes = append(l.excludes, patterns...) }
}

// WithValidation toggles JSON schema validation of every file
func WithValidation(on bool) Option {
	return func(l *Loader) { l.validate = on }
}

// WithProgress reports per-file events
func WithProgress(p *progress.Progress) Option {
	return func(l *Loader) { l.progress = p }
}

// WithLogger attaches a logger
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a loader; validation is on by default
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		validate: true,
		progress: progress.Disabled(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads categories and every tool file
func (l *Loader) Load() (*Catalog, error) {
	fsys, categoriesData, dataCfg, source, err := l.open()
	if err != nil {
		return nil, err
	}

	if l.validate {
		if err := validation.ValidateYAML(validation.CategoriesSchema, categoriesData); err != nil {
			return nil, fmt.Errorf("invalid categories in %s: %w", source, err)
		}
	}
	categories, err := config.ParseCategoriesConfig(categoriesData)
	if err != nil {
		return nil, err
	}

	excludes := dataCfg.MergeExcludes(l.excludes)
	for _, pattern := range excludes {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	l.progress.LoadStart(source, excludes)
	l.logger.Debug("loading catalog", "source", source, "categories", len(categories.Categories), "excludes", excludes)

	cat := &Catalog{
		Categories: categories,
		Config:     dataCfg,
		Source:     source,
		tools:      make(map[string][]*types.Tool, len(categories.Categories)),
	}

	files := 0
	for _, def := range categories.Categories {
		tools, n, err := l.loadCategory(fsys, def.ID, excludes)
		if err != nil {
			return nil, err
		}
		files += n
		cat.tools[def.ID] = tools
	}

	l.progress.LoadComplete(files, cat.Count())
	l.logger.Debug("catalog loaded", "source", source, "files", files, "tools", cat.Count())
	return cat, nil
}

// open resolves the file system, categories document and directory config
func (l *Loader) open() (fs.FS, []byte, *config.DataConfig, string, error) {
	if l.dataDir == "" {
		sub, err := fs.Sub(embeddedFS, "data")
		if err != nil {
			return nil, nil, nil, "", fmt.Errorf("failed to open embedded data: %w", err)
		}
		return sub, config.EmbeddedCategoriesData(), &config.DataConfig{}, EmbeddedSource, nil
	}

	info, err := os.Stat(l.dataDir)
	if err != nil {
		return nil, nil, nil, "", fmt.Errorf("failed to open data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, nil, "", fmt.Errorf("data path %s is not a directory", l.dataDir)
	}
	fsys := os.DirFS(l.dataDir)

	categoriesData, err := fs.ReadFile(fsys, config.CategoriesFile)
	if os.IsNotExist(err) {
		l.logger.Debug("no categories.yaml in data directory, using embedded definitions", "dir", l.dataDir)
		categoriesData = config.EmbeddedCategoriesData()
	} else if err != nil {
		return nil, nil, nil, "", fmt.Errorf("failed to read %s: %w", config.CategoriesFile, err)
	}

	if l.validate {
		if _, err := fs.Stat(fsys, config.DataConfigFile); err == nil {
			if err := validation.ValidateFile(validation.DataConfigSchema, filepath.Join(l.dataDir, config.DataConfigFile)); err != nil {
				return nil, nil, nil, "", fmt.Errorf("invalid %s: %w", config.DataConfigFile, err)
			}
		}
	}
	dataCfg, err := config.LoadDataConfig(l.dataDir)
	if err != nil {
		return nil, nil, nil, "", err
	}

	return fsys, categoriesData, dataCfg, l.dataDir, nil
}

// loadCategory reads every record below the category directory, ordered by path
func (l *Loader) loadCategory(fsys fs.FS, category string, excludes []string) ([]*types.Tool, int, error) {
	pattern := category + toolPattern
	l.progress.CategoryStart(category, pattern)

	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", category, err)
	}
	sort.Strings(matches)

	var tools []*types.Tool
	seen := make(map[string]string)
	files := 0
	for _, file := range matches {
		if rule, excluded := matchAny(excludes, file); excluded {
			l.progress.Skipped(file, "excluded by "+rule)
			continue
		}
		files++

		tool, err := l.loadTool(fsys, file)
		if err != nil {
			return nil, files, err
		}
		if prev, dup := seen[tool.ID]; dup {
			return nil, files, fmt.Errorf("duplicate tool id %q in %s and %s", tool.ID, prev, file)
		}
		seen[tool.ID] = file

		l.progress.FileLoaded(category, file, tool.ID)
		tools = append(tools, tool)
	}
	return tools, files, nil
}

func (l *Loader) loadTool(fsys fs.FS, file string) (*types.Tool, error) {
	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read tool file %s: %w", file, err)
	}

	isJSON := strings.EqualFold(path.Ext(file), ".json")

	if l.validate {
		if isJSON {
			err = validation.ValidateJSONBytes(validation.ToolSchema, content)
		} else {
			err = validation.ValidateYAML(validation.ToolSchema, content)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid tool file %s: %w", file, err)
		}
	}

	var tool types.Tool
	if isJSON {
		err = json.Unmarshal(content, &tool)
	} else {
		err = yaml.Unmarshal(content, &tool)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse tool file %s: %w", file, err)
	}
	if tool.ID == "" {
		return nil, fmt.Errorf("tool file %s: id is required", file)
	}
	return &tool, nil
}

func matchAny(patterns []string, file string) (string, bool) {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, file); ok {
			return p, true
		}
	}
	return "", false
}
