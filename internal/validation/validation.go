package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed *.json
var schemaFS embed.FS

// Embedded schema names
const (
	ToolSchema       = "tool-record.json"
	CategoriesSchema = "categories.json"
	DataConfigSchema = "compare-yml.json"
)

// compiled schemas are shared by every loader in the process
var (
	compiledMu sync.Mutex
	compiled   = map[string]*jsonschema.Schema{}
)

// ValidationError lists every schema violation found in one document
type ValidationError struct {
	Schema string
	Errors []string
}

func (e ValidationError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "validation failed"
	case 1:
		return "validation failed: " + e.Errors[0]
	}
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

func schemaFor(name string) (*jsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}

	raw, err := schemaFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema %s: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to load schema %s: %w", name, err)
	}
	s, err := c.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}
	compiled[name] = s
	return s, nil
}

// ValidateJSON checks already decoded YAML/JSON data (maps, slices and
// scalars) against the named embedded schema
func ValidateJSON(schemaName string, data interface{}) error {
	s, err := schemaFor(schemaName)
	if err != nil {
		return err
	}

	err = s.Validate(data)
	if err == nil {
		return nil
	}
	verr := ValidationError{Schema: schemaName}
	if ve, ok := err.(*jsonschema.ValidationError); ok {
		verr.Errors = leafMessages(ve)
	} else {
		verr.Errors = []string{err.Error()}
	}
	return verr
}

// leafMessages flattens the cause tree into "location: message" lines
func leafMessages(e *jsonschema.ValidationError) []string {
	if len(e.Causes) == 0 {
		loc := e.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []string{loc + ": " + e.Message}
	}
	var out []string
	for _, c := range e.Causes {
		out = append(out, leafMessages(c)...)
	}
	return out
}

// ValidateYAML decodes YAML content and validates it
func ValidateYAML(schemaName string, yamlContent []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(yamlContent, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return ValidateJSON(schemaName, doc)
}

// ValidateJSONBytes decodes raw JSON content and validates it
func ValidateJSONBytes(schemaName string, jsonContent []byte) error {
	var doc interface{}
	if err := json.Unmarshal(jsonContent, &doc); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return ValidateJSON(schemaName, doc)
}

// ValidateFile validates a YAML or JSON file on disk, chosen by extension
func ValidateFile(schemaName string, filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	if strings.EqualFold(filepath.Ext(filePath), ".json") {
		return ValidateJSONBytes(schemaName, content)
	}
	return ValidateYAML(schemaName, content)
}

// ListAvailableSchemas returns the embedded schema file names, sorted
func ListAvailableSchemas() ([]string, error) {
	names, err := fs.Glob(schemaFS, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory: %w", err)
	}
	for i, n := range names {
		names[i] = path.Base(n)
	}
	sort.Strings(names)
	return names, nil
}
