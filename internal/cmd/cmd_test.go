package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/selfhostedhub/compare/internal/catalog"
	"github.com/selfhostedhub/compare/internal/config"
	"github.com/selfhostedhub/compare/internal/engine"
	"github.com/selfhostedhub/compare/internal/validation"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// useDataDir points the shared settings at dir for one test
func useDataDir(t *testing.T, dir string) {
	t.Helper()
	prevDir, prevCredit := settings.DataDir, settings.PaidCredit
	settings.DataDir, settings.PaidCredit = dir, "half"
	t.Cleanup(func() { settings.DataDir, settings.PaidCredit = prevDir, prevCredit })
}

func embedded(t *testing.T) *catalog.Catalog {
	t.Helper()
	useDataDir(t, "")
	cat, err := loadCatalog(loadFlags{}, discard, os.Stderr)
	require.NoError(t, err)
	return cat
}

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	return full
}

func TestBuildTable(t *testing.T) {
	cat := embedded(t)

	t.Run("view flags", func(t *testing.T) {
		_, table, err := buildTable(cat, "media-servers", viewFlags{
			pins:    []string{"plex"},
			filters: []string{"features.liveTv"},
			expand:  []string{"codecs"},
			search:  "dvr",
		}, discard)
		require.NoError(t, err)

		assert.Equal(t, []string{"plex"}, table.Pinned())
		assert.Equal(t, []string{"features.liveTv"}, table.Filters())
		assert.True(t, table.IsManuallyExpanded("codecs"))
		assert.True(t, table.IsSectionExpanded("features"), "search opens the section")
		assert.Equal(t, "plex", table.View().Tools[0].ID)
	})

	t.Run("expand all", func(t *testing.T) {
		def, table, err := buildTable(cat, "media-servers", viewFlags{expand: []string{"all"}}, discard)
		require.NoError(t, err)
		assert.True(t, table.IsManuallyExpanded(engine.StatsSectionID))
		for _, s := range def.Sections {
			assert.True(t, table.IsManuallyExpanded(s.ID), s.ID)
		}
	})

	t.Run("paid credit precedence", func(t *testing.T) {
		_, table, err := buildTable(cat, "media-servers", viewFlags{}, discard)
		require.NoError(t, err)
		assert.Equal(t, "half", table.PaidCredit().String())

		_, table, err = buildTable(cat, "media-servers", viewFlags{paidCredit: "full"}, discard)
		require.NoError(t, err)
		assert.Equal(t, "full", table.PaidCredit().String())
	})

	t.Run("preset", func(t *testing.T) {
		_, table, err := buildTable(cat, "media-servers", viewFlags{
			pins:   []string{"emby"},
			preset: `{"pins": ["jellyfin"], "where": "openSource", "paid_credit": "full"}`,
		}, discard)
		require.NoError(t, err)
		assert.Equal(t, []string{"emby", "jellyfin"}, table.Pinned())
		assert.Equal(t, "openSource", table.Where())
		assert.Equal(t, "full", table.PaidCredit().String())
		assert.Equal(t, []string{"jellyfin"}, table.View().IDs())
	})

	errCases := []struct {
		name     string
		category string
		flags    viewFlags
		contains string
	}{
		{"unknown category", "spreadsheets", viewFlags{}, "unknown category"},
		{"unknown pin", "media-servers", viewFlags{pins: []string{"kodi"}}, `unknown tool "kodi"`},
		{"unknown filter", "media-servers", viewFlags{filters: []string{"features.teleport"}}, "unknown feature key"},
		{"unknown section", "media-servers", viewFlags{expand: []string{"extras"}}, "unknown section"},
		{"bad where", "media-servers", viewFlags{where: "stars >"}, "invalid --where"},
		{"bad paid credit", "media-servers", viewFlags{paidCredit: "double"}, "invalid paid credit"},
		{"bad preset", "media-servers", viewFlags{preset: "{nope"}, "preset"},
	}
	for _, tt := range errCases {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := buildTable(cat, tt.category, tt.flags, discard)
			assert.ErrorContains(t, err, tt.contains)
		})
	}
}

func TestBuildTable_DataConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".compare.yml", "pins:\n  media-servers: [jellyfin]\npaid_credit: full\n")
	useDataDir(t, dir)

	cat, err := loadCatalog(loadFlags{}, discard, os.Stderr)
	require.NoError(t, err)
	tools, err := cat.Tools("media-servers")
	require.NoError(t, err)
	assert.Empty(t, tools, "no records in the directory")

	_, _, err = buildTable(cat, "media-servers", viewFlags{}, discard)
	assert.ErrorContains(t, err, `unknown tool "jellyfin"`, "default pins are checked like flags")

	writeFile(t, dir, "media-servers/jellyfin.yaml", `id: jellyfin
name: Jellyfin
description: The Free Software Media System
website: https://jellyfin.org
license: GPL-3.0
openSource: true
language: [C#]
features:
  liveTv: "Yes"
`)
	cat, err = loadCatalog(loadFlags{}, discard, os.Stderr)
	require.NoError(t, err)
	_, table, err := buildTable(cat, "media-servers", viewFlags{}, discard)
	require.NoError(t, err)
	assert.Equal(t, []string{"jellyfin"}, table.Pinned())
	assert.Equal(t, "full", table.PaidCredit().String())
}

func TestRenderTable(t *testing.T) {
	useDataDir(t, "")
	result, err := renderTable("password-managers", loadFlags{}, viewFlags{
		filters: []string{"features.emergencyAccess"},
	}, discard)
	require.NoError(t, err)

	assert.Equal(t, catalog.EmbeddedSource, result.meta.DataSource)
	assert.Equal(t, 4, result.meta.ToolCount)
	assert.Equal(t, len(result.report.Tools), result.meta.VisibleCount)
	assert.Len(t, result.grid.Columns, result.meta.VisibleCount)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteOutput(&buf, result, "json"))

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Contains(t, decoded, "metadata")
		assert.Equal(t, "password-managers", decoded["category"])
		assert.Equal(t, []interface{}{"features.emergencyAccess"}, decoded["filters"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteOutput(&buf, result, "YAML"))

		var decoded map[string]interface{}
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Contains(t, decoded, "metadata")
		assert.Contains(t, decoded, "tools", "report fields are inlined")
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteOutput(&buf, result, "text"))
		assert.Contains(t, buf.String(), "Password Managers")
		assert.NotContains(t, buf.String(), "\x1b[")
	})
}

func TestOutputToFile(t *testing.T) {
	useDataDir(t, "")
	result, err := renderTable("media-servers", loadFlags{}, viewFlags{}, discard)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "table.json")
	require.NoError(t, OutputToFile(result, "json", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestColorFor(t *testing.T) {
	assert.True(t, colorFor("always", "out.txt"))
	assert.False(t, colorFor("auto", "out.txt"))
	assert.False(t, colorFor("never", ""))
}

func TestInfoResults(t *testing.T) {
	cat := embedded(t)

	t.Run("categories", func(t *testing.T) {
		r := buildCategoriesResult(cat)
		assert.Equal(t, len(cat.Categories.Categories), r.Count)
		assert.Equal(t, "media-servers", r.Categories[0].ID)
		assert.Equal(t, 3, r.Categories[0].Tools)

		var buf bytes.Buffer
		require.NoError(t, r.ToText(&buf))
		assert.Contains(t, buf.String(), "media-servers")
	})

	t.Run("sections", func(t *testing.T) {
		r, err := buildSectionsResult(cat, "media-servers")
		require.NoError(t, err)
		assert.Equal(t, engine.StatsSectionID, r.StatsID)
		assert.Greater(t, r.FeatureCount, len(r.Sections))

		var buf bytes.Buffer
		require.NoError(t, r.ToText(&buf))
		assert.Contains(t, buf.String(), "codecs.h265")

		_, err = buildSectionsResult(cat, "nope")
		assert.Error(t, err)
	})

	t.Run("tools", func(t *testing.T) {
		r, err := buildToolsResult(cat, "media-servers", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Equal(t, 3, r.Count)

		byID := map[string]ToolInfo{}
		for _, ti := range r.Tools {
			byID[ti.ID] = ti
		}
		assert.Equal(t, "Closed Source", byID["plex"].Popularity)
		assert.Equal(t, "proprietary", byID["plex"].LicenseClass)
		assert.Equal(t, "copyleft", byID["jellyfin"].LicenseClass)
		assert.Positive(t, byID["jellyfin"].Features)
	})

	t.Run("languages", func(t *testing.T) {
		r, err := buildLanguagesResult(cat, "media-servers")
		require.NoError(t, err)
		require.NotEmpty(t, r.Languages)

		var names []string
		for _, l := range r.Languages {
			names = append(names, l.Name)
		}
		assert.Contains(t, names, "C#")
		assert.True(t, sortedStrings(names))
		assert.Equal(t, r.Summary.Total, len(r.Languages))
	})

	t.Run("all languages", func(t *testing.T) {
		r := buildAllLanguagesResult()
		assert.Greater(t, r.Summary.Total, 100)
		assert.Empty(t, r.Category)
	})
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

func TestValidateFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", `id: syncthing
name: Syncthing
description: Continuous file synchronization
website: https://syncthing.net
license: MPL-2.0
openSource: true
language: [Go]
`)
	bad := writeFile(t, dir, "bad.yaml", "id: broken\n")
	cfg := writeFile(t, dir, config.DataConfigFile, "exclude: [\"**/drafts/**\"]\n")

	var buf bytes.Buffer
	assert.Equal(t, 1, validateFiles(&buf, []string{good, bad, cfg}, ""))
	out := buf.String()
	assert.Contains(t, out, "ok   "+good)
	assert.Contains(t, out, "FAIL "+bad)
	assert.Contains(t, out, "("+validation.DataConfigSchema+")")
}

func TestResolveSchema(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"tool-record", validation.ToolSchema, false},
		{"categories.json", validation.CategoriesSchema, false},
		{"compare-yml", validation.DataConfigSchema, false},
		{"rules", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := resolveSchema(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchemaFor(t *testing.T) {
	assert.Equal(t, validation.CategoriesSchema, schemaFor("/data/categories.yaml"))
	assert.Equal(t, validation.DataConfigSchema, schemaFor(".compare.yml"))
	assert.Equal(t, validation.ToolSchema, schemaFor("media-servers/plex.json"))
}
