package validation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validTool = `
id: jellyfin
name: Jellyfin
description: Free media system
website: https://jellyfin.org
license: GPL-2.0
openSource: true
language: [C#, TypeScript]
githubStats:
  stars: 35000
  forks: 3000
  lastCommit: "2024-03-01T10:00:00Z"
performance:
  ramUsage: 300 MB
meta:
  lastCheck:
    date: "2024-03-01"
    version: 10.9.0
dockerSupport: "Yes"
features:
  hardwareTranscoding:
    status: "Yes"
    note: VAAPI, QSV and NVENC
    verification:
      verifiedAtVersion: 10.8.0
  liveTv: "No"
codecs:
  h265: Partial
`

func TestValidateYAML_ValidToolRecord(t *testing.T) {
	err := ValidateYAML(ToolSchema, []byte(validTool))
	if err != nil {
		t.Fatalf("Expected valid tool to pass validation, got error: %v", err)
	}
}

func TestValidateYAML_FreeTextPerformance(t *testing.T) {
	doc := strings.Replace(validTool, "performance:\n  ramUsage: 300 MB\n", "performance: Lightweight\n", 1)
	if err := ValidateYAML(ToolSchema, []byte(doc)); err != nil {
		t.Fatalf("Expected free text performance to pass, got error: %v", err)
	}
}

func TestValidateYAML_InvalidToolRecord(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		expect string
	}{
		{
			name:   "missing required fields",
			yaml:   "id: jellyfin\n",
			expect: "missing properties",
		},
		{
			name:   "invalid id",
			yaml:   strings.Replace(validTool, "id: jellyfin", "id: Jelly Fin", 1),
			expect: "does not match pattern",
		},
		{
			name:   "openSource not boolean",
			yaml:   strings.Replace(validTool, "openSource: true", "openSource: maybe", 1),
			expect: "expected boolean",
		},
		{
			name:   "negative stars",
			yaml:   strings.Replace(validTool, "stars: 35000", "stars: -1", 1),
			expect: "/githubStats/stars",
		},
		{
			name:   "numeric feature value",
			yaml:   strings.Replace(validTool, "liveTv: \"No\"", "liveTv: 3", 1),
			expect: "/features/liveTv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateYAML(ToolSchema, []byte(tt.yaml))
			if err == nil {
				t.Fatalf("Expected validation to fail for %s", tt.name)
			}
			if !strings.Contains(err.Error(), tt.expect) {
				t.Fatalf("Expected error to contain '%s', got: %v", tt.expect, err)
			}
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %T", err)
			}
			if verr.Schema != ToolSchema {
				t.Fatalf("Expected schema %s on error, got %q", ToolSchema, verr.Schema)
			}
		})
	}
}

func TestValidateJSON_Categories(t *testing.T) {
	valid := map[string]interface{}{
		"categories": []interface{}{
			map[string]interface{}{
				"id":    "media-servers",
				"title": "Media Servers",
				"sections": []interface{}{
					map[string]interface{}{
						"id":    "codecs",
						"label": "Codec Support",
						"items": []interface{}{
							map[string]interface{}{"key": "codecs.h264", "label": "H.264"},
						},
					},
				},
			},
		},
	}
	if err := ValidateJSON(CategoriesSchema, valid); err != nil {
		t.Fatalf("Expected valid categories to pass validation, got error: %v", err)
	}

	reserved := `categories:
  - id: media-servers
    title: Media Servers
    sections:
      - id: project-stats
        label: Stats
        items: []
`
	if err := ValidateYAML(CategoriesSchema, []byte(reserved)); err == nil {
		t.Fatal("Expected reserved section id to fail validation")
	}

	badKey := `categories:
  - id: media-servers
    title: Media Servers
    sections:
      - id: codecs
        label: Codecs
        items:
          - { key: "codecs..h264", label: H.264 }
`
	err := ValidateYAML(CategoriesSchema, []byte(badKey))
	if err == nil || !strings.Contains(err.Error(), "does not match pattern") {
		t.Fatalf("Expected key pattern error, got: %v", err)
	}
}

func TestValidateYAML_DataConfig(t *testing.T) {
	valid := `
exclude:
  - "**/drafts/**"
pins:
  media-servers: [jellyfin, plex]
paid_credit: full
`
	if err := ValidateYAML(DataConfigSchema, []byte(valid)); err != nil {
		t.Fatalf("Expected valid config to pass validation, got error: %v", err)
	}

	tests := []struct {
		name string
		yaml string
	}{
		{"absolute exclude", "exclude: [\"/etc/**\"]\n"},
		{"unknown paid credit", "paid_credit: double\n"},
		{"unknown key", "pretty: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateYAML(DataConfigSchema, []byte(tt.yaml)); err == nil {
				t.Fatalf("Expected validation to fail for %s", tt.name)
			}
		})
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "vaultwarden.json")
	doc := `{"id":"vaultwarden","name":"Vaultwarden","description":"","website":"https://github.com/dani-garcia/vaultwarden","license":"AGPL-3.0","openSource":true,"language":["Rust"],"githubStats":{"stars":40000,"forks":1800,"lastCommit":"2024-03-10"}}`
	if err := os.WriteFile(jsonPath, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateFile(ToolSchema, jsonPath); err != nil {
		t.Fatalf("Expected JSON file to pass validation, got error: %v", err)
	}

	yamlPath := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(yamlPath, []byte("id: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateFile(ToolSchema, yamlPath); err == nil || !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Fatalf("Expected parse error, got: %v", err)
	}

	if err := ValidateFile(ToolSchema, filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestListAvailableSchemas(t *testing.T) {
	schemas, err := ListAvailableSchemas()
	if err != nil {
		t.Fatalf("Failed to list schemas: %v", err)
	}

	for _, expected := range []string{ToolSchema, CategoriesSchema, DataConfigSchema} {
		found := false
		for _, schema := range schemas {
			if schema == expected {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("Expected to find schema '%s' in list: %v", expected, schemas)
		}
	}
}

func TestValidateJSON_SchemaNotFound(t *testing.T) {
	err := ValidateJSON("nonexistent-schema.json", map[string]interface{}{})
	if err == nil {
		t.Fatal("Expected error for nonexistent schema")
	}
	if !strings.Contains(err.Error(), "failed to load schema") {
		t.Fatalf("Expected schema loading error, got: %v", err)
	}
}
