package catalog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selfhostedhub/compare/internal/progress"
	"github.com/selfhostedhub/compare/internal/types"
	"github.com/selfhostedhub/compare/internal/validation"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

const dnsCategories = `categories:
  - id: dns
    title: DNS Filtering
    sections:
      - id: blocking
        label: Blocking
        items:
          - { key: features.regex, label: Regex Rules }
          - { key: features.dnssec, label: DNSSEC }
`

const adguard = `id: adguard-home
name: AdGuard Home
description: Network-wide ads and trackers blocking DNS server
website: https://adguard.com/adguard-home/overview.html
license: GPL-3.0
openSource: true
language: [Go]
githubStats: { stars: 23000, forks: 1700, lastCommit: "2024-03-10T00:00:00Z" }
features:
  regex: "Yes"
  dnssec: Partial
`

const pihole = `{
  "id": "pi-hole",
  "name": "Pi-hole",
  "description": "A black hole for internet advertisements",
  "website": "https://pi-hole.net",
  "license": "EUPL-1.2",
  "openSource": true,
  "language": ["Shell", "PHP"],
  "features": {"regex": "Yes", "dnssec": {"status": "Yes", "note": "Through FTL"}}
}`

func TestLoad_Embedded(t *testing.T) {
	cat, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, EmbeddedSource, cat.Source)
	for _, id := range cat.Categories.IDs() {
		tools, err := cat.Tools(id)
		require.NoError(t, err)
		assert.NotEmpty(t, tools, id)
	}

	jellyfin, ok := cat.Tool("media-servers", "jellyfin")
	require.True(t, ok)
	fs, ok := jellyfin.Feature("codecs.h265")
	require.True(t, ok)
	assert.NotEqual(t, types.StatusUnknown, fs.Unwrap())

	_, err = cat.Tools("spreadsheets")
	assert.ErrorContains(t, err, "media-servers")
}

func TestLoad_DataDirOrdersByPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "categories.yaml", dnsCategories)
	writeFile(t, dir, "dns/b-pihole.json", pihole)
	writeFile(t, dir, "dns/a-adguard.yaml", adguard)

	cat, err := NewLoader(WithDataDir(dir)).Load()
	require.NoError(t, err)

	tools, err := cat.Tools("dns")
	require.NoError(t, err)
	require.Len(t, tools, 2)
	assert.Equal(t, "adguard-home", tools[0].ID)
	assert.Equal(t, "pi-hole", tools[1].ID)

	fs, ok := tools[1].Feature("features.dnssec")
	require.True(t, ok)
	assert.Equal(t, types.StatusYes, fs.Unwrap())
	assert.Equal(t, "Through FTL", fs.Note())
}

func TestLoad_DataDirWithoutCategoriesUsesEmbedded(t *testing.T) {
	dir := t.TempDir()
	cat, err := NewLoader(WithDataDir(dir)).Load()
	require.NoError(t, err)

	tools, err := cat.Tools("media-servers")
	require.NoError(t, err)
	assert.Empty(t, tools)
}

func TestLoad_Excludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "categories.yaml", dnsCategories)
	writeFile(t, dir, "dns/adguard.yaml", adguard)
	writeFile(t, dir, "dns/drafts/pihole.json", pihole)
	writeFile(t, dir, ".compare.yml", "exclude:\n  - \"**/drafts/**\"\npins:\n  dns: [pi-hole]\n")

	var buf bytes.Buffer
	cat, err := NewLoader(WithDataDir(dir), WithProgress(progress.New(true, progress.NewSimpleHandler(&buf)))).Load()
	require.NoError(t, err)

	tools, _ := cat.Tools("dns")
	require.Len(t, tools, 1)
	assert.Equal(t, "adguard-home", tools[0].ID)
	assert.Equal(t, []string{"pi-hole"}, cat.Config.PinsFor("dns"))
	assert.Contains(t, buf.String(), "[SKIP] dns/drafts/pihole.json")

	cat, err = NewLoader(WithDataDir(dir), WithExcludes([]string{"dns/*.yaml"})).Load()
	require.NoError(t, err)
	tools, _ = cat.Tools("dns")
	assert.Empty(t, tools)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := NewLoader(WithDataDir(filepath.Join(t.TempDir(), "nope"))).Load()
		assert.ErrorContains(t, err, "data directory")
	})

	t.Run("schema violation", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "categories.yaml", dnsCategories)
		writeFile(t, dir, "dns/broken.yaml", "id: broken\nname: Broken\n")

		_, err := NewLoader(WithDataDir(dir)).Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dns/broken.yaml")
		var verr validation.ValidationError
		assert.True(t, errors.As(err, &verr))
	})

	t.Run("schema violation ignored without validation", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "categories.yaml", dnsCategories)
		writeFile(t, dir, "dns/broken.yaml", "id: broken\nname: Broken\n")

		cat, err := NewLoader(WithDataDir(dir), WithValidation(false)).Load()
		require.NoError(t, err)
		_, ok := cat.Tool("dns", "broken")
		assert.True(t, ok)
	})

	t.Run("duplicate id", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "categories.yaml", dnsCategories)
		writeFile(t, dir, "dns/one.yaml", adguard)
		writeFile(t, dir, "dns/two.yaml", adguard)

		_, err := NewLoader(WithDataDir(dir)).Load()
		assert.ErrorContains(t, err, "duplicate tool id")
	})

	t.Run("invalid exclude pattern", func(t *testing.T) {
		_, err := NewLoader(WithExcludes([]string{"[unclosed"})).Load()
		assert.ErrorContains(t, err, "invalid exclude pattern")
	})

	t.Run("invalid data config", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, ".compare.yml", "paid_credit: double\n")
		_, err := NewLoader(WithDataDir(dir)).Load()
		assert.ErrorContains(t, err, ".compare.yml")
	})
}
