package metrics

import (
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language is an implementation language resolved against linguist data
type Language struct {
	Name  string `json:"name" yaml:"name"`
	Known bool   `json:"known" yaml:"known"`
	Type  string `json:"type" yaml:"type"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// NormalizeLanguage maps free-text names ("golang", "c#", "TS") onto the
// canonical linguist name. Unknown names are returned trimmed and unchanged.
func NormalizeLanguage(name string) Language {
	trimmed := strings.TrimSpace(name)
	if canonical, ok := enry.GetLanguageByAlias(trimmed); ok {
		return Language{
			Name:  canonical,
			Known: true,
			Type:  languageTypeToString(enry.GetLanguageType(canonical)),
			Color: enry.GetColor(canonical),
		}
	}
	return Language{Name: trimmed, Type: "unknown"}
}

// NormalizeLanguages normalises a list, dropping duplicates after normalisation
func NormalizeLanguages(names []string) []Language {
	seen := make(map[string]bool, len(names))
	out := make([]Language, 0, len(names))
	for _, n := range names {
		lang := NormalizeLanguage(n)
		if lang.Name == "" || seen[lang.Name] {
			continue
		}
		seen[lang.Name] = true
		out = append(out, lang)
	}
	return out
}

// languageTypeToString converts enry.Type to string (programming, data, markup, prose)
func languageTypeToString(t enry.Type) string {
	switch t {
	case enry.Programming:
		return "programming"
	case enry.Data:
		return "data"
	case enry.Markup:
		return "markup"
	case enry.Prose:
		return "prose"
	default:
		return "unknown"
	}
}
