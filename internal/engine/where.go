package engine

import (
	"github.com/Knetic/govaluate"

	"github.com/selfhostedhub/compare/internal/metrics"
	"github.com/selfhostedhub/compare/internal/types"
)

// WhereVariables lists the names available to a where expression
var WhereVariables = []string{"id", "name", "license", "openSource", "stars", "forks", "openIssues", "ramBytes", "imageBytes", "languages"}

// whereParameters exposes tool facts to an expression. Sizes that do not
// parse are +Inf, so "ramBytes < 200000000" excludes them.
func whereParameters(tool *types.Tool) map[string]interface{} {
	openIssues := 0
	if tool.GitHubStats != nil {
		openIssues = tool.GitHubStats.OpenIssues
	}
	langs := make([]interface{}, 0, len(tool.Language))
	for _, l := range metrics.NormalizeLanguages(tool.Language) {
		langs = append(langs, l.Name)
	}
	return map[string]interface{}{
		"id":         tool.ID,
		"name":       tool.Name,
		"license":    tool.License,
		"openSource": tool.OpenSource,
		"stars":      float64(tool.Stars()),
		"forks":      float64(tool.Forks()),
		"openIssues": float64(openIssues),
		"ramBytes":   metrics.ParseSize(tool.RAMUsage()),
		"imageBytes": metrics.ParseSize(tool.DockerImageSize()),
		"languages":  langs,
	}
}

// evaluateWhere runs the expression; errors and non-boolean results exclude the tool
func evaluateWhere(expr *govaluate.EvaluableExpression, tool *types.Tool) bool {
	result, err := expr.Evaluate(whereParameters(tool))
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}
