package tool

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/robocare/support-agent/agent/contract"
)

const defaultFAQLimit = 3

func (g *Gateway) executeFAQSearch(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	query, err := stringArg(args, "query")
	if err != nil {
		return argError(ToolFAQSearch, err), nil
	}
	limit, err := optionalIntArg(args, "limit", defaultFAQLimit)
	if err != nil {
		return argError(ToolFAQSearch, err), nil
	}
	if limit <= 0 {
		limit = defaultFAQLimit
	}

	results, err := g.faq.Search(ctx, query, int(limit))
	if err != nil {
		return contractx.ToolResult{}, err
	}

	if len(results) == 0 {
		return contractx.ToolResult{
			Tool:   ToolFAQSearch,
			Result: "No matching FAQ entries were found.",
		}, nil
	}

	var b strings.Builder
	for i, result := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "--- Result %d (score: %.2f) ---\n", i+1, result.Score)
		fmt.Fprintf(&b, "Problem: %s\n", result.Description)
		fmt.Fprintf(&b, "Solution:\n%s", result.Dialogue)
	}

	return contractx.ToolResult{
		Tool:   ToolFAQSearch,
		Result: b.String(),
	}, nil
}
