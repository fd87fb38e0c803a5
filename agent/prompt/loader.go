package prompt

import (
	_ "embed"
	"strings"
)

//go:embed template/support.txt
var supportRaw string

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Support string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings. Safe to
// call concurrently; the embed is compile-time and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Support: strings.TrimSpace(supportRaw),
	}
}
