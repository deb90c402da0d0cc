package oracle

import (
	"context"
	"strings"
	"unicode/utf8"
)

// AllowAll accepts every connection. Useful for free-play puzzles and tests.
type AllowAll struct{}

func NewAllowAll() *AllowAll { return &AllowAll{} }

func (*AllowAll) Name() string { return "allow_all" }

func (*AllowAll) Related(ctx context.Context, parentWord, word, theme string) (bool, error) {
	return true, nil
}

// Heuristic applies cheap lexical rules: very short words and naive plurals
// of the parent are rejected, everything else passes. It is the default gate
// until a dictionary- or embedding-backed oracle is plugged in.
type Heuristic struct{}

func NewHeuristic() *Heuristic { return &Heuristic{} }

func (*Heuristic) Name() string { return "heuristic" }

func (*Heuristic) Related(ctx context.Context, parentWord, word, theme string) (bool, error) {
	w := strings.ToLower(strings.TrimSpace(word))
	if utf8.RuneCountInString(w) <= 2 {
		return false, nil
	}
	if w == strings.ToLower(strings.TrimSpace(parentWord))+"s" {
		return false, nil
	}
	return true, nil
}
