// Package analyzer segments Japanese text into morphemes with part-of-speech
// tags and dictionary readings.
package analyzer

import (
	"context"
	"strings"
)

// Morpheme is one unit produced by morphological analysis.
type Morpheme struct {
	Surface       string
	POS           []string // most general first; "*" entries removed
	BaseForm      string
	Reading       string // katakana, empty when the dictionary has none
	Pronunciation string // katakana as spoken, empty when the dictionary has none
	Known         bool   // false for unknown-word fallbacks
}

// TopPOS returns the most general part of speech, or "" when untagged.
func (m Morpheme) TopPOS() string {
	if len(m.POS) == 0 {
		return ""
	}
	return m.POS[0]
}

// Tag joins the two most general part-of-speech levels with '-'.
func (m Morpheme) Tag() string {
	n := len(m.POS)
	if n > 2 {
		n = 2
	}
	return strings.Join(m.POS[:n], "-")
}

// IsSpace reports whether the morpheme is whitespace only.
func (m Morpheme) IsSpace() bool {
	return m.Surface != "" && strings.TrimSpace(m.Surface) == ""
}

// Analyzer segments text into morphemes.
type Analyzer interface {
	Analyze(ctx context.Context, text string) ([]Morpheme, error)
}

// cleanPOS drops unset ("*" or empty) feature levels.
func cleanPOS(pos []string) []string {
	out := make([]string, 0, len(pos))
	for _, p := range pos {
		if p == "" || p == "*" {
			continue
		}
		out = append(out, p)
	}
	return out
}
