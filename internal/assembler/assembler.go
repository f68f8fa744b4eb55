// Package assembler packages resolved readings into the tokens and phoneme
// string of a domain.Result.
package assembler

import (
	"github.com/jag2p/jag2p-go/internal/domain"
	"github.com/jag2p/jag2p-go/internal/phoneme"
	"github.com/jag2p/jag2p-go/internal/resolver"
)

// DefaultUnknown replaces the phonemes of tokens the engine cannot read.
const DefaultUnknown = "❓"

const (
	tagPunct   = "記号"
	tagUnknown = "UNK"
)

type Assembler struct {
	mapper  *phoneme.Mapper
	unknown string
}

// New creates an Assembler. An empty unknown marker selects DefaultUnknown.
func New(mapper *phoneme.Mapper, unknown string) *Assembler {
	if unknown == "" {
		unknown = DefaultUnknown
	}
	return &Assembler{mapper: mapper, unknown: unknown}
}

// Assemble turns readings into a Result. Whitespace readings are folded into
// the preceding token; leading whitespace is dropped.
func (a *Assembler) Assemble(rs []resolver.Reading) domain.Result {
	tokens := make([]domain.Token, 0, len(rs))
	for i, rd := range rs {
		if rd.Space {
			if n := len(tokens); n > 0 {
				tokens[n-1].Whitespace += rd.Morpheme.Surface
			}
			continue
		}
		tokens = append(tokens, domain.Token{
			Text:     rd.Morpheme.Surface,
			Phonemes: a.phonemes(rs, i),
			Tag:      tag(rd),
		})
	}
	return domain.Result{Phonemes: domain.JoinPhonemes(tokens), Tokens: tokens}
}

func (a *Assembler) phonemes(rs []resolver.Reading, i int) string {
	rd := rs[i]
	switch {
	case rd.Unknown:
		return a.unknown
	case rd.Punct:
		return a.mapper.Punct(rd.Kana)
	}
	return a.mapper.Map(rd.Kana, rd.Accent, followingKana(rs, i))
}

// followingKana is the reading sound changes may look at: the immediately
// next reading, unless whitespace, punctuation or an unknown word intervenes.
func followingKana(rs []resolver.Reading, i int) string {
	if i+1 >= len(rs) {
		return ""
	}
	next := rs[i+1]
	if next.Space || next.Punct || next.Unknown {
		return ""
	}
	return next.Kana
}

func tag(rd resolver.Reading) string {
	if t := rd.Morpheme.Tag(); t != "" {
		return t
	}
	switch {
	case rd.Punct:
		return tagPunct
	case rd.Unknown:
		return tagUnknown
	}
	return ""
}
