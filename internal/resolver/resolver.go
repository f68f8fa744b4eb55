// Package resolver assigns one katakana reading to every morpheme, using the
// user lexicon, numeral reading, dictionary readings and local context.
package resolver

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jag2p/jag2p-go/internal/analyzer"
	"github.com/jag2p/jag2p-go/internal/kana"
	"github.com/jag2p/jag2p-go/internal/lexicon"
)

// Source records where a reading came from.
type Source string

const (
	SourceLexicon    Source = "lexicon"
	SourceNumber     Source = "number"
	SourceDictionary Source = "dictionary"
	SourceSurface    Source = "surface"
	SourceNone       Source = "none"
)

// Reading is a morpheme together with its resolved pronunciation.
type Reading struct {
	Morpheme analyzer.Morpheme
	Kana     string // katakana; for punctuation, the surface itself
	Accent   int    // accent nucleus mora, lexicon.NoAccent when unknown
	Source   Source
	Unknown  bool
	Punct    bool
	Space    bool
}

// Resolver turns analyzer output into readings.
type Resolver struct {
	lex *lexicon.Lexicon
}

// New creates a Resolver. lex may be nil.
func New(lex *lexicon.Lexicon) *Resolver {
	return &Resolver{lex: lex}
}

// Resolve returns one Reading per morpheme, in order. Numerals the analyzer
// split into several morphemes come back as a single Reading.
func (r *Resolver) Resolve(morphs []analyzer.Morpheme) []Reading {
	morphs = mergeNumerals(morphs)
	out := make([]Reading, len(morphs))
	for i, m := range morphs {
		out[i] = r.resolveOne(m)
	}
	applyContextRules(out)
	return out
}

func (r *Resolver) resolveOne(m analyzer.Morpheme) Reading {
	rd := Reading{Morpheme: m, Accent: lexicon.NoAccent}

	if m.IsSpace() {
		rd.Space = true
		rd.Source = SourceSurface
		return rd
	}
	if e, ok := r.lex.Lookup(m.Surface, m.TopPOS()); ok {
		rd.Kana = e.Reading
		rd.Accent = e.Accent
		rd.Source = SourceLexicon
		return rd
	}
	if n, ok := ReadNumber(m.Surface); ok {
		rd.Kana = n
		rd.Source = SourceNumber
		return rd
	}
	if k := dictionaryReading(m); k != "" {
		rd.Kana = k
		rd.Source = SourceDictionary
		return rd
	}
	if isPunct(m.Surface) {
		rd.Kana = m.Surface
		rd.Punct = true
		rd.Source = SourceSurface
		return rd
	}
	if kana.IsKanaString(m.Surface) {
		rd.Kana = kana.ToKatakana(m.Surface)
		rd.Source = SourceSurface
		return rd
	}

	rd.Unknown = true
	rd.Source = SourceNone
	return rd
}

// dictionaryReading prefers the spoken pronunciation over the orthographic
// reading; values that are not kana (e.g. symbols echoed back) are ignored.
func dictionaryReading(m analyzer.Morpheme) string {
	if kana.IsKanaString(m.Pronunciation) {
		return m.Pronunciation
	}
	if kana.IsKanaString(m.Reading) {
		return m.Reading
	}
	return ""
}

func isPunct(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r == kana.ChoonMark || !(unicode.IsPunct(r) || unicode.IsSymbol(r)) {
			return false
		}
	}
	return true
}

// particleReadings maps a particle's written kana to its spoken form.
var particleReadings = map[string]string{
	"ハ": "ワ",
	"ヘ": "エ",
	"ヲ": "オ",
}

// applyContextRules adjusts readings that depend on their neighbours.
func applyContextRules(rs []Reading) {
	for i := range rs {
		rd := &rs[i]
		if rd.Source == SourceLexicon || rd.Unknown || rd.Punct || rd.Space {
			continue
		}

		if rd.Morpheme.TopPOS() == "助詞" {
			if spoken, ok := particleReadings[kana.ToKatakana(rd.Morpheme.Surface)]; ok && rd.Kana == kana.ToKatakana(rd.Morpheme.Surface) {
				rd.Kana = spoken
			}
		}

		if rd.Morpheme.Surface == "何" {
			rd.Kana = naniReading(rs, i)
		}
	}
}

// nextReading returns the next reading that is not whitespace.
func nextReading(rs []Reading, i int) (Reading, bool) {
	for j := i + 1; j < len(rs); j++ {
		if !rs[j].Space {
			return rs[j], true
		}
	}
	return Reading{}, false
}

// nanRows are the onsets after which 何 contracts to ナン.
const nanRows = "タチツテトダヂヅデドナニヌネノ"

// naniReading picks ナン or ナニ for the 何 at rs[i]. With nothing to look
// at (end of input or punctuation next) the dictionary's choice stands.
func naniReading(rs []Reading, i int) string {
	next, ok := nextReading(rs, i)
	if !ok || next.Punct || next.Unknown || next.Kana == "" {
		if k := rs[i].Kana; k == "ナン" || k == "ナニ" {
			return k
		}
		return "ナニ"
	}
	if takesNan(next) {
		return "ナン"
	}
	return "ナニ"
}

// isCounter matches IPADIC 助数詞 and UniDic 助数詞可能.
func isCounter(m analyzer.Morpheme) bool {
	for _, p := range m.POS {
		if strings.HasPrefix(p, "助数詞") {
			return true
		}
	}
	return false
}

func takesNan(next Reading) bool {
	if isCounter(next.Morpheme) {
		return true
	}
	first, _ := utf8.DecodeRuneInString(next.Kana)
	return strings.ContainsRune(nanRows, first)
}
