// Package phoneme converts katakana readings into IPA or Hepburn romaji.
package phoneme

import (
	"strings"
	"unicode/utf8"

	"github.com/jag2p/jag2p-go/internal/domain"
	"github.com/jag2p/jag2p-go/internal/kana"
)

// AccentMark follows the accent nucleus mora.
const AccentMark = "ꜜ"

// Options controls the output of a Mapper.
type Options struct {
	Inventory   domain.Inventory
	Devoice     bool
	AccentMarks bool
}

// Mapper is safe for concurrent use; it holds no mutable state.
type Mapper struct {
	opts Options
}

func New(opts Options) *Mapper {
	if opts.Inventory == "" {
		opts.Inventory = domain.InventoryIPA
	}
	return &Mapper{opts: opts}
}

func (m *Mapper) Inventory() domain.Inventory { return m.opts.Inventory }

type unitKind int

const (
	unitMora unitKind = iota
	unitNasal
	unitSokuon
	unitLong
)

type unit struct {
	kind unitKind
	en   entry
}

// parse splits a reading into moraic units. Two-kana combinations win over a
// single kana; anything outside the table is dropped.
func parse(reading string) []unit {
	rs := []rune(kana.ToKatakana(reading))
	out := make([]unit, 0, len(rs))
	for i := 0; i < len(rs); i++ {
		if i+1 < len(rs) {
			if en, ok := moraMap2[string(rs[i:i+2])]; ok {
				out = append(out, unit{kind: unitMora, en: en})
				i++
				continue
			}
		}
		switch rs[i] {
		case kana.Hatsuon:
			out = append(out, unit{kind: unitNasal})
		case kana.Sokuon:
			out = append(out, unit{kind: unitSokuon})
		case kana.ChoonMark:
			out = append(out, unit{kind: unitLong})
		default:
			if en, ok := moraMap1[string(rs[i])]; ok {
				out = append(out, unit{kind: unitMora, en: en})
			}
		}
	}
	return out
}

// Map renders reading. accent is the 1-based accent nucleus mora (0 for a flat
// word, negative when unknown). next is the reading of the following token and
// may be empty at the end of a phrase; it is only used as context.
func (m *Mapper) Map(reading string, accent int, next string) string {
	units := parse(reading)
	var follow *unit
	if nu := parse(next); len(nu) > 0 {
		follow = &nu[0]
	}
	phraseFinal := strings.TrimSpace(next) == ""

	var b strings.Builder
	var lastVowel byte
	for i, u := range units {
		var after *unit
		if i+1 < len(units) {
			after = &units[i+1]
		} else {
			after = follow
		}
		final := i == len(units)-1 && phraseFinal
		nucleus := accent > 0 && i+1 == accent

		switch u.kind {
		case unitMora:
			b.WriteString(m.onset(u.en))
			devoice := m.devoiceable(u.en, after, final) && !nucleus
			b.WriteString(m.vowel(u.en.vowel, devoice))
			lastVowel = u.en.vowel
		case unitNasal:
			b.WriteString(m.nasal(after))
			lastVowel = 0
		case unitSokuon:
			b.WriteString(m.sokuon(after))
			lastVowel = 0
		case unitLong:
			if lastVowel != 0 {
				if m.opts.Inventory == domain.InventoryRomaji {
					b.WriteByte(lastVowel)
				} else {
					b.WriteString("ː")
				}
			}
		}

		if nucleus && m.opts.AccentMarks {
			b.WriteString(AccentMark)
		}
	}
	return b.String()
}

func (m *Mapper) onset(en entry) string {
	if m.opts.Inventory == domain.InventoryRomaji {
		return en.romaji
	}
	return en.ipa
}

func (m *Mapper) vowel(v byte, devoiced bool) string {
	if m.opts.Inventory == domain.InventoryRomaji {
		return string(v)
	}
	if devoiced {
		if d, ok := ipaDevoiced[v]; ok {
			return d
		}
	}
	return ipaVowels[v]
}

// devoiceable reports whether a high vowel sits between voiceless consonants,
// or after one at the end of a phrase.
func (m *Mapper) devoiceable(en entry, after *unit, final bool) bool {
	if !m.opts.Devoice || m.opts.Inventory != domain.InventoryIPA {
		return false
	}
	if (en.vowel != 'i' && en.vowel != 'u') || !voiceless[en.ipa] {
		return false
	}
	if after == nil {
		return final
	}
	switch after.kind {
	case unitMora:
		return voiceless[after.en.ipa]
	case unitSokuon:
		return true
	}
	return false
}

func (m *Mapper) nasal(after *unit) string {
	if m.opts.Inventory == domain.InventoryRomaji {
		return "n"
	}
	if after == nil || after.kind != unitMora || after.en.ipa == "" {
		return "ɴ"
	}
	first, _ := utf8.DecodeRuneInString(after.en.ipa)
	switch {
	case strings.ContainsRune("pbm", first):
		return "m"
	case strings.ContainsRune("kg", first):
		return "ŋ"
	case strings.ContainsRune("ɲʨʥ", first):
		return "ɲ"
	case strings.ContainsRune("tdnɾʦz", first):
		return "n"
	}
	return "ɴ"
}

func (m *Mapper) sokuon(after *unit) string {
	if after == nil || after.kind != unitMora || after.en.ipa == "" {
		if m.opts.Inventory == domain.InventoryRomaji {
			return ""
		}
		return "ʔ"
	}
	if m.opts.Inventory == domain.InventoryRomaji {
		if after.en.romaji == "ch" {
			return "t"
		}
		return after.en.romaji[:1]
	}
	switch after.en.ipa {
	case "ʨ", "ʦ":
		return "t"
	case "ʥ":
		return "d"
	}
	first, _ := utf8.DecodeRuneInString(after.en.ipa)
	return string(first)
}

// Punct maps punctuation to its ASCII form. Runes without a mapping are
// dropped.
func (m *Mapper) Punct(s string) string {
	var b strings.Builder
	for _, r := range s {
		if p, ok := punctTable[r]; ok {
			b.WriteString(p)
		}
	}
	return b.String()
}
