// Package kana classifies Japanese characters and converts between the two
// kana scripts.
package kana

import "strings"

const (
	hiraganaFirst = 0x3041 // ぁ
	hiraganaLast  = 0x3096 // ゖ
	katakanaFirst = 0x30A1 // ァ
	katakanaLast  = 0x30F6 // ヶ
	kanaOffset    = katakanaFirst - hiraganaFirst

	// ChoonMark is the katakana prolonged sound mark.
	ChoonMark = 'ー'
	// Sokuon is the small tsu marking gemination.
	Sokuon = 'ッ'
	// Hatsuon is the moraic nasal.
	Hatsuon = 'ン'
)

// IsHiragana reports whether r is a hiragana letter.
func IsHiragana(r rune) bool {
	return r >= hiraganaFirst && r <= hiraganaLast
}

// IsKatakana reports whether r is a katakana letter or the prolonged sound mark.
func IsKatakana(r rune) bool {
	return (r >= katakanaFirst && r <= 0x30FA) || r == ChoonMark
}

// IsKana reports whether r is hiragana or katakana.
func IsKana(r rune) bool {
	return IsHiragana(r) || IsKatakana(r)
}

// IsKanji reports whether r is a CJK ideograph (including the iteration mark 々).
func IsKanji(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0x3400 && r <= 0x4DBF) || r == '々'
}

// IsKanaString reports whether s is non-empty and consists only of kana.
func IsKanaString(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsKana(r) {
			return false
		}
	}
	return true
}

// ToKatakana folds hiragana letters in s to katakana; other runes pass through.
func ToKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if IsHiragana(r) {
			return r + kanaOffset
		}
		return r
	}, s)
}

// ToHiragana folds katakana letters in s to hiragana; other runes pass through.
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= katakanaFirst && r <= katakanaLast {
			return r - kanaOffset
		}
		return r
	}, s)
}

// isSmall reports whether r is a small kana that combines with the preceding mora.
func isSmall(r rune) bool {
	switch r {
	case 'ァ', 'ィ', 'ゥ', 'ェ', 'ォ', 'ャ', 'ュ', 'ョ', 'ヮ':
		return true
	}
	return false
}

// Morae splits a katakana string into morae. Small vowels and small ya/yu/yo
// attach to the preceding letter; ッ, ン and ー are morae of their own.
func Morae(s string) []string {
	runes := []rune(ToKatakana(s))
	out := make([]string, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		if i+1 < len(runes) && isSmall(runes[i+1]) && !isSmall(runes[i]) {
			out = append(out, string(runes[i:i+2]))
			i++
			continue
		}
		out = append(out, string(runes[i]))
	}
	return out
}
