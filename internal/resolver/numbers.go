package resolver

import (
	"strings"
	"unicode/utf8"

	"github.com/jag2p/jag2p-go/internal/analyzer"
)

var digitKana = [...]string{"ゼロ", "イチ", "ニ", "サン", "ヨン", "ゴ", "ロク", "ナナ", "ハチ", "キュウ"}

// bigUnits are the myriad units, one per group of four digits.
var bigUnits = [...]string{"", "マン", "オク", "チョウ", "ケイ", "ガイ"}

const maxIntegerDigits = 4 * len(bigUnits)

// normalizeDigits folds full-width digits to ASCII and drops ',' grouping.
// It reports false when s contains anything but digits, grouping and at most
// one decimal point.
func normalizeDigits(s string) (string, bool) {
	var b strings.Builder
	points := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= '０' && r <= '９':
			b.WriteRune('0' + (r - '０'))
		case r == ',' || r == '，':
		case r == '.' || r == '．':
			points++
			b.WriteByte('.')
		default:
			return "", false
		}
	}
	out := b.String()
	if out == "" || points > 1 || out[0] == '.' || out[len(out)-1] == '.' {
		return "", false
	}
	return out, true
}

// ReadNumber returns the katakana reading of a numeral written in ASCII or
// full-width digits.
func ReadNumber(s string) (string, bool) {
	digits, ok := normalizeDigits(s)
	if !ok {
		return "", false
	}

	intPart, fracPart, hasFrac := strings.Cut(digits, ".")
	var b strings.Builder
	if hasFrac && strings.Trim(intPart, "0") == "" {
		b.WriteString("レイ")
	} else {
		b.WriteString(readInteger(intPart))
	}
	if hasFrac {
		b.WriteString("テン")
		b.WriteString(readDigits(fracPart))
	}
	return b.String(), true
}

// readDigits reads each digit on its own.
func readDigits(digits string) string {
	var b strings.Builder
	for _, d := range digits {
		b.WriteString(digitKana[d-'0'])
	}
	return b.String()
}

func readInteger(digits string) string {
	if len(digits) > 1 && digits[0] == '0' {
		return readDigits(digits)
	}
	if len(digits) > maxIntegerDigits {
		return readDigits(digits)
	}
	if strings.Trim(digits, "0") == "" {
		return digitKana[0]
	}

	var b strings.Builder
	groups := (len(digits) + 3) / 4
	for g := groups - 1; g >= 0; g-- {
		end := len(digits) - 4*g
		start := end - 4
		if start < 0 {
			start = 0
		}
		group := readGroup(digits[start:end])
		if group == "" {
			continue
		}
		unit := bigUnits[g]
		if unit == "チョウ" || unit == "ケイ" {
			group = geminateBeforeUnit(group, unit)
		}
		b.WriteString(group)
		b.WriteString(unit)
	}
	return b.String()
}

// readGroup reads up to four digits (thousands, hundreds, tens, ones).
func readGroup(group string) string {
	var d [4]int
	for i, j := len(group)-1, 3; i >= 0; i, j = i-1, j-1 {
		d[j] = int(group[i] - '0')
	}

	var b strings.Builder
	switch d[0] {
	case 0:
	case 1:
		b.WriteString("セン")
	case 3:
		b.WriteString("サンゼン")
	case 8:
		b.WriteString("ハッセン")
	default:
		b.WriteString(digitKana[d[0]] + "セン")
	}
	switch d[1] {
	case 0:
	case 1:
		b.WriteString("ヒャク")
	case 3:
		b.WriteString("サンビャク")
	case 6:
		b.WriteString("ロッピャク")
	case 8:
		b.WriteString("ハッピャク")
	default:
		b.WriteString(digitKana[d[1]] + "ヒャク")
	}
	switch d[2] {
	case 0:
	case 1:
		b.WriteString("ジュウ")
	default:
		b.WriteString(digitKana[d[2]] + "ジュウ")
	}
	if d[3] != 0 {
		b.WriteString(digitKana[d[3]])
	}
	return b.String()
}

// geminateBeforeUnit applies the sokuon sound change before チョウ and ケイ.
func geminateBeforeUnit(group, unit string) string {
	for _, suffix := range []string{"イチ", "ハチ", "ジュウ"} {
		if strings.HasSuffix(group, suffix) {
			return strings.TrimSuffix(group, suffix) + geminated[suffix]
		}
	}
	if unit == "ケイ" {
		for _, suffix := range []string{"ロク", "ヒャク"} {
			if strings.HasSuffix(group, suffix) {
				return strings.TrimSuffix(group, suffix) + geminated[suffix]
			}
		}
	}
	return group
}

var geminated = map[string]string{
	"イチ":  "イッ",
	"ハチ":  "ハッ",
	"ジュウ": "ジュッ",
	"ロク":  "ロッ",
	"ヒャク": "ヒャッ",
}

// isDigits reports whether s is made only of ASCII or full-width digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9') && !(r >= '０' && r <= '９') {
			return false
		}
	}
	return true
}

func isGrouping(s string) bool { return s == "," || s == "，" }

func isDecimalPoint(s string) bool { return s == "." || s == "．" }

// digitRun returns the number of consecutive digit morphemes starting at i
// and the number of digits they hold.
func digitRun(morphs []analyzer.Morpheme, i int) (n, digits int) {
	for j := i; j < len(morphs) && isDigits(morphs[j].Surface); j++ {
		n++
		digits += utf8.RuneCountInString(morphs[j].Surface)
	}
	return n, digits
}

// mergeNumerals joins numerals the analyzer split into pieces. Both kagome
// dictionaries cut at ',' and '.', and UniDic emits one morpheme per digit,
// so "1,000" arrives as 1 / , / 0 / 0 / 0. A ',' is kept only before a run
// of exactly three digits; at most one '.' is kept and no grouping follows it.
func mergeNumerals(morphs []analyzer.Morpheme) []analyzer.Morpheme {
	out := make([]analyzer.Morpheme, 0, len(morphs))
	for i := 0; i < len(morphs); {
		n, _ := digitRun(morphs, i)
		if n == 0 {
			out = append(out, morphs[i])
			i++
			continue
		}

		end := i + n
		sawPoint := false
		for end+1 < len(morphs) {
			sep := morphs[end].Surface
			next, digits := digitRun(morphs, end+1)
			if next == 0 || sawPoint {
				break
			}
			if isDecimalPoint(sep) {
				sawPoint = true
			} else if !isGrouping(sep) || digits != 3 {
				break
			}
			end += 1 + next
		}

		if end-i == 1 {
			out = append(out, morphs[i])
		} else {
			var b strings.Builder
			for _, m := range morphs[i:end] {
				b.WriteString(m.Surface)
			}
			out = append(out, analyzer.Morpheme{Surface: b.String(), POS: morphs[i].POS, Known: true})
		}
		i = end
	}
	return out
}
