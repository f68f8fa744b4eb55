// Package lexicon loads user pronunciation overrides.
package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jag2p/jag2p-go/internal/kana"
)

// NoAccent marks an entry without a pitch-accent nucleus.
const NoAccent = -1

// Entry is a single pronunciation override.
type Entry struct {
	Surface string
	Reading string // katakana
	POS     string // top-level part of speech; empty matches any
	Accent  int    // 1-based mora of the accent nucleus, 0 = flat, NoAccent = unknown
}

// Lexicon maps surfaces to their override entries.
type Lexicon struct {
	entries map[string][]Entry
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{entries: make(map[string][]Entry)}
}

// Add registers an entry. POS-specific entries take precedence over
// POS-agnostic ones regardless of insertion order.
func (l *Lexicon) Add(e Entry) {
	e.Reading = kana.ToKatakana(e.Reading)
	l.entries[e.Surface] = append(l.entries[e.Surface], e)
}

// Lookup returns the best entry for surface under the given top-level POS.
func (l *Lexicon) Lookup(surface, pos string) (Entry, bool) {
	if l == nil {
		return Entry{}, false
	}
	var fallback *Entry
	for i, e := range l.entries[surface] {
		if e.POS == "" {
			if fallback == nil {
				fallback = &l.entries[surface][i]
			}
			continue
		}
		if e.POS == pos {
			return e, true
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return Entry{}, false
}

// Len returns the number of distinct surfaces.
func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Load reads a lexicon from a tab-separated stream.
// Format: surface<TAB>reading[<TAB>pos[<TAB>accent]]; '#' starts a comment line.
func Load(r io.Reader) (*Lexicon, error) {
	l := New()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 2 || len(parts) > 4 {
			return nil, fmt.Errorf("line %d: expected 2 to 4 tab-separated fields, got %d", lineNum, len(parts))
		}

		e := Entry{Surface: parts[0], Reading: parts[1], Accent: NoAccent}
		if e.Surface == "" || !kana.IsKanaString(e.Reading) {
			return nil, fmt.Errorf("line %d: surface must be non-empty and reading must be kana", lineNum)
		}
		if len(parts) >= 3 && parts[2] != "*" {
			e.POS = parts[2]
		}
		if len(parts) == 4 {
			accent, err := strconv.Atoi(parts[3])
			if err != nil || accent < 0 {
				return nil, fmt.Errorf("line %d: invalid accent %q", lineNum, parts[3])
			}
			e.Accent = accent
		}
		l.Add(e)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return l, nil
}

// LoadFile is a convenience wrapper that opens a file path.
func LoadFile(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
