package compare

import (
	"fmt"
	"io"
	"strings"

	"github.com/jag2p/jag2p-go/internal/domain"
)

const ruleWidth = 50

// Printer writes the human-readable comparison report. The first write
// error is kept and every later write is skipped.
type Printer struct {
	w   io.Writer
	err error
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Err returns the first write error, if any.
func (p *Printer) Err() error { return p.err }

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) Initializing() {
	p.printf("Initializing phonemizers...\n")
}

func (p *Printer) InputNotFound() {
	p.printf("Error: %s not found!\n", InputFile)
}

// InitFailed reports an engine that could not be constructed.
func (p *Printer) InitFailed(err error) {
	p.printf("Error: failed to initialize phonemizers: %v\n", err)
}

func (p *Printer) Header(lines int) {
	p.printf("Testing %d lines of Japanese text...\n\n", lines)
}

// Outcome prints the block for one line, followed by a blank line.
func (p *Printer) Outcome(o domain.Outcome) {
	p.printf("Line %d: %s\n", o.Line, o.Text)

	if o.Status == domain.StatusError {
		p.printf("  ⚠️  Error processing line: %s\n", o.ErrorMessage())
		p.printf("\n")
		return
	}

	b, c := o.Baseline.Result, o.Candidate.Result
	if o.PhonemesMatch {
		p.printf("  ✅ Identical phonemization: %s\n", b.Phonemes)
	} else {
		p.printf("  ❌ DIFFERENCE FOUND!\n")
		p.printf("  Original: %s\n", b.Phonemes)
		p.printf("  New:      %s\n", c.Phonemes)
	}

	if o.TokenCountCompared {
		if o.TokenCountMatch {
			p.printf("  ✅ Same token count: %d\n", len(b.Tokens))
		} else {
			p.printf("  ❌ Token count differs: %d vs %d\n", len(b.Tokens), len(c.Tokens))
			p.tokens("Original", b.Tokens)
			p.tokens("New", c.Tokens)
		}
	}
	p.printf("\n")
}

func (p *Printer) tokens(label string, tokens []domain.Token) {
	p.printf("    %s tokens (%d):\n", label, len(tokens))
	for j, t := range tokens {
		p.printf("      %d: '%s' -> '%s' (tag: %s)\n", j+1, t.Text, t.Phonemes, t.Tag)
	}
}

// Summary prints the closing rule and verdict.
func (p *Printer) Summary(s domain.Summary) {
	p.printf("%s\n", strings.Repeat("=", ruleWidth))
	if s.AllMatch {
		p.printf("✅ NO DIFFERENCES - Both engines produce identical results\n")
		return
	}
	p.printf("❌ DIFFERENCES FOUND between baseline and candidate engines\n")
}
