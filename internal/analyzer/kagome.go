package analyzer

import (
	"context"
	"fmt"

	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome-dict/uni"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/jag2p/jag2p-go/internal/kana"
)

// Kagome analyzes text with the kagome lattice tokenizer.
type Kagome struct {
	name string
	tok  *tokenizer.Tokenizer
}

// NewKagome builds an analyzer over the given system dictionary.
// BOS/EOS markers are omitted from the output.
func NewKagome(name string, d *dict.Dict) (*Kagome, error) {
	t, err := tokenizer.New(d, tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("analyzer: kagome %s: %w", name, err)
	}
	return &Kagome{name: name, tok: t}, nil
}

// NewKagomeIPA loads the IPADIC system dictionary.
func NewKagomeIPA() (*Kagome, error) {
	return NewKagome("ipa", ipa.Dict())
}

// NewKagomeUni loads the UniDic system dictionary.
func NewKagomeUni() (*Kagome, error) {
	return NewKagome("uni", uni.Dict())
}

// Name returns the dictionary name the analyzer was built with.
func (k *Kagome) Name() string {
	return k.name
}

// Analyze implements Analyzer.
func (k *Kagome) Analyze(ctx context.Context, text string) ([]Morpheme, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := k.tok.Tokenize(text)
	out := make([]Morpheme, 0, len(tokens))
	for _, t := range tokens {
		if t.Class == tokenizer.DUMMY {
			continue
		}
		m := Morpheme{
			Surface: t.Surface,
			POS:     cleanPOS(t.POS()),
			Known:   t.Class != tokenizer.UNKNOWN,
		}
		if v, ok := t.BaseForm(); ok && v != "*" {
			m.BaseForm = v
		}
		if v, ok := t.Reading(); ok && v != "*" {
			m.Reading = kana.ToKatakana(v)
		}
		if v, ok := t.Pronunciation(); ok && v != "*" {
			m.Pronunciation = kana.ToKatakana(v)
		}
		out = append(out, m)
	}
	return out, nil
}
