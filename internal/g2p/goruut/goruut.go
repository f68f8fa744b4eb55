// Package goruut adapts github.com/neurlang/goruut to the engine's result
// shape: one token per returned word.
package goruut

import (
	"context"
	"fmt"
	"strings"

	"github.com/neurlang/goruut/lib"
	"github.com/neurlang/goruut/models/requests"

	"github.com/jag2p/jag2p-go/internal/domain"
)

const (
	// Language is the goruut language name for Japanese.
	Language = "Japanese"
	// Tag is attached to every token goruut produces; it has no POS tagger.
	Tag = "goruut"
)

// Word is one phonemized word as returned by goruut.
type Word struct {
	Text     string
	Phonetic string
}

// SentenceFunc phonemizes one sentence.
type SentenceFunc func(text string) []Word

type Backend struct {
	sentence SentenceFunc
}

// New loads the embedded goruut models.
func New() *Backend {
	p := lib.NewPhonemizer(nil)
	return NewFromFunc(func(text string) []Word {
		resp := p.Sentence(requests.PhonemizeSentence{
			Language: Language,
			Sentence: text,
		})
		words := make([]Word, 0, len(resp.Words))
		for _, w := range resp.Words {
			words = append(words, Word{Text: w.CleanWord, Phonetic: w.Phonetic})
		}
		return words
	})
}

// NewFromFunc wraps an arbitrary sentence function, mainly for tests.
func NewFromFunc(fn SentenceFunc) *Backend {
	return &Backend{sentence: fn}
}

// Phonemize runs goruut over text. Words are separated by a single space in
// the phoneme string.
func (b *Backend) Phonemize(ctx context.Context, text string) (res domain.Result, err error) {
	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}
	if strings.TrimSpace(text) == "" {
		return domain.Result{Tokens: []domain.Token{}}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			res, err = domain.Result{}, fmt.Errorf("goruut: %v", r)
		}
	}()

	words := b.sentence(text)
	tokens := make([]domain.Token, 0, len(words))
	for i, w := range words {
		tok := domain.Token{Text: w.Text, Phonemes: w.Phonetic, Tag: Tag}
		if i < len(words)-1 {
			tok.Whitespace = " "
		}
		tokens = append(tokens, tok)
	}
	return domain.Result{Phonemes: domain.JoinPhonemes(tokens), Tokens: tokens}, nil
}
