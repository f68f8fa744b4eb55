package resolver

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jag2p/jag2p-go/internal/analyzer"
)

var (
	kagomeOnce sync.Once
	kagomeIPA  *analyzer.Kagome
	kagomeUni  *analyzer.Kagome
	kagomeErr  error
)

// kagomeAnalyzers loads both system dictionaries once per test binary.
func kagomeAnalyzers(t *testing.T) map[string]*analyzer.Kagome {
	t.Helper()
	if testing.Short() {
		t.Skip("loads the kagome dictionaries")
	}
	kagomeOnce.Do(func() {
		if kagomeIPA, kagomeErr = analyzer.NewKagomeIPA(); kagomeErr != nil {
			return
		}
		kagomeUni, kagomeErr = analyzer.NewKagomeUni()
	})
	require.NoError(t, kagomeErr)
	return map[string]*analyzer.Kagome{"ipa": kagomeIPA, "uni": kagomeUni}
}

func resolveText(t *testing.T, a analyzer.Analyzer, text string) []Reading {
	t.Helper()
	morphs, err := a.Analyze(context.Background(), text)
	require.NoError(t, err)
	return New(nil).Resolve(morphs)
}

func findSurface(rs []Reading, surface string) (Reading, bool) {
	for _, r := range rs {
		if r.Morpheme.Surface == surface {
			return r, true
		}
	}
	return Reading{}, false
}

func TestResolve_KagomeNumerals(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text    string
		surface string
		want    string
	}{
		{"1,000円です", "1,000", "セン"},
		{"3.14", "3.14", "サンテンイチヨン"},
		{"１００人", "１００", "ヒャク"},
		{"800円", "800", "ハッピャク"},
	}
	for name, a := range kagomeAnalyzers(t) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.text, func(t *testing.T) {
				rs := resolveText(t, a, tt.text)
				rd, ok := findSurface(rs, tt.surface)
				require.True(t, ok, "no single reading for %q in %v", tt.surface, rs)
				assert.Equal(t, tt.want, rd.Kana)
				assert.Equal(t, SourceNumber, rd.Source)
			})
		}
	}
}

func TestResolve_KagomeUniNaniBeforeCounter(t *testing.T) {
	t.Parallel()
	uni := kagomeAnalyzers(t)["uni"]
	for _, text := range []string{"何時ですか", "何回"} {
		t.Run(text, func(t *testing.T) {
			rd, ok := findSurface(resolveText(t, uni, text), "何")
			require.True(t, ok)
			assert.Equal(t, "ナン", rd.Kana)
		})
	}
}
