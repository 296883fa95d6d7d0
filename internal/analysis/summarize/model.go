package summarize

import (
	"context"
	"strings"
	"unicode"

	"github.com/turtacn/DocLens-Intelligence/internal/analysis/segment"
)

// Model is the single-pass summarization primitive.  It is modelled as a
// fallible external call so that alternative backends can be injected; the
// Summarizer absorbs every Model failure into an extractive fallback.
type Model interface {
	Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error)
}

// transitions are interleaved cyclically between non-boundary sentences of
// a single-pass summary.
var transitions = []string{
	"Additionally, ",
	"Furthermore, ",
	"Moreover, ",
	"In addition, ",
	"Also, ",
}

// extractiveModel is the deterministic default Model: it selects a spread
// of sentences across the text, joins them with transition phrases, tops up
// to the minimum length from unused sentences, and truncates to the
// maximum length.
type extractiveModel struct{}

// NewExtractiveModel returns the deterministic extractive Model used when
// no alternative backend is injected.
func NewExtractiveModel() Model { return extractiveModel{} }

func (extractiveModel) Summarize(_ context.Context, text string, maxLength, minLength int) (string, error) {
	sentences := segment.Sentences(text)
	n := len(sentences)

	var selected []string
	switch {
	case n > 10:
		// Beginning, quarter, middle, three-quarter and end for coverage.
		selected = []string{
			sentences[0],
			sentences[1],
			sentences[n/4],
			sentences[n/2],
			sentences[(3*n)/4],
			sentences[n-2],
			sentences[n-1],
		}
	case n > 5:
		selected = []string{
			sentences[0],
			sentences[1],
			sentences[n/2],
			sentences[n-2],
			sentences[n-1],
		}
	default:
		selected = sentences
	}

	var filtered []string
	for _, s := range selected {
		if strings.TrimSpace(s) != "" {
			filtered = append(filtered, s)
		}
	}

	var summary string
	if len(filtered) > 2 {
		enhanced := []string{filtered[0]}
		for i, s := range filtered[1 : len(filtered)-1] {
			enhanced = append(enhanced, transitions[i%len(transitions)]+trimLeading(s))
		}
		enhanced = append(enhanced, "Finally, "+trimLeading(filtered[len(filtered)-1]))
		summary = strings.Join(enhanced, " ")
	} else {
		summary = strings.Join(filtered, " ")
	}

	// Top up from unused sentences until the minimum is met or material
	// is exhausted.
	if runeLen(summary) < minLength && runeLen(text) > minLength {
		additional := ""
		for _, s := range sentences {
			if containsString(filtered, s) {
				continue
			}
			if runeLen(summary+" "+additional) >= minLength {
				break
			}
			additional += " " + s
		}
		summary += additional
	}

	if runeLen(summary) > maxLength {
		summary = runePrefix(summary, maxLength) + "..."
	}
	return summary, nil
}

func trimLeading(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Length budgets are defined over characters, not bytes.

func runeLen(s string) int {
	return len([]rune(s))
}

func runePrefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
