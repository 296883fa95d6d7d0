// Package summarize produces a bounded-length extractive summary of a
// document, recursing over paragraphs for long texts and combining the
// per-paragraph summaries in a single extra pass.
package summarize

import (
	"context"
	"strings"

	"github.com/turtacn/DocLens-Intelligence/internal/analysis/segment"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
)

const (
	// maxSummaryChars caps the target summary length.
	maxSummaryChars = 150
	// minSummaryChars caps the minimum summary length.
	minSummaryChars = 30
	// directPassLimit is the largest text summarized in a single pass;
	// longer texts go through the paragraph-recursive path.
	directPassLimit = 1000
	// paragraphFloor is the minimum trimmed paragraph length that earns an
	// individual summary on the recursive path.
	paragraphFloor = 200
	// paragraphFallbackChars is how much of a paragraph is kept when its
	// summarization attempt fails.
	paragraphFallbackChars = 100
	// fallbackSentences is how many leading sentences form the extractive
	// fallback for a failed single pass.
	fallbackSentences = 3
)

// Summarizer runs the recursive summarization strategy on top of a Model.
// It is a total function over its input: every Model failure is replaced
// by the specified extractive fallback and never propagates to the caller.
type Summarizer struct {
	model  Model
	logger logging.Logger
}

// New constructs a Summarizer.  A nil model selects the deterministic
// extractive Model; a nil logger discards logs.
func New(model Model, logger logging.Logger) *Summarizer {
	if model == nil {
		model = NewExtractiveModel()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Summarizer{model: model, logger: logger}
}

// Summarize returns a condensed summary of text.  The output length is
// bounded by maxLength = min(150, len/4) and minLength = min(30,
// maxLength/2), both in characters.
func (s *Summarizer) Summarize(ctx context.Context, text string) string {
	textLen := runeLen(text)
	maxLength := minInt(maxSummaryChars, textLen/4)
	minLength := minInt(minSummaryChars, maxLength/2)

	if textLen <= directPassLimit {
		out, err := s.model.Summarize(ctx, text, maxLength, minLength)
		if err != nil {
			s.logger.Debug("single-pass summarization failed, using extractive fallback", logging.Err(err))
			return segment.FirstN(text, fallbackSentences) + "..."
		}
		return out
	}

	// Long document: summarize each substantial paragraph with a halved
	// budget, then combine.
	paragraphs := segment.Paragraphs(text)
	var summaries []string
	for _, para := range paragraphs {
		if runeLen(strings.TrimSpace(para)) <= paragraphFloor {
			continue
		}
		out, err := s.model.Summarize(ctx, para, maxLength/2, minLength/2)
		if err != nil {
			s.logger.Debug("paragraph summarization failed, keeping paragraph head", logging.Err(err))
			out = runePrefix(para, paragraphFallbackChars) + "..."
		}
		summaries = append(summaries, out)
	}

	switch len(summaries) {
	case 0:
		// No paragraph qualified; fall back to the head of the document.
		return runePrefix(text, maxLength) + "..."
	case 1:
		return summaries[0]
	}

	combined := strings.Join(summaries, " ")
	if runeLen(combined) <= directPassLimit {
		return combined
	}
	// One extra combination pass only; the length-budget math is derived
	// for a single level of recursion.
	out, err := s.model.Summarize(ctx, combined, maxLength, minLength)
	if err != nil {
		s.logger.Debug("combined summarization failed, returning concatenation", logging.Err(err))
		return combined
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
