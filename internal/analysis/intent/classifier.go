// Package intent classifies a document against the four fixed intent
// categories via keyword matching and synthesises a confidence-scored
// explanation for the chosen label.
package intent

import (
	"context"
	"sort"
	"strings"

	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocLens-Intelligence/pkg/errors"
	"github.com/turtacn/DocLens-Intelligence/pkg/types/document"
)

const (
	// sampleChars is how much of the document the scoring pass reads.
	sampleChars = 1000
	// keywordScanChars is how much of the document the explanation's
	// keyword detection reads.
	keywordScanChars = 2000
	// neutralScore is reported when classification itself fails.
	neutralScore = 0.5
	// zeroSubstitute stands in for a zero count during normalization so
	// the distribution never divides by zero and zero-count categories
	// stay non-negative.
	zeroSubstitute = 0.1
)

// classifierKeywords drives the scoring pass.  A category scores one point
// per listed term present in the lower-cased sample (presence, not
// frequency).
var classifierKeywords = map[document.IntentLabel][]string{
	document.IntentComplaint: {
		"issue", "problem", "complaint", "dissatisfied", "disappointed", "poor", "bad", "terrible",
	},
	document.IntentRequest: {
		"please", "request", "kindly", "could you", "would you", "need", "want", "asking",
	},
	document.IntentUpdate: {
		"update", "notify", "inform", "announce", "notice", "advisory", "bulletin", "information",
	},
	document.IntentAppreciation: {
		"thank", "appreciate", "grateful", "excellent", "good", "well done", "pleased", "happy",
	},
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Ranking is the ordered output of a classification model: labels ranked
// best-first with their normalized scores.
type Ranking struct {
	Labels []document.IntentLabel
	Scores []float64
}

// Model ranks a classification sample against the fixed category set.  It
// is modelled as a fallible external call; the Classifier absorbs every
// failure into the neutral default.
type Model interface {
	Classify(ctx context.Context, sample string) (*Ranking, error)
}

// keywordModel is the deterministic default Model.
type keywordModel struct{}

// NewKeywordModel returns the keyword-scoring Model used when no
// alternative backend is injected.
func NewKeywordModel() Model { return keywordModel{} }

func (keywordModel) Classify(_ context.Context, sample string) (*Ranking, error) {
	lower := strings.ToLower(sample)

	counts := make(map[document.IntentLabel]int, len(document.IntentLabels))
	for _, label := range document.IntentLabels {
		for _, term := range classifierKeywords[label] {
			if strings.Contains(lower, term) {
				counts[label]++
			}
		}
	}
	// When nothing matches, every count stays zero: the zero substitution
	// below yields a uniform distribution and the declaration order makes
	// the first category the label.  Deterministic by design choice; the
	// category set never varies.

	ordered := make([]document.IntentLabel, len(document.IntentLabels))
	copy(ordered, document.IntentLabels)
	sort.SliceStable(ordered, func(i, j int) bool {
		return counts[ordered[i]] > counts[ordered[j]]
	})

	total := 0.0
	for _, label := range ordered {
		total += countOrSubstitute(counts[label])
	}
	scores := make([]float64, len(ordered))
	for i, label := range ordered {
		scores[i] = countOrSubstitute(counts[label]) / total
	}

	return &Ranking{Labels: ordered, Scores: scores}, nil
}

func countOrSubstitute(count int) float64 {
	if count == 0 {
		return zeroSubstitute
	}
	return float64(count)
}

// ---------------------------------------------------------------------------
// Classifier
// ---------------------------------------------------------------------------

// Classifier produces an IntentResult for a document.  It is a total
// function over its input: model failures degrade to the first fixed
// category with a neutral score, never an error.
type Classifier struct {
	model  Model
	logger logging.Logger
}

// New constructs a Classifier.  A nil model selects the keyword Model; a
// nil logger discards logs.
func New(model Model, logger logging.Logger) *Classifier {
	if model == nil {
		model = NewKeywordModel()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Classifier{model: model, logger: logger}
}

// Classify scores the first 1000 characters of text, buckets the top
// category's normalized score into a confidence level, and synthesises the
// structured explanation.
func (c *Classifier) Classify(ctx context.Context, text string) document.IntentResult {
	sample := runePrefix(text, sampleChars)

	label := document.IntentLabels[0]
	score := neutralScore

	ranking, err := c.model.Classify(ctx, sample)
	switch {
	case err != nil:
		c.logger.Warn("intent model failed, defaulting to first category",
			logging.Err(errors.Wrap(err, errors.CodeClassificationFailed, "classify")))
	case ranking == nil || len(ranking.Labels) == 0 || len(ranking.Scores) == 0:
		c.logger.Warn("intent model returned an empty ranking, defaulting to first category")
	default:
		label = ranking.Labels[0]
		score = ranking.Scores[0]
	}

	confidence := document.BucketConfidence(score)

	return document.IntentResult{
		Label:       label,
		Score:       score,
		Confidence:  confidence,
		Explanation: buildExplanation(label, score, confidence, text),
	}
}

func runePrefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
