package intent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DocLens-Intelligence/pkg/types/document"
)

func TestKeywordModel_RanksDominantCategoryFirst(t *testing.T) {
	model := NewKeywordModel()

	sample := "We are dissatisfied with the poor service. The issue remains a problem and the experience was terrible."
	ranking, err := model.Classify(context.Background(), sample)

	require.NoError(t, err)
	require.NotNil(t, ranking)
	assert.Equal(t, document.IntentComplaint, ranking.Labels[0])
	assert.Greater(t, ranking.Scores[0], ranking.Scores[len(ranking.Scores)-1])
}

func TestKeywordModel_ScoresFormADistribution(t *testing.T) {
	model := NewKeywordModel()

	ranking, err := model.Classify(context.Background(), "please kindly update us, thank you")
	require.NoError(t, err)

	total := 0.0
	for i, score := range ranking.Scores {
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
		if i > 0 {
			assert.LessOrEqual(t, score, ranking.Scores[i-1], "scores must be descending")
		}
		total += score
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestKeywordModel_NoMatchesYieldsUniformDistribution(t *testing.T) {
	model := NewKeywordModel()

	ranking, err := model.Classify(context.Background(), "zzz qqq xxx")
	require.NoError(t, err)

	// Zero counts everywhere: uniform scores, categories in declaration
	// order, first category on top.  Deterministic across runs.
	assert.Equal(t, document.IntentLabels, ranking.Labels)
	for _, score := range ranking.Scores {
		assert.InDelta(t, 0.25, score, 1e-9)
	}

	again, err := model.Classify(context.Background(), "zzz qqq xxx")
	require.NoError(t, err)
	assert.Equal(t, ranking, again)
}

func TestKeywordModel_PresenceNotFrequency(t *testing.T) {
	model := NewKeywordModel()

	once, err := model.Classify(context.Background(), "please send the report")
	require.NoError(t, err)
	many, err := model.Classify(context.Background(), strings.Repeat("please ", 50)+"send the report")
	require.NoError(t, err)

	assert.Equal(t, once.Scores[0], many.Scores[0])
}

func TestClassify_RequestDocument(t *testing.T) {
	c := New(nil, nil)

	text := "Dear Sir, could you please kindly provide the requested documents? We need them for the review and are asking for a response this week."
	result := c.Classify(context.Background(), text)

	assert.Equal(t, document.IntentRequest, result.Label)
	assert.Greater(t, result.Score, 0.6)
	assert.Contains(t, []document.ConfidenceLevel{document.ConfidenceHigh, document.ConfidenceMedium}, result.Confidence)
	assert.Contains(t, result.Explanation, "Keywords detected: ")
	assert.Contains(t, result.Explanation, "please")
}

func TestClassify_ResultInvariants(t *testing.T) {
	c := New(nil, nil)

	texts := []string{
		"",
		"thank you for the excellent support, we are grateful",
		"we would like to inform you about the upcoming schedule update",
		"the product is terrible and the problem was never fixed",
		strings.Repeat("neutral filler text without markers ", 100),
	}
	for _, text := range texts {
		result := c.Classify(context.Background(), text)
		assert.Contains(t, document.IntentLabels, result.Label)
		assert.GreaterOrEqual(t, result.Score, 0.0)
		assert.LessOrEqual(t, result.Score, 1.0)
		assert.NotEmpty(t, result.Explanation)
	}
}

func TestClassify_SamplesOnlyTheHead(t *testing.T) {
	c := New(nil, nil)

	// Complaint markers buried past the sampling window must not affect
	// the ranking.
	padding := strings.Repeat("x", 3000)
	result := c.Classify(context.Background(), padding+" terrible problem issue complaint")

	assert.Equal(t, document.IntentLabels[0], result.Label)
	assert.InDelta(t, 0.25, result.Score, 1e-9)
}

type failingIntentModel struct{}

func (failingIntentModel) Classify(context.Context, string) (*Ranking, error) {
	return nil, errors.New("backend down")
}

type emptyIntentModel struct{}

func (emptyIntentModel) Classify(context.Context, string) (*Ranking, error) {
	return &Ranking{}, nil
}

func TestClassify_ModelFailureDefaultsToNeutral(t *testing.T) {
	for name, model := range map[string]Model{
		"error":   failingIntentModel{},
		"empty":   emptyIntentModel{},
		"nilrank": nilRankingModel{},
	} {
		t.Run(name, func(t *testing.T) {
			c := New(model, nil)
			result := c.Classify(context.Background(), "anything at all")

			assert.Equal(t, document.IntentLabels[0], result.Label)
			assert.Equal(t, 0.5, result.Score)
			assert.Equal(t, document.ConfidenceLow, result.Confidence)
			assert.NotEmpty(t, result.Explanation)
		})
	}
}

type nilRankingModel struct{}

func (nilRankingModel) Classify(context.Context, string) (*Ranking, error) {
	return nil, nil
}

func TestBuildExplanation_Structure(t *testing.T) {
	text := "please kindly provide the report, we need it and require a reply"
	got := buildExplanation(document.IntentRequest, 0.72, document.ConfidenceMedium, text)

	assert.True(t, strings.HasPrefix(got, mainDescriptions[document.IntentRequest]))
	assert.Contains(t, got, "with moderate confidence (0.72).")
	assert.Contains(t, got, "Detailed analysis:")
	for _, detail := range detailStatements[document.IntentRequest] {
		assert.Contains(t, got, "\n• "+detail)
	}
	assert.Contains(t, got, "Keywords detected: please, kindly, need, require, provide")
	assert.True(t, strings.HasSuffix(got, confidenceExplanations[document.ConfidenceMedium]))
}

func TestBuildExplanation_KeywordLineCappedAtFive(t *testing.T) {
	// Seven of the eight request markers present; only five are listed.
	text := "please request kindly would you could you need require"
	got := buildExplanation(document.IntentRequest, 0.9, document.ConfidenceHigh, text)

	line := ""
	for _, l := range strings.Split(got, "\n") {
		if strings.HasPrefix(l, "Keywords detected: ") {
			line = l
		}
	}
	require.NotEmpty(t, line)
	assert.Len(t, strings.Split(strings.TrimPrefix(line, "Keywords detected: "), ", "), 5)
}

func TestBuildExplanation_NoKeywordLineWhenNoneMatch(t *testing.T) {
	got := buildExplanation(document.IntentUpdate, 0.25, document.ConfidenceLow, "zzz")
	assert.NotContains(t, got, "Keywords detected:")
}
