package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, LanguageHindi, ParseLanguage("Hindi"))
	assert.Equal(t, LanguageEnglish, ParseLanguage("english"), "matching is case-sensitive, unknown falls back")
	assert.Equal(t, LanguageEnglish, ParseLanguage(""))
	assert.Equal(t, LanguageEnglish, ParseLanguage("French"))
}

func TestLanguage_Valid(t *testing.T) {
	for _, l := range Languages {
		assert.True(t, l.Valid())
	}
	assert.False(t, Language("Klingon").Valid())
	assert.False(t, Language("").Valid())
}

func TestNewDocument_ChunkFlag(t *testing.T) {
	small := NewDocument("short text", LanguageEnglish)
	assert.False(t, small.IsChunked)

	big := NewDocument(strings.Repeat("x", ChunkSize+1), LanguageEnglish)
	assert.True(t, big.IsChunked)

	boundary := NewDocument(strings.Repeat("x", ChunkSize), LanguageEnglish)
	assert.False(t, boundary.IsChunked)
}

func TestBullet_String(t *testing.T) {
	b := Bullet{RawText: "Returns are due 30 June", Category: CategoryKeyPoint}
	assert.Equal(t, "Key Point: Returns are due 30 June", b.String())
}

func TestBucketConfidence(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, BucketConfidence(0.85))
	assert.Equal(t, ConfidenceMedium, BucketConfidence(0.8), "0.8 is not strictly above the high threshold")
	assert.Equal(t, ConfidenceMedium, BucketConfidence(0.65))
	assert.Equal(t, ConfidenceLow, BucketConfidence(0.6))
	assert.Equal(t, ConfidenceLow, BucketConfidence(0.3))
	assert.Equal(t, ConfidenceLow, BucketConfidence(0))
}

func TestIntentLabels_OrderIsStable(t *testing.T) {
	assert.Equal(t, []IntentLabel{
		IntentComplaint,
		IntentRequest,
		IntentUpdate,
		IntentAppreciation,
	}, IntentLabels)
}
