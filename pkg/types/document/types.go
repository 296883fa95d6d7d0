// Package document defines the shared data types exchanged between the
// analysis engine and its callers: documents, entities, bullets, and intent
// classification results.  No behaviour lives here — only plain data types
// and their validation.
package document

import "fmt"

// ---------------------------------------------------------------------------
// Language
// ---------------------------------------------------------------------------

// Language identifies which lexical tables the engine consults for a
// document.  Summarization and classification are language-agnostic; only
// entity annotation differs per language.
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageHindi   Language = "Hindi"
	LanguageMarathi Language = "Marathi"
	LanguageTamil   Language = "Tamil"
)

// Languages lists every supported language in declaration order.
var Languages = []Language{
	LanguageEnglish,
	LanguageHindi,
	LanguageMarathi,
	LanguageTamil,
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageHindi, LanguageMarathi, LanguageTamil:
		return true
	}
	return false
}

// ParseLanguage converts a string to a Language.  Unrecognised values fall
// back to English, matching the engine's table-lookup behaviour.
func ParseLanguage(s string) Language {
	l := Language(s)
	if !l.Valid() {
		return LanguageEnglish
	}
	return l
}

// ---------------------------------------------------------------------------
// Document
// ---------------------------------------------------------------------------

// ChunkSize is the maximum number of characters (runes) scanned per chunk
// during entity annotation.  Chunking affects entity annotation only;
// summarization and classification always operate on the full text.
const ChunkSize = 100000

// MaxDocumentChars is the external input cap.  Callers are responsible for
// truncating decoded text before it reaches the engine.
const MaxDocumentChars = 500000

// Document is an immutable pre-decoded text plus its language tag.
type Document struct {
	Text      string   `json:"text"`
	Language  Language `json:"language"`
	IsChunked bool     `json:"is_chunked"`
}

// NewDocument constructs a Document, recording whether the text exceeds the
// entity-annotation chunk threshold.
func NewDocument(text string, language Language) *Document {
	return &Document{
		Text:      text,
		Language:  language,
		IsChunked: len([]rune(text)) > ChunkSize,
	}
}

// ---------------------------------------------------------------------------
// Entities
// ---------------------------------------------------------------------------

// EntityType tags a recognised entity span.
type EntityType string

const (
	EntityPerson   EntityType = "PERSON"
	EntityDate     EntityType = "DATE"
	EntityLocation EntityType = "LOCATION"
	EntityOrg      EntityType = "ORG"
)

// Entity is a tagged span of document text.  Offsets are byte offsets into
// the full document text.
type Entity struct {
	Text  string     `json:"text"`
	Start int        `json:"start"`
	End   int        `json:"end"`
	Type  EntityType `json:"type"`
}

// ---------------------------------------------------------------------------
// Bullets
// ---------------------------------------------------------------------------

// BulletCategory classifies an extracted bullet.
type BulletCategory string

const (
	CategoryConclusion   BulletCategory = "Conclusion"
	CategoryExample      BulletCategory = "Example"
	CategoryKeyPoint     BulletCategory = "Key Point"
	CategoryStatistic    BulletCategory = "Statistic"
	CategoryQuestion     BulletCategory = "Question"
	CategoryIntroduction BulletCategory = "Introduction"
	CategorySummary      BulletCategory = "Summary"
	CategoryPoint        BulletCategory = "Point"
)

// MaxBullets caps the number of bullets returned per document.
const MaxBullets = 20

// Bullet is a single categorised key point extracted from a document.
// RawText is always a literal substring of the source document.
type Bullet struct {
	RawText  string         `json:"raw_text"`
	Category BulletCategory `json:"category"`
}

// String renders the bullet in its presentation form, "{Category}: {text}".
func (b Bullet) String() string {
	return fmt.Sprintf("%s: %s", b.Category, b.RawText)
}

// ---------------------------------------------------------------------------
// Intent classification
// ---------------------------------------------------------------------------

// IntentLabel is one of the four fixed classification categories.  The set
// is identical for every language.
type IntentLabel string

const (
	IntentComplaint    IntentLabel = "Complaint"
	IntentRequest      IntentLabel = "Request"
	IntentUpdate       IntentLabel = "Update/Notification"
	IntentAppreciation IntentLabel = "Appreciation"
)

// IntentLabels lists the categories in declaration order.  The order is the
// tie-break for equal scores and must not change.
var IntentLabels = []IntentLabel{
	IntentComplaint,
	IntentRequest,
	IntentUpdate,
	IntentAppreciation,
}

// ConfidenceLevel buckets a normalized score.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// BucketConfidence maps a normalized score to its confidence level:
// >0.8 high, >0.6 medium, otherwise low.
func BucketConfidence(score float64) ConfidenceLevel {
	switch {
	case score > 0.8:
		return ConfidenceHigh
	case score > 0.6:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// IntentResult is the full output of intent classification.
type IntentResult struct {
	Label       IntentLabel     `json:"label"`
	Score       float64         `json:"score"`
	Confidence  ConfidenceLevel `json:"confidence"`
	Explanation string          `json:"explanation"`
}
