// Package bullets extracts a document's key points as categorised bullets.
// Four independent passes scan the paragraph/sentence segmentation in fixed
// order; a sentence is accumulated at most once (exact-match dedup, first
// phase wins), then every accumulated bullet is assigned one category and
// the list is capped at twenty entries.
package bullets

import (
	"regexp"
	"strings"

	"github.com/turtacn/DocLens-Intelligence/internal/analysis/segment"
	"github.com/turtacn/DocLens-Intelligence/pkg/types/document"
)

// ---------------------------------------------------------------------------
// Vocabularies
// ---------------------------------------------------------------------------

// indicators flag sentences carrying emphasis, conclusion, obligation, or
// ordinal markers.  Matching is case-insensitive substring containment.
var indicators = []string{
	"important", "significant", "key", "main", "primary",
	"essential", "crucial", "critical", "fundamental",
	"therefore", "thus", "hence", "accordingly", "consequently",
	"as a result", "in conclusion", "to summarize",
	"must", "should", "shall", "will", "required",
	"noteworthy", "notably", "particularly", "especially", "specifically",
	"primarily", "chiefly", "mainly", "predominantly", "principally",
	"significantly", "markedly", "substantially", "considerably",
	"undoubtedly", "unquestionably", "indisputably", "indubitably",
	"evidently", "obviously", "plainly", "patently", "manifestly",
	"firstly", "secondly", "thirdly", "finally", "lastly",
	"in summary", "in brief", "in short", "overall",
}

// topicIndicators flag non-leading sentences that read like topic
// sentences: pronouns and evidentiary nouns.
var topicIndicators = []string{
	"this", "these", "such", "the", "our", "their", "we", "they",
	"according", "research", "study", "analysis", "evidence", "data",
	"report", "survey", "investigation", "findings", "results",
}

// Category cue words, checked in fixed order during post-processing.
var (
	conclusionCues = []string{"therefore", "thus", "hence", "result", "consequently"}
	exampleCues    = []string{"example", "instance", "illustrate", "case"}
	keyPointCues   = []string{"important", "crucial", "critical", "essential"}
)

var (
	numberedMarker = regexp.MustCompile(`^\s*\d+[.)]`)
	glyphMarker    = regexp.MustCompile(`^\s*[•\-\*]`)
	markerStrip    = regexp.MustCompile(`^\s*(?:\d+[.)]|[•\-\*])\s*`)

	percentPattern   = regexp.MustCompile(`\d+(\.\d+)?%`)
	moneyPattern     = regexp.MustCompile(`\$\d+`)
	yearPattern      = regexp.MustCompile(`\d{4}`)
	largeNumPattern  = regexp.MustCompile(`\d+\s*(million|billion|trillion)`)
	statisticPattern = regexp.MustCompile(`\d+%|\d+\.\d+%`)
)

const (
	// minParagraphChars skips trivially short paragraphs in phases 1–2.
	minParagraphChars = 20
	// minSentenceChars skips trivially short sentences in phases 1–2.
	minSentenceChars = 15
	// topicPhaseThreshold: the topic-sentence phase runs only when the
	// indicator phase found fewer bullets than this.
	topicPhaseThreshold = 15
	// minQuestionChars is the length floor for the question phase.
	minQuestionChars = 20
)

// ---------------------------------------------------------------------------
// Extractor
// ---------------------------------------------------------------------------

// Extractor runs the four-phase bullet extraction.  It is stateless and
// safe for concurrent use.
type Extractor struct{}

// NewExtractor returns an Extractor.
func NewExtractor() *Extractor { return &Extractor{} }

// Extract returns the document's key points as at most
// document.MaxBullets categorised bullets, in accumulation order.
func (e *Extractor) Extract(text string) []document.Bullet {
	paragraphs := segment.Paragraphs(text)

	var raw []string
	seen := make(map[string]bool)
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			raw = append(raw, s)
		}
	}

	// Phase 1: sentences carrying explicit indicators or list markers.
	for _, para := range paragraphs {
		if runeLen(strings.TrimSpace(para)) < minParagraphChars {
			continue
		}
		for _, sentence := range segment.Sentences(para) {
			if runeLen(strings.TrimSpace(sentence)) < minSentenceChars {
				continue
			}
			lower := strings.ToLower(sentence)
			if containsAny(lower, indicators) ||
				numberedMarker.MatchString(sentence) ||
				glyphMarker.MatchString(sentence) {
				add(strings.TrimSpace(markerStrip.ReplaceAllString(sentence, "")))
			}
		}
	}

	// Phase 2: topic sentences, only while the haul is still small.
	if len(raw) < topicPhaseThreshold {
		for _, para := range paragraphs {
			if runeLen(strings.TrimSpace(para)) < minParagraphChars {
				continue
			}
			sentences := segment.Sentences(para)
			if len(sentences) > 0 && runeLen(sentences[0]) > minSentenceChars {
				add(sentences[0])
			}
			for _, sentence := range sentences[1:] {
				if runeLen(strings.TrimSpace(sentence)) < minSentenceChars {
					continue
				}
				if containsAny(strings.ToLower(sentence), topicIndicators) {
					add(sentence)
				}
			}
		}
	}

	// Phase 3: quantitative sentences; no length floor.
	for _, para := range paragraphs {
		for _, sentence := range segment.Sentences(para) {
			if percentPattern.MatchString(sentence) ||
				moneyPattern.MatchString(sentence) ||
				yearPattern.MatchString(sentence) ||
				largeNumPattern.MatchString(strings.ToLower(sentence)) {
				add(sentence)
			}
		}
	}

	// Phase 4: questions.
	for _, para := range paragraphs {
		for _, sentence := range segment.Sentences(para) {
			if strings.Contains(sentence, "?") && runeLen(sentence) > minQuestionChars {
				add(sentence)
			}
		}
	}

	out := categorize(raw)
	if len(out) > document.MaxBullets {
		out = out[:document.MaxBullets]
	}
	return out
}

// categorize assigns each bullet exactly one category by first match of the
// ordered rule set; the positional rules use the bullet's index in the full
// accumulated list, before the cap is applied.
func categorize(raw []string) []document.Bullet {
	n := len(raw)
	out := make([]document.Bullet, 0, n)
	for i, text := range raw {
		lower := strings.ToLower(text)
		var cat document.BulletCategory
		switch {
		case containsAny(lower, conclusionCues):
			cat = document.CategoryConclusion
		case containsAny(lower, exampleCues):
			cat = document.CategoryExample
		case containsAny(lower, keyPointCues):
			cat = document.CategoryKeyPoint
		case statisticPattern.MatchString(text):
			cat = document.CategoryStatistic
		case strings.Contains(text, "?"):
			cat = document.CategoryQuestion
		case float64(i) < float64(n)*0.2:
			cat = document.CategoryIntroduction
		case float64(i) > float64(n)*0.8:
			cat = document.CategorySummary
		default:
			cat = document.CategoryPoint
		}
		out = append(out, document.Bullet{RawText: text, Category: cat})
	}
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func runeLen(s string) int {
	return len([]rune(s))
}
