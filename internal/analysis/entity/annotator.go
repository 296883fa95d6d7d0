// Package entity implements the language-tagged lexical entity annotator.
// Annotation is informational document metadata; no downstream scoring
// consumes it.
package entity

import (
	"regexp"

	"github.com/turtacn/DocLens-Intelligence/pkg/types/document"
)

// ---------------------------------------------------------------------------
// Pattern tables
// ---------------------------------------------------------------------------

type pattern struct {
	re  *regexp.Regexp
	typ document.EntityType
}

// englishPatterns covers the full entity set; the other languages share the
// Latin-script person/date heuristics because the correspondence corpus
// mixes scripts.
var englishPatterns = []pattern{
	{regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`), document.EntityPerson},
	{regexp.MustCompile(`\b[A-Z][a-z]+ \d+\b`), document.EntityDate},
	{regexp.MustCompile(`\b\d+ [A-Z][a-z]+ (Street|Road|Avenue)\b`), document.EntityLocation},
	{regexp.MustCompile(`\b[A-Z][A-Za-z]+ (Corporation|Inc|Ltd)\b`), document.EntityOrg},
}

var indicPatterns = []pattern{
	{regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`), document.EntityPerson},
	{regexp.MustCompile(`\b\d+ [A-Za-z]+\b`), document.EntityDate},
}

func patternsFor(lang document.Language) []pattern {
	switch lang {
	case document.LanguageHindi, document.LanguageMarathi, document.LanguageTamil:
		return indicPatterns
	default:
		// Unrecognised languages fall back to the English tables.
		return englishPatterns
	}
}

// ---------------------------------------------------------------------------
// Annotator
// ---------------------------------------------------------------------------

// Annotator tags candidate entities in document text using the lexical
// pattern table selected by its language.  An Annotator is immutable and
// safe for concurrent use once constructed.
type Annotator struct {
	language document.Language
	patterns []pattern
}

// NewAnnotator builds an Annotator for the given language.
func NewAnnotator(language document.Language) *Annotator {
	return &Annotator{
		language: language,
		patterns: patternsFor(language),
	}
}

// Language returns the language tag the annotator was built for.
func (a *Annotator) Language() document.Language {
	return a.language
}

// Annotate scans text and returns every pattern match as an Entity with
// byte offsets into text.  Documents longer than document.ChunkSize runes
// are scanned in sequential chunks of that size (the last chunk may be
// shorter); matches are reported with offsets shifted back into the full
// text.  Pattern order groups the result: all matches of a pattern appear
// before any match of the next pattern, within each chunk.
func (a *Annotator) Annotate(text string) []document.Entity {
	if text == "" {
		return []document.Entity{}
	}

	runes := []rune(text)
	if len(runes) <= document.ChunkSize {
		return a.annotateChunk(text, 0)
	}

	var entities []document.Entity
	byteOff := 0
	for start := 0; start < len(runes); start += document.ChunkSize {
		end := start + document.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := string(runes[start:end])
		entities = append(entities, a.annotateChunk(chunk, byteOff)...)
		byteOff += len(chunk)
	}
	return entities
}

func (a *Annotator) annotateChunk(chunk string, byteOff int) []document.Entity {
	entities := []document.Entity{}
	for _, p := range a.patterns {
		for _, loc := range p.re.FindAllStringIndex(chunk, -1) {
			entities = append(entities, document.Entity{
				Text:  chunk[loc[0]:loc[1]],
				Start: byteOff + loc[0],
				End:   byteOff + loc[1],
				Type:  p.typ,
			})
		}
	}
	return entities
}
