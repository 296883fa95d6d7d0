package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParagraphs_BlankLineBoundaries(t *testing.T) {
	text := "First paragraph line one.\nStill first.\n\nSecond paragraph.\n  \t\nThird paragraph."
	paras := Paragraphs(text)

	assert.Equal(t, []string{
		"First paragraph line one.\nStill first.",
		"Second paragraph.",
		"Third paragraph.",
	}, paras)
}

func TestParagraphs_NoBlankLine(t *testing.T) {
	text := "One line.\nAnother line on the same paragraph."
	assert.Equal(t, []string{text}, Paragraphs(text))
}

func TestParagraphs_Empty(t *testing.T) {
	assert.Equal(t, []string{""}, Paragraphs(""))
}

func TestSentences_TerminatorsFollowedByWhitespace(t *testing.T) {
	text := "First sentence. Second one! Third one? Fourth without terminator"
	got := Sentences(text)

	assert.Equal(t, []string{
		"First sentence.",
		"Second one!",
		"Third one?",
		"Fourth without terminator",
	}, got)
}

func TestSentences_TrailingTerminatorYieldsEmptyElement(t *testing.T) {
	// A terminator followed by trailing whitespace splits one last time,
	// leaving an empty final element.
	got := Sentences("Only sentence. ")
	assert.Equal(t, []string{"Only sentence.", ""}, got)
}

func TestSentences_NoWhitespaceAfterTerminatorDoesNotSplit(t *testing.T) {
	// Abbreviation-style periods without following whitespace stay inside
	// the sentence.
	got := Sentences("Version 2.5 shipped. See notes.")
	assert.Equal(t, []string{"Version 2.5 shipped.", "See notes."}, got)
}

func TestSentences_ConsumesWhitespaceRun(t *testing.T) {
	got := Sentences("One.   \n\t Two.")
	assert.Equal(t, []string{"One.", "Two."}, got)
}

func TestSentences_Empty(t *testing.T) {
	assert.Equal(t, []string{""}, Sentences(""))
}

func TestSentences_SourceOrderAndCoverage(t *testing.T) {
	text := "A. B. C. D."
	got := Sentences(text)

	// Every non-empty element is a literal substring, in source order.
	offset := 0
	for _, s := range got {
		if s == "" {
			continue
		}
		idx := strings.Index(text[offset:], s)
		assert.GreaterOrEqual(t, idx, 0, "element %q missing after offset %d", s, offset)
		offset += idx + len(s)
	}
}

func TestSentencesIn_PerParagraph(t *testing.T) {
	paras := []string{"One. Two.", "Three."}
	got := SentencesIn(paras)

	assert.Len(t, got, 2)
	assert.Equal(t, []string{"One.", "Two."}, got[0])
	assert.Equal(t, []string{"Three."}, got[1])
}

func TestFirstN_JoinsVerbatim(t *testing.T) {
	text := "One. Two. Three. Four."
	assert.Equal(t, "One. Two. Three.", FirstN(text, 3))
}

func TestFirstN_FewerThanN(t *testing.T) {
	// The trailing empty element from the final split joins in as-is.
	assert.Equal(t, "Just one. ", FirstN("Just one. ", 3))
	assert.Equal(t, "No terminator", FirstN("No terminator", 3))
}
