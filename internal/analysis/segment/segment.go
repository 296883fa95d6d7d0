// Package segment provides the paragraph and sentence segmentation shared
// by every analysis component.  Both splitters are pure functions over the
// input text; order of the returned segments always follows source order.
package segment

import (
	"regexp"
	"strings"
	"unicode"
)

// paragraphSep matches one-or-more whitespace-only lines between two
// newlines, the boundary between paragraphs.
var paragraphSep = regexp.MustCompile(`\n\s*\n`)

// Paragraphs splits text into maximal runs separated by blank lines.
// Paragraphs are returned untrimmed so that downstream length checks see
// the original spacing.
func Paragraphs(text string) []string {
	if text == "" {
		return []string{""}
	}
	return paragraphSep.Split(text, -1)
}

// Sentences splits text into sentences.  A sentence ends at a terminal
// punctuation mark (. ! ?) followed by whitespace, or at end of text.  The
// whitespace run after the terminator is consumed; the terminator itself is
// kept with its sentence.  A trailing terminator+whitespace yields a final
// empty element, mirroring a regex split on the boundary.
func Sentences(text string) []string {
	var out []string
	runes := []rune(text)
	n := len(runes)
	start := 0
	i := 0
	for i < n {
		r := runes[i]
		if (r == '.' || r == '!' || r == '?') && i+1 < n && unicode.IsSpace(runes[i+1]) {
			out = append(out, string(runes[start:i+1]))
			i++
			for i < n && unicode.IsSpace(runes[i]) {
				i++
			}
			start = i
			continue
		}
		i++
	}
	out = append(out, string(runes[start:]))
	return out
}

// SentencesIn splits every paragraph and returns the sentences in source
// order, tagged with their paragraph index.
func SentencesIn(paragraphs []string) [][]string {
	out := make([][]string, len(paragraphs))
	for i, p := range paragraphs {
		out[i] = Sentences(p)
	}
	return out
}

// FirstN returns the first n sentences of text joined with single spaces.
// Used as the extractive fallback when a summarization pass fails.
func FirstN(text string, n int) string {
	sentences := Sentences(text)
	if len(sentences) > n {
		sentences = sentences[:n]
	}
	return strings.Join(sentences, " ")
}
