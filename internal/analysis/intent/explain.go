package intent

import (
	"fmt"
	"strings"

	"github.com/turtacn/DocLens-Intelligence/pkg/types/document"
)

// maxDetectedKeywords caps the "Keywords detected" line.
const maxDetectedKeywords = 5

// mainDescriptions opens the explanation with what the label means.
var mainDescriptions = map[document.IntentLabel]string{
	document.IntentComplaint:    "The document contains expressions of dissatisfaction or descriptions of problems that need to be addressed.",
	document.IntentRequest:      "The document is primarily asking for information, action, or consideration of a specific matter.",
	document.IntentUpdate:       "The document provides information, updates, or notifications about policies, procedures, or events.",
	document.IntentAppreciation: "The document expresses gratitude, acknowledgment, or positive feedback.",
}

// detailStatements are the five fixed rationale bullets per label.
var detailStatements = map[document.IntentLabel][]string{
	document.IntentComplaint: {
		"The text includes language that indicates dissatisfaction, frustration, or concerns.",
		"There may be descriptions of issues, problems, or negative experiences.",
		"The author appears to be seeking resolution, correction, or acknowledgment of a problem.",
		"The document likely uses words with negative connotations to describe a situation or experience.",
		"There may be explicit requests for corrective action or compensation.",
	},
	document.IntentRequest: {
		"The text contains explicit requests for action, information, or assistance.",
		"There is a clear expectation of a response or action from the recipient.",
		"The language is typically polite and formal, using phrases like 'kindly', 'please', or 'would you'.",
		"The document specifies what is being requested and often includes timeframes or deadlines.",
		"There may be references to previous communications or established processes.",
	},
	document.IntentUpdate: {
		"The text focuses on delivering information rather than requesting action.",
		"There are statements of fact, announcements, or updates on specific topics.",
		"The document may include dates, times, locations, or other specific details about events or changes.",
		"The language is generally neutral and informative, rather than persuasive or emotional.",
		"There may be references to attachments, additional resources, or follow-up communications.",
	},
	document.IntentAppreciation: {
		"The text contains expressions of thanks, gratitude, or appreciation.",
		"There are positive descriptions of actions, services, or assistance received.",
		"The document may acknowledge specific individuals, teams, or organizations.",
		"The language is warm, appreciative, and uses positive adjectives.",
		"There may be mentions of the positive impact of the actions being acknowledged.",
	},
}

// explanationKeywords backs the "Keywords detected" line.  The lists differ
// from the scoring table: these are the terms a reader would recognise as
// markers of the label.
var explanationKeywords = map[document.IntentLabel][]string{
	document.IntentComplaint: {
		"issue", "problem", "concerned", "dissatisfied", "disappointed", "fix", "resolve", "failing",
	},
	document.IntentRequest: {
		"please", "request", "kindly", "would you", "could you", "need", "require", "provide",
	},
	document.IntentUpdate: {
		"inform", "announce", "update", "notification", "advise", "reminder", "schedule", "upcoming",
	},
	document.IntentAppreciation: {
		"thank", "appreciate", "grateful", "excellent", "outstanding", "wonderful", "helpful", "generous",
	},
}

var confidencePhrases = map[document.ConfidenceLevel]string{
	document.ConfidenceHigh:   "with high confidence",
	document.ConfidenceMedium: "with moderate confidence",
	document.ConfidenceLow:    "with low confidence",
}

var confidenceExplanations = map[document.ConfidenceLevel]string{
	document.ConfidenceHigh:   "The confidence level is high, suggesting strong indicators of this intent in the text.",
	document.ConfidenceMedium: "The moderate confidence level indicates some clear indicators of this intent, though some aspects may be ambiguous.",
	document.ConfidenceLow:    "The low confidence level suggests the intent classification is tentative, as the text may contain mixed signals or limited clear indicators.",
}

// buildExplanation assembles the multi-part rationale: the label
// description with confidence phrase and score, the detailed analysis
// bullets, the detected keywords from the head of the full text, and the
// confidence rationale sentence.
func buildExplanation(label document.IntentLabel, score float64, confidence document.ConfidenceLevel, fullText string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s The document has been classified %s (%.2f).",
		mainDescriptions[label], confidencePhrases[confidence], score)
	b.WriteString("\nDetailed analysis:")
	for _, detail := range detailStatements[label] {
		b.WriteString("\n• ")
		b.WriteString(detail)
	}

	scan := strings.ToLower(runePrefix(fullText, keywordScanChars))
	var found []string
	for _, term := range explanationKeywords[label] {
		if strings.Contains(scan, term) {
			found = append(found, term)
			if len(found) == maxDetectedKeywords {
				break
			}
		}
	}
	if len(found) > 0 {
		b.WriteString("\nKeywords detected: ")
		b.WriteString(strings.Join(found, ", "))
	}

	b.WriteString("\n")
	b.WriteString(confidenceExplanations[confidence])
	return b.String()
}
