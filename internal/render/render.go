// Package render converts structured medical records into canonical text.
//
// Two rendering paths share these functions and they intentionally differ in
// how they treat absent data:
//
//   - the corpus path (SessionForCorpus, Form) produces text for embedding
//     and must never pad absent fields with boilerplate, so that records
//     with nothing to say render empty and get filtered out upstream;
//   - the context path (SessionContext) produces the document shown to the
//     language model for one question and always fills absent fields with a
//     fixed placeholder so the model sees an explicit "nothing recorded"
//     instead of a missing section.
//
// All functions are pure and never fail: malformed input sub-items are
// skipped, not raised.
package render

import (
	"strings"

	"github.com/aftervisit/aftervisit/internal/record"
)

// Placeholder strings for absent context document sections.
const (
	NoSummary     = "No summary available."
	NoTranscript  = "No transcript available."
	NoMedications = "No medications recorded."
)

// Form renders an intake form as newline-joined Q/A pairs:
//
//	Q: <question>
//	A: <answer>
//
// Pairing stops at the shorter of the two sequences. Returns "" when either
// sequence is empty; callers treat an empty result as "no chunk".
func Form(questions, answers []string) string {
	n := min(len(questions), len(answers))
	if n == 0 {
		return ""
	}

	pairs := make([]string, 0, n)
	for i := range n {
		pairs = append(pairs, "Q: "+questions[i]+"\nA: "+answers[i])
	}
	return strings.Join(pairs, "\n")
}

// Medications renders one line per medication:
//
//	- <name>: <reason>
//
// A missing name renders as "unknown". When there are no entries the result
// depends on the caller's path: usePlaceholder true (context path) yields
// the NoMedications placeholder, false (corpus path) yields "".
func Medications(meds []record.Medication, usePlaceholder bool) string {
	lines := make([]string, 0, len(meds))
	for _, m := range meds {
		name := m.Name
		if name == "" {
			name = "unknown"
		}
		lines = append(lines, "- "+name+": "+m.Reason)
	}

	if len(lines) == 0 {
		if usePlaceholder {
			return NoMedications
		}
		return ""
	}
	return strings.Join(lines, "\n")
}

// SessionForCorpus renders a session for embedding: a Summary section and a
// Medications section, with no placeholders. The result is never the empty
// string even for a blank session ("Summary:\n\n\nMedications:\n"), so
// callers gate on HasContent rather than on the rendered text.
func SessionForCorpus(summary string, meds []record.Medication) string {
	return "Summary:\n" + summary + "\n\nMedications:\n" + Medications(meds, false)
}

// HasContent reports whether a corpus rendering of a session carries any
// actual data, i.e. a non-blank summary or at least one medication line.
func HasContent(summary string, meds []record.Medication) bool {
	return strings.TrimSpace(summary) != "" || Medications(meds, false) != ""
}

// SessionContext renders the full three-section context document used to
// ground a single answer. Every absent field gets its placeholder; the
// document is never empty and is never persisted.
func SessionContext(transcript, summary string, meds []record.Medication) string {
	if summary == "" {
		summary = NoSummary
	}
	if transcript == "" {
		transcript = NoTranscript
	}

	parts := []string{
		"=== Session Summary ===",
		summary,
		"",
		"=== Transcript ===",
		transcript,
		"",
		"=== Medications ===",
		Medications(meds, true),
	}
	return strings.Join(parts, "\n")
}

// ContextFlags records which sections of a session actually carried data
// (as opposed to a placeholder) when a context document was built. Returned
// with every answer so callers can audit what grounded it.
type ContextFlags struct {
	Summary     bool `json:"summary"`
	Transcript  bool `json:"transcript"`
	Medications bool `json:"medications"`
}

// Flags derives ContextFlags from a session record. It must be computed from
// the same record that SessionContext rendered so flags and text never
// diverge. Medications counts only entries with a usable name.
func Flags(rec *record.SessionRecord) ContextFlags {
	f := ContextFlags{
		Summary:    strings.TrimSpace(rec.Summary) != "",
		Transcript: strings.TrimSpace(rec.Transcript) != "",
	}
	for _, m := range rec.Medications {
		if strings.TrimSpace(m.Name) != "" {
			f.Medications = true
			break
		}
	}
	return f
}
