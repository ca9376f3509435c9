// Package record defines the source-of-truth medical record types and the
// stream abstraction through which they arrive.
//
// Records are immutable once ingested: nothing in this codebase mutates a
// FormRecord or SessionRecord after it has been read from its source. The
// corpus builder and the question-answering path both consume these types
// but never write them back.
package record

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FormRecord is a completed intake form: an ordered list of questions with
// the patient's answers. Questions and Answers are expected to be the same
// length under normal operation, but consumers must tolerate a mismatch
// (pairing stops at the shorter sequence).
type FormRecord struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Questions []string  `json:"questions"`
	Answers   []string  `json:"answers"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionRecord is one clinical encounter. Transcript, Summary and
// Medications may each be absent.
type SessionRecord struct {
	ID          uuid.UUID    `json:"id"`
	PatientID   uuid.UUID    `json:"patient_id"`
	DoctorID    uuid.UUID    `json:"doctor_id"`
	Transcript  string       `json:"transcript"`
	Summary     string       `json:"summary"`
	Medications []Medication `json:"medications"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Medication is one prescribed medication with the reason it was given.
type Medication struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// DecodeMedications parses the raw medications JSON stored on a session row.
// The column holds arbitrary JSON written by upstream systems; entries that
// are not objects (strings, numbers, nulls) are skipped rather than treated
// as errors, and an object missing "name" or "reason" gets zero values for
// the missing fields. A nil or empty payload yields nil.
func DecodeMedications(raw []byte) []Medication {
	if len(raw) == 0 {
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	var meds []Medication
	for _, entry := range entries {
		if !isJSONObject(entry) {
			continue // non-mapping entry, skip
		}
		var m Medication
		if err := json.Unmarshal(entry, &m); err != nil {
			continue
		}
		meds = append(meds, m)
	}
	return meds
}

// isJSONObject reports whether raw starts with '{' after leading whitespace.
func isJSONObject(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}
