// Package corpus builds and stores the knowledge chunk corpus: one
// embeddable unit of canonical text per source record, continuously derived
// from the form and session record streams.
//
// The corpus is a derived view. It is append-only from this subsystem's
// perspective — a chunk is never mutated once written; a revised source
// record produces a new chunk state for the same (source type, source ref)
// key, replacing the prior row. Readers must tolerate eventual consistency:
// a just-ingested record's chunk may not be visible yet.
package corpus

import (
	"time"

	"github.com/google/uuid"
)

// Source type values for chunks. These match the CHECK constraint on the
// knowledge_chunks table.
const (
	// SourceTypeForm marks chunks derived from intake forms.
	SourceTypeForm = "form"

	// SourceTypeSession marks chunks derived from clinical sessions.
	SourceTypeSession = "session"
)

// VectorDimension is the embedding width stored in the knowledge_chunks
// table. gemini-embedding-001 outputs 3072 dimensions by default but
// supports truncation to 768 via output dimensionality; the schema and all
// configured embedders must agree on this value.
const VectorDimension = 768

// Chunk is one embeddable unit of canonical text derived from a single
// source record. A chunk exists only if Text is non-empty.
type Chunk struct {
	PatientID  uuid.UUID
	SourceType string
	SourceRef  uuid.UUID
	Text       string
	Embedding  []float32
	UpdatedAt  time.Time
}

// Key returns the logical identity of the chunk within the corpus.
func (c Chunk) Key() string {
	return c.SourceType + ":" + c.SourceRef.String()
}
