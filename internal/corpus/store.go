package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/aftervisit/aftervisit/internal/sqlc"
)

// Querier defines the database operations the Store needs. The interface is
// defined here, on the consumer side, so tests can substitute a mock for
// the sqlc-generated implementation.
type Querier interface {
	UpsertChunk(ctx context.Context, arg sqlc.UpsertChunkParams) error
	GetChunk(ctx context.Context, arg sqlc.GetChunkParams) (sqlc.KnowledgeChunk, error)
	CountChunks(ctx context.Context) (int64, error)
	CountChunksByPatient(ctx context.Context, patientID pgtype.UUID) (int64, error)
	ListChunksByPatient(ctx context.Context, arg sqlc.ListChunksByPatientParams) ([]sqlc.KnowledgeChunk, error)
}

// Store persists chunks in PostgreSQL with a pgvector embedding column.
// It is the production Sink for the Builder and is safe for concurrent use.
type Store struct {
	queries Querier
	logger  *slog.Logger
}

// NewStore creates a Store. logger may be nil.
func NewStore(querier Querier, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{queries: querier, logger: logger}
}

// Upsert writes a chunk, replacing any prior state for its key.
func (s *Store) Upsert(ctx context.Context, chunk Chunk) error {
	if chunk.Text == "" {
		return fmt.Errorf("chunk %s has empty text", chunk.Key())
	}

	var embedding *pgvector.Vector
	if len(chunk.Embedding) > 0 {
		v := pgvector.NewVector(chunk.Embedding)
		embedding = &v
	}

	err := s.queries.UpsertChunk(ctx, sqlc.UpsertChunkParams{
		SourceType: chunk.SourceType,
		SourceRef:  uuidToPg(chunk.SourceRef),
		PatientID:  uuidToPg(chunk.PatientID),
		Content:    chunk.Text,
		Embedding:  embedding,
	})
	if err != nil {
		return fmt.Errorf("upserting chunk %s: %w", chunk.Key(), err)
	}

	s.logger.Debug("upserted chunk", "key", chunk.Key(), "text_length", len(chunk.Text))
	return nil
}

// Get retrieves one chunk by its (source type, source ref) key.
func (s *Store) Get(ctx context.Context, sourceType string, sourceRef uuid.UUID) (*Chunk, error) {
	row, err := s.queries.GetChunk(ctx, sqlc.GetChunkParams{
		SourceType: sourceType,
		SourceRef:  uuidToPg(sourceRef),
	})
	if err != nil {
		return nil, fmt.Errorf("getting chunk %s:%s: %w", sourceType, sourceRef, err)
	}

	chunk := rowToChunk(row)
	return &chunk, nil
}

// ListByPatient returns a patient's chunks, most recently updated first.
func (s *Store) ListByPatient(ctx context.Context, patientID uuid.UUID, limit int32) ([]Chunk, error) {
	const maxListLimit = 1000
	if limit <= 0 || limit > maxListLimit {
		return nil, fmt.Errorf("limit must be between 1 and %d, got %d", maxListLimit, limit)
	}

	rows, err := s.queries.ListChunksByPatient(ctx, sqlc.ListChunksByPatientParams{
		PatientID:   uuidToPg(patientID),
		ResultLimit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}

	chunks := make([]Chunk, 0, len(rows))
	for _, row := range rows {
		chunks = append(chunks, rowToChunk(row))
	}
	return chunks, nil
}

// Count returns the total number of chunks in the corpus.
func (s *Store) Count(ctx context.Context) (int, error) {
	count, err := s.queries.CountChunks(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	if count > math.MaxInt {
		return 0, fmt.Errorf("chunk count %d exceeds platform int capacity", count)
	}
	return int(count), nil
}

// CountByPatient returns the number of chunks indexed for one patient.
func (s *Store) CountByPatient(ctx context.Context, patientID uuid.UUID) (int, error) {
	count, err := s.queries.CountChunksByPatient(ctx, uuidToPg(patientID))
	if err != nil {
		return 0, fmt.Errorf("counting chunks for patient %s: %w", patientID, err)
	}
	if count > math.MaxInt {
		return 0, fmt.Errorf("chunk count %d exceeds platform int capacity", count)
	}
	return int(count), nil
}

func rowToChunk(row sqlc.KnowledgeChunk) Chunk {
	chunk := Chunk{
		PatientID:  pgToUUID(row.PatientID),
		SourceType: row.SourceType,
		SourceRef:  pgToUUID(row.SourceRef),
		Text:       row.Content,
	}
	if row.Embedding != nil {
		chunk.Embedding = row.Embedding.Slice()
	}
	if row.UpdatedAt.Valid {
		chunk.UpdatedAt = row.UpdatedAt.Time
	}
	return chunk
}

func uuidToPg(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func pgToUUID(id pgtype.UUID) uuid.UUID {
	return uuid.UUID(id.Bytes)
}
