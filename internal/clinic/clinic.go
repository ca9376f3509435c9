// Package clinic resolves which clinical encounter a patient's question is
// about. Resolution is read-only: the package never writes to the record
// tables.
package clinic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/aftervisit/aftervisit/internal/record"
	"github.com/aftervisit/aftervisit/internal/sqlc"
)

// ErrNotFound indicates no session matched the resolution request, either
// because the explicit session id does not exist or because the patient has
// no sessions at all. Checked with errors.Is().
var ErrNotFound = errors.New("session not found")

// Querier is the slice of the generated query interface the resolver needs.
type Querier interface {
	GetSession(ctx context.Context, id pgtype.UUID) (sqlc.Session, error)
	GetLatestSessionByPatient(ctx context.Context, patientID pgtype.UUID) (sqlc.Session, error)
}

// Store resolves sessions against PostgreSQL.
// It is safe for concurrent use by multiple goroutines.
type Store struct {
	querier Querier
	logger  *slog.Logger
}

// New creates a Store. logger may be nil.
func New(querier Querier, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{querier: querier, logger: logger}
}

// Resolve picks the session a question refers to. With an explicit
// sessionID the session is looked up by id alone; the patient id is not a
// filter, and a mismatch between the session's patient and the caller's
// patient is logged but still returned, matching how upstream systems share
// records across a care team. With sessionID nil the patient's most recent
// session wins, newest created_at first with id as the tie-break.
func (s *Store) Resolve(ctx context.Context, patientID uuid.UUID, sessionID *uuid.UUID) (*record.SessionRecord, error) {
	var (
		row sqlc.Session
		err error
	)

	if sessionID != nil {
		row, err = s.querier.GetSession(ctx, pgtype.UUID{Bytes: *sessionID, Valid: true})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("get session %s: %w", sessionID, err)
		}
	} else {
		row, err = s.querier.GetLatestSessionByPatient(ctx, pgtype.UUID{Bytes: patientID, Valid: true})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("get latest session for patient %s: %w", patientID, err)
		}
	}

	rec := record.SessionFromRow(row)
	if rec.PatientID != patientID {
		s.logger.Warn("resolved session belongs to a different patient",
			"session_id", rec.ID,
			"session_patient_id", rec.PatientID,
			"requested_patient_id", patientID)
	}

	s.logger.Debug("resolved session", "session_id", rec.ID, "patient_id", rec.PatientID)
	return &rec, nil
}
