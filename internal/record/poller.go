package record

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/aftervisit/aftervisit/internal/sqlc"
)

// PollerQuerier is the slice of the generated query interface the poller
// needs. Defined here so tests can feed the poller canned rows.
type PollerQuerier interface {
	ListFormsUpdatedAfter(ctx context.Context, arg sqlc.ListFormsUpdatedAfterParams) ([]sqlc.Form, error)
	ListSessionsUpdatedAfter(ctx context.Context, arg sqlc.ListSessionsUpdatedAfterParams) ([]sqlc.Session, error)
}

// DefaultPollInterval is used when a Poller is created with a non-positive
// interval.
const DefaultPollInterval = 5 * time.Second

// defaultBatchSize caps rows fetched per poll so a large backlog is worked
// through in bounded slices.
const defaultBatchSize = 200

// checkpoint is the poller's position in one table: the (updated_at, id)
// pair of the last delivered row. updated_at alone is not a position — a
// bulk upstream update can stamp many rows with one transaction timestamp,
// and if a batch cap lands inside such a run, a time-only checkpoint would
// skip the rest of the run on the next fetch. The id tie-break makes the
// cursor total, matching the ORDER BY (updated_at, id) of the list queries.
type checkpoint struct {
	time time.Time
	id   uuid.UUID
}

// Poller tails the forms and sessions tables by (updated_at, id) checkpoint
// and exposes each table as a Stream. Every row ordered past the checkpoint
// is delivered, so an updated row is re-delivered as a fresh event, which
// is exactly the at-least-once contract Stream promises.
//
// The checkpoint is held in memory only. A restarted poller replays from
// the configured start time; consumers absorb replays through upserts.
type Poller struct {
	queries   PollerQuerier
	interval  time.Duration
	batchSize int32
	logger    *slog.Logger
}

// NewPoller creates a Poller reading through querier every interval.
// logger may be nil.
func NewPoller(queries PollerQuerier, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		queries:   queries,
		interval:  interval,
		batchSize: defaultBatchSize,
		logger:    logger,
	}
}

// Forms returns a stream of form records, starting from rows updated after
// since.
func (p *Poller) Forms(since time.Time) Stream[FormRecord] {
	return &formStream{poller: p, since: since}
}

// Sessions returns a stream of session records, starting from rows updated
// after since.
func (p *Poller) Sessions(since time.Time) Stream[SessionRecord] {
	return &sessionStream{poller: p, since: since}
}

type formStream struct {
	poller *Poller
	since  time.Time
}

func (s *formStream) Subscribe(ctx context.Context, fn func(context.Context, FormRecord) error) error {
	p := s.poller
	return p.loop(ctx, s.since, func(ctx context.Context, cp checkpoint) (checkpoint, int, error) {
		rows, err := p.queries.ListFormsUpdatedAfter(ctx, sqlc.ListFormsUpdatedAfterParams{
			AfterTime:   pgtype.Timestamptz{Time: cp.time, Valid: true},
			AfterID:     pgtype.UUID{Bytes: cp.id, Valid: true},
			ResultLimit: p.batchSize,
		})
		if err != nil {
			return cp, 0, fmt.Errorf("listing forms after %s: %w", cp.time, err)
		}
		for _, row := range rows {
			_ = fn(ctx, FormFromRow(row)) // per-record errors are the consumer's concern
			cp = checkpoint{time: row.UpdatedAt.Time, id: uuid.UUID(row.ID.Bytes)}
		}
		return cp, len(rows), nil
	})
}

type sessionStream struct {
	poller *Poller
	since  time.Time
}

func (s *sessionStream) Subscribe(ctx context.Context, fn func(context.Context, SessionRecord) error) error {
	p := s.poller
	return p.loop(ctx, s.since, func(ctx context.Context, cp checkpoint) (checkpoint, int, error) {
		rows, err := p.queries.ListSessionsUpdatedAfter(ctx, sqlc.ListSessionsUpdatedAfterParams{
			AfterTime:   pgtype.Timestamptz{Time: cp.time, Valid: true},
			AfterID:     pgtype.UUID{Bytes: cp.id, Valid: true},
			ResultLimit: p.batchSize,
		})
		if err != nil {
			return cp, 0, fmt.Errorf("listing sessions after %s: %w", cp.time, err)
		}
		for _, row := range rows {
			_ = fn(ctx, SessionFromRow(row))
			cp = checkpoint{time: row.UpdatedAt.Time, id: uuid.UUID(row.ID.Bytes)}
		}
		return cp, len(rows), nil
	})
}

// loop drives one table's poll cycle. poll fetches a batch from the current
// checkpoint and returns the advanced checkpoint plus how many rows it saw;
// a full batch triggers an immediate follow-up fetch to drain backlog, an
// error is logged and retried on the next tick.
func (p *Poller) loop(ctx context.Context, since time.Time, poll func(context.Context, checkpoint) (checkpoint, int, error)) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	cp := checkpoint{time: since}
	for {
		for {
			next, n, err := poll(ctx, cp)
			if err != nil {
				p.logger.Error("poll failed", "error", err)
				break
			}
			cp = next
			if n < int(p.batchSize) {
				break
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// FormFromRow converts a database row into a FormRecord.
func FormFromRow(row sqlc.Form) FormRecord {
	return FormRecord{
		ID:        uuid.UUID(row.ID.Bytes),
		PatientID: uuid.UUID(row.PatientID.Bytes),
		DoctorID:  uuid.UUID(row.DoctorID.Bytes),
		Questions: row.Questions,
		Answers:   row.Answers,
		CreatedAt: row.CreatedAt.Time,
	}
}

// SessionFromRow converts a database row into a SessionRecord, decoding the
// medications payload along the way.
func SessionFromRow(row sqlc.Session) SessionRecord {
	rec := SessionRecord{
		ID:          uuid.UUID(row.ID.Bytes),
		PatientID:   uuid.UUID(row.PatientID.Bytes),
		DoctorID:    uuid.UUID(row.DoctorID.Bytes),
		Medications: DecodeMedications(row.Medications),
		CreatedAt:   row.CreatedAt.Time,
	}
	if row.Transcript != nil {
		rec.Transcript = *row.Transcript
	}
	if row.Summary != nil {
		rec.Summary = *row.Summary
	}
	return rec
}
