//go:build integration

// Package answer_test provides a Postgres-backed end-to-end test of the
// question-answering path: session rows in, grounded answer out.
package answer_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/aftervisit/aftervisit/internal/answer"
	"github.com/aftervisit/aftervisit/internal/clinic"
	"github.com/aftervisit/aftervisit/internal/sqlc"
	"github.com/aftervisit/aftervisit/internal/testutil"
)

func TestAnswer_EndToEnd(t *testing.T) {
	t.Parallel()

	tdb, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	queries := sqlc.New(tdb.Pool)
	ctx := context.Background()
	patientID := uuid.New()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	olderSummary := "Initial consultation."
	if _, err := queries.InsertSession(ctx, sqlc.InsertSessionParams{
		ID:        pgtype.UUID{Bytes: uuid.New(), Valid: true},
		PatientID: pgtype.UUID{Bytes: patientID, Valid: true},
		DoctorID:  pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Summary:   &olderSummary,
		CreatedAt: pgtype.Timestamptz{Time: base, Valid: true},
	}); err != nil {
		t.Fatalf("InsertSession() older session unexpected error: %v", err)
	}

	latestID := uuid.New()
	latestSummary := "Blood pressure well controlled."
	if _, err := queries.InsertSession(ctx, sqlc.InsertSessionParams{
		ID:          pgtype.UUID{Bytes: latestID, Valid: true},
		PatientID:   pgtype.UUID{Bytes: patientID, Valid: true},
		DoctorID:    pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Summary:     &latestSummary,
		Medications: []byte(`[{"name":"Lisinopril","reason":"blood pressure"}]`),
		CreatedAt:   pgtype.Timestamptz{Time: base.Add(24 * time.Hour), Valid: true},
	}); err != nil {
		t.Fatalf("InsertSession() latest session unexpected error: %v", err)
	}

	g := genkit.Init(ctx)
	llm := testutil.NewMockLLM("I don't have enough information to answer that.")
	llm.RegisterModel(g)
	llm.AddResponse("medication", "You were prescribed Lisinopril for blood pressure.")

	resolver := clinic.New(queries, testutil.DiscardLogger())
	svc := answer.New(g, "mock/test-model", resolver, testutil.DiscardLogger())

	result, err := svc.Answer(ctx, patientID, nil, "What medications am I taking?")
	if err != nil {
		t.Fatalf("Answer() unexpected error: %v", err)
	}

	if result.SessionID != latestID {
		t.Errorf("SessionID = %s, want the latest session %s", result.SessionID, latestID)
	}
	if result.Answer != "You were prescribed Lisinopril for blood pressure." {
		t.Errorf("Answer = %q, want the mock response", result.Answer)
	}
	if !result.Flags.Summary {
		t.Error("Flags.Summary = false, want true (session has a summary)")
	}
	if result.Flags.Transcript {
		t.Error("Flags.Transcript = true, want false (no transcript stored)")
	}
	if !result.Flags.Medications {
		t.Error("Flags.Medications = false, want true (named medication stored)")
	}

	calls := llm.Calls()
	if len(calls) != 1 {
		t.Fatalf("model called %d times, want 1", len(calls))
	}
	if !strings.Contains(calls[0].UserMessage, "- Lisinopril: blood pressure") {
		t.Errorf("prompt missing the rendered medication line:\n%s", calls[0].UserMessage)
	}
	if !strings.Contains(calls[0].UserMessage, latestSummary) {
		t.Errorf("prompt missing the latest session summary:\n%s", calls[0].UserMessage)
	}
}
