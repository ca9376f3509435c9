package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/firebase/genkit/go/genkit"
	"github.com/google/uuid"

	"github.com/aftervisit/aftervisit/internal/clinic"
	"github.com/aftervisit/aftervisit/internal/record"
	"github.com/aftervisit/aftervisit/internal/render"
	"github.com/aftervisit/aftervisit/internal/testutil"
)

type mockResolver struct {
	session *record.SessionRecord
	err     error

	lastPatientID uuid.UUID
	lastSessionID *uuid.UUID
}

func (m *mockResolver) Resolve(_ context.Context, patientID uuid.UUID, sessionID *uuid.UUID) (*record.SessionRecord, error) {
	m.lastPatientID = patientID
	m.lastSessionID = sessionID
	return m.session, m.err
}

func newTestService(t *testing.T, resolver Resolver) (*Service, *testutil.MockLLM) {
	t.Helper()

	g := genkit.Init(context.Background())
	llm := testutil.NewMockLLM("I don't have enough information to answer that.")
	llm.RegisterModel(g)

	return New(g, "mock/test-model", resolver, testutil.DiscardLogger()), llm
}

func TestAnswer(t *testing.T) {
	sessionID := uuid.New()
	patientID := uuid.New()
	resolver := &mockResolver{
		session: &record.SessionRecord{
			ID:         sessionID,
			PatientID:  patientID,
			Transcript: "Doctor: your blood pressure is fine.",
			Summary:    "Blood pressure within normal range.",
			Medications: []record.Medication{
				{Name: "Lisinopril", Reason: "blood pressure"},
			},
		},
	}

	svc, llm := newTestService(t, resolver)
	llm.AddResponse("blood pressure", "Your blood pressure was within the normal range.")

	result, err := svc.Answer(context.Background(), patientID, nil, "What was my blood pressure?")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if result.Answer != "Your blood pressure was within the normal range." {
		t.Errorf("Answer = %q", result.Answer)
	}
	if result.SessionID != sessionID {
		t.Errorf("SessionID = %s, want %s", result.SessionID, sessionID)
	}
	want := render.ContextFlags{Summary: true, Transcript: true, Medications: true}
	if result.Flags != want {
		t.Errorf("Flags = %+v, want %+v", result.Flags, want)
	}

	calls := llm.Calls()
	if len(calls) != 1 {
		t.Fatalf("model called %d times, want 1", len(calls))
	}
	if !strings.Contains(calls[0].UserMessage, "Patient question: What was my blood pressure?") {
		t.Errorf("user message missing the question:\n%s", calls[0].UserMessage)
	}
	if !strings.Contains(calls[0].UserMessage, "=== Session Summary ===") {
		t.Errorf("user message missing the context document:\n%s", calls[0].UserMessage)
	}
	if !strings.Contains(calls[0].UserMessage, "- Lisinopril: blood pressure") {
		t.Errorf("user message missing medications:\n%s", calls[0].UserMessage)
	}
	if !strings.Contains(calls[0].System, "empathetic healthcare assistant") {
		t.Errorf("system prompt missing:\n%s", calls[0].System)
	}
	if !strings.Contains(calls[0].System, "based ONLY on the provided context") {
		t.Errorf("system prompt missing grounding constraint:\n%s", calls[0].System)
	}
}

func TestAnswer_PlaceholdersForAbsentSections(t *testing.T) {
	resolver := &mockResolver{
		session: &record.SessionRecord{
			ID:        uuid.New(),
			PatientID: uuid.New(),
		},
	}

	svc, llm := newTestService(t, resolver)

	result, err := svc.Answer(context.Background(), resolver.session.PatientID, nil, "How did it go?")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if result.Flags != (render.ContextFlags{}) {
		t.Errorf("Flags = %+v, want all false", result.Flags)
	}

	calls := llm.Calls()
	if len(calls) != 1 {
		t.Fatalf("model called %d times, want 1", len(calls))
	}
	for _, placeholder := range []string{render.NoSummary, render.NoTranscript, render.NoMedications} {
		if !strings.Contains(calls[0].UserMessage, placeholder) {
			t.Errorf("user message missing placeholder %q", placeholder)
		}
	}
}

func TestAnswer_ExplicitSessionIDForwarded(t *testing.T) {
	sessionID := uuid.New()
	resolver := &mockResolver{
		session: &record.SessionRecord{ID: sessionID, PatientID: uuid.New(), Summary: "ok"},
	}

	svc, _ := newTestService(t, resolver)

	_, err := svc.Answer(context.Background(), resolver.session.PatientID, &sessionID, "What happened?")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if resolver.lastSessionID == nil || *resolver.lastSessionID != sessionID {
		t.Errorf("resolver saw session id %v, want %s", resolver.lastSessionID, sessionID)
	}
}

func TestAnswer_ResolverErrorPassesThrough(t *testing.T) {
	resolver := &mockResolver{err: clinic.ErrNotFound}
	svc, llm := newTestService(t, resolver)

	_, err := svc.Answer(context.Background(), uuid.New(), nil, "What happened?")
	if !errors.Is(err, clinic.ErrNotFound) {
		t.Errorf("Answer() error = %v, want clinic.ErrNotFound unchanged", err)
	}
	if len(llm.Calls()) != 0 {
		t.Error("model must not be called when resolution fails")
	}
}

func TestAnswer_ModelFailureWrappedInErrUpstream(t *testing.T) {
	resolver := &mockResolver{
		session: &record.SessionRecord{ID: uuid.New(), PatientID: uuid.New(), Summary: "ok"},
	}

	// A model name nothing is registered under forces a generate failure.
	g := genkit.Init(context.Background())
	svc := New(g, "mock/no-such-model", resolver, testutil.DiscardLogger())

	_, err := svc.Answer(context.Background(), resolver.session.PatientID, nil, "What happened?")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("Answer() error = %v, want ErrUpstream", err)
	}
}
