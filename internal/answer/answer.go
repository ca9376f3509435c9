// Package answer produces grounded answers to a patient's question about a
// past clinical encounter.
package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/google/uuid"

	"github.com/aftervisit/aftervisit/internal/record"
	"github.com/aftervisit/aftervisit/internal/render"
)

// ErrUpstream indicates the language model call failed. Checked with
// errors.Is(); the wrapped error carries the provider detail.
var ErrUpstream = errors.New("model upstream failure")

// systemPrompt constrains the model to the provided context. Serious or
// unclear matters are escalated to a human, never improvised.
const systemPrompt = "You are a helpful, empathetic healthcare assistant.\n" +
	"You are answering questions about a past medical session based ONLY on the provided context.\n" +
	"Do NOT invent diagnoses or treatments.\n" +
	"If something is unclear or serious, tell the patient to contact their doctor or emergency services.\n"

// Resolver locates the session a question refers to. *clinic.Store is the
// production implementation.
type Resolver interface {
	Resolve(ctx context.Context, patientID uuid.UUID, sessionID *uuid.UUID) (*record.SessionRecord, error)
}

// Result is one answered question together with the session it was grounded
// on and which context sections carried real data.
type Result struct {
	Answer    string
	SessionID uuid.UUID
	Flags     render.ContextFlags
}

// Service answers patient questions through a Genkit model.
// It is safe for concurrent use by multiple goroutines.
type Service struct {
	genkit    *genkit.Genkit
	modelName string
	resolver  Resolver
	logger    *slog.Logger
}

// New creates a Service. logger may be nil.
func New(g *genkit.Genkit, modelName string, resolver Resolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		genkit:    g,
		modelName: modelName,
		resolver:  resolver,
		logger:    logger,
	}
}

// Answer resolves the session, renders its context document and asks the
// model. Resolution errors (including clinic.ErrNotFound) pass through
// unchanged so callers can map them; model failures come back wrapped in
// ErrUpstream.
func (s *Service) Answer(ctx context.Context, patientID uuid.UUID, sessionID *uuid.UUID, question string) (*Result, error) {
	sess, err := s.resolver.Resolve(ctx, patientID, sessionID)
	if err != nil {
		return nil, err
	}

	contextDoc := render.SessionContext(sess.Transcript, sess.Summary, sess.Medications)
	userPrompt := "Patient question: " + question +
		"\n\nHere is the context from their last session:\n\n" + contextDoc

	resp, err := genkit.Generate(ctx, s.genkit,
		ai.WithModelName(s.modelName),
		ai.WithSystem(systemPrompt),
		ai.WithMessages(ai.NewUserMessage(ai.NewTextPart(userPrompt))),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	answer := strings.TrimSpace(resp.Text())
	s.logger.Debug("answered question",
		"patient_id", patientID,
		"session_id", sess.ID,
		"answer_length", len(answer))

	return &Result{
		Answer:    answer,
		SessionID: sess.ID,
		Flags:     render.Flags(sess),
	}, nil
}
