package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/aftervisit/aftervisit/internal/answer"
	"github.com/aftervisit/aftervisit/internal/clinic"
	"github.com/aftervisit/aftervisit/internal/render"
	"github.com/aftervisit/aftervisit/internal/security"
)

// maxQuestionLength caps the question query parameter to keep prompts
// bounded.
const maxQuestionLength = 2000

// Answerer produces a grounded answer for one patient question.
// *answer.Service is the production implementation.
type Answerer interface {
	Answer(ctx context.Context, patientID uuid.UUID, sessionID *uuid.UUID, question string) (*answer.Result, error)
}

// chatHandler serves GET /api/v1/chat.
type chatHandler struct {
	answerer  Answerer
	validator *security.PromptValidator
	logger    *slog.Logger
}

// chatResponse is the JSON body returned for an answered question.
type chatResponse struct {
	PatientID    string              `json:"patient_id"`
	Question     string              `json:"question"`
	Answer       string              `json:"answer"`
	SessionID    string              `json:"session_id"`
	ContextFlags render.ContextFlags `json:"context_flags"`
}

// handle answers a patient's question about a past session.
//
// Query parameters:
//   - patient_id: required, UUID
//   - question: required, non-blank
//   - session_id: optional, UUID; omitted means "the patient's latest session"
func (h *chatHandler) handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	patientID, err := uuid.Parse(q.Get("patient_id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID", h.logger)
		return
	}

	question := strings.TrimSpace(q.Get("question"))
	if question == "" {
		WriteError(w, http.StatusBadRequest, "missing_question", "question parameter is required", h.logger)
		return
	}
	if len(question) > maxQuestionLength {
		WriteError(w, http.StatusBadRequest, "question_too_long", "question must be 2000 characters or fewer", h.logger)
		return
	}

	if result := h.validator.Validate(question); !result.Safe {
		h.logger.Warn("rejected question with injection patterns",
			"patient_id", q.Get("patient_id"),
			"patterns", result.Patterns)
		WriteError(w, http.StatusBadRequest, "invalid_question", "question contains disallowed content", h.logger)
		return
	}

	var sessionID *uuid.UUID
	if raw := q.Get("session_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid_session_id", "session_id must be a valid UUID", h.logger)
			return
		}
		sessionID = &id
	}

	result, err := h.answerer.Answer(r.Context(), patientID, sessionID, question)
	if err != nil {
		switch {
		case errors.Is(err, clinic.ErrNotFound):
			WriteError(w, http.StatusNotFound, "not_found", "no session found for this patient", h.logger)
		case errors.Is(err, answer.ErrUpstream):
			h.logger.Error("answer generation failed", "error", err, "patient_id", patientID)
			WriteError(w, http.StatusInternalServerError, "upstream_error", "failed to generate answer", h.logger)
		default:
			h.logger.Error("session resolution failed", "error", err, "patient_id", patientID)
			WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error", h.logger)
		}
		return
	}

	WriteJSON(w, http.StatusOK, chatResponse{
		PatientID:    patientID.String(),
		Question:     question,
		Answer:       result.Answer,
		SessionID:    result.SessionID.String(),
		ContextFlags: result.Flags,
	})
}
