package testmgmt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/campusapti/aptitude-platform/internal/aptitude"
	httperrors "github.com/campusapti/aptitude-platform/pkg/http/errors"
)

// HTTPHandler exposes the admin-facing authoring endpoints.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler constructs the authoring HTTP handler.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "testmgmt_http").Logger(),
	}
}

// Create handles POST /v1/aptitudes.
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in TestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "name, test_timestamp and duration are required")
		return
	}

	test, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.logger.Error().Err(err).Msg("test creation failed")
		httperrors.RespondInternalError(w, "failed to create aptitude test")
		return
	}
	writeJSON(w, http.StatusCreated, test)
}

// Update handles PUT /v1/aptitudes/{id}.
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in TestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "invalid request body")
		return
	}

	test, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, test)
}

// Delete handles DELETE /v1/aptitudes/{id}.
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// List handles GET /v1/aptitudes.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.svc.List)
}

// Upcoming handles GET /v1/aptitudes/upcoming.
func (h *HTTPHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.svc.Upcoming)
}

// Past handles GET /v1/aptitudes/past.
func (h *HTTPHandler) Past(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.svc.Past)
}

// Detail handles GET /v1/aptitudes/{id}/detail.
func (h *HTTPHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	test, questions, err := h.svc.Detail(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"aptitude":  test,
		"questions": questions,
	})
}

type linkRequest struct {
	QuestionIDs []int64 `json:"questionIds"`
}

// AddQuestions handles PUT /v1/aptitudes/{id}/questions.
func (h *HTTPHandler) AddQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.QuestionIDs) == 0 {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "questionIds are required")
		return
	}

	if err := h.svc.AddQuestions(r.Context(), id, req.QuestionIDs); err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "linked"})
}

type unlinkRequest struct {
	AptitudeID int64 `json:"aptitudeId"`
	QuestionID int64 `json:"questionId"`
}

// RemoveQuestion handles POST /v1/aptitudes/questions/delete.
func (h *HTTPHandler) RemoveQuestion(w http.ResponseWriter, r *http.Request) {
	var req unlinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AptitudeID == 0 || req.QuestionID == 0 {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "aptitudeId and questionId are required")
		return
	}

	if err := h.svc.RemoveQuestion(r.Context(), req.AptitudeID, req.QuestionID); err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unlinked"})
}

func (h *HTTPHandler) respondList(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]aptitude.Test, error)) {
	tests, err := list(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("test listing failed")
		httperrors.RespondInternalError(w, "failed to list aptitude tests")
		return
	}
	writeJSON(w, http.StatusOK, tests)
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, aptitude.ErrTestNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeTestNotFound, "Aptitude test not found")
	case errors.Is(err, ErrQuestionAlreadyLinked):
		httperrors.RespondConflict(w, httperrors.ErrCodeQuestionAlreadyLinked, "Question already exists in aptitude test")
	default:
		h.logger.Error().Err(err).Msg("unexpected authoring error")
		httperrors.RespondInternalError(w, "internal error")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httperrors.RespondNotFound(w, httperrors.ErrCodeTestNotFound, "Aptitude test not found")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
