package aptitude

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/campusapti/aptitude-platform/internal/auth"
	httperrors "github.com/campusapti/aptitude-platform/pkg/http/errors"
)

// HTTPHandler binds the aptitude service to its REST surface.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler constructs the aptitude HTTP handler.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "aptitude_http").Logger(),
	}
}

type appearRequest struct {
	Regno string `json:"regno"`
	Trade string `json:"trade"`
}

// Appear handles POST /v1/aptitudes/{id}/appear.
func (h *HTTPHandler) Appear(w http.ResponseWriter, r *http.Request) {
	testID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req appearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Trade == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "regno and trade are required")
		return
	}

	result, err := h.svc.Appear(r.Context(), testID, req.Trade)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type submitRequest struct {
	Regno   string   `json:"regno"`
	Trade   string   `json:"trade"`
	Answers []Answer `json:"answers"`
}

// Submit handles POST /v1/aptitudes/{id}/submit.
func (h *HTTPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	testID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Regno == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "regno and answers are required")
		return
	}

	sub, err := h.svc.Submit(r.Context(), testID, req.Regno, req.Answers)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// Responses handles GET /v1/aptitudes/{id}/responses?page=&items=.
func (h *HTTPHandler) Responses(w http.ResponseWriter, r *http.Request) {
	testID, ok := pathID(w, r)
	if !ok {
		return
	}

	page := queryInt(r, "page", 1)
	items := queryInt(r, "items", 20)

	pageResult, err := h.svc.Responses(r.Context(), testID, page, items)
	if err != nil {
		h.logger.Error().Err(err).Int64("test_id", testID).Msg("responses fetch failed")
		httperrors.RespondInternalError(w, "failed to fetch responses")
		return
	}
	writeJSON(w, http.StatusOK, pageResult)
}

// Toppers handles GET /v1/aptitudes/{id}/toppers.
func (h *HTTPHandler) Toppers(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")
	testID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || testID <= 0 {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Bad request")
		return
	}

	toppers, err := h.svc.Toppers(r.Context(), testID)
	if err != nil {
		h.logger.Error().Err(err).Int64("test_id", testID).Msg("toppers fetch failed")
		httperrors.RespondInternalError(w, "failed to fetch toppers")
		return
	}
	writeJSON(w, http.StatusOK, toppers)
}

// MyResponse handles GET /v1/aptitudes/{id}/responses/me[?regno=].
// The regno override is admin-only; participants can only read their own.
func (h *HTTPHandler) MyResponse(w http.ResponseWriter, r *http.Request) {
	testID, ok := pathID(w, r)
	if !ok {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	regno := r.URL.Query().Get("regno")
	if regno != "" && regno != claims.Regno && claims.Role != auth.RoleAdmin {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeForbidden, "Cannot read another participant's response")
		return
	}
	if regno == "" {
		regno = claims.Regno
	}

	result, err := h.svc.ParticipantResult(r.Context(), testID, regno)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// respondError maps domain errors to the HTTP taxonomy. Window and guard
// violations are expected outcomes with specific reasons; anything else is an
// internal fault.
func (h *HTTPHandler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTestNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeTestNotFound, "Aptitude test not found")
	case errors.Is(err, ErrNotStarted):
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeNotStarted, "Aptitude test has not started yet")
	case errors.Is(err, ErrEnded):
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeEnded, "Aptitude test has ended")
	case errors.Is(err, ErrParticipantUnknown):
		httperrors.RespondNotFound(w, httperrors.ErrCodeParticipantUnknown, "Participant has not registered")
	case errors.Is(err, ErrParticipantBlocked):
		httperrors.RespondForbidden(w, httperrors.ErrCodeParticipantBlocked, "Participant is blocked, contact admin")
	case errors.Is(err, ErrAlreadySubmitted):
		httperrors.RespondConflict(w, httperrors.ErrCodeAlreadySubmitted, "You have already appeared for the test")
	case errors.Is(err, ErrNoSubmission):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNoSubmission, "You didn't appear for this test")
	default:
		h.logger.Error().Err(err).Msg("unexpected service error")
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

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
