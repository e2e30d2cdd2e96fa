package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultPruneAge = 30 * 24 * time.Hour

type handlers struct {
	engine Engine
	logger *zap.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

type pruneRequest struct {
	// MaxAgeHours bounds which sessions survive; anything whose last login is
	// older gets deleted. Zero means the 30-day default.
	MaxAgeHours int `json:"max_age_hours"`
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) scrape(w http.ResponseWriter, r *http.Request) {
	var req schemas.ScrapeRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Platform == "" || req.TargetUser == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "platform, target_user, email and password are required")
		return
	}

	result, err := h.engine.ScrapeWithCredentials(r.Context(), req)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) testCredentials(w http.ResponseWriter, r *http.Request) {
	var req schemas.CredentialRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Platform == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "platform, email and password are required")
		return
	}

	check, err := h.engine.TestCredentials(r.Context(), req)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

func (h *handlers) listSessions(w http.ResponseWriter, r *http.Request) {
	records, err := h.engine.ListSessions()
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.engine.DeleteSession(id); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (h *handlers) pruneSessions(w http.ResponseWriter, r *http.Request) {
	// An empty body means "use the default age".
	var req pruneRequest
	if err := jsonAPI.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	age := defaultPruneAge
	if req.MaxAgeHours > 0 {
		age = time.Duration(req.MaxAgeHours) * time.Hour
	}

	report, err := h.engine.PruneSessions(age)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses.
func (h *handlers) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed.",
			zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		h.logger.Info("Request rejected.",
			zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	var unsupported *schemas.UnsupportedPlatformError
	var busy *schemas.SessionBusyError
	var navTimeout *schemas.NavigationTimeoutError
	switch {
	case errors.As(err, &unsupported):
		return http.StatusUnprocessableEntity
	case errors.As(err, &busy):
		return http.StatusLocked
	case errors.As(err, &navTimeout):
		return http.StatusGatewayTimeout
	case isAuthError(err):
		return http.StatusUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func isAuthError(err error) bool {
	var formErr *schemas.LoginFormNotFoundError
	var twoFactor *schemas.TwoFactorRequiredError
	var twoFactorTimeout *schemas.TwoFactorTimeoutError
	var verify *schemas.VerificationRequiredError
	var login *schemas.LoginFailedError
	return errors.As(err, &formErr) ||
		errors.As(err, &twoFactor) ||
		errors.As(err, &twoFactorTimeout) ||
		errors.As(err, &verify) ||
		errors.As(err, &login)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := jsonAPI.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonAPI.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
