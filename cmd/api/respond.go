package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"jobboard/application"
	"jobboard/attachment"
	"jobboard/auth"
	"jobboard/lifecycle"
	"jobboard/notification"
	"jobboard/vacancy"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeServiceError maps domain errors to responses. Unrecognised errors are
// logged and reported without detail.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrForbidden),
		errors.Is(err, application.ErrForbidden),
		errors.Is(err, vacancy.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "operation not permitted")
	case errors.Is(err, application.ErrVacancyNotFound), errors.Is(err, vacancy.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "vacancy not found")
	case errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "application not found")
	case errors.Is(err, notification.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "notification not found")
	case errors.Is(err, application.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", "already applied to this vacancy")
	case errors.Is(err, application.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", "status must be one of Submitted, UnderReview, Interviewed, Accepted, Rejected")
	case errors.Is(err, vacancy.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "bad_request", "title and institution_name are required")
	case errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "bad_request", "password must be at least 8 characters")
	case errors.Is(err, auth.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "bad_request", "email and full_name are required")
	case errors.Is(err, auth.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "bad_request", "role must be professional or institution")
	case errors.Is(err, auth.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "conflict", "email already registered")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
	case errors.Is(err, attachment.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "attachment exceeds the size limit")
	case errors.Is(err, attachment.ErrUnsupportedType):
		writeError(w, http.StatusBadRequest, "bad_request", "attachment type not supported")
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
