package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/northstarhq/northstar/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// StatusFor maps the shared error taxonomy to HTTP status codes. Forbidden
// and NotFound both render as 404 so responses never reveal whether an
// entity exists under another tenant.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, serrors.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, serrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, serrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, serrors.ErrForbidden), errors.Is(err, serrors.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteTaxonomyError renders err through StatusFor. Forbidden is rewritten to
// the NotFound envelope, keeping both outcomes byte-identical on the wire.
func WriteTaxonomyError(w http.ResponseWriter, err error) error {
	status := StatusFor(err)

	var base *serrors.Base
	if !errors.As(err, &base) {
		return WriteError(w, status, "INTERNAL", "internal server error", nil)
	}
	code, message := base.Code, base.Message
	if errors.Is(err, serrors.ErrForbidden) {
		code, message = serrors.ErrNotFound.Code, serrors.ErrNotFound.Message
	}
	return WriteError(w, status, code, message, nil)
}
