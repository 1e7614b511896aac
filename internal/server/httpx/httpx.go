// Package httpx holds the small request/response helpers shared by all HTTP
// handlers, including the wire error shape.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error codes on the wire.
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeWrongCredentials  = "WRONG_USERNAME_OR_PASSWORD"
	CodeNameTaken         = "NAME_ALREADY_TAKEN"
	CodeAddresseeNotFound = "ADDRESSEE_NOT_FOUND"
	CodeInternal          = "INTERNAL_ERROR"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

// DecodeJSON decodes the request body into dest, rejecting unknown fields.
func DecodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return errors.New("request body required")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

// RespondJSON writes payload as JSON with the given status. A nil payload
// writes only the status.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError writes the wire error shape {"error": {"code", "message"}}.
func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, errorEnvelope{Error: apiError{Code: code, Message: message}})
}

// Unauthorized writes an empty 401. Endpoints that require authentication
// reply with no body, matching the session-expiry contract clients handle.
func Unauthorized(w http.ResponseWriter) {
	w.WriteHeader(http.StatusUnauthorized)
}

// Internal writes a 500 with the generic internal error code. Details stay in
// the server log, never on the wire.
func Internal(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, CodeInternal, "internal server error")
}
