// Package web carries the JSON contract shared by all HTTP handlers:
// the {message, data} success envelope, the error envelope with its public
// error codes, and strict request decoding.
package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ErrorCode is a machine-readable failure code surfaced to clients. Clients
// use it to decide between silent retry, token refresh, and forced re-login.
type ErrorCode string

const (
	CodeAccessTokenMissing  ErrorCode = "ACCESS_TOKEN_MISSING"
	CodeAccessTokenExpired  ErrorCode = "ACCESS_TOKEN_EXPIRED"
	CodeAccessTokenInvalid  ErrorCode = "ACCESS_TOKEN_INVALID"
	CodeRefreshTokenMissing ErrorCode = "REFRESH_TOKEN_MISSING"
	CodeRefreshTokenExpired ErrorCode = "REFRESH_TOKEN_EXPIRED"
	CodeRefreshTokenInvalid ErrorCode = "REFRESH_TOKEN_INVALID"
	CodeRefreshTokenRevoked ErrorCode = "REFRESH_TOKEN_REVOKED"
	CodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	CodeInvalidCursor       ErrorCode = "INVALID_CURSOR"
	CodeServiceUnavailable  ErrorCode = "SERVICE_UNAVAILABLE"
)

type successEnvelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type errorEnvelope struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Code      ErrorCode `json:"code,omitempty"`
	RawErrors []string  `json:"rawErrors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Data writes a success envelope.
func Data(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, successEnvelope{Message: message, Data: data})
}

// Error writes an error envelope without a code.
func Error(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Message: message})
}

// ErrorCoded writes an error envelope with a public error code.
func ErrorCoded(w http.ResponseWriter, status int, message string, code ErrorCode) {
	writeJSON(w, status, errorEnvelope{Message: message, Code: code})
}

// ErrorDetails writes a validation error with per-field detail strings.
func ErrorDetails(w http.ResponseWriter, status int, message string, rawErrors []string) {
	writeJSON(w, status, errorEnvelope{Message: message, RawErrors: rawErrors})
}

// Unavailable reports a dependency outage. Deliberately distinct from the
// 401 family so clients do not force a re-login over a transient failure.
func Unavailable(w http.ResponseWriter) {
	ErrorCoded(w, http.StatusServiceUnavailable, "Service temporarily unavailable", CodeServiceUnavailable)
}

// Decode reads a single JSON value into dst, rejecting unknown fields,
// oversized bodies, and trailing data.
func Decode(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer func() { _ = r.Body.Close() }()

	body := http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after JSON object")
	}
	return nil
}
