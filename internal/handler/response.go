package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

var (
	errNotJSON = errors.New("Content-Type must be application/json")
	errBadBody = errors.New("request body must be a single valid JSON object")
)

// WriteJSON encodes data as the response body with the given status code.
// The Content-Type header must be set before the status line goes out, so it
// comes first.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data) // status already written, nothing left to report
}

// errorResponse is the envelope every error reply uses: a stable machine
// code plus a human-readable message.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes an errorResponse with the given status code.
func WriteError(w http.ResponseWriter, status int, errorCode, message string) {
	WriteJSON(w, status, errorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// ParseJSON decodes the request body into v. The Content-Type header must
// start with application/json (a charset suffix is fine), and the body must
// be well-formed JSON with no fields v doesn't declare.
func ParseJSON(r *http.Request, v any) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return errNotJSON
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errBadBody
	}
	return nil
}
