// Package response implements the {success, data, popup, error} envelope
// every Task API route returns.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the standard response shape: exactly one of Data/Error is set
// on a given response. Popup is a UI toast hint (e.g. "TASK_CREATED"); most
// routes outside the task surface leave it nil.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Popup   *string     `json:"popup,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody carries the taxonomy code and a human-readable message.
type ErrorBody struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError describes a single invalid-field detail for VALIDATION errors.
type FieldError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("response: failed to encode envelope", "error", err)
	}
}

// OK sends a 200 with data and an optional popup hint.
func OK(w http.ResponseWriter, data interface{}, popup *string) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data, Popup: popup})
}

// Created sends a 201 with data and an optional popup hint.
func Created(w http.ResponseWriter, data interface{}, popup *string) {
	write(w, http.StatusCreated, Envelope{Success: true, Data: data, Popup: popup})
}

// NoContent sends a 204 with no body. No route calls it; DELETE routes
// answer through OK with a popup.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Popup is a convenience constructor for the envelope's popup field.
func Popup(code string) *string { return &code }

// Fail writes a {success:false, error} envelope for the given taxonomy code,
// message and HTTP status.
func Fail(w http.ResponseWriter, status int, code, message string) {
	write(w, status, Envelope{Success: false, Error: &ErrorBody{Code: code, Message: message}})
}

// FailValidation writes a VALIDATION error with field-level detail.
func FailValidation(w http.ResponseWriter, field, issue string) {
	write(w, http.StatusBadRequest, Envelope{Success: false, Error: &ErrorBody{
		Code:    "VALIDATION",
		Message: "validation failed",
		Details: []FieldError{{Field: field, Issue: issue}},
	}})
}
