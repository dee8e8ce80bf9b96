package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/deionjtulcidas/ServerlessContactForm/internal/response"
)

// Kind classifies a failed request.
type Kind string

const (
	ConfigurationError Kind = "ConfigurationError"
	ValidationError    Kind = "ValidationError"
	DownstreamError    Kind = "DownstreamError"
	MethodError        Kind = "MethodError"
)

// Error is a request failure that maps onto one HTTP response.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Response renders e as the JSON error body.
func (e *Error) Response() response.Response {
	return response.Error(e.Status, e.Message, e.Details)
}

func missingConfig(names []string) *Error {
	return &Error{
		Kind:    ConfigurationError,
		Status:  http.StatusInternalServerError,
		Message: "Missing env vars: " + strings.Join(names, ", "),
	}
}

func invalidBody(err error) *Error {
	return &Error{
		Kind:    ValidationError,
		Status:  http.StatusBadRequest,
		Message: "Invalid or missing JSON body",
		Err:     err,
	}
}

func missingField(name string) *Error {
	return &Error{
		Kind:    ValidationError,
		Status:  http.StatusBadRequest,
		Message: "Missing field: " + name,
	}
}

func downstream(step string, err error) *Error {
	return &Error{
		Kind:    DownstreamError,
		Status:  http.StatusInternalServerError,
		Message: "Internal error",
		Details: err.Error(),
		Err:     fmt.Errorf("%s: %w", step, err),
	}
}

func methodNotAllowed(method string) *Error {
	return &Error{
		Kind:    MethodError,
		Status:  http.StatusMethodNotAllowed,
		Message: "Method Not Allowed",
		Err:     fmt.Errorf("unsupported method %q", method),
	}
}
