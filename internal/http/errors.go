package http

import (
	"errors"
	"log/slog"
	"net/http"

	"robin/internal/validation"
)

// Error codes of the response body
const (
	CodeInvalidRequestData = "INVALID_REQUEST_DATA"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotSupported = "METHOD_NOT_SUPPORTED"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// Error writes an error response to the client. Validation failures and unknown
// teams, members or repositories are client errors whatever statusCode says.
func Error(w http.ResponseWriter, err error, statusCode int) {
	var validationErr *validation.ValidationErrors
	if errors.As(err, &validationErr) {
		JSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: validationErr.Errors,
			Code:    CodeInvalidRequestData,
		})
		return
	}

	var notFound *validation.NotFoundError
	if errors.As(err, &notFound) {
		JSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   notFound.Error(),
			Details: []validation.ValidationError{{Field: notFound.Field, Message: notFound.Error()}},
			Code:    CodeNotFound,
		})
		return
	}

	var dbErr *validation.DatabaseError
	if errors.As(err, &dbErr) {
		status := mapDatabaseErrorToHTTPStatus(dbErr)
		code := dbErr.Type
		if dbErr.Type == validation.ErrorTypeNotFound {
			code = CodeNotFound
		}
		JSON(w, status, ErrorResponse{
			Error:   dbErr.Message,
			Code:    code,
			Details: []validation.ValidationError{{Field: dbErr.Field, Message: dbErr.Message}},
		})
		return
	}

	if statusCode >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	JSON(w, statusCode, ErrorResponse{
		Error: err.Error(),
	})
}

// mapDatabaseErrorToHTTPStatus maps database error types to HTTP status codes
func mapDatabaseErrorToHTTPStatus(dbErr *validation.DatabaseError) int {
	if dbErr.Type == validation.ErrorTypeNotFound {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// MethodNotAllowed answers every method other than GET on a known route
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Error: "Does not support " + r.Method + " method",
		Code:  CodeMethodNotSupported,
	})
}
