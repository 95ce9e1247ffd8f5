package report

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized means the backend answered 401; the session token has been dropped.
	ErrUnauthorized    = errors.New("session is not authorized")
	ErrReportNotFound  = errors.New("report not found")
	ErrAlreadyResolved = errors.New("report is already resolved")
	ErrResolveInFlight = errors.New("report is already being resolved")
	// ErrMissingReportID means a create call succeeded without echoing the new report's id.
	ErrMissingReportID = errors.New("backend did not return the created report")
)

const genericSubmitMessage = "Failed to submit report. Please try again."

// ValidationError is raised before any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NetworkError covers timeouts and connectivity failures. The same call may be retried.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ConflictError is a backend rejection because the state already changed (HTTP 409).
type ConflictError struct {
	Op      string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: conflict: %s", e.Op, e.Message)
}

// APIError is any other non-2xx answer from the backend.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: backend returned status %d: %s", e.Op, e.StatusCode, e.Message)
}

// SubmissionFailedError wraps any backend failure of POST /api/reports.
type SubmissionFailedError struct {
	Message string
	Err     error
}

func (e *SubmissionFailedError) Error() string {
	return "submission failed: " + e.Message
}

func (e *SubmissionFailedError) Unwrap() error { return e.Err }

// NewSubmissionFailed keeps the backend's own message when it sent one.
func NewSubmissionFailed(err error) *SubmissionFailedError {
	msg := genericSubmitMessage
	var apiErr *APIError
	var conflict *ConflictError
	switch {
	case errors.As(err, &apiErr) && apiErr.Message != "":
		msg = apiErr.Message
	case errors.As(err, &conflict) && conflict.Message != "":
		msg = conflict.Message
	}
	return &SubmissionFailedError{Message: msg, Err: err}
}

// PartialResolutionError means the report is resolved on the backend but its admin
// update could not be recorded. The update has been queued for reconciliation.
type PartialResolutionError struct {
	ReportID string
	Attempts int
	Err      error
}

func (e *PartialResolutionError) Error() string {
	return fmt.Sprintf("report %s resolved but admin update not recorded after %d attempts: %v", e.ReportID, e.Attempts, e.Err)
}

func (e *PartialResolutionError) Unwrap() error { return e.Err }

// IsRetryable reports whether repeating the same call can succeed.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrUnauthorized) {
		return false
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError || apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// UserMessage turns an error into the text shown to the person who triggered it.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		validationErr *ValidationError
		submitErr     *SubmissionFailedError
		partialErr    *PartialResolutionError
		conflictErr   *ConflictError
		netErr        *NetworkError
	)
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please log in again."
	case errors.As(err, &submitErr):
		return submitErr.Message
	case errors.As(err, &partialErr):
		return fmt.Sprintf("Report %s was resolved, but the reporter has not been notified yet. It will be retried automatically.", partialErr.ReportID)
	case errors.As(err, &conflictErr):
		return "This item was already changed by someone else. The list has been refreshed."
	case errors.As(err, &netErr):
		return "Could not reach the server. Please try again."
	case errors.Is(err, ErrAlreadyResolved):
		return "This report is already resolved."
	case errors.Is(err, ErrResolveInFlight):
		return "This report is already being resolved."
	case errors.Is(err, ErrReportNotFound):
		return "This report no longer exists."
	default:
		return "Something went wrong. Please try again."
	}
}
