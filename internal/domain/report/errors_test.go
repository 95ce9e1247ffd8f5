package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"network", &NetworkError{Op: "x", Err: errors.New("timeout")}, true},
		{"wrapped network", fmt.Errorf("outer: %w", &NetworkError{Op: "x", Err: errors.New("reset")}), true},
		{"canceled network", &NetworkError{Op: "x", Err: context.Canceled}, false},
		{"server error", &APIError{Op: "x", StatusCode: 503}, true},
		{"too many requests", &APIError{Op: "x", StatusCode: 429}, true},
		{"bad request", &APIError{Op: "x", StatusCode: 400}, false},
		{"conflict", &ConflictError{Op: "x"}, false},
		{"unauthorized", fmt.Errorf("x: %w", ErrUnauthorized), false},
		{"validation", &ValidationError{Message: "no"}, false},
	}
	for _, tt := range tests {
		if got := IsRetryable(tt.err); got != tt.want {
			t.Errorf("%s: IsRetryable() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewSubmissionFailed(t *testing.T) {
	withMessage := NewSubmissionFailed(&APIError{Op: "create", StatusCode: 400, Message: "Location is invalid"})
	if withMessage.Message != "Location is invalid" {
		t.Errorf("Message = %q, want backend message", withMessage.Message)
	}

	generic := NewSubmissionFailed(&NetworkError{Op: "create", Err: errors.New("dial tcp")})
	if generic.Message != genericSubmitMessage {
		t.Errorf("Message = %q, want generic message", generic.Message)
	}
	var netErr *NetworkError
	if !errors.As(generic, &netErr) {
		t.Error("SubmissionFailedError should unwrap to the cause")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(nil); got != "" {
		t.Errorf("UserMessage(nil) = %q", got)
	}
	partial := &PartialResolutionError{ReportID: "r9", Attempts: 3, Err: &NetworkError{Op: "x", Err: errors.New("down")}}
	if got := UserMessage(partial); !strings.Contains(got, "r9") || !strings.Contains(got, "not been notified") {
		t.Errorf("UserMessage(partial) = %q", got)
	}
	if got := UserMessage(fmt.Errorf("list: %w", ErrUnauthorized)); !strings.Contains(got, "log in") {
		t.Errorf("UserMessage(unauthorized) = %q", got)
	}
	if got := UserMessage(fmt.Errorf("resolve: %w", ErrAlreadyResolved)); got != "This report is already resolved." {
		t.Errorf("UserMessage(already resolved) = %q", got)
	}
}
