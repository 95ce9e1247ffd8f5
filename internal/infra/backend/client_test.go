package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"facility_reports/internal/domain/report"
	"facility_reports/internal/domain/update"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) (*Client, *Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	session := NewSession(token)
	return NewClient(srv.URL, time.Second, session, testLogger()), session
}

func TestListReportsSendsBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	client, _ := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"_id":"r1","issueType":"Empty Dispenser","location":"L","status":"pending","timestamp":"2024-03-04T10:00:00Z"}]`)
	})

	reports, err := client.ListReports(context.Background())
	if err != nil {
		t.Fatalf("ListReports() = %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/api/reports" {
		t.Errorf("path = %q", gotPath)
	}
	if len(reports) != 1 || reports[0].ID != "r1" || reports[0].Status != report.StatusPending {
		t.Errorf("reports = %+v", reports)
	}
}

func TestAnonymousRequestHasNoAuthorization(t *testing.T) {
	client, _ := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("Authorization = %q, want none", auth)
		}
		_, _ = io.WriteString(w, `[]`)
	})
	if _, err := client.ListReports(context.Background()); err != nil {
		t.Fatalf("ListReports() = %v", err)
	}
	if _, err := client.ListMyReports(context.Background()); !errors.Is(err, report.ErrUnauthorized) {
		t.Errorf("ListMyReports() = %v, want ErrUnauthorized", err)
	}
}

func TestUnauthorizedClearsToken(t *testing.T) {
	client, session := newTestClient(t, "stale", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.ListMyReports(context.Background())
	if !errors.Is(err, report.ErrUnauthorized) {
		t.Fatalf("ListMyReports() = %v, want ErrUnauthorized", err)
	}
	if session.Token() != "" || client.Authenticated() {
		t.Error("token should be cleared after 401")
	}
}

func TestConflictAndErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "conflict",
			status: http.StatusConflict,
			body:   `{"message":"Report already resolved"}`,
			check: func(t *testing.T, err error) {
				var conflict *report.ConflictError
				if !errors.As(err, &conflict) || conflict.Message != "Report already resolved" {
					t.Errorf("err = %v, want ConflictError with message", err)
				}
			},
		},
		{
			name:   "json error field",
			status: http.StatusBadRequest,
			body:   `{"error":"invalid id"}`,
			check: func(t *testing.T, err error) {
				var apiErr *report.APIError
				if !errors.As(err, &apiErr) || apiErr.StatusCode != 400 || apiErr.Message != "invalid id" {
					t.Errorf("err = %v, want APIError 400 invalid id", err)
				}
			},
		},
		{
			name:   "plain text",
			status: http.StatusBadGateway,
			body:   "upstream down\n",
			check: func(t *testing.T, err error) {
				var apiErr *report.APIError
				if !errors.As(err, &apiErr) || apiErr.Message != "upstream down" {
					t.Errorf("err = %v, want APIError with raw body", err)
				}
				if !report.IsRetryable(err) {
					t.Error("502 should be retryable")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			tt.check(t, client.MarkResolved(context.Background(), "r1"))
		})
	}
}

func TestMarkResolvedPath(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.EscapedPath()
		w.WriteHeader(http.StatusOK)
	})

	if err := client.MarkResolved(context.Background(), "abc/1"); err != nil {
		t.Fatalf("MarkResolved() = %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/reports/abc%2F1/resolve" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}

func TestRecordAdminUpdateSendsIdempotencyKey(t *testing.T) {
	var gotKey string
	var body map[string]string
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/resolve" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotKey = r.Header.Get("Idempotency-Key")
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	})

	u := update.AdminUpdate{ReportID: "r1", IssueType: "Empty Dispenser", Location: "L", Key: "k-1"}
	if err := client.RecordAdminUpdate(context.Background(), u); err != nil {
		t.Fatalf("RecordAdminUpdate() = %v", err)
	}
	if gotKey != "k-1" {
		t.Errorf("Idempotency-Key = %q", gotKey)
	}
	want := map[string]string{"reportId": "r1", "issueType": "Empty Dispenser", "location": "L"}
	for k, v := range want {
		if body[k] != v {
			t.Errorf("body[%q] = %q, want %q", k, body[k], v)
		}
	}
}

func TestCreateReportBody(t *testing.T) {
	var body map[string]any
	client, _ := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"_id":"new","issueType":"Broken mirror","priority":"Low Priority","location":"L"}`)
	})

	draft := report.Draft{IssueType: report.IssueTypeOther, CustomIssueType: "Broken mirror", Location: "L"}
	created, err := client.CreateReport(context.Background(), draft.Submission(time.Now()))
	if err != nil {
		t.Fatalf("CreateReport() = %v", err)
	}
	if created.ID != "new" {
		t.Errorf("created = %+v", created)
	}
	if body["issueType"] != "Broken mirror" || body["priority"] != "Low Priority" {
		t.Errorf("body = %v", body)
	}
	if v, ok := body["image"]; !ok || v != nil {
		t.Errorf("image = %v, want explicit null", v)
	}
}

func TestNetworkFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, time.Second, NewSession(""), testLogger())
	err := client.ConfirmAdminUpdate(context.Background(), "r1")
	var netErr *report.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("ConfirmAdminUpdate() = %v, want *NetworkError", err)
	}
	if !report.IsRetryable(err) {
		t.Error("network errors should be retryable")
	}
}
