package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"facility_reports/internal/domain/report"
	"facility_reports/internal/domain/update"

	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "http://localhost:5000"
	DefaultTimeout = 10 * time.Second

	idempotencyHeader = "Idempotency-Key"
	maxErrorBody      = 4096
)

// Client talks to the reporting backend. It implements report.Gateway and update.Gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	logger     *logrus.Entry
}

func NewClient(baseURL string, timeout time.Duration, session *Session, logger *logrus.Entry) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		session: session,
		logger:  logger.WithField("component", "backend_client"),
	}
}

type adminUpdateRequest struct {
	ReportID  string `json:"reportId"`
	IssueType string `json:"issueType"`
	Location  string `json:"location"`
}

type confirmRequest struct {
	ReportID string `json:"reportId"`
}

func (c *Client) Authenticated() bool {
	return c.session.Authenticated()
}

func (c *Client) ListReports(ctx context.Context) ([]report.Report, error) {
	var reports []report.Report
	if err := c.do(ctx, "list reports", http.MethodGet, "/api/reports", nil, nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *Client) ListMyReports(ctx context.Context) ([]report.Report, error) {
	if !c.session.Authenticated() {
		return nil, fmt.Errorf("list my reports: %w", report.ErrUnauthorized)
	}
	var reports []report.Report
	if err := c.do(ctx, "list my reports", http.MethodGet, "/api/my-reports", nil, nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *Client) CreateReport(ctx context.Context, sub report.Submission) (*report.Report, error) {
	var created report.Report
	if err := c.do(ctx, "create report", http.MethodPost, "/api/reports", sub, nil, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) MarkResolved(ctx context.Context, reportID string) error {
	path := "/api/reports/" + url.PathEscape(reportID) + "/resolve"
	return c.do(ctx, "mark report resolved", http.MethodPost, path, nil, nil, nil)
}

func (c *Client) RecordAdminUpdate(ctx context.Context, u update.AdminUpdate) error {
	body := adminUpdateRequest{ReportID: u.ReportID, IssueType: u.IssueType, Location: u.Location}
	var headers map[string]string
	if u.Key != "" {
		headers = map[string]string{idempotencyHeader: u.Key}
	}
	return c.do(ctx, "record admin update", http.MethodPost, "/api/admin/resolve", body, headers, nil)
}

func (c *Client) ListAdminUpdates(ctx context.Context) ([]update.AdminUpdate, error) {
	var updates []update.AdminUpdate
	if err := c.do(ctx, "list admin updates", http.MethodGet, "/api/admin/updates", nil, nil, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *Client) ConfirmAdminUpdate(ctx context.Context, reportID string) error {
	return c.do(ctx, "confirm admin update", http.MethodPost, "/api/admin/resolve-confirm", confirmRequest{ReportID: reportID}, nil, nil)
}

// do sends one request and maps the outcome onto the report error taxonomy.
func (c *Client) do(ctx context.Context, op, method, path string, body any, headers map[string]string, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{"method": method, "path": path}).Warn("Backend request failed")
		return &report.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("Backend request completed")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: failed to decode response: %w", op, err)
		}
		return nil
	}

	msg := errorMessage(resp.Body)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.session.Clear()
		c.logger.WithField("path", path).Warn("Backend rejected the session token; token cleared")
		return fmt.Errorf("%s: %w", op, report.ErrUnauthorized)
	case http.StatusConflict:
		return &report.ConflictError{Op: op, Message: msg}
	default:
		return &report.APIError{Op: op, StatusCode: resp.StatusCode, Message: msg}
	}
}

// errorMessage prefers the backend's {"message": "..."} and falls back to the raw body.
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
