package report

import "context"

// Gateway is the part of the backend REST contract that reports depend on.
type Gateway interface {
	ListReports(ctx context.Context) ([]Report, error)
	ListMyReports(ctx context.Context) ([]Report, error)
	CreateReport(ctx context.Context, sub Submission) (*Report, error)
	MarkResolved(ctx context.Context, reportID string) error // step (a) of the resolve sequence

	// Authenticated reports whether a usable bearer token is present.
	Authenticated() bool
}
