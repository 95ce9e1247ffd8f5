package update

import "context"

// Gateway is the part of the backend REST contract that admin updates depend on.
type Gateway interface {
	RecordAdminUpdate(ctx context.Context, u AdminUpdate) error // step (b) of the resolve sequence
	ListAdminUpdates(ctx context.Context) ([]AdminUpdate, error)
	ConfirmAdminUpdate(ctx context.Context, reportID string) error
}
