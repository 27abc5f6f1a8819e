package recordings

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "recording not found" }

// Repo defines persistence operations for the upload history.
type Repo interface {
	Create(ctx context.Context, rec Recording) error
	GetByID(ctx context.Context, tenantID int, email, id string) (Recording, error)
	ListByAccount(ctx context.Context, tenantID int, email string, limit, offset int) ([]Recording, error)
}
