package state

import "context"

// ErrNotFound is returned when a key has no value in the given scope.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "state key not found" }

// Store is a scoped key-value store with atomic per-key reads and writes.
// It is the single source of truth shared between the API surface and the
// background poll loop; neither side keeps an in-memory copy across uses.
type Store interface {
	Get(ctx context.Context, scope, key string) (string, error)
	Set(ctx context.Context, scope, key, value string) error
	Delete(ctx context.Context, scope, key string) error
}
