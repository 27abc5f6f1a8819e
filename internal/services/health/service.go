package health

import (
	"context"
	"database/sql"
	"time"
)

// RunnerStatus reports whether the background poll loop is alive.
type RunnerStatus interface {
	IsRunning() bool
}

// Service encapsulates health-related checks.
type Service struct {
	db     *sql.DB
	runner RunnerStatus
}

// NewService constructs a new health service. Both dependencies are optional;
// absent ones are simply omitted from the payload.
func NewService(db *sql.DB, runner RunnerStatus) *Service {
	return &Service{db: db, runner: runner}
}

// Status returns the health payload.
func (s *Service) Status() map[string]any {
	out := map[string]any{"ok": true}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		out["db"] = s.db.PingContext(ctx) == nil
	}
	if s.runner != nil {
		out["serviceRunning"] = s.runner.IsRunning()
	}
	return out
}
