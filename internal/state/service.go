package state

import (
	"context"
	"strconv"
	"time"

	"callsync/internal/shared/telemetry"
)

// Key names are kept verbatim from the handset app so state written by earlier
// installs stays readable.
const (
	InstallScope = "install"

	KeyUserData       = "userData"
	KeyWatermark      = "lastRecordingTimestamp"
	KeyServiceRunning = "backgroundServiceRunning"
)

// Service wraps a Store with the typed entries the sync pipeline uses.
type Service struct {
	Store Store
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{Store: store}
}

// Watermark returns the upload watermark (millis since epoch) for an account
// scope. The first read with no prior value initializes the watermark to now,
// so a fresh account never re-uploads its whole folder history.
func (s *Service) Watermark(ctx context.Context, scope string) (int64, error) {
	raw, err := s.Store.Get(ctx, scope, KeyWatermark)
	if err == nil {
		millis, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr == nil {
			return millis, nil
		}
		telemetry.Warn("state.watermark.corrupt", map[string]any{
			"scope": scope,
			"value": raw,
			"error": parseErr.Error(),
		})
	} else if err != ErrNotFound {
		return 0, err
	}

	now := time.Now().UnixMilli()
	if setErr := s.Store.Set(ctx, scope, KeyWatermark, strconv.FormatInt(now, 10)); setErr != nil {
		return 0, setErr
	}
	return now, nil
}

// AdvanceWatermark raises the watermark to millis if it is ahead of the stored
// value. The watermark never moves backwards.
func (s *Service) AdvanceWatermark(ctx context.Context, scope string, millis int64) error {
	current, err := s.Watermark(ctx, scope)
	if err != nil {
		return err
	}
	if millis <= current {
		return nil
	}
	return s.Store.Set(ctx, scope, KeyWatermark, strconv.FormatInt(millis, 10))
}

// ServiceRunning reports the persisted running flag. Read errors degrade to
// false; the flag is a UI hint, actual liveness belongs to the runner.
func (s *Service) ServiceRunning(ctx context.Context) bool {
	raw, err := s.Store.Get(ctx, InstallScope, KeyServiceRunning)
	if err != nil {
		if err != ErrNotFound {
			telemetry.Warn("state.running_flag.read_failed", map[string]any{"error": err.Error()})
		}
		return false
	}
	return raw == "true"
}

// SetServiceRunning persists the running flag.
func (s *Service) SetServiceRunning(ctx context.Context, running bool) error {
	return s.Store.Set(ctx, InstallScope, KeyServiceRunning, strconv.FormatBool(running))
}

// UserData returns the raw persisted profile record.
func (s *Service) UserData(ctx context.Context) (string, error) {
	return s.Store.Get(ctx, InstallScope, KeyUserData)
}

// SetUserData replaces the persisted profile record wholesale.
func (s *Service) SetUserData(ctx context.Context, raw string) error {
	return s.Store.Set(ctx, InstallScope, KeyUserData, raw)
}

// ClearUserData removes the persisted profile record.
func (s *Service) ClearUserData(ctx context.Context) error {
	return s.Store.Delete(ctx, InstallScope, KeyUserData)
}
