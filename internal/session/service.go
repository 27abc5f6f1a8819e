package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"callsync/internal/scanner"
	"callsync/internal/shared/telemetry"
	"callsync/internal/state"
)

// ErrNoProfile means no account is logged in.
var ErrNoProfile = errors.New("no user profile")

// ErrInvalidProfile means the submitted login payload failed validation.
var ErrInvalidProfile = errors.New("invalid profile")

// Service reads and writes the persisted account profile. The profile is
// loaded fresh on every call; the poll loop re-reads it each pass so a
// re-login takes effect on the next tick without restarts.
type Service struct {
	State *state.Service
}

// NewService constructs a Service.
func NewService(st *state.Service) *Service {
	return &Service{State: st}
}

// Login validates and persists the profile, replacing any previous one.
func (s *Service) Login(ctx context.Context, profile UserProfile) (UserProfile, error) {
	profile.Email = strings.TrimSpace(strings.ToLower(profile.Email))
	profile.RecordingType = strings.TrimSpace(profile.RecordingType)
	profile.FolderPath = strings.TrimSpace(profile.FolderPath)

	if profile.Email == "" || !strings.Contains(profile.Email, "@") {
		return UserProfile{}, fmt.Errorf("%w: a valid email is required", ErrInvalidProfile)
	}
	if profile.TenantID <= 0 {
		return UserProfile{}, fmt.Errorf("%w: tenantId must be positive", ErrInvalidProfile)
	}
	if profile.RecordingType == "" {
		return UserProfile{}, fmt.Errorf("%w: recording type is required", ErrInvalidProfile)
	}
	if profile.FolderPath != "" {
		if err := scanner.CheckFolder(profile.FolderPath); err != nil {
			return UserProfile{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
		}
	}

	profile.LoggedInAt = time.Now().UTC()

	raw, err := json.Marshal(profile)
	if err != nil {
		return UserProfile{}, fmt.Errorf("marshal profile: %w", err)
	}
	if err := s.State.SetUserData(ctx, string(raw)); err != nil {
		return UserProfile{}, fmt.Errorf("persist profile: %w", err)
	}

	telemetry.Info("session.login", map[string]any{
		"email":     profile.Email,
		"tenant_id": profile.TenantID,
		"folder":    profile.FolderPath,
	})
	return profile, nil
}

// Current returns the persisted profile. A missing or unreadable record is
// reported as ErrNoProfile; corruption degrades to logged-out rather than
// wedging the poll loop.
func (s *Service) Current(ctx context.Context) (UserProfile, error) {
	raw, err := s.State.UserData(ctx)
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return UserProfile{}, ErrNoProfile
		}
		telemetry.Error("session.read_failed", map[string]any{"error": err.Error()})
		return UserProfile{}, ErrNoProfile
	}

	var profile UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		telemetry.Error("session.corrupt_profile", map[string]any{"error": err.Error()})
		return UserProfile{}, ErrNoProfile
	}
	if profile.Email == "" {
		return UserProfile{}, ErrNoProfile
	}
	return profile, nil
}

// Logout destroys the persisted profile.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.State.ClearUserData(ctx); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	telemetry.Info("session.logout", nil)
	return nil
}
