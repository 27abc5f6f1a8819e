package recordings

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"callsync/internal/scanner"
	"callsync/internal/session"
	"callsync/internal/shared/storage/object"
	"callsync/internal/state"
)

// FolderEntry is one recording in the configured folder, annotated with
// whether the sync pipeline has already uploaded it.
type FolderEntry struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	SizeBytes  int64     `json:"sizeBytes"`
	RecordedAt time.Time `json:"recordedAt"`
	Uploaded   bool      `json:"uploaded"`
}

// Service backs the recordings list view and the upload history.
type Service struct {
	Repo       Repo
	State      *state.Service
	Sessions   *session.Service
	Archive    object.ObjectStore // optional
	DefaultDir string
}

// ListFolder scans the active profile's folder and returns entries newest
// first. An entry counts as uploaded when its timestamp is at or below the
// account's watermark.
func (s *Service) ListFolder(ctx context.Context) ([]FolderEntry, error) {
	profile, err := s.Sessions.Current(ctx)
	if err != nil {
		return nil, err
	}

	dir := profile.FolderPath
	if dir == "" {
		dir = s.DefaultDir
	}

	watermark, err := s.State.Watermark(ctx, profile.AccountScope())
	if err != nil {
		return nil, err
	}

	candidates := scanner.Scan(dir)
	entries := make([]FolderEntry, 0, len(candidates))
	for _, c := range candidates {
		entries = append(entries, FolderEntry{
			Name:       c.Name,
			Path:       c.Path,
			SizeBytes:  c.SizeBytes,
			RecordedAt: c.Timestamp,
			Uploaded:   !c.Timestamp.IsZero() && c.Timestamp.UnixMilli() <= watermark,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RecordedAt.After(entries[j].RecordedAt)
	})
	return entries, nil
}

// History returns persisted upload-history rows for the active account.
func (s *Service) History(ctx context.Context, limit, offset int) ([]Recording, error) {
	profile, err := s.Sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListByAccount(ctx, profile.TenantID, profile.Email, limit, offset)
}

// OpenArchive returns a history row and a reader over its archived copy.
// A row without an archived copy, or an agent running with the archive store
// off, reports ErrNotFound. The caller closes the reader.
func (s *Service) OpenArchive(ctx context.Context, id string) (Recording, io.ReadCloser, error) {
	profile, err := s.Sessions.Current(ctx)
	if err != nil {
		return Recording{}, nil, err
	}

	rec, err := s.Repo.GetByID(ctx, profile.TenantID, profile.Email, id)
	if err != nil {
		return Recording{}, nil, err
	}
	if s.Archive == nil || rec.ArchiveKey == "" {
		return Recording{}, nil, ErrNotFound
	}

	reader, err := s.Archive.Open(ctx, rec.ArchiveKey)
	if err != nil {
		return Recording{}, nil, fmt.Errorf("open archive %s: %w", rec.ArchiveKey, err)
	}
	return rec, reader, nil
}
