package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"callsync/internal/shared/telemetry"
)

// Candidate is a filesystem entry that passed the audio-extension filter
// during one scan. Candidates are rebuilt on every scan and never persisted.
type Candidate struct {
	Name      string
	Path      string
	Timestamp time.Time
	SizeBytes int64
}

var audioExts = map[string]struct{}{
	".mp3":  {},
	".wav":  {},
	".m4a":  {},
	".aac":  {},
	".ogg":  {},
	".amr":  {},
	".3gp":  {},
	".flac": {},
	".opus": {},
	".wma":  {},
}

// Scan lists dir and returns every regular file with an audio extension.
// A missing or unreadable directory yields an empty result; the background
// loop must keep ticking, so filesystem trouble is logged, not returned.
// No ordering is guaranteed; callers sort when presentation order matters.
func Scan(dir string) []Candidate {
	entries, err := os.ReadDir(dir)
	if err != nil {
		telemetry.Warn("scanner.read_dir_failed", map[string]any{
			"dir":   dir,
			"error": err.Error(),
		})
		return nil
	}

	var out []Candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !IsAudioFile(name) {
			continue
		}

		cand := Candidate{
			Name: name,
			Path: filepath.Join(dir, name),
		}
		info, err := entry.Info()
		if err != nil {
			telemetry.Warn("scanner.stat_failed", map[string]any{
				"path":  cand.Path,
				"error": err.Error(),
			})
		} else {
			cand.SizeBytes = info.Size()
		}
		cand.Timestamp = resolveTimestamp(name, info)
		out = append(out, cand)
	}
	return out
}

// IsAudioFile reports whether name carries a recognized audio extension.
func IsAudioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := audioExts[ext]
	return ok
}

// resolveTimestamp applies the precedence: filesystem mtime, then the
// filename-encoded timestamp, then zero.
func resolveTimestamp(name string, info fs.FileInfo) time.Time {
	if info != nil && !info.ModTime().IsZero() {
		return info.ModTime()
	}
	if ts, ok := TimestampFromName(name); ok {
		return ts
	}
	return time.Time{}
}

// CheckFolder verifies that path exists, is a directory, and is listable.
// It is the single place the folder-access capability is resolved, so callers
// (login validation, service start) share one notion of "accessible".
func CheckFolder(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("folder %q does not exist", path)
		}
		return fmt.Errorf("folder %q is not accessible: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", path)
	}
	if _, err := os.ReadDir(path); err != nil {
		return fmt.Errorf("folder %q is not readable: %w", path, err)
	}
	return nil
}
