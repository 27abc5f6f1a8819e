package poller

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"callsync/internal/recordings"
	"callsync/internal/scanner"
	"callsync/internal/session"
	"callsync/internal/shared/metrics"
	"callsync/internal/shared/storage/object"
	"callsync/internal/shared/telemetry"
	"callsync/internal/state"
	"callsync/internal/uploader"
)

// Uploader is the slice of the upload client the runner needs.
type Uploader interface {
	Upload(ctx context.Context, req uploader.Request) uploader.Result
}

// Runner drives the poll loop: scan the configured folder, filter candidates
// past the watermark, upload them one at a time, and advance the watermark
// after each confirmed success. Exactly one pass runs at a time; the next
// tick is not scheduled until the previous pass has fully completed.
type Runner struct {
	State    *state.Service
	Sessions *session.Service
	Uploads  Uploader
	History  recordings.Repo
	Archive  object.ObjectStore // optional

	DefaultDir  string
	Interval    time.Duration
	UploadDelay time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Start transitions the runner from Idle to Running. Starting a running
// runner is a no-op. The persisted running flag is updated so the UI state
// survives restarts.
func (r *Runner) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	stopCh, doneCh := r.stopCh, r.doneCh
	r.mu.Unlock()

	if err := r.State.SetServiceRunning(context.Background(), true); err != nil {
		telemetry.Warn("poller.flag.persist_failed", map[string]any{"error": err.Error()})
	}
	telemetry.Info("poller.started", map[string]any{"interval": r.Interval.String()})

	go r.loop(stopCh, doneCh)
}

// Stop transitions the runner to Idle. The stop signal is observed at the
// top of the next tick: a pass that is already uploading finishes that
// upload (and the rest of its pass) before the loop exits. Stop blocks until
// the loop has exited.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	close(r.stopCh)
	doneCh := r.doneCh
	r.mu.Unlock()

	<-doneCh

	if err := r.State.SetServiceRunning(context.Background(), false); err != nil {
		telemetry.Warn("poller.flag.persist_failed", map[string]any{"error": err.Error()})
	}
	telemetry.Info("poller.stopped", nil)
}

// IsRunning reports actual loop liveness, not the persisted flag.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Runner) loop(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		r.RunPass(context.Background())

		select {
		case <-stopCh:
			return
		case <-time.After(r.Interval):
		}
	}
}

// RunPass executes one full pass: load profile, scan, filter by watermark,
// upload sequentially, advance the watermark per success. Every failure path
// degrades to "try again next tick"; nothing here is fatal.
func (r *Runner) RunPass(ctx context.Context) {
	metrics.IncPass()

	profile, err := r.Sessions.Current(ctx)
	if err != nil {
		telemetry.Info("poller.pass.skipped", map[string]any{"reason": "no profile"})
		return
	}

	dir := profile.FolderPath
	if dir == "" {
		dir = r.DefaultDir
	}

	scope := profile.AccountScope()
	watermark, err := r.State.Watermark(ctx, scope)
	if err != nil {
		telemetry.Error("poller.watermark.read_failed", map[string]any{"error": err.Error()})
		return
	}

	candidates := scanner.Scan(dir)

	// Candidates stay in discovery order; the watermark ends up at the
	// maximum uploaded timestamp either way.
	uploaded := 0
	first := true
	for _, cand := range candidates {
		if cand.Timestamp.IsZero() || cand.Timestamp.UnixMilli() <= watermark {
			continue
		}

		if !first {
			select {
			case <-ctx.Done():
				return
			case <-time.After(r.UploadDelay):
			}
		}
		first = false

		if r.uploadCandidate(ctx, profile, scope, cand) {
			uploaded++
		}
	}

	if uploaded > 0 {
		telemetry.Info("poller.pass.completed", map[string]any{
			"dir":      dir,
			"scanned":  len(candidates),
			"uploaded": uploaded,
		})
	}
}

func (r *Runner) uploadCandidate(ctx context.Context, profile session.UserProfile, scope string, cand scanner.Candidate) bool {
	metrics.IncUploadStarted()
	start := time.Now()

	res := r.Uploads.Upload(ctx, uploader.Request{
		TenantID:    profile.TenantID,
		Email:       profile.Email,
		Type:        profile.RecordingType,
		PhoneNumber: uploader.ExtractPhoneNumber(cand.Name),
		CallDate:    cand.Timestamp.Format("2006-01-02"),
		FileName:    cand.Name,
		FilePath:    cand.Path,
	})
	metrics.ObserveUploadDurationMs(metrics.SinceMillis(start))

	if !res.OK {
		metrics.IncUploadFailed()
		telemetry.Error("poller.upload.failed", map[string]any{
			"file":  cand.Name,
			"error": res.Message,
		})
		return false
	}
	metrics.IncUploadCompleted()

	if err := r.State.AdvanceWatermark(ctx, scope, cand.Timestamp.UnixMilli()); err != nil {
		telemetry.Error("poller.watermark.advance_failed", map[string]any{
			"file":  cand.Name,
			"error": err.Error(),
		})
	}

	archiveKey := r.archiveCandidate(ctx, scope, cand)

	if r.History != nil {
		rec := recordings.Recording{
			ID:          uuid.NewString(),
			TenantID:    profile.TenantID,
			Email:       profile.Email,
			FileName:    cand.Name,
			FilePath:    cand.Path,
			PhoneNumber: uploader.ExtractPhoneNumber(cand.Name),
			CallDate:    cand.Timestamp.Format("2006-01-02"),
			SizeBytes:   cand.SizeBytes,
			ArchiveKey:  archiveKey,
			RecordedAt:  cand.Timestamp,
			UploadedAt:  time.Now().UTC(),
		}
		if err := r.History.Create(ctx, rec); err != nil {
			telemetry.Warn("poller.history.write_failed", map[string]any{
				"file":  cand.Name,
				"error": err.Error(),
			})
		}
	}

	telemetry.Info("poller.upload.completed", map[string]any{
		"file":      cand.Name,
		"timestamp": cand.Timestamp.UnixMilli(),
	})
	return true
}

// archiveCandidate keeps a best-effort copy of the uploaded recording in the
// archive store. Archive trouble never fails the pipeline.
func (r *Runner) archiveCandidate(ctx context.Context, scope string, cand scanner.Candidate) string {
	if r.Archive == nil {
		return ""
	}
	f, err := os.Open(cand.Path)
	if err != nil {
		telemetry.Warn("poller.archive.open_failed", map[string]any{"file": cand.Name, "error": err.Error()})
		return ""
	}
	defer f.Close()

	key, _, _, err := r.Archive.Save(ctx, scope, cand.Name, f)
	if err != nil {
		telemetry.Warn("poller.archive.save_failed", map[string]any{"file": cand.Name, "error": err.Error()})
		return ""
	}
	return key
}
