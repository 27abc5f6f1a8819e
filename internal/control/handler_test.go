package control

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"callsync/internal/session"
	"callsync/internal/state"
)

type fakeRunner struct {
	running bool
	starts  int
	stops   int
}

func (f *fakeRunner) Start()          { f.starts++; f.running = true }
func (f *fakeRunner) Stop()           { f.stops++; f.running = false }
func (f *fakeRunner) IsRunning() bool { return f.running }

func newTestRouter(t *testing.T, loggedIn bool, dir string) (*gin.Engine, *fakeRunner, *state.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := state.NewService(state.NewMemoryStore())
	sessions := session.NewService(st)
	if loggedIn {
		if _, err := sessions.Login(context.Background(), session.UserProfile{
			Email:         "agent@example.com",
			TenantID:      7,
			RecordingType: "Incoming",
			FolderPath:    dir,
		}); err != nil {
			t.Fatalf("login: %v", err)
		}
	}

	runner := &fakeRunner{}
	r := gin.New()
	NewHandler(runner, sessions, st, dir).RegisterRoutes(r.Group("/api/v1"))
	return r, runner, st
}

func TestStartRequiresProfile(t *testing.T) {
	r, runner, _ := newTestRouter(t, false, t.TempDir())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/service/start", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if runner.starts != 0 {
		t.Fatalf("runner must not start without a profile")
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "no_profile" {
		t.Fatalf("expected no_profile, got %q", body.Error.Code)
	}
}

func TestStartRejectsMissingFolder(t *testing.T) {
	r, runner, _ := newTestRouter(t, true, "/nonexistent/recordings")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/service/start", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if runner.starts != 0 {
		t.Fatalf("runner must not start with an unreadable folder")
	}
}

func TestStartStopRoundTrip(t *testing.T) {
	r, runner, _ := newTestRouter(t, true, t.TempDir())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/service/start", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d", w.Code)
	}
	if runner.starts != 1 || !runner.running {
		t.Fatalf("expected runner started, got %+v", runner)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/service/stop", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("stop: expected 200, got %d", w.Code)
	}
	if runner.stops != 1 || runner.running {
		t.Fatalf("expected runner stopped, got %+v", runner)
	}
}

func TestStatusReportsLivenessAndRepairsFlag(t *testing.T) {
	r, runner, st := newTestRouter(t, true, t.TempDir())

	// Simulate a crash that left the persisted flag on while no loop runs.
	if err := st.SetServiceRunning(context.Background(), true); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	runner.running = false

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/service/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Running bool `json:"running"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Running {
		t.Fatalf("expected running=false")
	}
	if st.ServiceRunning(context.Background()) {
		t.Fatalf("expected persisted flag repaired to false")
	}
}
