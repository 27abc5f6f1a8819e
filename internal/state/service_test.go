package state

import (
	"context"
	"strconv"
	"testing"
	"time"
)

func TestWatermarkInitializesToNow(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	before := time.Now().UnixMilli()
	wm, err := svc.Watermark(ctx, "tenant:1:a@example.com")
	if err != nil {
		t.Fatalf("Watermark: %v", err)
	}
	after := time.Now().UnixMilli()
	if wm < before || wm > after {
		t.Fatalf("expected watermark initialized to now, got %d (window %d..%d)", wm, before, after)
	}

	again, err := svc.Watermark(ctx, "tenant:1:a@example.com")
	if err != nil {
		t.Fatalf("Watermark second read: %v", err)
	}
	if again != wm {
		t.Fatalf("expected stable watermark after init, got %d then %d", wm, again)
	}
}

func TestAdvanceWatermarkIsMonotonic(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()
	scope := "tenant:2:b@example.com"

	wm, err := svc.Watermark(ctx, scope)
	if err != nil {
		t.Fatalf("Watermark: %v", err)
	}

	ahead := wm + 60_000
	if err := svc.AdvanceWatermark(ctx, scope, ahead); err != nil {
		t.Fatalf("AdvanceWatermark forward: %v", err)
	}
	got, _ := svc.Watermark(ctx, scope)
	if got != ahead {
		t.Fatalf("expected watermark %d, got %d", ahead, got)
	}

	// An older timestamp must never lower the watermark.
	if err := svc.AdvanceWatermark(ctx, scope, wm); err != nil {
		t.Fatalf("AdvanceWatermark backward: %v", err)
	}
	got, _ = svc.Watermark(ctx, scope)
	if got != ahead {
		t.Fatalf("watermark decreased from %d to %d", ahead, got)
	}
}

func TestWatermarkScopesAreIndependent(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	if err := svc.AdvanceWatermark(ctx, "tenant:1:a@example.com", time.Now().UnixMilli()+120_000); err != nil {
		t.Fatalf("AdvanceWatermark: %v", err)
	}

	before := time.Now().UnixMilli()
	other, err := svc.Watermark(ctx, "tenant:9:z@example.com")
	if err != nil {
		t.Fatalf("Watermark other scope: %v", err)
	}
	if other < before {
		t.Fatalf("expected fresh init for other scope, got %d", other)
	}
}

func TestWatermarkCorruptValueReinitializes(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store)
	ctx := context.Background()
	scope := "tenant:3:c@example.com"

	if err := store.Set(ctx, scope, KeyWatermark, "not-a-number"); err != nil {
		t.Fatalf("seed corrupt value: %v", err)
	}

	before := time.Now().UnixMilli()
	wm, err := svc.Watermark(ctx, scope)
	if err != nil {
		t.Fatalf("Watermark: %v", err)
	}
	if wm < before {
		t.Fatalf("expected reinit to now, got %d", wm)
	}

	raw, err := store.Get(ctx, scope, KeyWatermark)
	if err != nil {
		t.Fatalf("Get after reinit: %v", err)
	}
	if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
		t.Fatalf("stored watermark still corrupt: %q", raw)
	}
}

func TestServiceRunningFlag(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	if svc.ServiceRunning(ctx) {
		t.Fatalf("expected default running flag false")
	}
	if err := svc.SetServiceRunning(ctx, true); err != nil {
		t.Fatalf("SetServiceRunning: %v", err)
	}
	if !svc.ServiceRunning(ctx) {
		t.Fatalf("expected running flag true after set")
	}
	if err := svc.SetServiceRunning(ctx, false); err != nil {
		t.Fatalf("SetServiceRunning false: %v", err)
	}
	if svc.ServiceRunning(ctx) {
		t.Fatalf("expected running flag false after clear")
	}
}
