package recordings

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRepoListNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	base := time.Now().UTC()
	for i, name := range []string{"old.m4a", "mid.m4a", "new.m4a"} {
		rec := Recording{
			ID:         name,
			TenantID:   1,
			Email:      "a@b.com",
			FileName:   name,
			UploadedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(ctx, rec); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	recs, err := repo.ListByAccount(ctx, 1, "a@b.com", 0, 0)
	if err != nil {
		t.Fatalf("ListByAccount: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(recs))
	}
	if recs[0].FileName != "new.m4a" || recs[2].FileName != "old.m4a" {
		t.Fatalf("expected newest-first order, got %s .. %s", recs[0].FileName, recs[2].FileName)
	}
}

func TestMemoryRepoAccountIsolation(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, Recording{ID: "x", TenantID: 1, Email: "a@b.com", UploadedAt: time.Now()}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	recs, err := repo.ListByAccount(ctx, 2, "a@b.com", 0, 0)
	if err != nil {
		t.Fatalf("ListByAccount: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no rows for other tenant, got %d", len(recs))
	}
}
