package recordings

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Recording // account key -> uploads
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Recording),
	}
}

func accountKey(tenantID int, email string) string {
	return fmt.Sprintf("%d|%s", tenantID, email)
}

// Create appends one upload-history row.
func (r *MemoryRepo) Create(ctx context.Context, rec Recording) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := accountKey(rec.TenantID, rec.Email)
	r.data[key] = append(r.data[key], rec)
	return nil
}

// GetByID returns one history row owned by the account.
func (r *MemoryRepo) GetByID(ctx context.Context, tenantID int, email, id string) (Recording, error) {
	if err := ctx.Err(); err != nil {
		return Recording{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.data[accountKey(tenantID, email)] {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Recording{}, ErrNotFound
}

// ListByAccount returns history rows newest upload first, honoring limit/offset.
func (r *MemoryRepo) ListByAccount(ctx context.Context, tenantID int, email string, limit, offset int) ([]Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 50
	}

	r.mu.RLock()
	accountRecs := r.data[accountKey(tenantID, email)]
	r.mu.RUnlock()

	if len(accountRecs) == 0 || offset >= len(accountRecs) {
		return []Recording{}, nil
	}

	recs := make([]Recording, len(accountRecs))
	copy(recs, accountRecs)
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].UploadedAt.After(recs[j].UploadedAt)
	})

	end := len(recs)
	if offset+limit < end {
		end = offset + limit
	}
	return recs[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
