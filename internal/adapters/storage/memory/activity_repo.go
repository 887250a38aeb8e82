package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-market/internal/domain/activity"
)

type activityRepo struct {
	mu      sync.RWMutex
	entries []activity.Entry
}

func NewActivityRepo() activity.Repository {
	return &activityRepo{
		entries: make([]activity.Entry, 0),
	}
}

func (r *activityRepo) Create(ctx context.Context, e activity.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("entry id required")
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *activityRepo) ListByToken(ctx context.Context, tokenID uint64) ([]activity.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// append-only: el slice ya está en orden de ocurrencia
	out := make([]activity.Entry, 0)
	for _, e := range r.entries {
		if e.TokenID == tokenID {
			out = append(out, e)
		}
	}
	return out, nil
}
