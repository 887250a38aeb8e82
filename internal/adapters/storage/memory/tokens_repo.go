package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"pet-market/internal/domain/tokens"
)

var (
	ErrNotFound = errors.New("not found")
)

type tokensRepo struct {
	mu   sync.RWMutex
	byID map[uint64]tokens.Token
}

func NewTokensRepo() tokens.Repository {
	return &tokensRepo{
		byID: make(map[uint64]tokens.Token),
	}
}

func (r *tokensRepo) Create(ctx context.Context, t tokens.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[t.ID]; exists {
		return errors.New("token already exists")
	}
	r.byID[t.ID] = t
	return nil
}

func (r *tokensRepo) GetByID(ctx context.Context, tokenID uint64) (tokens.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[tokenID]
	if !ok {
		return tokens.Token{}, tokens.ErrNotFound
	}
	return t, nil
}

func (r *tokensRepo) UpdateOwner(ctx context.Context, tokenID uint64, owner string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[tokenID]
	if !ok {
		return tokens.ErrNotFound
	}
	t.Owner = owner
	t.UpdatedAt = at
	r.byID[tokenID] = t
	return nil
}

func (r *tokensRepo) ListByOwner(ctx context.Context, owner string) ([]tokens.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tokens.Token, 0)
	for _, t := range r.byID {
		if t.Owner == owner {
			out = append(out, t)
		}
	}

	// Orden estable por token id (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	return out, nil
}
