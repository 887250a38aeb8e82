package memory

import (
	"context"
	"errors"
	"sync"

	"pet-market/internal/domain/market"
)

// listingsRepo guarda los listings en un map más un slice de orden de
// inserción, para que ListAll devuelva siempre orden de publicación.
type listingsRepo struct {
	mu      sync.RWMutex
	byToken map[uint64]market.Listing
	order   []uint64
}

func NewListingsRepo() market.Repository {
	return &listingsRepo{
		byToken: make(map[uint64]market.Listing),
	}
}

func (r *listingsRepo) Create(ctx context.Context, l market.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byToken[l.TokenID]; exists {
		return errors.New("listing already exists")
	}
	r.byToken[l.TokenID] = l
	r.order = append(r.order, l.TokenID)
	return nil
}

func (r *listingsRepo) GetByTokenID(ctx context.Context, tokenID uint64) (market.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byToken[tokenID]
	if !ok {
		return market.Listing{}, ErrNotFound
	}
	return l, nil
}

func (r *listingsRepo) Delete(ctx context.Context, tokenID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byToken[tokenID]; !ok {
		// idempotente: sin listing no es error
		return nil
	}
	delete(r.byToken, tokenID)

	for i, id := range r.order {
		if id == tokenID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *listingsRepo) ListAll(ctx context.Context) ([]market.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]market.Listing, 0, len(r.order))
	for _, id := range r.order {
		if l, ok := r.byToken[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}
