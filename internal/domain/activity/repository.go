package activity

import "context"

type Repository interface {
	Create(ctx context.Context, e Entry) error
	ListByToken(ctx context.Context, tokenID uint64) ([]Entry, error)
}
