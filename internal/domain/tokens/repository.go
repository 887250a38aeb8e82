package tokens

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, t Token) error
	// GetByID devuelve ErrNotFound (o un wrap) cuando el token no existe.
	// Cualquier otro error es una falla de storage, no "no existe".
	GetByID(ctx context.Context, tokenID uint64) (Token, error)
	UpdateOwner(ctx context.Context, tokenID uint64, owner string, at time.Time) error
	ListByOwner(ctx context.Context, owner string) ([]Token, error)
}
