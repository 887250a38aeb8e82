package market

import "context"

type Repository interface {
	Create(ctx context.Context, l Listing) error
	GetByTokenID(ctx context.Context, tokenID uint64) (Listing, error)
	// Delete es idempotente: borrar un listing inexistente no es error.
	Delete(ctx context.Context, tokenID uint64) error
	// ListAll devuelve los listings activos en orden de creación.
	ListAll(ctx context.Context) ([]Listing, error)
}
