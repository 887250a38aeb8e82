package postgres

import (
	"context"
	"database/sql"

	"pet-market/internal/domain/market"
)

type ListingsRepo struct {
	db *sql.DB
}

func NewListingsRepo(db *sql.DB) *ListingsRepo {
	return &ListingsRepo{db: db}
}

func (r *ListingsRepo) Create(ctx context.Context, l market.Listing) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO listings (
			token_id, seller_account, price, created_at
		) VALUES ($1,$2,$3,$4)
	`,
		int64(l.TokenID),
		l.Seller,
		int64(l.Price),
		l.CreatedAt,
	)
	return err
}

func (r *ListingsRepo) GetByTokenID(ctx context.Context, tokenID uint64) (market.Listing, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT token_id, seller_account, price, created_at
		FROM listings
		WHERE token_id = $1
	`, int64(tokenID))

	var l market.Listing
	var id, price int64
	if err := row.Scan(&id, &l.Seller, &price, &l.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return market.Listing{}, ErrNotFound
		}
		return market.Listing{}, err
	}

	l.TokenID = uint64(id)
	l.Price = uint64(price)
	return l, nil
}

// Delete es idempotente: cero filas afectadas no es error
// (lo exige el contrato de market.Repository).
func (r *ListingsRepo) Delete(ctx context.Context, tokenID uint64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM listings WHERE token_id = $1
	`, int64(tokenID))
	return err
}

func (r *ListingsRepo) ListAll(ctx context.Context) ([]market.Listing, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT token_id, seller_account, price, created_at
		FROM listings
		ORDER BY created_at ASC, token_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]market.Listing, 0)
	for rows.Next() {
		var l market.Listing
		var id, price int64
		if err := rows.Scan(&id, &l.Seller, &price, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.TokenID = uint64(id)
		l.Price = uint64(price)
		out = append(out, l)
	}

	return out, rows.Err()
}
