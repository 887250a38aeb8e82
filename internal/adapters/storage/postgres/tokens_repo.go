package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-market/internal/domain/tokens"
)

type TokensRepo struct {
	db *sql.DB
}

func NewTokensRepo(db *sql.DB) *TokensRepo {
	return &TokensRepo{db: db}
}

func (r *TokensRepo) Create(ctx context.Context, t tokens.Token) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tokens (
			token_id, owner_account,
			minted_at, updated_at
		) VALUES ($1,$2,$3,$4)
	`,
		int64(t.ID),
		t.Owner,
		t.MintedAt,
		t.UpdatedAt,
	)
	return err
}

func (r *TokensRepo) GetByID(ctx context.Context, tokenID uint64) (tokens.Token, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT token_id, owner_account, minted_at, updated_at
		FROM tokens
		WHERE token_id = $1
	`, int64(tokenID))

	var t tokens.Token
	var id int64
	if err := row.Scan(&id, &t.Owner, &t.MintedAt, &t.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return tokens.Token{}, tokens.ErrNotFound
		}
		return tokens.Token{}, err
	}

	// token_id es BIGINT; el dominio usa uint64
	t.ID = uint64(id)
	return t, nil
}

func (r *TokensRepo) UpdateOwner(ctx context.Context, tokenID uint64, owner string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tokens
		SET owner_account = $2, updated_at = $3
		WHERE token_id = $1
	`, int64(tokenID), owner, at)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return tokens.ErrNotFound
	}
	return nil
}

func (r *TokensRepo) ListByOwner(ctx context.Context, owner string) ([]tokens.Token, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT token_id, owner_account, minted_at, updated_at
		FROM tokens
		WHERE owner_account = $1
		ORDER BY token_id ASC
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]tokens.Token, 0)
	for rows.Next() {
		var t tokens.Token
		var id int64
		if err := rows.Scan(&id, &t.Owner, &t.MintedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.ID = uint64(id)
		out = append(out, t)
	}

	return out, rows.Err()
}
