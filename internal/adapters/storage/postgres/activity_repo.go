package postgres

import (
	"context"
	"database/sql"

	"pet-market/internal/domain/activity"
)

type ActivityRepo struct {
	db *sql.DB
}

func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

func (r *ActivityRepo) Create(ctx context.Context, e activity.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO token_activity (
			id, token_id, entry_type,
			actor_account, counterparty_account, price,
			occurred_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		e.ID,
		int64(e.TokenID),
		string(e.Type),
		e.Actor,
		e.Counterparty,
		int64(e.Price),
		e.OccurredAt,
	)
	return err
}

func (r *ActivityRepo) ListByToken(ctx context.Context, tokenID uint64) ([]activity.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, token_id, entry_type,
			actor_account, counterparty_account, price,
			occurred_at
		FROM token_activity
		WHERE token_id = $1
		ORDER BY occurred_at ASC, id ASC
	`, int64(tokenID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]activity.Entry, 0)
	for rows.Next() {
		var e activity.Entry
		var id, price int64
		var entryType string
		if err := rows.Scan(&e.ID, &id, &entryType, &e.Actor, &e.Counterparty, &price, &e.OccurredAt); err != nil {
			return nil, err
		}
		e.TokenID = uint64(id)
		e.Type = activity.EntryType(entryType)
		e.Price = uint64(price)
		out = append(out, e)
	}

	return out, rows.Err()
}
