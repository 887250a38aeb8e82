package treasury

import (
	"context"
)

// Transferor implementa funds.Transferor contra treasury.
// Se instancia desde el router/main cuando TREASURY_BASE_URL está configurado;
// si no, el marketplace usa el ledger en memoria (modo dev).
type Transferor struct {
	client *Client
}

func NewTransferor(client *Client) *Transferor {
	return &Transferor{client: client}
}

func (t *Transferor) CreditSeller(ctx context.Context, seller string, amount uint64) error {
	if t == nil || t.client == nil {
		return ErrTreasuryNotConfigured
	}
	return t.client.Credit(ctx, seller, amount)
}
