package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Ledger es un funds.Transferor en memoria para dev y tests:
// acumula créditos por cuenta, nada más. No modela débitos del comprador
// (eso es problema del custodio real).
type Ledger struct {
	mu       sync.RWMutex
	balances map[string]uint64
}

func NewLedger() *Ledger {
	return &Ledger{
		balances: make(map[string]uint64),
	}
}

func (l *Ledger) CreditSeller(ctx context.Context, seller string, amount uint64) error {
	seller = strings.TrimSpace(seller)
	if seller == "" {
		return errors.New("seller required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[seller] += amount
	return nil
}

// Balance expone el acumulado de una cuenta (lo usan los tests para
// verificar que al seller se le acreditó exactamente el precio).
func (l *Ledger) Balance(account string) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[account]
}
