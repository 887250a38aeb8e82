package funds

import "context"

// Transferor es la capability externa de movimiento de fondos.
// El motor no implementa custodia ni escrow: solo autoriza acreditar
// el precio del listing al seller durante la compra.
type Transferor interface {
	CreditSeller(ctx context.Context, seller string, amount uint64) error
}
