package market

import "time"

// Listing es una oferta de venta activa a precio fijo.
// El seller queda ligado al dueño del token al momento de listar; si el
// ownership cambia por fuera de una compra, el listing se invalida
// (ver tokens.Service.Transfer). Precio 0 es válido (regalo público).
type Listing struct {
	TokenID uint64
	Seller  string
	Price   uint64

	CreatedAt time.Time
}
