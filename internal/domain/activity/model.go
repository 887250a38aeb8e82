package activity

import "time"

// EntryType define los tipos de evento del ciclo de vida de un token.
// @Enum minted, transferred, listed, delisted, sold
type EntryType string

const (
	TypeMinted      EntryType = "minted"
	TypeTransferred EntryType = "transferred"
	TypeListed      EntryType = "listed"
	TypeDelisted    EntryType = "delisted"
	TypeSold        EntryType = "sold"
)

// Entry es un registro inmutable del historial de un token.
// No participa en ninguna validación del motor; es solo trazabilidad.
type Entry struct {
	ID      string
	TokenID uint64

	Type EntryType

	// Actor es quien ejecutó la operación (minter, dueño, comprador).
	Actor string
	// Counterparty es la otra cuenta involucrada, si aplica
	// (destinatario de mint/transfer, seller en sold).
	Counterparty string
	// Price aplica a listed y sold; 0 en el resto.
	Price uint64

	OccurredAt time.Time
}
