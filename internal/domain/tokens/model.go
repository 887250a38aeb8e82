package tokens

import "time"

// Token representa una mascota digital con dueño único.
// El TokenID lo elige quien mintea (no es autogenerado); una vez minteado
// nunca se reusa ni se destruye, solo cambia de dueño.
type Token struct {
	ID    uint64
	Owner string // account id del dueño actual

	MintedAt  time.Time
	UpdatedAt time.Time
}
