package auth

// Claims es la identidad autenticada del caller.
// UserID es el account id que el motor usa como dueño/comprador; el resto es informativo.
type Claims struct {
	UserID   string
	Email    string
	TenantID string
}
