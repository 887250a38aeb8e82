package auth

import "context"

// AuthVerifier verifica un Bearer token contra el IAM y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
