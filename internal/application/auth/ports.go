package auth

import (
	"context"

	"github.com/jhoicas/sippa-api/internal/domain/entity"
)

// Connectivity sondeo puntual de conectividad con el backend remoto.
type Connectivity interface {
	IsOnline(ctx context.Context) bool
}

// CredentialStore valor local único con el email del último login online exitoso.
// Nunca guarda contraseñas ni tokens.
type CredentialStore interface {
	// SetCredential reemplaza el valor almacenado.
	SetCredential(ctx context.Context, email string) error
	HasCredential(ctx context.Context) (bool, error)
	// MatchesCredential comparación exacta y sensible a mayúsculas.
	MatchesCredential(ctx context.Context, email string) (bool, error)
}

// RemoteAuthenticator verificación de credenciales contra el backend remoto.
type RemoteAuthenticator interface {
	SignIn(ctx context.Context, email, password string) (*entity.User, error)
}
