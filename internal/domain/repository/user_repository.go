package repository

import (
	"context"

	"github.com/jhoicas/sippa-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// FindByEmail devuelve (nil, nil) si no existe.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// ProfileRepository tabla de perfiles (rol por usuario).
type ProfileRepository interface {
	// GetByUserID devuelve (nil, nil) si el usuario no tiene perfil.
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
	Upsert(ctx context.Context, profile *entity.Profile) error
}
