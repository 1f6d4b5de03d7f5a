package repository

import (
	"context"

	"github.com/jhoicas/sippa-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	// Create asigna ID. Devuelve domain.ErrDuplicate si el email ya existe.
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	// GetByEmail devuelve (nil, nil) si no existe.
	GetByEmail(ctx context.Context, email string) (*entity.Client, error)
	List(ctx context.Context) ([]*entity.Client, error)
	Delete(ctx context.Context, id string) error
}
