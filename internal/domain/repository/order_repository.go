package repository

import (
	"context"
	"time"

	"github.com/jhoicas/sippa-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order.
type OrderRepository interface {
	// Create asigna ID y CreatedAt.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByQuotationID(ctx context.Context, quotationID string) (*entity.Order, error)
	// ListByDeliveryRange lista pedidos con entrega en [from, to) ordenados por fecha de entrega.
	ListByDeliveryRange(ctx context.Context, from, to time.Time) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
