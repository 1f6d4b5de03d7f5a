package repository

import (
	"context"

	"github.com/jhoicas/sippa-api/internal/domain/entity"
)

// QuotationRepository define el puerto de persistencia para Quotation.
// Create asigna ID y CreatedAt (los genera el backend).
type QuotationRepository interface {
	Create(ctx context.Context, q *entity.Quotation) error
	GetByID(ctx context.Context, id string) (*entity.Quotation, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Quotation, error)
}
