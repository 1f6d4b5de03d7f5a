package conversion

import (
	"context"

	"github.com/jhoicas/sippa-api/internal/domain/repository"
)

// ConversionTxRunner ejecuta fn dentro de una transacción que cubre clientes y pedidos.
// Si fn devuelve error la transacción se revierte completa.
type ConversionTxRunner interface {
	RunConversion(ctx context.Context, fn func(clients repository.ClientRepository, orders repository.OrderRepository) error) error
}
