package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido.
const (
	OrderStatusPending   = "PENDIENTE"  // agendado directamente
	OrderStatusConfirmed = "CONFIRMADO" // creado desde una cotización
	OrderStatusDelivered = "ENTREGADO"
	OrderStatusCanceled  = "CANCELADO"
)

// ValidOrderStatus indica si s es un estado conocido.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// Order pedido agendado. Siempre referencia un cliente resuelto.
type Order struct {
	ID          string
	ClientID    string
	QuotationID *string
	DeliveryAt  time.Time
	Price       decimal.Decimal
	Status      string
	CreatedAt   time.Time
}
