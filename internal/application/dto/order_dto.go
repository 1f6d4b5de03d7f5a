package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateClientRequest entrada para crear un cliente.
type CreateClientRequest struct {
	FirstName string `json:"cli_nombre" validate:"required,max=100"`
	LastName  string `json:"cli_apellido" validate:"required,max=100"`
	Email     string `json:"cli_email" validate:"required,email"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID        string `json:"cli_id"`
	FirstName string `json:"cli_nombre"`
	LastName  string `json:"cli_apellido"`
	Email     string `json:"cli_email"`
}

// ScheduleOrderRequest agenda un pedido directo (sin cotización), estado PENDIENTE.
type ScheduleOrderRequest struct {
	ClientID   string          `json:"cli_id" validate:"required"`
	DeliveryAt time.Time       `json:"ped_fecha_entrega"`
	Price      decimal.Decimal `json:"ped_precio"`
}

// UpdateOrderStatusRequest cambio de estado.
type UpdateOrderStatusRequest struct {
	Status string `json:"ped_estado" validate:"required,oneof=PENDIENTE CONFIRMADO ENTREGADO CANCELADO"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID          string          `json:"ped_id"`
	ClientID    string          `json:"cli_id"`
	QuotationID *string         `json:"cot_id,omitempty"`
	DeliveryAt  time.Time       `json:"ped_fecha_entrega"`
	Price       decimal.Decimal `json:"ped_precio"`
	Status      string          `json:"ped_estado"`
	CreatedAt   time.Time       `json:"created_at"`
}
