package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrUnauthenticated    = errors.New("no autenticado")
	ErrNoCachedSession    = errors.New("sin conexión y sin sesión previa almacenada")
	ErrAlreadyConverted   = errors.New("la cotización ya fue convertida en pedido")
)

// Motivos de ValidationError.
const (
	ReasonEmptySelection     = "empty-selection"
	ReasonNegativeMargin     = "negative-margin"
	ReasonInvalidPricingMode = "invalid-pricing-mode"
	ReasonMissingClientData  = "missing-client-data"
	ReasonMissingDelivery    = "missing-delivery"
	ReasonNegativePrice      = "negative-price"
)

// ValidationError error recuperable que se muestra al operador; nunca se reintenta.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validación: " + e.Reason
}

// NewValidationError construye un ValidationError con el motivo dado.
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation indica si err es un ValidationError con el motivo indicado ("" = cualquiera).
func IsValidation(err error, reason string) bool {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	return reason == "" || ve.Reason == reason
}

// PersistenceError el backend rechazó una escritura o lectura. Err es la causa sin interpretar.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistencia (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ClientCreationError falló la creación del cliente durante la conversión.
type ClientCreationError struct {
	Err error
}

func (e *ClientCreationError) Error() string {
	return fmt.Sprintf("crear cliente: %v", e.Err)
}

func (e *ClientCreationError) Unwrap() error { return e.Err }

// OrderCreationError falló la creación del pedido durante la conversión.
type OrderCreationError struct {
	Err error
}

func (e *OrderCreationError) Error() string {
	return fmt.Sprintf("crear pedido: %v", e.Err)
}

func (e *OrderCreationError) Unwrap() error { return e.Err }
