package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Quotation cabecera de una cotización. Detail es una foto inmutable de las líneas
// al momento de guardar; nunca se reescribe.
type Quotation struct {
	ID        string
	CreatedAt time.Time
	Total     decimal.Decimal // entero, redondeado
	Detail    json.RawMessage
	ClientID  *string
}

// QuotationDetailLine forma persistida de cada línea del detalle (contrato durable).
type QuotationDetailLine struct {
	IngredientID string          `json:"ing_id"`
	Name         string          `json:"nombre"`
	Quantity     decimal.Decimal `json:"cantidad"`
	UnitPrice    decimal.Decimal `json:"precio_unitario"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	UnitName     string          `json:"unidad_medida"`
}

// MarshalJSON escribe cantidad, precio y subtotal como números JSON, no como
// cadenas. La lectura acepta ambas formas.
func (l QuotationDetailLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		IngredientID string      `json:"ing_id"`
		Name         string      `json:"nombre"`
		Quantity     json.Number `json:"cantidad"`
		UnitPrice    json.Number `json:"precio_unitario"`
		Subtotal     json.Number `json:"subtotal"`
		UnitName     string      `json:"unidad_medida"`
	}{
		IngredientID: l.IngredientID,
		Name:         l.Name,
		Quantity:     json.Number(l.Quantity.String()),
		UnitPrice:    json.Number(l.UnitPrice.String()),
		Subtotal:     json.Number(l.Subtotal.String()),
		UnitName:     l.UnitName,
	})
}
