package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuotationLineRequest par (ingrediente, cantidad) de la tabla dinámica.
type QuotationLineRequest struct {
	IngredientID string          `json:"ing_id"`
	Quantity     decimal.Decimal `json:"cantidad"`
}

// PricingModeRequest modo de precio; vacío usa el configurado por defecto.
type PricingModeRequest struct {
	Mode          string          `json:"mode" validate:"omitempty,oneof=margin equalLabor"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
}

// CreateQuotationRequest entrada para calcular o guardar una cotización.
type CreateQuotationRequest struct {
	Lines   []QuotationLineRequest `json:"lines" validate:"dive"`
	Pricing *PricingModeRequest    `json:"pricing,omitempty"`
}

// ConvertQuotationRequest guarda la cotización y la convierte en pedido.
type ConvertQuotationRequest struct {
	CreateQuotationRequest
	FirstName  string           `json:"nombre" validate:"required,max=100"`
	LastName   string           `json:"apellido" validate:"required,max=100"`
	Email      string           `json:"email" validate:"required,email"`
	DeliveryAt time.Time        `json:"fecha_entrega"`
	Price      *decimal.Decimal `json:"precio,omitempty"` // vacío = total de la cotización
}

// QuotationLineResponse línea calculada o del detalle persistido.
type QuotationLineResponse struct {
	IngredientID string          `json:"ing_id"`
	Name         string          `json:"nombre"`
	Quantity     decimal.Decimal `json:"cantidad"`
	UnitPrice    decimal.Decimal `json:"precio_unitario"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	UnitName     string          `json:"unidad_medida"`
}

// QuotationPreviewResponse totales sin persistir.
type QuotationPreviewResponse struct {
	Lines          []QuotationLineResponse `json:"lines"`
	TotalCost      decimal.Decimal         `json:"total_cost"`
	LaborCost      decimal.Decimal         `json:"labor_cost"`
	SuggestedPrice decimal.Decimal         `json:"suggested_price"`
	RoundedTotal   decimal.Decimal         `json:"rounded_total"`
}

// QuotationResponse cotización persistida.
type QuotationResponse struct {
	ID        string                  `json:"cot_id"`
	CreatedAt time.Time               `json:"cot_fecha"`
	Total     decimal.Decimal         `json:"cot_total"`
	ClientID  *string                 `json:"cli_id,omitempty"`
	Detail    []QuotationLineResponse `json:"cot_detalle"`
}

// QuotationListResponse historial paginado.
type QuotationListResponse struct {
	Items []QuotationResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// ConvertQuotationResponse resultado de guardar y convertir.
type ConvertQuotationResponse struct {
	QuotationID string        `json:"cot_id"`
	Order       OrderResponse `json:"pedido"`
}
