package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sippa-api/internal/domain/entity"
)

// CreateIngredientRequest entrada para crear un ingrediente (solo administrador).
type CreateIngredientRequest struct {
	Name   string          `json:"ing_nombre" validate:"required,min=1,max=200"`
	Price  decimal.Decimal `json:"ing_precio"`
	UnitID int             `json:"unmed_id" validate:"required,min=1"`
}

// UpdateIngredientRequest campos opcionales a actualizar.
type UpdateIngredientRequest struct {
	Name   *string          `json:"ing_nombre,omitempty" validate:"omitempty,min=1,max=200"`
	Price  *decimal.Decimal `json:"ing_precio,omitempty"`
	UnitID *int             `json:"unmed_id,omitempty" validate:"omitempty,min=1"`
}

// SetDeletedRequest borrado suave o restauración.
type SetDeletedRequest struct {
	IsDeleted bool `json:"is_deleted"`
}

// IngredientResponse salida de un ingrediente.
type IngredientResponse struct {
	ID        string          `json:"ing_id"`
	Name      string          `json:"ing_nombre"`
	Price     decimal.Decimal `json:"ing_precio"`
	UnitID    int             `json:"unmed_id"`
	UnitName  string          `json:"unmed_nombre"`
	IsDeleted bool            `json:"is_deleted"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UnitResponse salida de una unidad de medida.
type UnitResponse struct {
	ID   int    `json:"unmed_id"`
	Name string `json:"unmed_nombre"`
}

// NewIngredientResponse mapea la entidad a su salida HTTP.
func NewIngredientResponse(i *entity.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:        i.ID,
		Name:      i.Name,
		Price:     i.Price,
		UnitID:    i.UnitID,
		UnitName:  i.UnitName,
		IsDeleted: i.IsDeleted,
		UpdatedAt: i.UpdatedAt,
	}
}

// NewIngredientListResponse mapea una lista de ingredientes.
func NewIngredientListResponse(list []*entity.Ingredient) []IngredientResponse {
	out := make([]IngredientResponse, 0, len(list))
	for _, i := range list {
		out = append(out, NewIngredientResponse(i))
	}
	return out
}
