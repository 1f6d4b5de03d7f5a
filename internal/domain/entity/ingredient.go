package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient representa un ingrediente del catálogo. Nunca se borra físicamente:
// IsDeleted marca el borrado suave y es reversible.
type Ingredient struct {
	ID        string
	Name      string
	Price     decimal.Decimal // precio por unidad de medida base, >= 0
	UnitID    int
	UnitName  string // nombre de la unidad (join con unidad_medida), "N/A" si no tiene
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UnitOfMeasure unidad de medida referenciada por los ingredientes (unidad, gramos, cc...).
type UnitOfMeasure struct {
	ID   int
	Name string
}
