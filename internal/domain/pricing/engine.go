// Package pricing es el motor de precios de cotizaciones: subtotales por línea,
// costo total y precio sugerido según el modo configurado. No tiene efectos
// secundarios; depende solo de la foto del catálogo y de la selección.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sippa-api/internal/domain/entity"
)

// DefaultUnitName unidad asumida cuando el ingrediente no tiene unidad asociada.
const DefaultUnitName = "unidad"

// Catalog índice por ID de los ingredientes elegibles para cotizar.
type Catalog struct {
	byID map[string]*entity.Ingredient
}

// NewCatalog indexa la lista recibida (normalmente la ya filtrada por rol).
func NewCatalog(items []*entity.Ingredient) *Catalog {
	c := &Catalog{byID: make(map[string]*entity.Ingredient, len(items))}
	for _, it := range items {
		if it != nil {
			c.byID[it.ID] = it
		}
	}
	return c
}

// Lookup busca un ingrediente por ID.
func (c *Catalog) Lookup(id string) (*entity.Ingredient, bool) {
	if c == nil || id == "" {
		return nil, false
	}
	ing, ok := c.byID[id]
	return ing, ok
}

// Len cantidad de ingredientes del catálogo.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byID)
}

// Selection par (ingrediente, cantidad) ingresado por el usuario.
type Selection struct {
	IngredientID string
	Quantity     decimal.Decimal
}

// SelectedLine línea de borrador con precio y unidad copiados al seleccionar.
// Resolved es false si el ID no existía en el catálogo en ese momento.
type SelectedLine struct {
	IngredientID string
	Name         string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	UnitName     string
	Subtotal     decimal.Decimal
	Resolved     bool
}

// Eligible una línea entra en los totales solo si resolvió y la cantidad es > 0.
func (l SelectedLine) Eligible() bool {
	return l.Resolved && l.Quantity.IsPositive()
}

// Result totales calculados. Los montos no están redondeados.
type Result struct {
	Lines          []SelectedLine // solo líneas elegibles, con Subtotal
	TotalCost      decimal.Decimal
	LaborCost      decimal.Decimal
	SuggestedPrice decimal.Decimal
}

// RoundedTotal precio sugerido redondeado a la unidad monetaria entera (mitad hacia arriba).
func (r Result) RoundedTotal() decimal.Decimal {
	return r.SuggestedPrice.Round(0)
}

// Empty indica que no hubo líneas elegibles.
func (r Result) Empty() bool {
	return len(r.Lines) == 0
}

// capture copia precio, nombre y unidad del catálogo a una línea.
func capture(catalog *Catalog, sel Selection) SelectedLine {
	line := SelectedLine{IngredientID: sel.IngredientID, Quantity: sel.Quantity}
	ing, ok := catalog.Lookup(sel.IngredientID)
	if !ok {
		return line
	}
	line.Resolved = true
	line.Name = ing.Name
	line.UnitPrice = ing.Price
	line.UnitName = ing.UnitName
	if line.UnitName == "" || line.UnitName == "N/A" {
		line.UnitName = DefaultUnitName
	}
	return line
}

// Compute calcula totales sobre líneas ya capturadas. Las no elegibles se omiten
// sin error; el modo inválido sí es error.
func Compute(lines []SelectedLine, mode Mode) (Result, error) {
	if err := mode.Validate(); err != nil {
		return Result{}, err
	}
	res := Result{TotalCost: decimal.Zero}
	for _, l := range lines {
		if !l.Eligible() {
			continue
		}
		l.Subtotal = Subtotal(l.UnitName, l.UnitPrice, l.Quantity)
		res.TotalCost = res.TotalCost.Add(l.Subtotal)
		res.Lines = append(res.Lines, l)
	}
	res.LaborCost, res.SuggestedPrice = mode.apply(res.TotalCost)
	return res, nil
}

// Price resuelve cada selección contra el catálogo y calcula los totales.
func Price(catalog *Catalog, selections []Selection, mode Mode) (Result, error) {
	lines := make([]SelectedLine, 0, len(selections))
	for _, s := range selections {
		lines = append(lines, capture(catalog, s))
	}
	return Compute(lines, mode)
}
