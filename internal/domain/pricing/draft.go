package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sippa-api/internal/domain"
)

// Draft borrador de cotización en curso: filas dinámicas de ingredientes sobre una
// foto del catálogo. Cada mutación invalida los totales cacheados, así que Totals
// siempre refleja el estado actual sin un "recalcular" explícito.
// No es seguro para uso concurrente (una sesión por dispositivo).
type Draft struct {
	catalog *Catalog
	mode    Mode
	lines   []SelectedLine

	cached *Result
}

// NewDraft crea un borrador vacío.
func NewDraft(catalog *Catalog, mode Mode) *Draft {
	return &Draft{catalog: catalog, mode: mode}
}

// DraftFromSelections arma un borrador con una fila por selección.
func DraftFromSelections(catalog *Catalog, mode Mode, selections []Selection) *Draft {
	d := NewDraft(catalog, mode)
	for _, s := range selections {
		d.lines = append(d.lines, capture(catalog, s))
	}
	return d
}

// AddLine agrega una fila vacía (sin ingrediente, cantidad 1) y devuelve su índice.
func (d *Draft) AddLine() int {
	d.lines = append(d.lines, SelectedLine{Quantity: decimal.NewFromInt(1)})
	d.invalidate()
	return len(d.lines) - 1
}

// SetIngredient asigna el ingrediente de la fila i copiando su precio y unidad
// actuales. Un ID desconocido deja la fila sin resolver (precio 0).
func (d *Draft) SetIngredient(i int, ingredientID string) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	qty := d.lines[i].Quantity
	d.lines[i] = capture(d.catalog, Selection{IngredientID: ingredientID, Quantity: qty})
	d.invalidate()
	return nil
}

// SetQuantity cambia la cantidad de la fila i.
func (d *Draft) SetQuantity(i int, quantity decimal.Decimal) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.lines[i].Quantity = quantity
	d.invalidate()
	return nil
}

// RemoveLine quita la fila i.
func (d *Draft) RemoveLine(i int) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.lines = append(d.lines[:i], d.lines[i+1:]...)
	d.invalidate()
	return nil
}

// SetMode cambia el modo de precio.
func (d *Draft) SetMode(m Mode) {
	d.mode = m
	d.invalidate()
}

// Mode modo de precio actual.
func (d *Draft) Mode() Mode { return d.mode }

// Lines copia de las filas actuales (incluye las no elegibles).
func (d *Draft) Lines() []SelectedLine {
	out := make([]SelectedLine, len(d.lines))
	copy(out, d.lines)
	return out
}

// EligibleCount cantidad de filas que entran en los totales.
func (d *Draft) EligibleCount() int {
	n := 0
	for _, l := range d.lines {
		if l.Eligible() {
			n++
		}
	}
	return n
}

// Totals devuelve los totales del estado actual, usando el cache si no hubo cambios.
// Lines es una copia: modificarla no altera el cache.
func (d *Draft) Totals() (Result, error) {
	if d.cached == nil {
		res, err := Compute(d.lines, d.mode)
		if err != nil {
			return Result{}, err
		}
		d.cached = &res
	}
	out := *d.cached
	out.Lines = make([]SelectedLine, len(d.cached.Lines))
	copy(out.Lines, d.cached.Lines)
	return out, nil
}

// Reset descarta todas las filas y deja una vacía, como al abrir la pantalla.
func (d *Draft) Reset() {
	d.lines = nil
	d.invalidate()
	d.AddLine()
}

func (d *Draft) invalidate() {
	d.cached = nil
}

func (d *Draft) checkIndex(i int) error {
	if i < 0 || i >= len(d.lines) {
		return fmt.Errorf("%w: fila %d fuera de rango", domain.ErrInvalidInput, i)
	}
	return nil
}
