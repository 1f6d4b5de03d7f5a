package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sippa-api/internal/domain"
)

// Kind modo de cálculo del precio sugerido.
type Kind string

const (
	// KindMargin precio = costo * (1 + margen/100).
	KindMargin Kind = "margin"
	// KindEqualLabor la mano de obra vale lo mismo que los ingredientes (recargo del 100%).
	KindEqualLabor Kind = "equalLabor"
)

var hundred = decimal.NewFromInt(100)

// Mode configuración de precio de una cotización. MarginPercent solo aplica a KindMargin.
type Mode struct {
	Kind          Kind
	MarginPercent decimal.Decimal
}

// MarginMode construye un modo de margen porcentual.
func MarginMode(percent decimal.Decimal) Mode {
	return Mode{Kind: KindMargin, MarginPercent: percent}
}

// EqualLaborMode construye el modo de mano de obra igual al costo.
func EqualLaborMode() Mode {
	return Mode{Kind: KindEqualLabor}
}

// ParseMode arma un Mode desde los valores de entrada (request o config).
// Un kind vacío equivale a KindEqualLabor.
func ParseMode(kind string, marginPercent decimal.Decimal) (Mode, error) {
	switch Kind(kind) {
	case "", KindEqualLabor:
		return EqualLaborMode(), nil
	case KindMargin:
		m := MarginMode(marginPercent)
		return m, m.Validate()
	default:
		return Mode{}, domain.NewValidationError(domain.ReasonInvalidPricingMode)
	}
}

// Validate un margen negativo es un error de validación, no se ajusta a cero.
func (m Mode) Validate() error {
	switch m.Kind {
	case KindEqualLabor:
		return nil
	case KindMargin:
		if m.MarginPercent.IsNegative() {
			return domain.NewValidationError(domain.ReasonNegativeMargin)
		}
		return nil
	default:
		return domain.NewValidationError(domain.ReasonInvalidPricingMode)
	}
}

// apply devuelve (manoDeObra, precioSugerido) para un costo total.
func (m Mode) apply(totalCost decimal.Decimal) (labor, suggested decimal.Decimal) {
	switch m.Kind {
	case KindMargin:
		labor = totalCost.Mul(m.MarginPercent).Div(hundred)
	default:
		labor = totalCost
	}
	return labor, totalCost.Add(labor)
}
