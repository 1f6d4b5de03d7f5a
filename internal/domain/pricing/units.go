package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// UnitRule calcula el subtotal de una línea según su unidad de medida.
type UnitRule func(unitPrice, quantity decimal.Decimal) decimal.Decimal

// straight precio por unidad base * cantidad ingresada.
func straight(unitPrice, quantity decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(quantity)
}

// Reglas por nombre de unidad. Hoy todas multiplican directo; aquí se agregan
// factores de conversión (ej. kilos -> gramos) cuando el catálogo los necesite.
var unitRules = map[string]UnitRule{
	"unidad": straight,
	"gramos": straight,
	"cc":     straight,
}

// Subtotal aplica la regla de la unidad (sin distinguir mayúsculas); unidades
// desconocidas usan multiplicación directa. No redondea.
func Subtotal(unitName string, unitPrice, quantity decimal.Decimal) decimal.Decimal {
	if rule, ok := unitRules[strings.ToLower(strings.TrimSpace(unitName))]; ok {
		return rule(unitPrice, quantity)
	}
	return straight(unitPrice, quantity)
}
