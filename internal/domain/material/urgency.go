package material

import "github.com/shopspring/decimal"

// Niveles de urgencia de desabastecimiento.
const (
	LevelUrgent = "Urgent"
	LevelHigh   = "High"
	LevelMedium = "Medium"
	LevelLow    = "Low"
)

// ClassifyUrgency clasifica qué tan crítico es el faltante de un material
// según lo requerido y lo disponible (servicio de dominio, función pura):
//
//	required == 0            → "" (cubierto, no se clasifica)
//	inStock  == 0            → Urgent
//	inStock <= required/3    → High
//	inStock <= required*2/3  → Medium
//	resto                    → Low
//
// Se compara con productos (3*inStock vs required) para no dividir decimales.
func ClassifyUrgency(required, inStock decimal.Decimal) string {
	if required.LessThanOrEqual(decimal.Zero) {
		return ""
	}
	if inStock.LessThanOrEqual(decimal.Zero) {
		return LevelUrgent
	}
	three := decimal.NewFromInt(3)
	two := decimal.NewFromInt(2)
	if inStock.Mul(three).LessThanOrEqual(required) {
		return LevelHigh
	}
	if inStock.Mul(three).LessThanOrEqual(required.Mul(two)) {
		return LevelMedium
	}
	return LevelLow
}
