package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySnapshot es el corte diario de stock por (proyecto, material, fecha).
// Existe exactamente una fila por clave; solo se actualiza la fila del día en
// curso, nunca fechas pasadas. InStockQty y RemainingRequiredQty nunca son
// negativos (se truncan en cero en cada cálculo).
type DailySnapshot struct {
	ID                   string
	ProjectID            int
	ItemKey              string    // nombre normalizado, única clave válida
	Date                 time.Time // día truncado en UTC
	BaselineQty          decimal.Decimal
	InStockQty           decimal.Decimal
	RemainingRequiredQty decimal.Decimal
	UpdatedAt            time.Time
}
