package material

import "github.com/shopspring/decimal"

// CalcInput son las entradas del cálculo diario de un material en un proyecto.
// Los acumulados de entrada/salida son históricos (no solo del día) y ya
// vienen filtrados por estado Approved.
type CalcInput struct {
	YesterdayRemaining decimal.Decimal // requerido no cubierto del corte de ayer (0 si no hay corte)
	BaselineQty        decimal.Decimal // requerimiento diario de tabla base (0 si no aplica)
	ApprovedBoqQty     decimal.Decimal // demanda BOQ aprobada
	TotalInward        decimal.Decimal // acumulado histórico de entradas aprobadas
	TotalOutward       decimal.Decimal // acumulado histórico de salidas aprobadas
}

// CalcResult es el resultado del corte diario de un material.
type CalcResult struct {
	InStock  decimal.Decimal
	Required decimal.Decimal
}

// Reconcile calcula el stock disponible y el requerido del día (función pura):
//
//	InStock  = max(TotalInward - TotalOutward, 0)
//	Required = max(YesterdayRemaining + BaselineQty + ApprovedBoqQty - TotalOutward - InStock, 0)
//
// El requerido parte siempre del corte de ayer más los acumulados frescos,
// nunca incrementando un valor ya guardado: por eso recalcular varias veces el
// mismo día sin movimientos nuevos da el mismo resultado. Las cantidades
// negativas se truncan en cero; un faltante negativo no tiene sentido físico.
func Reconcile(in CalcInput) CalcResult {
	inStock := in.TotalInward.Sub(in.TotalOutward)
	if inStock.LessThan(decimal.Zero) {
		inStock = decimal.Zero
	}
	required := in.YesterdayRemaining.
		Add(in.BaselineQty).
		Add(in.ApprovedBoqQty).
		Sub(in.TotalOutward).
		Sub(inStock)
	if required.LessThan(decimal.Zero) {
		required = decimal.Zero
	}
	return CalcResult{InStock: inStock, Required: required}
}
