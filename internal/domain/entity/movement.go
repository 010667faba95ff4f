package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de movimiento de material en obra.
const (
	DirectionInward  = "INWARD"  // recepción de material (GRN)
	DirectionOutward = "OUTWARD" // salida a frente de obra (vale de salida)
)

// Estados de aprobación de un movimiento. Solo los movimientos aprobados
// entran en los acumulados de stock físico.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// Movement es un registro del libro de movimientos de material: inmutable una
// vez aprobado. ItemKey guarda el nombre normalizado (clave canónica) y
// ItemName la forma original capturada en obra.
type Movement struct {
	ID           string
	ProjectID    int
	ItemName     string
	ItemKey      string
	Direction    string
	Quantity     decimal.Decimal // siempre >= 0; la dirección da el signo lógico
	Unit         string
	Status       string
	Reference    string // GRN (entrada) o número de vale (salida)
	Counterparty string // proveedor que entrega o cuadrilla que recibe
	Remarks      string
	OccurredAt   time.Time
	CreatedAt    time.Time
	CreatedBy    string
}
