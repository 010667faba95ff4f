package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/inventory/movements.
// Quantity debe ser > 0; la dirección indica si entra o sale de bodega.
type RecordMovementRequest struct {
	ProjectID    int             `json:"project_id" validate:"required,gt=0"`
	ItemName     string          `json:"item_name" validate:"required"`
	Direction    string          `json:"direction" validate:"required,oneof=INWARD OUTWARD"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Status       string          `json:"status" validate:"omitempty,oneof=Pending Approved Rejected"`
	Reference    string          `json:"reference"`    // GRN o número de vale
	Counterparty string          `json:"counterparty"` // proveedor o cuadrilla
	Remarks      string          `json:"remarks"`
	OccurredAt   *time.Time      `json:"occurred_at,omitempty"`
}

// MovementResponse respuesta al registrar o listar un movimiento.
type MovementResponse struct {
	ID           string          `json:"id"`
	ProjectID    int             `json:"project_id"`
	ItemName     string          `json:"item_name"`
	Direction    string          `json:"direction"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Status       string          `json:"status"`
	Reference    string          `json:"reference,omitempty"`
	Counterparty string          `json:"counterparty,omitempty"`
	Remarks      string          `json:"remarks,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
	CreatedBy    string          `json:"created_by,omitempty"`
}
