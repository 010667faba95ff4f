package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BoqItem es una partida del Bill of Quantities de un proyecto. El BOQ y su
// flujo de aprobación son de otro subsistema: aquí solo se leen.
type BoqItem struct {
	BoqID     int
	ProjectID int
	ItemName  string
	Quantity  decimal.Decimal
	Unit      string
}

// BoqApproval es un ticket de aprobación ligado a un BOQ. Si un BOQ tiene
// varios tickets, solo el más reciente (por orden de creación) determina el
// estado; sin ticket se asume Pending.
type BoqApproval struct {
	ID        int
	BoqID     int
	Status    string // Approved | Pending | Rejected
	CreatedAt time.Time
}
