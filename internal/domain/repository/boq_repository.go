package repository

import (
	"context"

	"github.com/jpcastellanos/obra-api/internal/domain/entity"
)

// BoqRepository define el puerto de solo lectura sobre el BOQ y su flujo de
// aprobación (otro subsistema es el dueño de esas tablas).
type BoqRepository interface {
	ItemsForProject(ctx context.Context, projectID int) ([]*entity.BoqItem, error)
	// LatestApprovals devuelve, por boqId, el estado del ticket de aprobación
	// más reciente del proyecto. Un BOQ sin entrada en el mapa no tiene
	// ticket todavía y se trata como Pending.
	LatestApprovals(ctx context.Context, projectID int) (map[int]string, error)
}
