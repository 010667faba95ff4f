package materials

import (
	"context"

	"github.com/jpcastellanos/obra-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Cada corrida de reconciliación de un proyecto
// lee y escribe sus filas de corte diario dentro de una sola transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		snapRepo repository.SnapshotRepository,
	) error) error
}
