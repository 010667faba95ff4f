package postgres

import (
	"context"
	"fmt"

	"github.com/jpcastellanos/obra-api/internal/domain/entity"
	"github.com/jpcastellanos/obra-api/internal/domain/repository"
)

var _ repository.BoqRepository = (*BoqRepo)(nil)

// BoqRepo lectura del BOQ y su flujo de aprobación. Las tablas boq_items y
// boq_approvals pertenecen al subsistema de presupuestos; aquí solo SELECT.
type BoqRepo struct {
	q Querier
}

// NewBoqRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBoqRepository(q Querier) *BoqRepo {
	return &BoqRepo{q: q}
}

// ItemsForProject partidas BOQ del proyecto.
func (r *BoqRepo) ItemsForProject(ctx context.Context, projectID int) ([]*entity.BoqItem, error) {
	query := `
		SELECT boq_id, project_id, item_name, quantity, unit
		FROM boq_items
		WHERE project_id = $1
		ORDER BY boq_id`
	rows, err := r.q.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list boq items: %w", err)
	}
	defer rows.Close()

	var out []*entity.BoqItem
	for rows.Next() {
		var bi entity.BoqItem
		if err := rows.Scan(&bi.BoqID, &bi.ProjectID, &bi.ItemName, &bi.Quantity, &bi.Unit); err != nil {
			return nil, fmt.Errorf("scan boq item: %w", err)
		}
		out = append(out, &bi)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate boq items: %w", err)
	}
	return out, nil
}

// LatestApprovals estado del ticket más reciente por boq_id. Un BOQ con varios
// tickets queda representado solo por el último; sin ticket no aparece en el mapa.
func (r *BoqRepo) LatestApprovals(ctx context.Context, projectID int) (map[int]string, error) {
	query := `
		SELECT DISTINCT ON (a.boq_id) a.boq_id, a.status
		FROM boq_approvals a
		JOIN boq_items b ON b.boq_id = a.boq_id
		WHERE b.project_id = $1
		ORDER BY a.boq_id, a.created_at DESC, a.id DESC`
	rows, err := r.q.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list boq approvals: %w", err)
	}
	defer rows.Close()

	out := make(map[int]string)
	for rows.Next() {
		var boqID int
		var status string
		if err := rows.Scan(&boqID, &status); err != nil {
			return nil, fmt.Errorf("scan boq approval: %w", err)
		}
		out[boqID] = status
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate boq approvals: %w", err)
	}
	return out, nil
}
