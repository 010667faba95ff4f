package postgres

import (
	"context"
	"fmt"

	"github.com/jpcastellanos/obra-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo lectura mínima del maestro de proyectos.
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

// Exists indica si el proyecto está registrado.
func (r *ProjectRepo) Exists(ctx context.Context, projectID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, projectID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists project: %w", err)
	}
	return exists, nil
}

// ActiveIDs proyectos aprobados, para el corte automático de medianoche.
func (r *ProjectRepo) ActiveIDs(ctx context.Context) ([]int, error) {
	query := `SELECT id FROM projects WHERE status = 'Approved' ORDER BY id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active projects: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan project id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project ids: %w", err)
	}
	return ids, nil
}
