package repository

import "context"

// ProjectRepository expone lo mínimo que el motor necesita del maestro de
// proyectos: validar referencias y enumerar proyectos activos para el
// rollover nocturno.
type ProjectRepository interface {
	Exists(ctx context.Context, projectID int) (bool, error)
	ActiveIDs(ctx context.Context) ([]int, error)
}
