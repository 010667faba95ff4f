package repository

import (
	"context"
	"time"

	"github.com/jpcastellanos/obra-api/internal/domain/entity"
)

// SnapshotRepository define el puerto sobre el corte diario de stock.
// La tabla lleva un índice único sobre (project_id, item_key, date): el
// upsert-on-conflict es obligatorio para que dos reconciliaciones simultáneas
// no dupliquen filas ni se pisen la actualización.
type SnapshotRepository interface {
	// GetForDate devuelve el corte de (proyecto, material, fecha) o nil si no existe.
	GetForDate(ctx context.Context, projectID int, itemKey string, date time.Time) (*entity.DailySnapshot, error)
	Upsert(ctx context.Context, snapshot *entity.DailySnapshot) error
	// ExistsForDate indica si el proyecto ya tiene al menos una fila ese día.
	ExistsForDate(ctx context.Context, projectID int, date time.Time) (bool, error)
	ListForDate(ctx context.Context, projectID int, date time.Time) ([]*entity.DailySnapshot, error)
}
