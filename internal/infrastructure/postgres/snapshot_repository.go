package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jpcastellanos/obra-api/internal/domain"
	"github.com/jpcastellanos/obra-api/internal/domain/entity"
	"github.com/jpcastellanos/obra-api/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo implementación del corte diario sobre PostgreSQL (usable con
// pool o tx). La tabla daily_stocks lleva UNIQUE (project_id, item_key, date);
// el upsert depende de ese índice.
type SnapshotRepo struct {
	q Querier
}

// NewSnapshotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSnapshotRepository(q Querier) *SnapshotRepo {
	return &SnapshotRepo{q: q}
}

// GetForDate obtiene el corte de (proyecto, material, fecha) o nil si no existe.
func (r *SnapshotRepo) GetForDate(ctx context.Context, projectID int, itemKey string, date time.Time) (*entity.DailySnapshot, error) {
	query := `
		SELECT id, project_id, item_key, date, baseline_qty, in_stock_qty, remaining_required_qty, updated_at
		FROM daily_stocks
		WHERE project_id = $1 AND item_key = $2 AND date = $3`
	var s entity.DailySnapshot
	err := r.q.QueryRow(ctx, query, projectID, itemKey, date).Scan(
		&s.ID, &s.ProjectID, &s.ItemKey, &s.Date,
		&s.BaselineQty, &s.InStockQty, &s.RemainingRequiredQty, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza el corte del día. Una violación de unicidad que
// el ON CONFLICT no absorba (carrera entre transacciones serializables) se
// traduce a domain.ErrConflict para que el caller reintente.
func (r *SnapshotRepo) Upsert(ctx context.Context, s *entity.DailySnapshot) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO daily_stocks (id, project_id, item_key, date, baseline_qty, in_stock_qty, remaining_required_qty, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (project_id, item_key, date)
		DO UPDATE SET
			baseline_qty = EXCLUDED.baseline_qty,
			in_stock_qty = EXCLUDED.in_stock_qty,
			remaining_required_qty = EXCLUDED.remaining_required_qty,
			updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.ProjectID, s.ItemKey, s.Date,
		s.BaselineQty, s.InStockQty, s.RemainingRequiredQty,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("upsert snapshot: %w", domain.ErrConflict)
		}
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// ExistsForDate indica si el proyecto ya tiene al menos una fila ese día.
func (r *SnapshotRepo) ExistsForDate(ctx context.Context, projectID int, date time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM daily_stocks WHERE project_id = $1 AND date = $2)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, projectID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists snapshot: %w", err)
	}
	return exists, nil
}

// ListForDate lista los cortes del proyecto en una fecha, ordenados por material.
func (r *SnapshotRepo) ListForDate(ctx context.Context, projectID int, date time.Time) ([]*entity.DailySnapshot, error) {
	query := `
		SELECT id, project_id, item_key, date, baseline_qty, in_stock_qty, remaining_required_qty, updated_at
		FROM daily_stocks
		WHERE project_id = $1 AND date = $2
		ORDER BY item_key`
	rows, err := r.q.Query(ctx, query, projectID, date)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []*entity.DailySnapshot
	for rows.Next() {
		var s entity.DailySnapshot
		if err := rows.Scan(
			&s.ID, &s.ProjectID, &s.ItemKey, &s.Date,
			&s.BaselineQty, &s.InStockQty, &s.RemainingRequiredQty, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}
