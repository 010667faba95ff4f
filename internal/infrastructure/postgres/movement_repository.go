package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jpcastellanos/obra-api/internal/domain/entity"
	"github.com/jpcastellanos/obra-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). La tabla es append-only: aquí no hay UPDATE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento del libro.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, project_id, item_name, item_key, direction, quantity, unit, status, reference, counterparty, remarks, occurred_at, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), $13)`
	createdBy := (*string)(nil)
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProjectID, m.ItemName, m.ItemKey, m.Direction,
		m.Quantity, m.Unit, m.Status, m.Reference, m.Counterparty,
		m.Remarks, m.OccurredAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// SumApproved acumulado histórico de cantidades aprobadas por dirección.
func (r *MovementRepo) SumApproved(ctx context.Context, projectID int, itemKey, direction string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_movements
		WHERE project_id = $1 AND item_key = $2 AND direction = $3 AND status = $4`
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, query, projectID, itemKey, direction, entity.StatusApproved).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum approved movements: %w", err)
	}
	return total, nil
}

// ItemKeys claves normalizadas con actividad en el proyecto.
func (r *MovementRepo) ItemKeys(ctx context.Context, projectID int) ([]string, error) {
	query := `SELECT DISTINCT item_key FROM stock_movements WHERE project_id = $1`
	rows, err := r.q.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list item keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan item key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item keys: %w", err)
	}
	return keys, nil
}

// FirstUnit primera unidad no vacía registrada para el material en esa dirección.
func (r *MovementRepo) FirstUnit(ctx context.Context, projectID int, itemKey, direction string) (string, error) {
	query := `
		SELECT unit FROM stock_movements
		WHERE project_id = $1 AND item_key = $2 AND direction = $3 AND unit <> ''
		ORDER BY occurred_at ASC
		LIMIT 1`
	var unit string
	err := r.q.QueryRow(ctx, query, projectID, itemKey, direction).Scan(&unit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("first unit: %w", err)
	}
	return unit, nil
}

// ListByProject lista movimientos, más recientes primero. direction vacío = ambas.
func (r *MovementRepo) ListByProject(ctx context.Context, projectID int, direction string, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT id, project_id, item_name, item_key, direction, quantity, unit, status, reference, counterparty, remarks, occurred_at, created_at, created_by
		FROM stock_movements WHERE project_id = $1`
	args := []any{projectID}
	pos := 2
	if direction != "" {
		query += fmt.Sprintf(" AND direction = $%d", pos)
		args = append(args, direction)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY occurred_at DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var createdBy *string
		if err := rows.Scan(
			&m.ID, &m.ProjectID, &m.ItemName, &m.ItemKey, &m.Direction,
			&m.Quantity, &m.Unit, &m.Status, &m.Reference, &m.Counterparty,
			&m.Remarks, &m.OccurredAt, &m.CreatedAt, &createdBy,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movements: %w", err)
	}
	return out, nil
}
