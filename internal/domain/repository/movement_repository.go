package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jpcastellanos/obra-api/internal/domain/entity"
)

// MovementRepository define el puerto sobre el libro de movimientos de
// material. El libro es append-only: el motor solo escribe registros nuevos y
// lee agregados; nunca actualiza ni bloquea filas existentes.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// SumApproved devuelve el acumulado histórico de cantidades con estado
	// Approved para (proyecto, clave normalizada, dirección). El filtro por
	// clave es insensible a mayúsculas porque item_key ya va normalizado.
	SumApproved(ctx context.Context, projectID int, itemKey, direction string) (decimal.Decimal, error)
	// ItemKeys lista las claves normalizadas con actividad en el proyecto.
	ItemKeys(ctx context.Context, projectID int) ([]string, error)
	// FirstUnit devuelve la primera unidad no vacía registrada para el
	// material en la dirección dada, o "" si no hay ninguna.
	FirstUnit(ctx context.Context, projectID int, itemKey, direction string) (string, error)
	// ListByProject lista movimientos del proyecto, opcionalmente filtrados
	// por dirección ("" = ambas), más recientes primero.
	ListByProject(ctx context.Context, projectID int, direction string, limit, offset int) ([]*entity.Movement, error)
}
