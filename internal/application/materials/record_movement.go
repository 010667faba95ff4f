package materials

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jpcastellanos/obra-api/internal/application/dto"
	"github.com/jpcastellanos/obra-api/internal/domain"
	"github.com/jpcastellanos/obra-api/internal/domain/entity"
	"github.com/jpcastellanos/obra-api/internal/domain/material"
	"github.com/jpcastellanos/obra-api/internal/domain/repository"
	"github.com/jpcastellanos/obra-api/pkg/logger"
)

// RegisterMovementUseCase registra movimientos en el libro y dispara la
// reconciliación del proyecto cuando el movimiento queda aprobado (solo lo
// aprobado mueve el stock físico).
type RegisterMovementUseCase struct {
	movRepo   repository.MovementRepository
	projRepo  repository.ProjectRepository
	reconcile *ReconcileUseCase
	log       *logger.Logger
}

func NewRegisterMovementUseCase(
	movRepo repository.MovementRepository,
	projRepo repository.ProjectRepository,
	reconcile *ReconcileUseCase,
	log *logger.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		movRepo:   movRepo,
		projRepo:  projRepo,
		reconcile: reconcile,
		log:       log.Component("movimientos"),
	}
}

// RegisterMovement valida y persiste un movimiento. Si queda con estado
// Approved, recalcula el corte del proyecto; un fallo en ese recálculo se
// registra en el log pero no revierte el movimiento ya escrito (la siguiente
// reconciliación lo recogerá igual, el libro es la fuente de verdad).
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, req *dto.RecordMovementRequest, createdBy string) (*dto.MovementResponse, error) {
	if material.IsBlankName(req.ItemName) {
		return nil, fmt.Errorf("nombre de material vacío: %w", domain.ErrInvalidInput)
	}
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("la cantidad debe ser mayor que cero: %w", domain.ErrInvalidInput)
	}
	ok, err := uc.projRepo.Exists(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("verificando proyecto %d: %w", req.ProjectID, err)
	}
	if !ok {
		return nil, fmt.Errorf("proyecto %d: %w", req.ProjectID, domain.ErrNotFound)
	}

	status := req.Status
	if status == "" {
		status = entity.StatusPending
	}
	occurredAt := uc.reconcile.now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	mov := &entity.Movement{
		ID:           uuid.NewString(),
		ProjectID:    req.ProjectID,
		ItemName:     req.ItemName,
		ItemKey:      material.NormalizeKey(req.ItemName),
		Direction:    req.Direction,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Status:       status,
		Reference:    req.Reference,
		Counterparty: req.Counterparty,
		Remarks:      req.Remarks,
		OccurredAt:   occurredAt,
		CreatedBy:    createdBy,
	}
	if err := uc.movRepo.Create(ctx, mov); err != nil {
		return nil, fmt.Errorf("creando movimiento: %w", err)
	}

	uc.log.Info().
		Str("movement_id", mov.ID).
		Int("project_id", mov.ProjectID).
		Str("item_key", mov.ItemKey).
		Str("direction", mov.Direction).
		Str("quantity", mov.Quantity.String()).
		Str("status", mov.Status).
		Msg("movimiento registrado")

	if status == entity.StatusApproved {
		if _, rerr := uc.reconcile.reconcileWithRetry(ctx, req.ProjectID); rerr != nil {
			uc.log.Warn().Err(rerr).Int("project_id", req.ProjectID).
				Msg("el movimiento quedó registrado pero la reconciliación falló")
		}
	}

	return toMovementResponse(mov), nil
}

// ListMovements lista el libro del proyecto, más recientes primero. direction
// vacío lista ambas direcciones. Un proyecto sin movimientos devuelve lista
// vacía, no error.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, projectID int, direction string, page dto.PageRequest) ([]*dto.MovementResponse, error) {
	if direction != "" && direction != entity.DirectionInward && direction != entity.DirectionOutward {
		return nil, fmt.Errorf("dirección %q desconocida: %w", direction, domain.ErrInvalidInput)
	}
	movs, err := uc.movRepo.ListByProject(ctx, projectID, direction, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listando movimientos del proyecto %d: %w", projectID, err)
	}
	out := make([]*dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:           m.ID,
		ProjectID:    m.ProjectID,
		ItemName:     m.ItemName,
		Direction:    m.Direction,
		Quantity:     m.Quantity,
		Unit:         m.Unit,
		Status:       m.Status,
		Reference:    m.Reference,
		Counterparty: m.Counterparty,
		Remarks:      m.Remarks,
		OccurredAt:   m.OccurredAt,
		CreatedBy:    m.CreatedBy,
	}
}
