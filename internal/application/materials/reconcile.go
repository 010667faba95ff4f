package materials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jpcastellanos/obra-api/internal/application/dto"
	"github.com/jpcastellanos/obra-api/internal/domain"
	"github.com/jpcastellanos/obra-api/internal/domain/entity"
	"github.com/jpcastellanos/obra-api/internal/domain/material"
	"github.com/jpcastellanos/obra-api/internal/domain/repository"
	"github.com/jpcastellanos/obra-api/pkg/logger"
)

// unidad por defecto cuando ni el libro ni el BOQ registran una
const fallbackUnit = "Units"

// ReconcileUseCase corre el corte diario de stock de un proyecto y produce el
// tablero de materiales. La corrida completa de un proyecto va en una sola
// transacción; ante una colisión de escritura concurrente se reintenta una vez
// (el cálculo es idempotente, reintentar es seguro).
type ReconcileUseCase struct {
	agg      *DemandAggregator
	tx       TxRunner
	snapRepo repository.SnapshotRepository
	projRepo repository.ProjectRepository
	log      *logger.Logger
	now      func() time.Time // inyectable en tests
}

func NewReconcileUseCase(
	agg *DemandAggregator,
	tx TxRunner,
	snapRepo repository.SnapshotRepository,
	projRepo repository.ProjectRepository,
	log *logger.Logger,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		agg:      agg,
		tx:       tx,
		snapRepo: snapRepo,
		projRepo: projRepo,
		log:      log.Component("reconciliador"),
		now:      time.Now,
	}
}

// GetMaterialRows reconcilia el proyecto y devuelve el tablero completo de
// materiales del día, numerado desde 1 en orden estable.
func (uc *ReconcileUseCase) GetMaterialRows(ctx context.Context, projectID int) ([]dto.MaterialRow, error) {
	if err := uc.checkProject(ctx, projectID); err != nil {
		return nil, err
	}
	return uc.reconcileWithRetry(ctx, projectID)
}

// GetUrgentRows reconcilia el proyecto y devuelve solo las filas con nivel
// Urgent, renumeradas desde 1.
func (uc *ReconcileUseCase) GetUrgentRows(ctx context.Context, projectID int) ([]dto.MaterialRow, error) {
	rows, err := uc.GetMaterialRows(ctx, projectID)
	if err != nil {
		return nil, err
	}
	urgent := make([]dto.MaterialRow, 0)
	for _, r := range rows {
		if r.Level == material.LevelUrgent {
			r.SNo = len(urgent) + 1
			urgent = append(urgent, r)
		}
	}
	return urgent, nil
}

// EnsureTodaySnapshot garantiza que el proyecto tenga corte del día en curso.
// Si ya existe al menos una fila de hoy no hace nada; si no, corre la
// reconciliación completa. Lo usa el rollover nocturno y el disparo manual.
func (uc *ReconcileUseCase) EnsureTodaySnapshot(ctx context.Context, projectID int) error {
	if err := uc.checkProject(ctx, projectID); err != nil {
		return err
	}
	today := dayUTC(uc.now())
	exists, err := uc.snapRepo.ExistsForDate(ctx, projectID, today)
	if err != nil {
		return fmt.Errorf("verificando corte del día: %w", err)
	}
	if exists {
		uc.log.Debug().Int("project_id", projectID).Time("date", today).
			Msg("el proyecto ya tiene corte de hoy, rollover omitido")
		return nil
	}
	_, err = uc.reconcileWithRetry(ctx, projectID)
	return err
}

func (uc *ReconcileUseCase) checkProject(ctx context.Context, projectID int) error {
	ok, err := uc.projRepo.Exists(ctx, projectID)
	if err != nil {
		return fmt.Errorf("verificando proyecto %d: %w", projectID, err)
	}
	if !ok {
		return fmt.Errorf("proyecto %d: %w", projectID, domain.ErrNotFound)
	}
	return nil
}

// reconcileWithRetry corre la reconciliación y, si otra corrida simultánea
// provocó un conflicto de unicidad en el corte, reintenta una sola vez.
func (uc *ReconcileUseCase) reconcileWithRetry(ctx context.Context, projectID int) ([]dto.MaterialRow, error) {
	rows, err := uc.reconcileProject(ctx, projectID)
	if errors.Is(err, domain.ErrConflict) {
		uc.log.Warn().Int("project_id", projectID).
			Msg("colisión de escritura en el corte diario, reintentando reconciliación")
		rows, err = uc.reconcileProject(ctx, projectID)
	}
	return rows, err
}

// reconcileProject ejecuta una corrida completa: agrega la demanda, y dentro
// de una transacción calcula y guarda el corte de hoy de cada material,
// armando de paso las filas del tablero.
func (uc *ReconcileUseCase) reconcileProject(ctx context.Context, projectID int) ([]dto.MaterialRow, error) {
	items, err := uc.agg.Aggregate(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("agregando demanda del proyecto %d: %w", projectID, err)
	}

	today := dayUTC(uc.now())
	yesterday := today.AddDate(0, 0, -1)

	var rows []dto.MaterialRow
	err = uc.tx.Run(ctx, func(movRepo repository.MovementRepository, snapRepo repository.SnapshotRepository) error {
		rows = rows[:0] // en un reintento la transacción anterior quedó revertida
		for _, item := range items {
			if item.Tracked() {
				row, rerr := uc.reconcileItem(ctx, movRepo, snapRepo, projectID, item, today, yesterday)
				if rerr != nil {
					return rerr
				}
				rows = append(rows, row)
			}

			// Las partidas pendientes o rechazadas se muestran como filas
			// informativas aparte; no tocan el corte persistido.
			if item.PendingQty.IsPositive() {
				rows = append(rows, uc.ticketRow(item, item.PendingQty, entity.StatusPending))
			}
			if item.RejectedQty.IsPositive() {
				rows = append(rows, uc.ticketRow(item, item.RejectedQty, entity.StatusRejected))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].SNo = i + 1
	}
	return rows, nil
}

// reconcileItem calcula y persiste el corte de hoy de un material y devuelve
// su fila del tablero.
func (uc *ReconcileUseCase) reconcileItem(
	ctx context.Context,
	movRepo repository.MovementRepository,
	snapRepo repository.SnapshotRepository,
	projectID int,
	item DemandItem,
	today, yesterday time.Time,
) (dto.MaterialRow, error) {
	prev, err := snapRepo.GetForDate(ctx, projectID, item.Key, yesterday)
	if err != nil {
		return dto.MaterialRow{}, fmt.Errorf("leyendo corte de ayer de %q: %w", item.Key, err)
	}
	carry := decimal.Zero
	if prev != nil {
		carry = prev.RemainingRequiredQty
	}

	totalIn, err := movRepo.SumApproved(ctx, projectID, item.Key, entity.DirectionInward)
	if err != nil {
		return dto.MaterialRow{}, fmt.Errorf("sumando entradas de %q: %w", item.Key, err)
	}
	totalOut, err := movRepo.SumApproved(ctx, projectID, item.Key, entity.DirectionOutward)
	if err != nil {
		return dto.MaterialRow{}, fmt.Errorf("sumando salidas de %q: %w", item.Key, err)
	}

	res := material.Reconcile(material.CalcInput{
		YesterdayRemaining: carry,
		BaselineQty:        item.BaselineQty,
		ApprovedBoqQty:     item.ApprovedQty,
		TotalInward:        totalIn,
		TotalOutward:       totalOut,
	})

	if err := snapRepo.Upsert(ctx, &entity.DailySnapshot{
		ProjectID:            projectID,
		ItemKey:              item.Key,
		Date:                 today,
		BaselineQty:          item.BaselineQty,
		InStockQty:           res.InStock,
		RemainingRequiredQty: res.Required,
	}); err != nil {
		return dto.MaterialRow{}, fmt.Errorf("guardando corte de %q: %w", item.Key, err)
	}

	unit, err := uc.resolveUnit(ctx, movRepo, projectID, item)
	if err != nil {
		return dto.MaterialRow{}, err
	}

	row := dto.MaterialRow{
		MaterialList:     item.Display,
		InStockQuantity:  formatQty(res.InStock, unit),
		RequiredQuantity: formatQty(res.Required, unit),
		Level:            material.ClassifyUrgency(res.Required, res.InStock),
	}
	if item.ApprovedQty.IsPositive() {
		row.RequestStatus = entity.StatusApproved
	}
	return row, nil
}

// ticketRow arma la fila informativa de una partida BOQ pendiente o rechazada:
// sin stock ni nivel, solo la cantidad solicitada y el estado del ticket.
func (uc *ReconcileUseCase) ticketRow(item DemandItem, qty decimal.Decimal, status string) dto.MaterialRow {
	unit := item.BoqUnit
	if unit == "" {
		unit = fallbackUnit
	}
	return dto.MaterialRow{
		MaterialList:     item.Display,
		RequiredQuantity: formatQty(qty, unit),
		RequestStatus:    status,
	}
}

// resolveUnit elige la unidad de presentación: primera unidad registrada en
// entradas, luego en salidas, luego la del BOQ, o "Units" si nada aplica.
func (uc *ReconcileUseCase) resolveUnit(
	ctx context.Context,
	movRepo repository.MovementRepository,
	projectID int,
	item DemandItem,
) (string, error) {
	for _, dir := range []string{entity.DirectionInward, entity.DirectionOutward} {
		u, err := movRepo.FirstUnit(ctx, projectID, item.Key, dir)
		if err != nil {
			return "", fmt.Errorf("resolviendo unidad de %q: %w", item.Key, err)
		}
		if u != "" {
			return u, nil
		}
	}
	if item.BoqUnit != "" {
		return item.BoqUnit, nil
	}
	return fallbackUnit, nil
}

// dayUTC trunca un instante al día en UTC; toda fecha de corte se guarda así.
func dayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// formatQty presenta una cantidad con su unidad ("25 Units"). String() de
// decimal descarta ceros a la derecha, así "20.00" sale como "20".
func formatQty(q decimal.Decimal, unit string) string {
	return q.String() + " " + unit
}
