package materials

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jpcastellanos/obra-api/internal/domain/material"
	"github.com/jpcastellanos/obra-api/internal/domain/repository"
	"github.com/jpcastellanos/obra-api/pkg/logger"
)

// DemandItem es la demanda consolidada de un material en un proyecto para una
// corrida de reconciliación. Se recalcula en cada corrida desde la tabla base,
// el libro de movimientos y el BOQ; no se persiste.
type DemandItem struct {
	Key         string // nombre normalizado (clave canónica)
	Display     string // forma de presentación
	BoqUnit     string // unidad de la primera partida BOQ del material
	BaselineQty decimal.Decimal
	ApprovedQty decimal.Decimal
	PendingQty  decimal.Decimal
	RejectedQty decimal.Decimal
	HasLedger   bool // true si el material tiene movimientos registrados
}

// Tracked indica si el material participa del corte diario persistido: entra
// por tabla base, por BOQ aprobado o por actividad en el libro. Una partida
// solo pendiente o rechazada se muestra pero no se persiste.
func (d DemandItem) Tracked() bool {
	return d.BaselineQty.IsPositive() || d.ApprovedQty.IsPositive() || d.HasLedger
}

// DemandAggregator arma la lista canónica de materiales de un proyecto:
// unión de claves de la tabla base, materiales con actividad en el libro y
// partidas BOQ, con las cantidades BOQ repartidas por estado de aprobación.
type DemandAggregator struct {
	movRepo  repository.MovementRepository
	boqRepo  repository.BoqRepository
	baseline map[string]decimal.Decimal // clave normalizada -> requerido diario
	log      *logger.Logger
}

// NewDemandAggregator construye el agregador. baseline es la tabla estática de
// requerimiento diario cargada al arranque; no se muta en runtime.
func NewDemandAggregator(
	movRepo repository.MovementRepository,
	boqRepo repository.BoqRepository,
	baseline map[string]decimal.Decimal,
	log *logger.Logger,
) *DemandAggregator {
	return &DemandAggregator{
		movRepo:  movRepo,
		boqRepo:  boqRepo,
		baseline: baseline,
		log:      log,
	}
}

// Aggregate devuelve la demanda consolidada del proyecto, ordenada por clave
// para que corridas repetidas produzcan listas idénticas. Un proyecto sin
// tabla base ni actividad devuelve lista vacía (no es error).
func (a *DemandAggregator) Aggregate(ctx context.Context, projectID int) ([]DemandItem, error) {
	byKey := make(map[string]*DemandItem)
	ensure := func(rawName string) *DemandItem {
		key := material.NormalizeKey(rawName)
		if it, ok := byKey[key]; ok {
			return it
		}
		it := &DemandItem{Key: key, Display: material.DisplayName(rawName)}
		byKey[key] = it
		return it
	}

	// 1. Tabla base (igual para todos los proyectos)
	for name, qty := range a.baseline {
		it := ensure(name)
		it.BaselineQty = qty
	}

	// 2. Materiales con actividad en el libro de movimientos
	ledgerKeys, err := a.movRepo.ItemKeys(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, key := range ledgerKeys {
		ensure(key).HasLedger = true
	}

	// 3. Partidas BOQ repartidas por el estado del último ticket
	boqItems, err := a.boqRepo.ItemsForProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	approvals, err := a.boqRepo.LatestApprovals(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, bi := range boqItems {
		if material.IsBlankName(bi.ItemName) {
			// Partida sin nombre: se descarta sin abortar el resto del lote
			a.log.Warn().Int("project_id", projectID).Int("boq_id", bi.BoqID).
				Msg("partida BOQ con nombre en blanco, descartada")
			continue
		}
		if bi.ProjectID != projectID {
			a.log.Warn().Int("project_id", projectID).Int("boq_id", bi.BoqID).
				Int("boq_project_id", bi.ProjectID).
				Msg("partida BOQ referencia otro proyecto, omitida")
			continue
		}
		it := ensure(bi.ItemName)
		if it.BoqUnit == "" {
			it.BoqUnit = bi.Unit
		}
		status, ok := approvals[bi.BoqID]
		if !ok {
			// Sin ticket todavía: se trata como pendiente
			status = "Pending"
		}
		switch status {
		case "Approved":
			it.ApprovedQty = it.ApprovedQty.Add(bi.Quantity)
		case "Rejected":
			it.RejectedQty = it.RejectedQty.Add(bi.Quantity)
		default:
			it.PendingQty = it.PendingQty.Add(bi.Quantity)
		}
	}

	items := make([]DemandItem, 0, len(byKey))
	for _, it := range byKey {
		items = append(items, *it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	return items, nil
}
