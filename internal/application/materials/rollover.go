package materials

import (
	"context"
	"time"

	"github.com/jpcastellanos/obra-api/internal/domain/repository"
	"github.com/jpcastellanos/obra-api/pkg/logger"
)

// NightlyRollover corre el corte automático: a la hora configurada (UTC) de
// cada día garantiza el corte de todos los proyectos activos. Si el proceso
// estuvo caído a medianoche, la primera consulta del día igual genera el corte
// (EnsureTodaySnapshot), así que perder una corrida no deja huecos.
type NightlyRollover struct {
	reconcile *ReconcileUseCase
	projRepo  repository.ProjectRepository
	hourUTC   int
	log       *logger.Logger
	now       func() time.Time
	sleep     func(context.Context, time.Duration) bool
}

func NewNightlyRollover(
	reconcile *ReconcileUseCase,
	projRepo repository.ProjectRepository,
	hourUTC int,
	log *logger.Logger,
) *NightlyRollover {
	return &NightlyRollover{
		reconcile: reconcile,
		projRepo:  projRepo,
		hourUTC:   hourUTC,
		log:       log.Component("rollover"),
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

// Run bloquea hasta que el contexto se cancele, disparando una pasada por
// cada día. Pensado para correr en su propia goroutine desde main.
func (n *NightlyRollover) Run(ctx context.Context) {
	for {
		wait := n.untilNextRun()
		n.log.Info().Dur("wait", wait).Msg("próximo corte automático programado")
		if !n.sleep(ctx, wait) {
			n.log.Info().Msg("corte automático detenido")
			return
		}
		n.RunOnce(ctx)
	}
}

// RunOnce garantiza el corte de hoy para todos los proyectos activos. Un
// proyecto que falle no detiene a los demás.
func (n *NightlyRollover) RunOnce(ctx context.Context) {
	ids, err := n.projRepo.ActiveIDs(ctx)
	if err != nil {
		n.log.Error().Err(err).Msg("no se pudo listar proyectos activos")
		return
	}
	for _, id := range ids {
		if err := n.reconcile.EnsureTodaySnapshot(ctx, id); err != nil {
			n.log.Error().Err(err).Int("project_id", id).Msg("corte automático del proyecto falló")
			continue
		}
		n.log.Info().Int("project_id", id).Msg("corte automático del proyecto listo")
	}
}

// untilNextRun tiempo hasta la próxima corrida: la hora configurada del día
// siguiente si la de hoy ya pasó. Se añaden unos segundos de margen para no
// correr justo en el cambio de día.
func (n *NightlyRollover) untilNextRun() time.Duration {
	now := n.now().UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), n.hourUTC, 0, 5, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// sleepCtx espera d o hasta que el contexto se cancele; false si se canceló.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
