package materials

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jpcastellanos/obra-api/internal/domain"
	"github.com/jpcastellanos/obra-api/internal/domain/entity"
	"github.com/jpcastellanos/obra-api/internal/domain/repository"
	"github.com/jpcastellanos/obra-api/pkg/logger"
)

// Fakes en memoria para los tests del caso de uso. Replican el contrato de
// los repositorios Postgres (sumas solo de aprobados, clave normalizada,
// upsert por día) sin base de datos.

type fakeMovRepo struct {
	movs []*entity.Movement
}

func (f *fakeMovRepo) Create(_ context.Context, m *entity.Movement) error {
	cp := *m
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	f.movs = append(f.movs, &cp)
	return nil
}

func (f *fakeMovRepo) SumApproved(_ context.Context, projectID int, itemKey, direction string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range f.movs {
		if m.ProjectID == projectID && m.ItemKey == itemKey &&
			m.Direction == direction && m.Status == entity.StatusApproved {
			total = total.Add(m.Quantity)
		}
	}
	return total, nil
}

func (f *fakeMovRepo) ItemKeys(_ context.Context, projectID int) ([]string, error) {
	seen := map[string]bool{}
	var keys []string
	for _, m := range f.movs {
		if m.ProjectID == projectID && !seen[m.ItemKey] {
			seen[m.ItemKey] = true
			keys = append(keys, m.ItemKey)
		}
	}
	return keys, nil
}

func (f *fakeMovRepo) FirstUnit(_ context.Context, projectID int, itemKey, direction string) (string, error) {
	for _, m := range f.movs {
		if m.ProjectID == projectID && m.ItemKey == itemKey &&
			m.Direction == direction && m.Unit != "" {
			return m.Unit, nil
		}
	}
	return "", nil
}

func (f *fakeMovRepo) ListByProject(_ context.Context, projectID int, direction string, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	// más recientes primero: se recorre al revés del orden de inserción
	for i := len(f.movs) - 1; i >= 0; i-- {
		m := f.movs[i]
		if m.ProjectID != projectID {
			continue
		}
		if direction != "" && m.Direction != direction {
			continue
		}
		out = append(out, m)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type fakeSnapRepo struct {
	snaps   map[string]*entity.DailySnapshot
	upserts int
}

func newFakeSnapRepo() *fakeSnapRepo {
	return &fakeSnapRepo{snaps: map[string]*entity.DailySnapshot{}}
}

func snapKey(projectID int, itemKey string, date time.Time) string {
	return fmt.Sprintf("%d|%s|%s", projectID, itemKey, date.Format("2006-01-02"))
}

func (f *fakeSnapRepo) GetForDate(_ context.Context, projectID int, itemKey string, date time.Time) (*entity.DailySnapshot, error) {
	s, ok := f.snaps[snapKey(projectID, itemKey, date)]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSnapRepo) Upsert(_ context.Context, s *entity.DailySnapshot) error {
	f.upserts++
	cp := *s
	f.snaps[snapKey(s.ProjectID, s.ItemKey, s.Date)] = &cp
	return nil
}

func (f *fakeSnapRepo) ExistsForDate(_ context.Context, projectID int, date time.Time) (bool, error) {
	for _, s := range f.snaps {
		if s.ProjectID == projectID && s.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSnapRepo) ListForDate(_ context.Context, projectID int, date time.Time) ([]*entity.DailySnapshot, error) {
	var out []*entity.DailySnapshot
	for _, s := range f.snaps {
		if s.ProjectID == projectID && s.Date.Equal(date) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeBoqRepo struct {
	items     []*entity.BoqItem
	approvals map[int]string
}

func (f *fakeBoqRepo) ItemsForProject(_ context.Context, projectID int) ([]*entity.BoqItem, error) {
	return f.items, nil
}

func (f *fakeBoqRepo) LatestApprovals(_ context.Context, projectID int) (map[int]string, error) {
	if f.approvals == nil {
		return map[int]string{}, nil
	}
	return f.approvals, nil
}

type fakeProjRepo struct {
	existing map[int]bool
	active   []int
}

func (f *fakeProjRepo) Exists(_ context.Context, projectID int) (bool, error) {
	return f.existing[projectID], nil
}

func (f *fakeProjRepo) ActiveIDs(_ context.Context) ([]int, error) {
	return f.active, nil
}

// fakeTx pasa los mismos fakes a la función: no hay transacción real, pero
// conserva el contrato del puerto. failuresLeft permite simular colisiones de
// escritura concurrente que se resuelven al reintentar.
type fakeTx struct {
	mov          *fakeMovRepo
	snap         *fakeSnapRepo
	failuresLeft int
	runs         int
}

func (t *fakeTx) Run(_ context.Context, fn func(repository.MovementRepository, repository.SnapshotRepository) error) error {
	t.runs++
	if t.failuresLeft > 0 {
		t.failuresLeft--
		return domain.ErrConflict
	}
	return fn(t.mov, t.snap)
}

// entorno de prueba completo con el reloj congelado
type testEngine struct {
	mov  *fakeMovRepo
	snap *fakeSnapRepo
	boq  *fakeBoqRepo
	proj *fakeProjRepo
	tx   *fakeTx
	uc   *ReconcileUseCase
}

func newTestEngine(baseline map[string]decimal.Decimal, now time.Time) *testEngine {
	mov := &fakeMovRepo{}
	snap := newFakeSnapRepo()
	boq := &fakeBoqRepo{}
	proj := &fakeProjRepo{existing: map[int]bool{1: true}}
	tx := &fakeTx{mov: mov, snap: snap}

	log := logger.Nop()
	agg := NewDemandAggregator(mov, boq, baseline, log)
	uc := NewReconcileUseCase(agg, tx, snap, proj, log)
	uc.now = func() time.Time { return now }

	return &testEngine{mov: mov, snap: snap, boq: boq, proj: proj, tx: tx, uc: uc}
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func approvedMovement(projectID int, itemKey, direction, qty, unit string) *entity.Movement {
	return &entity.Movement{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		ItemName:  itemKey,
		ItemKey:   itemKey,
		Direction: direction,
		Quantity:  d(qty),
		Unit:      unit,
		Status:    entity.StatusApproved,
	}
}
