package turn

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ExploryKod/Anoria/internal/adapter/repo/memory"
	"github.com/ExploryKod/Anoria/internal/app/ledger"
	"github.com/ExploryKod/Anoria/internal/domain/building"
	"github.com/ExploryKod/Anoria/internal/domain/city"
	"github.com/ExploryKod/Anoria/internal/domain/economy"
)

type recordingVisuals struct {
	ops []string
}

func (v *recordingVisuals) CreateVisual(id string, x, y int) {
	v.ops = append(v.ops, fmt.Sprintf("create %s %d,%d", id, x, y))
}

func (v *recordingVisuals) RemoveVisual(x, y int) {
	v.ops = append(v.ops, fmt.Sprintf("remove %d,%d", x, y))
}

type stubTools struct {
	bulldoze bool
}

func (s *stubTools) BulldozeActive() bool {
	return s.bulldoze
}

type countingMetrics struct {
	turns, turnFailures, tileFailures, evolutions int
}

func (m *countingMetrics) RecordTurn(_ time.Duration, tileFailures int) {
	m.turns++
	m.tileFailures += tileFailures
}
func (m *countingMetrics) RecordTurnFailure() { m.turnFailures++ }
func (m *countingMetrics) RecordPurchase(bool) {}
func (m *countingMetrics) RecordEvolution() { m.evolutions++ }
func (m *countingMetrics) RecordGameOver(economy.Reason) {}

type harness struct {
	store     *memory.Store
	sim       *Simulator
	buildings ledger.Buildings
	game      ledger.Game
	visuals   *recordingVisuals
	tools     *stubTools
	metrics   *countingMetrics
}

// newHarness builds a 16x16 city and runs the opening turn 0.
func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxManager(store)
	gameRepo := memory.NewGameRepo(store)
	grid, err := city.NewGrid(city.DefaultSize, nil)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	h := &harness{
		store:     store,
		buildings: ledger.Buildings{TxManager: tx, Repo: memory.NewBuildingRepo(store), Game: gameRepo},
		game:      ledger.Game{TxManager: tx, Repo: gameRepo},
		visuals:   &recordingVisuals{},
		tools:     &stubTools{},
		metrics:   &countingMetrics{},
	}
	h.sim = &Simulator{
		Grid:      grid,
		Buildings: h.buildings,
		Game:      h.game,
		TxManager: tx,
		Visuals:   h.visuals,
		Tools:     h.tools,
		Metrics:   h.metrics,
		Rules:     economy.DefaultRules(),
		GameID:    "test-game",
	}
	if _, err := h.sim.Update(context.Background(), 0); err != nil {
		t.Fatalf("turn 0: %v", err)
	}
	return h
}

// place buys and draws a building the way the controller does.
func (h *harness) place(t *testing.T, typ string, x, y int) {
	t.Helper()
	ctx := context.Background()
	paid, err := h.buildings.AddAndPay(ctx, building.NewRecord(typ, x, y, 0))
	if err != nil || !paid {
		t.Fatalf("place %s at %d,%d: paid=%v err=%v", typ, x, y, paid, err)
	}
	h.sim.Grid.SetBuildingID(x, y, typ)
	if err := h.sim.SyncVisuals(ctx); err != nil {
		t.Fatalf("sync visuals: %v", err)
	}
}

func (h *harness) run(t *testing.T, from, to int) Result {
	t.Helper()
	var res Result
	for turn := from; turn <= to; turn++ {
		r, err := h.sim.Update(context.Background(), turn)
		if err != nil {
			t.Fatalf("turn %d: %v", turn, err)
		}
		res = r
	}
	return res
}

func (h *harness) record(t *testing.T, name string) building.Record {
	t.Helper()
	rec, err := h.buildings.Get(context.Background(), name)
	if err != nil {
		t.Fatalf("get %s: %v", name, err)
	}
	return rec
}
