package turn

import (
	"context"
	"errors"
	"testing"

	"github.com/ExploryKod/Anoria/internal/app/ports"
	"github.com/ExploryKod/Anoria/internal/domain/building"
	"github.com/ExploryKod/Anoria/internal/domain/economy"
)

func TestUpdate_FarmMarketHouseEvolves(t *testing.T) {
	h := newHarness(t)
	h.place(t, building.FarmWheat, 5, 5)
	h.place(t, building.HouseRed, 5, 6)
	h.place(t, building.MarketStall, 5, 7)

	h.run(t, 1, 3)
	house := h.record(t, "House-Red-5-6")
	if house.Stocks.Food <= 0 {
		t.Fatalf("expected food delivered by turn 3, got %+v", house.Stocks)
	}
	if house.Time != 3 {
		t.Fatalf("expected time=3, got %d", house.Time)
	}

	before := len(h.visuals.ops)
	res := h.run(t, 4, 4)
	if got := h.visuals.ops[before:]; len(got) != 2 || got[0] != "remove 5,6" || got[1] != "create House-2Story 5,6" {
		t.Fatalf("expected one redraw for the evolution, got %v", got)
	}
	if res.Evolutions != 1 {
		t.Fatalf("expected one evolution on turn 4, got %d", res.Evolutions)
	}
	if _, err := h.buildings.Get(context.Background(), "House-Red-5-6"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected old key gone, got %v", err)
	}
	up := h.record(t, "House-2Story-5-6")
	if up.Type != building.House2Story || up.Price != 20 {
		t.Fatalf("unexpected upgraded record: %+v", up)
	}
	if tile, _ := h.sim.Grid.Tile(5, 6); tile.BuildingID != building.House2Story {
		t.Fatalf("expected grid updated, got %q", tile.BuildingID)
	}
	if got := h.visuals.ops[len(h.visuals.ops)-1]; got != "create House-2Story 5,6" {
		t.Fatalf("expected upgraded visual last, got %q", got)
	}

	h.run(t, 5, 9)
	if _, err := h.buildings.Get(context.Background(), "House-Red-5-6"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected house never to revert, got %v", err)
	}
	if rec := h.record(t, "House-2Story-5-6"); rec.Type != building.House2Story {
		t.Fatalf("expected House-2Story to stay, got %s", rec.Type)
	}
}

func TestUpdate_CapsHoldOverManyTurns(t *testing.T) {
	h := newHarness(t)
	h.place(t, building.HouseBlue, 4, 4)
	for _, pos := range [][2]int{{4, 3}, {5, 4}, {4, 5}, {3, 4}, {3, 3}} {
		h.place(t, building.Road, pos[0], pos[1])
	}

	h.run(t, 1, 10)
	rec := h.record(t, "House-Blue-4-4")
	if rec.Pop != building.MaxHousePop {
		t.Fatalf("expected pop=%d, got %d", building.MaxHousePop, rec.Pop)
	}
	if rec.Road != building.MaxRoads {
		t.Fatalf("expected road=%d, got %d", building.MaxRoads, rec.Road)
	}
	if len(rec.Neighbors) != 5 {
		t.Fatalf("expected 5 cached neighbor refs, got %+v", rec.Neighbors)
	}
	if rec.WorldTime != 10 {
		t.Fatalf("expected world_time=10, got %d", rec.WorldTime)
	}
}

func TestUpdate_MarketConservesStock(t *testing.T) {
	h := newHarness(t)
	h.place(t, building.FarmWheat, 8, 6)
	h.place(t, building.FarmCarrot, 9, 7)
	h.place(t, building.HouseRed, 8, 8)
	h.place(t, building.HousePurple, 7, 8)
	h.place(t, building.MarketStall, 8, 7)

	before := h.totalStock(t)
	h.run(t, 1, 1)
	after := h.totalStock(t)

	// two farms produce 1 crop and 3 food each; the rest only moves
	produced := 2 * (1 + building.FoodPerFarm)
	if after-before != produced {
		t.Fatalf("expected stock to grow by production only (%d), got %d", produced, after-before)
	}
	market := h.record(t, "Market-Stall-8-7")
	red := h.record(t, "House-Red-8-8")
	purple := h.record(t, "House-Purple-7-8")
	if red.Stocks.Food != 3 || purple.Stocks.Food != 3 || market.Stocks.Food != 0 {
		t.Fatalf("expected food split 3/3/0, got red=%+v purple=%+v market=%+v", red.Stocks, purple.Stocks, market.Stocks)
	}
	if red.Stocks.Wheat+purple.Stocks.Wheat != 1 || red.Stocks.Carrot+purple.Stocks.Carrot != 1 {
		t.Fatalf("expected one wheat and one carrot delivered, got red=%+v purple=%+v", red.Stocks, purple.Stocks)
	}
}

func (h *harness) totalStock(t *testing.T) int {
	t.Helper()
	recs, err := h.buildings.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	total := 0
	for _, r := range recs {
		total += r.Stocks.Total()
	}
	return total
}

func TestDistribute_MarketLosesWhatHousesGain(t *testing.T) {
	market := building.Stocks{Food: 10, Wheat: 1, Carrot: 3}
	houses := []building.Stocks{{}, {Food: 2}, {}}
	beforeMarket := market.Total()
	beforeHouses := 0
	for _, s := range houses {
		beforeHouses += s.Total()
	}

	moved := distribute(&market, houses)

	afterHouses := 0
	for _, s := range houses {
		afterHouses += s.Total()
	}
	if beforeMarket-market.Total() != afterHouses-beforeHouses {
		t.Fatalf("conservation broken: market lost %d, houses gained %d", beforeMarket-market.Total(), afterHouses-beforeHouses)
	}
	if moved.Total() != afterHouses-beforeHouses {
		t.Fatalf("moved=%d does not match house gain %d", moved.Total(), afterHouses-beforeHouses)
	}
	if market.Food != 1 || houses[0].Food != 3 || houses[1].Food != 5 {
		t.Fatalf("unexpected food split: market=%+v houses=%+v", market, houses)
	}
	if houses[0].Wheat != 1 || houses[1].Wheat != 0 || houses[2].Carrot != 1 {
		t.Fatalf("unexpected crop order: %+v", houses)
	}
}

func TestDistribute_NoHousesKeepsStock(t *testing.T) {
	market := building.Stocks{Food: 6, Cabbage: 2}
	moved := distribute(&market, nil)
	if moved.Total() != 0 || market.Food != 6 || market.Cabbage != 2 {
		t.Fatalf("expected untouched market, got %+v moved=%+v", market, moved)
	}
}

func TestUpdate_BulldozeCountsDeaths(t *testing.T) {
	h := newHarness(t)
	h.place(t, building.HouseRed, 3, 3)
	h.run(t, 1, 2)

	h.sim.Grid.SetBuildingID(3, 3, "")
	h.run(t, 3, 3)
	if _, err := h.buildings.Get(context.Background(), "House-Red-3-3"); err != nil {
		t.Fatalf("expected record kept without bulldoze tool: %v", err)
	}

	h.tools.bulldoze = true
	res := h.run(t, 4, 4)
	if res.Deaths != 2 || res.Stats.Deaths != 2 {
		t.Fatalf("expected 2 deaths, got result=%d stats=%d", res.Deaths, res.Stats.Deaths)
	}
	if _, err := h.buildings.Get(context.Background(), "House-Red-3-3"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected record deleted, got %v", err)
	}
	if h.sim.Rendered(3, 3) != "" {
		t.Fatalf("expected visual removed")
	}
	if got := h.visuals.ops[len(h.visuals.ops)-1]; got != "remove 3,3" {
		t.Fatalf("expected remove visual, got %q", got)
	}

	res = h.run(t, 5, 5)
	if res.Stats.Deaths != 2 {
		t.Fatalf("expected deaths carried over, got %d", res.Stats.Deaths)
	}
}

func TestUpdate_BulldozedHouseFrozenUntilDemolished(t *testing.T) {
	h := newHarness(t)
	h.place(t, building.FarmWheat, 5, 5)
	h.place(t, building.HouseRed, 5, 6)
	h.place(t, building.MarketStall, 5, 7)
	h.run(t, 1, 2)

	h.sim.Grid.SetBuildingID(5, 6, "")
	res := h.run(t, 3, 6)
	if res.Evolutions != 0 || h.metrics.evolutions != 0 {
		t.Fatalf("expected no evolution on a bulldozed tile, got %d", h.metrics.evolutions)
	}
	if tile, _ := h.sim.Grid.Tile(5, 6); tile.BuildingID != "" {
		t.Fatalf("expected bulldozed tile to stay empty, got %q", tile.BuildingID)
	}
	if rec := h.record(t, "House-Red-5-6"); rec.Time != 2 {
		t.Fatalf("expected house lifecycle stopped at time=2, got %d", rec.Time)
	}
	if got := h.sim.Rendered(5, 6); got != building.HouseRed {
		t.Fatalf("expected house still drawn, got %q", got)
	}

	h.tools.bulldoze = true
	h.run(t, 7, 7)
	if _, err := h.buildings.Get(context.Background(), "House-Red-5-6"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected record deleted, got %v", err)
	}
	if got := h.sim.Rendered(5, 6); got != "" {
		t.Fatalf("expected visual removed, got %q", got)
	}
}

func TestUpdate_BulldozeOnBorderTile(t *testing.T) {
	h := newHarness(t)
	h.place(t, building.HouseRed, 0, 5)
	h.sim.Grid.SetBuildingID(0, 5, "")
	h.tools.bulldoze = true

	h.run(t, 1, 1)
	if _, err := h.buildings.Get(context.Background(), "House-Red-0-5"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected border record deleted, got %v", err)
	}
	if got := h.sim.Rendered(0, 5); got != "" {
		t.Fatalf("expected border visual removed, got %q", got)
	}
}

func TestUpdate_DeathLimitTriggersGameOver(t *testing.T) {
	h := newHarness(t)
	h.place(t, building.HouseRed, 3, 3)
	h.run(t, 1, 2)
	if _, err := h.game.UpdateLatest(context.Background(), func(s *economy.Snapshot) { s.Deads = 9 }); err != nil {
		t.Fatalf("seed deaths: %v", err)
	}

	h.tools.bulldoze = true
	h.sim.Grid.SetBuildingID(3, 3, "")
	res := h.run(t, 3, 3)
	if res.GameOver == nil || res.GameOver.Reason != economy.ReasonDeath {
		t.Fatalf("expected death game over, got %+v", res.GameOver)
	}
	if res.Stats.Deaths != 11 {
		t.Fatalf("expected 11 deaths, got %d", res.Stats.Deaths)
	}
}

func TestUpdate_OpensSnapshotWithCarriedEconomy(t *testing.T) {
	h := newHarness(t)
	h.place(t, building.FarmCabbage, 2, 2)
	res := h.run(t, 1, 1)
	if res.Stats.Funds != 270 || res.Stats.Debt != 30 {
		t.Fatalf("expected funds=270 debt=30, got %d/%d", res.Stats.Funds, res.Stats.Debt)
	}
	rows, _ := h.game.ListAll(context.Background())
	if len(rows) != 1 || rows[0].Name != "gameplay_1" || rows[0].LastImmoExpense != 30 {
		t.Fatalf("expected a single gameplay_1 row, got %+v", rows)
	}
	if rows[0].GameID != "test-game" {
		t.Fatalf("expected game id stamped, got %q", rows[0].GameID)
	}
}

func TestUpdate_NewPlacementDrawnOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if paid, _ := h.buildings.AddAndPay(ctx, building.NewRecord(building.Road, 0, 0, 0)); !paid {
		t.Fatalf("buy road")
	}
	h.sim.Grid.SetBuildingID(0, 0, building.Road)

	h.run(t, 1, 2)
	creates := 0
	for _, op := range h.visuals.ops {
		if op == "create roads 0,0" {
			creates++
		}
	}
	if creates != 1 {
		t.Fatalf("expected exactly one create for the border road, got %d (%v)", creates, h.visuals.ops)
	}
}

func TestUpdate_TileFailureDoesNotAbortTurn(t *testing.T) {
	h := newHarness(t)
	h.place(t, building.HouseRed, 3, 3)
	h.place(t, building.HouseBlue, 6, 6)
	h.store.FailOn("buildings.save", errors.New("write failed"))

	res, err := h.sim.Update(context.Background(), 1)
	h.store.FailOn("buildings.save", nil)
	if err != nil {
		t.Fatalf("expected turn to complete, got %v", err)
	}
	if res.TileFailures != 2 {
		t.Fatalf("expected both house tiles to fail, got %d", res.TileFailures)
	}
	if h.metrics.tileFailures != 2 || h.metrics.turns != 2 {
		t.Fatalf("unexpected metrics: %+v", h.metrics)
	}
}

func TestUpdate_SnapshotFailureAbortsTurn(t *testing.T) {
	h := newHarness(t)
	h.store.FailOn("game.insert", errors.New("ledger offline"))
	defer h.store.FailOn("game.insert", nil)

	if _, err := h.sim.Update(context.Background(), 1); err == nil {
		t.Fatalf("expected turn failure")
	}
	if h.metrics.turnFailures != 1 {
		t.Fatalf("expected one turn failure recorded, got %d", h.metrics.turnFailures)
	}
	latest, err := h.game.Latest(context.Background())
	if err != nil || latest.Name != "gameplay_init" {
		t.Fatalf("expected previous snapshot kept, got %+v err=%v", latest, err)
	}
}

func TestReset_RemovesVisuals(t *testing.T) {
	h := newHarness(t)
	h.place(t, building.Road, 2, 2)
	h.sim.Reset()
	if h.sim.Rendered(2, 2) != "" {
		t.Fatalf("expected nothing drawn after reset")
	}
	if got := h.visuals.ops[len(h.visuals.ops)-1]; got != "remove 2,2" {
		t.Fatalf("expected remove op, got %q", got)
	}
}
