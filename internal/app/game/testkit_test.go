package game

import (
	"context"
	"testing"

	"github.com/ExploryKod/Anoria/internal/adapter/repo/memory"
	"github.com/ExploryKod/Anoria/internal/app/command"
	"github.com/ExploryKod/Anoria/internal/app/ledger"
	"github.com/ExploryKod/Anoria/internal/app/turn"
	"github.com/ExploryKod/Anoria/internal/domain/city"
	"github.com/ExploryKod/Anoria/internal/domain/economy"
)

type recordingPublisher struct {
	stats     []economy.Stats
	gameOvers []economy.GameOver
}

func (p *recordingPublisher) PublishStats(s economy.Stats) {
	p.stats = append(p.stats, s)
}

func (p *recordingPublisher) PublishGameOver(g economy.GameOver) {
	p.gameOvers = append(p.gameOvers, g)
}

type testGame struct {
	ctrl      *Controller
	game      ledger.Game
	buildings ledger.Buildings
	publisher *recordingPublisher
}

func newTestGame(t *testing.T) testGame {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxManager(store)
	gameRepo := memory.NewGameRepo(store)
	buildings := ledger.Buildings{TxManager: tx, Repo: memory.NewBuildingRepo(store), Game: gameRepo}
	game := ledger.Game{TxManager: tx, Repo: gameRepo}
	grid, err := city.NewGrid(city.DefaultSize, nil)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	tools := &Toolbox{}
	pub := &recordingPublisher{}
	sim := &turn.Simulator{
		Grid:      grid,
		Buildings: buildings,
		Game:      game,
		TxManager: tx,
		Tools:     tools,
		Rules:     economy.DefaultRules(),
	}
	ctrl := New(Deps{
		Sim:       sim,
		Commands:  command.UseCase{Grid: grid, Buildings: buildings},
		Buildings: buildings,
		Game:      game,
		Tools:     tools,
		Publisher: pub,
	}, MinInterval)
	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return testGame{ctrl: ctrl, game: game, buildings: buildings, publisher: pub}
}

func (g testGame) steps(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, err := g.ctrl.Step(context.Background()); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
}
