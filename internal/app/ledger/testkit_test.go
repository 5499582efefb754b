package ledger

import (
	"context"
	"testing"

	"github.com/ExploryKod/Anoria/internal/adapter/repo/memory"
	"github.com/ExploryKod/Anoria/internal/app/ports"
	"github.com/ExploryKod/Anoria/internal/domain/economy"
)

type testLedgers struct {
	store     *memory.Store
	buildings Buildings
	game      Game
}

func newTestLedgers(t *testing.T, funds int) testLedgers {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxManager(store)
	gameRepo := memory.NewGameRepo(store)
	l := testLedgers{
		store: store,
		buildings: Buildings{
			TxManager: tx,
			Repo:      memory.NewBuildingRepo(store),
			Game:      gameRepo,
		},
		game: Game{TxManager: tx, Repo: gameRepo},
	}
	snap := economy.NewSnapshot("test-game", 0)
	snap.Funds = funds
	if err := l.game.AddSnapshot(context.Background(), snap); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	return l
}

func (l testLedgers) mustLatest(t *testing.T) economy.Snapshot {
	t.Helper()
	s, err := l.game.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest snapshot: %v", err)
	}
	return s
}

var _ ports.BuildingLedger = Buildings{}
var _ ports.GameLedger = Game{}
