package ports

import (
	"context"

	"github.com/ExploryKod/Anoria/internal/domain/building"
	"github.com/ExploryKod/Anoria/internal/domain/economy"
)

// BuildingLedger is the transactional building store the simulation uses.
// Each call is atomic.
type BuildingLedger interface {
	AddAndPay(ctx context.Context, rec building.Record) (bool, error)
	Get(ctx context.Context, name string) (building.Record, error)
	GetField(ctx context.Context, name, key string) (any, bool, error)
	UpdateFields(ctx context.Context, name string, patch building.Patch, appendArrays bool) error
	IncrementField(ctx context.Context, inc building.Increment, cond *building.Condition) (bool, error)
	RenameAndMigrate(ctx context.Context, oldName, newName string, o building.Overrides) error
	DeleteOne(ctx context.Context, name string) error
	ClearAll(ctx context.Context) error
	ListAll(ctx context.Context) ([]building.Record, error)
	GlobalPopulation(ctx context.Context) (int, error)
	GlobalBuildingPrices(ctx context.Context) (int, error)
	ExpensesByType(ctx context.Context) ([]building.Expense, error)
}

// GameLedger keeps the economic snapshot; in practice only the latest row.
type GameLedger interface {
	AddSnapshot(ctx context.Context, s economy.Snapshot) error
	UpdateLatest(ctx context.Context, fn func(*economy.Snapshot)) (economy.Snapshot, error)
	Clear(ctx context.Context) error
	ListAll(ctx context.Context) ([]economy.Snapshot, error)
	Latest(ctx context.Context) (economy.Snapshot, error)
	LatestByField(ctx context.Context, field string) (any, bool, error)
}
