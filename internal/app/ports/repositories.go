package ports

import (
	"context"

	"github.com/ExploryKod/Anoria/internal/domain/building"
)

// BuildingRepository stores one row per placed building, keyed by name.
type BuildingRepository interface {
	// Insert returns ErrConflict when the name is taken.
	Insert(ctx context.Context, rec building.Record) error
	Get(ctx context.Context, name string) (building.Record, error)
	// Save overwrites an existing row; ErrNotFound when it is missing.
	Save(ctx context.Context, rec building.Record) error
	// Increment adds inc.By to a counter when cond allows the resulting value.
	Increment(ctx context.Context, inc building.Increment, cond *building.Condition) (bool, error)
	Delete(ctx context.Context, name string) error
	DeleteAll(ctx context.Context) error
	// List is ordered by name then price.
	List(ctx context.Context) ([]building.Record, error)
	SumPopulation(ctx context.Context) (int, error)
	SumPrices(ctx context.Context) (int, error)
	ExpensesByType(ctx context.Context) ([]building.Expense, error)
}

type GameRow struct {
	Seq      int64
	Name     string
	Document []byte
}

// GameRepository stores game ledger rows as JSON documents.
type GameRepository interface {
	// Insert returns ErrConflict when the name is taken.
	Insert(ctx context.Context, row GameRow) error
	Replace(ctx context.Context, name string, doc []byte) error
	DeleteAll(ctx context.Context) error
	// List is ordered oldest first.
	List(ctx context.Context) ([]GameRow, error)
	Latest(ctx context.Context) (GameRow, error)
}
