package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ExploryKod/Anoria/internal/app/ports"
	"github.com/ExploryKod/Anoria/internal/domain/building"
	"github.com/ExploryKod/Anoria/internal/domain/economy"
)

// Buildings implements ports.BuildingLedger over a repository pair.
// Every method runs in its own transaction, or joins the caller's.
type Buildings struct {
	TxManager ports.TxManager
	Repo      ports.BuildingRepository
	Game      ports.GameRepository
	Logger    *slog.Logger
}

func (l Buildings) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

// AddAndPay inserts rec and charges its price to the latest game row.
// It reports false, with nothing written, when the city cannot afford it or
// the building already exists.
func (l Buildings) AddAndPay(ctx context.Context, rec building.Record) (bool, error) {
	paid := false
	err := l.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		row, err := l.Game.Latest(txCtx)
		if err != nil {
			return fmt.Errorf("load game ledger: %w", err)
		}
		snap, err := economy.DecodeSnapshot(row.Document)
		if err != nil {
			return err
		}
		if !snap.CanAfford(rec.Price) {
			l.logger().Warn("purchase refused",
				"building", rec.Name, "price", rec.Price, "funds", snap.Funds, "debt", snap.Debt)
			return nil
		}
		if err := l.Repo.Insert(txCtx, rec); err != nil {
			if errors.Is(err, ports.ErrConflict) {
				l.logger().Warn("building already exists", "building", rec.Name)
				return nil
			}
			return fmt.Errorf("insert building %s: %w", rec.Name, err)
		}
		snap.Pay(rec.Price)
		doc, err := snap.Encode()
		if err != nil {
			return err
		}
		if err := l.Game.Replace(txCtx, row.Name, doc); err != nil {
			return fmt.Errorf("charge %s: %w", rec.Name, err)
		}
		paid = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return paid, nil
}

func (l Buildings) Get(ctx context.Context, name string) (building.Record, error) {
	var out building.Record
	err := l.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		rec, err := l.Repo.Get(txCtx, name)
		if err != nil {
			return err
		}
		out = rec
		return nil
	})
	return out, err
}

// GetField reports ok=false when the record or the key is absent.
func (l Buildings) GetField(ctx context.Context, name, key string) (any, bool, error) {
	rec, err := l.Get(ctx, name)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	v, ok := rec.Field(key)
	return v, ok, nil
}

// UpdateFields is a no-op when name does not exist.
func (l Buildings) UpdateFields(ctx context.Context, name string, patch building.Patch, appendArrays bool) error {
	return l.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		rec, err := l.Repo.Get(txCtx, name)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				l.logger().Debug("update skipped, building missing", "building", name)
				return nil
			}
			return err
		}
		rec.ApplyPatch(patch, appendArrays)
		return l.Repo.Save(txCtx, rec)
	})
}

// IncrementField reports whether the increment was applied. A missing
// record or an unmet condition is a silent no-op.
func (l Buildings) IncrementField(ctx context.Context, inc building.Increment, cond *building.Condition) (bool, error) {
	if !inc.Field.Valid() {
		return false, fmt.Errorf("%w: %s", building.ErrUnknownField, inc.Field)
	}
	if err := cond.Validate(); err != nil {
		return false, err
	}
	applied := false
	err := l.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		ok, err := l.Repo.Increment(txCtx, inc, cond)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return nil
			}
			return err
		}
		applied = ok
		return nil
	})
	if err != nil {
		return false, err
	}
	if !applied {
		l.logger().Debug("increment skipped", "building", inc.Name, "field", inc.Field)
	}
	return applied, nil
}

// RenameAndMigrate moves oldName to newName with o applied. Both keys are
// never live at the same time outside the transaction.
func (l Buildings) RenameAndMigrate(ctx context.Context, oldName, newName string, o building.Overrides) error {
	return l.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		rec, err := l.Repo.Get(txCtx, oldName)
		if err != nil {
			return fmt.Errorf("load %s: %w", oldName, err)
		}
		if err := l.Repo.Insert(txCtx, rec.Migrate(newName, o)); err != nil {
			return fmt.Errorf("insert %s: %w", newName, err)
		}
		if err := l.Repo.Delete(txCtx, oldName); err != nil {
			return fmt.Errorf("delete %s: %w", oldName, err)
		}
		return nil
	})
}

func (l Buildings) DeleteOne(ctx context.Context, name string) error {
	return l.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		return l.Repo.Delete(txCtx, name)
	})
}

func (l Buildings) ClearAll(ctx context.Context) error {
	return l.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		return l.Repo.DeleteAll(txCtx)
	})
}

func (l Buildings) ListAll(ctx context.Context) ([]building.Record, error) {
	var out []building.Record
	err := l.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		recs, err := l.Repo.List(txCtx)
		out = recs
		return err
	})
	return out, err
}

func (l Buildings) GlobalPopulation(ctx context.Context) (int, error) {
	var total int
	err := l.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		n, err := l.Repo.SumPopulation(txCtx)
		total = n
		return err
	})
	return total, err
}

func (l Buildings) GlobalBuildingPrices(ctx context.Context) (int, error) {
	var total int
	err := l.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		n, err := l.Repo.SumPrices(txCtx)
		total = n
		return err
	})
	return total, err
}

func (l Buildings) ExpensesByType(ctx context.Context) ([]building.Expense, error) {
	var out []building.Expense
	err := l.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		exp, err := l.Repo.ExpensesByType(txCtx)
		out = exp
		return err
	})
	return out, err
}
