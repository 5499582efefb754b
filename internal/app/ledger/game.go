package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ExploryKod/Anoria/internal/app/ports"
	"github.com/ExploryKod/Anoria/internal/domain/economy"
)

// Game implements ports.GameLedger.
type Game struct {
	TxManager ports.TxManager
	Repo      ports.GameRepository
	Logger    *slog.Logger
}

func (l Game) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

// AddSnapshot skips, with a warning, a row whose name already exists.
func (l Game) AddSnapshot(ctx context.Context, s economy.Snapshot) error {
	doc, err := s.Encode()
	if err != nil {
		return err
	}
	return l.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		err := l.Repo.Insert(txCtx, ports.GameRow{Name: s.Name, Document: doc})
		if errors.Is(err, ports.ErrConflict) {
			l.logger().Warn("game snapshot already exists", "snapshot", s.Name)
			return nil
		}
		return err
	})
}

// UpdateLatest rewrites the newest row through fn. The row keeps its name.
func (l Game) UpdateLatest(ctx context.Context, fn func(*economy.Snapshot)) (economy.Snapshot, error) {
	var out economy.Snapshot
	err := l.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		row, err := l.Repo.Latest(txCtx)
		if err != nil {
			return err
		}
		snap, err := economy.DecodeSnapshot(row.Document)
		if err != nil {
			return err
		}
		fn(&snap)
		snap.Name = row.Name
		doc, err := snap.Encode()
		if err != nil {
			return err
		}
		if err := l.Repo.Replace(txCtx, row.Name, doc); err != nil {
			return fmt.Errorf("replace %s: %w", row.Name, err)
		}
		out = snap
		return nil
	})
	return out, err
}

func (l Game) Clear(ctx context.Context) error {
	return l.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		return l.Repo.DeleteAll(txCtx)
	})
}

func (l Game) ListAll(ctx context.Context) ([]economy.Snapshot, error) {
	var out []economy.Snapshot
	err := l.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		rows, err := l.Repo.List(txCtx)
		if err != nil {
			return err
		}
		out = make([]economy.Snapshot, 0, len(rows))
		for _, row := range rows {
			snap, err := economy.DecodeSnapshot(row.Document)
			if err != nil {
				return fmt.Errorf("row %s: %w", row.Name, err)
			}
			out = append(out, snap)
		}
		return nil
	})
	return out, err
}

func (l Game) Latest(ctx context.Context) (economy.Snapshot, error) {
	var out economy.Snapshot
	err := l.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		row, err := l.Repo.Latest(txCtx)
		if err != nil {
			return err
		}
		out, err = economy.DecodeSnapshot(row.Document)
		return err
	})
	return out, err
}

// LatestByField walks rows newest to oldest and returns the first value
// stored under field.
func (l Game) LatestByField(ctx context.Context, field string) (any, bool, error) {
	var (
		value any
		found bool
	)
	err := l.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		rows, err := l.Repo.List(txCtx)
		if err != nil {
			return err
		}
		for i := len(rows) - 1; i >= 0; i-- {
			v, ok, err := economy.LookupField(rows[i].Document, field)
			if err != nil {
				return fmt.Errorf("row %s: %w", rows[i].Name, err)
			}
			if ok {
				value, found = v, true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, found, nil
}
