package sqliterepo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type txKeyType struct{}

var txKey = txKeyType{}

type txState struct {
	tx    *sqlx.Tx
	depth int
}

func txFromCtx(ctx context.Context) (txState, bool) {
	st, ok := ctx.Value(txKey).(txState)
	return st, ok && st.tx != nil
}

// getDB returns the transaction carried by ctx, or base outside one.
func getDB(ctx context.Context, base *sqlx.DB) sqlx.ExtContext {
	if st, ok := txFromCtx(ctx); ok {
		return st.tx
	}
	return base
}

type TxManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) TxManager {
	return TxManager{db: db}
}

// RunInTx commits fn's writes together. A nested call runs inside a
// savepoint of the outer transaction and rolls back only its own writes.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if st, ok := txFromCtx(ctx); ok {
		return t.savepoint(ctx, st, fn)
	}
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey, txState{tx: tx})); err != nil {
		return err
	}
	return tx.Commit()
}

func (t TxManager) savepoint(ctx context.Context, st txState, fn func(ctx context.Context) error) error {
	st.depth++
	name := fmt.Sprintf("sp_%d", st.depth)
	if _, err := st.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("savepoint: %w", err)
	}
	if err := fn(context.WithValue(ctx, txKey, st)); err != nil {
		if _, rbErr := st.tx.ExecContext(ctx, "ROLLBACK TO "+name); rbErr != nil {
			return fmt.Errorf("rollback to %s: %w (after %v)", name, rbErr, err)
		}
		return err
	}
	_, err := st.tx.ExecContext(ctx, "RELEASE "+name)
	return err
}
