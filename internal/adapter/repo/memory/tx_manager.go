package memory

import "context"

type txKeyType struct{}

var txKey = txKeyType{}

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

// RunInTx serializes fn against the store and restores the previous state
// when fn fails. A nested call joins the outer lock and rolls back only its
// own changes.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey) == nil {
		t.store.mu.Lock()
		defer t.store.mu.Unlock()
		ctx = context.WithValue(ctx, txKey, true)
	}
	saved := t.store.save()
	if err := fn(ctx); err != nil {
		t.store.restore(saved)
		return err
	}
	return nil
}
