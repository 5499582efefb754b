package ports

import "context"

// TxManager runs fn in one transaction. Calls made with a ctx that already
// carries a transaction join it instead of opening a new one.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
