package memory

import (
	"context"

	"github.com/ExploryKod/Anoria/internal/app/ports"
)

type GameRepo struct {
	store *Store
}

func NewGameRepo(store *Store) GameRepo {
	return GameRepo{store: store}
}

func (r GameRepo) Insert(_ context.Context, row ports.GameRow) error {
	if err := r.store.fault("game.insert"); err != nil {
		return err
	}
	for _, existing := range r.store.game {
		if existing.Name == row.Name {
			return ports.ErrConflict
		}
	}
	r.store.nextSeq++
	row.Seq = r.store.nextSeq
	row.Document = append([]byte(nil), row.Document...)
	r.store.game = append(r.store.game, row)
	return nil
}

func (r GameRepo) Replace(_ context.Context, name string, doc []byte) error {
	if err := r.store.fault("game.replace"); err != nil {
		return err
	}
	for i := range r.store.game {
		if r.store.game[i].Name == name {
			r.store.game[i].Document = append([]byte(nil), doc...)
			return nil
		}
	}
	return ports.ErrNotFound
}

func (r GameRepo) DeleteAll(_ context.Context) error {
	r.store.game = nil
	return nil
}

func (r GameRepo) List(_ context.Context) ([]ports.GameRow, error) {
	return append([]ports.GameRow(nil), r.store.game...), nil
}

func (r GameRepo) Latest(_ context.Context) (ports.GameRow, error) {
	if len(r.store.game) == 0 {
		return ports.GameRow{}, ports.ErrNotFound
	}
	return r.store.game[len(r.store.game)-1], nil
}
