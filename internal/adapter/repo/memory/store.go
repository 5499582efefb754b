package memory

import (
	"sync"

	"github.com/ExploryKod/Anoria/internal/app/ports"
	"github.com/ExploryKod/Anoria/internal/domain/building"
)

// Store holds both ledgers in memory. Repositories do not lock on their
// own; they must run inside TxManager.RunInTx.
type Store struct {
	mu      sync.Mutex
	houses  map[string]building.Record
	game    []ports.GameRow
	nextSeq int64
	faults  map[string]error
}

func NewStore() *Store {
	return &Store{
		houses: make(map[string]building.Record),
		faults: make(map[string]error),
	}
}

// FailOn makes the named write step return err until cleared with nil.
// Steps: "buildings.insert", "buildings.save", "buildings.delete",
// "game.insert", "game.replace".
func (s *Store) FailOn(step string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, step)
		return
	}
	s.faults[step] = err
}

func (s *Store) fault(step string) error {
	return s.faults[step]
}

type storeState struct {
	houses  map[string]building.Record
	game    []ports.GameRow
	nextSeq int64
}

func (s *Store) save() storeState {
	houses := make(map[string]building.Record, len(s.houses))
	for k, v := range s.houses {
		houses[k] = v
	}
	return storeState{
		houses:  houses,
		game:    append([]ports.GameRow(nil), s.game...),
		nextSeq: s.nextSeq,
	}
}

func (s *Store) restore(st storeState) {
	s.houses = st.houses
	s.game = st.game
	s.nextSeq = st.nextSeq
}
