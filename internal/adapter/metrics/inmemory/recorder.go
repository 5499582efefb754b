package inmemory

import (
	"sync"
	"time"

	"github.com/ExploryKod/Anoria/internal/domain/economy"
)

type Snapshot struct {
	TurnTotal        uint64            `json:"turn_total"`
	TurnFailure      uint64            `json:"turn_failure"`
	TileFailure      uint64            `json:"tile_failure"`
	LastTurnMillis   int64             `json:"last_turn_ms"`
	PurchasePaid     uint64            `json:"purchase_paid"`
	PurchaseRefused  uint64            `json:"purchase_refused"`
	Evolutions       uint64            `json:"evolutions"`
	GameOverByReason map[string]uint64 `json:"game_over_by_reason"`
}

// Recorder keeps process-lifetime simulation counters.
type Recorder struct {
	mu          sync.Mutex
	turns       uint64
	turnFailure uint64
	tileFailure uint64
	lastTurn    time.Duration
	paid        uint64
	refused     uint64
	evolutions  uint64
	gameOvers   map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		gameOvers: map[string]uint64{},
	}
}

func (r *Recorder) RecordTurn(elapsed time.Duration, tileFailures int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns++
	r.lastTurn = elapsed
	if tileFailures > 0 {
		r.tileFailure += uint64(tileFailures)
	}
}

func (r *Recorder) RecordTurnFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turnFailure++
}

func (r *Recorder) RecordPurchase(paid bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if paid {
		r.paid++
		return
	}
	r.refused++
}

func (r *Recorder) RecordEvolution() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evolutions++
}

func (r *Recorder) RecordGameOver(reason economy.Reason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gameOvers[string(reason)]++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		TurnTotal:        r.turns,
		TurnFailure:      r.turnFailure,
		TileFailure:      r.tileFailure,
		LastTurnMillis:   r.lastTurn.Milliseconds(),
		PurchasePaid:     r.paid,
		PurchaseRefused:  r.refused,
		Evolutions:       r.evolutions,
		GameOverByReason: make(map[string]uint64, len(r.gameOvers)),
	}
	for k, v := range r.gameOvers {
		out.GameOverByReason[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
