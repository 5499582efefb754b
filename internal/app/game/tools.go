package game

import (
	"sync"

	"github.com/ExploryKod/Anoria/internal/domain/building"
)

// Toolbox holds the tool the player has selected. The simulator reads it
// while the controller lock is held, so it carries its own lock.
type Toolbox struct {
	mu     sync.RWMutex
	active string
}

func (t *Toolbox) Select(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = id
}

func (t *Toolbox) Active() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}

func (t *Toolbox) BulldozeActive() bool {
	return t.Active() == building.Bulldoze
}

func validTool(id string) bool {
	if id == "" || id == building.Bulldoze {
		return true
	}
	_, ok := building.Lookup(id)
	return ok
}
