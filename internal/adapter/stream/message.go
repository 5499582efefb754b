package stream

import "github.com/ExploryKod/Anoria/internal/domain/economy"

const (
	TypeVisual   = "visual"
	TypeStats    = "stats"
	TypeGameOver = "game_over"

	OpCreate = "create"
	OpRemove = "remove"
)

type Visual struct {
	Op string `json:"op"`
	ID string `json:"id,omitempty"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

// Message is one frame sent to every connected client.
type Message struct {
	Type     string            `json:"type"`
	Visual   *Visual           `json:"visual,omitempty"`
	Stats    *economy.Stats    `json:"stats,omitempty"`
	GameOver *economy.GameOver `json:"game_over,omitempty"`
}
