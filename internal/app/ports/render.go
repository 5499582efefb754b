package ports

import "github.com/ExploryKod/Anoria/internal/domain/economy"

// VisualSink receives render commands. Implementations must not block.
type VisualSink interface {
	CreateVisual(buildingID string, x, y int)
	RemoveVisual(x, y int)
}

type StatsPublisher interface {
	PublishStats(stats economy.Stats)
	PublishGameOver(over economy.GameOver)
}

// ToolState exposes the tool the player currently holds.
type ToolState interface {
	BulldozeActive() bool
}
