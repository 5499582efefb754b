package ports

import (
	"time"

	"github.com/ExploryKod/Anoria/internal/domain/economy"
)

type TurnMetrics interface {
	RecordTurn(elapsed time.Duration, tileFailures int)
	RecordTurnFailure()
	RecordPurchase(paid bool)
	RecordEvolution()
	RecordGameOver(reason economy.Reason)
}
