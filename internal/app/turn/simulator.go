package turn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ExploryKod/Anoria/internal/app/ports"
	"github.com/ExploryKod/Anoria/internal/domain/building"
	"github.com/ExploryKod/Anoria/internal/domain/city"
	"github.com/ExploryKod/Anoria/internal/domain/economy"
)

// Simulator advances the city one turn at a time. It is not safe for
// concurrent use; the game controller is its only caller.
type Simulator struct {
	Grid      *city.Grid
	Buildings ports.BuildingLedger
	Game      ports.GameLedger
	TxManager ports.TxManager
	Visuals   ports.VisualSink
	Tools     ports.ToolState
	Metrics   ports.TurnMetrics
	Rules     economy.Rules
	Logger    *slog.Logger

	// GameID is stamped on every snapshot.
	GameID string

	// placed maps a tile to the building type currently drawn there.
	placed map[city.Point]string
}

type Result struct {
	Turn         int
	Stats        economy.Stats
	GameOver     *economy.GameOver
	TileFailures int
	Evolutions   int
	Deaths       int
}

// pass carries what one turn accumulates across tiles.
type pass struct {
	turn       int
	deaths     int
	evolutions int
}

// Update runs turn t. A failing tile is logged and skipped; a failure in
// the opening or closing economy step aborts the turn.
func (s *Simulator) Update(ctx context.Context, t int) (Result, error) {
	start := time.Now()
	res := Result{Turn: t}

	if err := s.openTurn(ctx, t); err != nil {
		s.metrics().RecordTurnFailure()
		return res, fmt.Errorf("open turn %d: %w", t, err)
	}

	p := &pass{turn: t}
	size := s.Grid.Size()
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if err := s.updateTile(ctx, x, y, p); err != nil {
				res.TileFailures++
				s.logger().Error("tile update failed", "turn", t, "x", x, "y", y, "err", err)
			}
		}
	}

	snap, err := s.closeTurn(ctx, p)
	if err != nil {
		s.metrics().RecordTurnFailure()
		return res, fmt.Errorf("close turn %d: %w", t, err)
	}
	res.Stats = snap.Stats()
	res.Evolutions = p.evolutions
	res.Deaths = p.deaths
	if over, ok := s.Rules.Evaluate(snap); ok {
		res.GameOver = &over
	}

	s.metrics().RecordTurn(time.Since(start), res.TileFailures)
	s.logger().Info("turn complete", "game_id", s.GameID, "summary", res.Stats.String())
	return res, nil
}

func (s *Simulator) updateTile(ctx context.Context, x, y int, p *pass) error {
	tile, ok := s.Grid.Tile(x, y)
	if !ok {
		return nil
	}
	current := s.rendered()[tile.Point()]
	if current == "" {
		return s.syncVisual(ctx, tile)
	}
	if tile.BuildingID == "" {
		// Bulldozed: removed once the bulldoze tool is active, frozen until then.
		if s.bulldozing() {
			return s.demolish(ctx, tile, current, p)
		}
		return s.syncVisual(ctx, tile)
	}
	if s.Grid.InCityLimits(x, y) {
		var err error
		switch {
		case building.IsMarket(current):
			err = s.updateMarket(ctx, tile, current)
		case building.IsHouse(current):
			err = s.updateHouse(ctx, tile, current, p)
		}
		if err != nil {
			return err
		}
		if tile, ok = s.Grid.Tile(x, y); !ok {
			return nil
		}
	}
	return s.syncVisual(ctx, tile)
}

func (s *Simulator) demolish(ctx context.Context, tile city.Tile, current string, p *pass) error {
	name := building.RecordName(current, tile.X, tile.Y)
	rec, err := s.Buildings.Get(ctx, name)
	switch {
	case err == nil:
		if err := s.Buildings.DeleteOne(ctx, name); err != nil {
			return fmt.Errorf("delete %s: %w", name, err)
		}
		p.deaths += rec.Pop
	case !errors.Is(err, ports.ErrNotFound):
		return err
	}
	s.visuals().RemoveVisual(tile.X, tile.Y)
	delete(s.rendered(), tile.Point())
	s.logger().Info("building demolished", "building", name, "deaths", rec.Pop)
	return nil
}

// syncVisual redraws a tile whose desired building differs from the drawn
// one. A drawn building that still has a ledger row is left in place.
func (s *Simulator) syncVisual(ctx context.Context, tile city.Tile) error {
	pt := tile.Point()
	current := s.rendered()[pt]
	desired := tile.BuildingID
	if desired == current {
		return nil
	}
	if current != "" {
		_, err := s.Buildings.Get(ctx, building.RecordName(current, tile.X, tile.Y))
		if err == nil {
			return nil
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return err
		}
		s.visuals().RemoveVisual(tile.X, tile.Y)
		delete(s.rendered(), pt)
	}
	if desired != "" {
		s.visuals().CreateVisual(desired, tile.X, tile.Y)
		s.rendered()[pt] = desired
	}
	return nil
}

// SyncVisuals draws pending placements without running a turn.
func (s *Simulator) SyncVisuals(ctx context.Context) error {
	var errs []error
	for _, tile := range s.Grid.Tiles() {
		if err := s.syncVisual(ctx, tile); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Rendered returns the building type drawn at (x,y), if any.
func (s *Simulator) Rendered(x, y int) string {
	return s.rendered()[city.Point{X: x, Y: y}]
}

// Reset removes every drawn building.
func (s *Simulator) Reset() {
	for pt := range s.rendered() {
		s.visuals().RemoveVisual(pt.X, pt.Y)
	}
	s.placed = make(map[city.Point]string)
}

func (s *Simulator) rendered() map[city.Point]string {
	if s.placed == nil {
		s.placed = make(map[city.Point]string)
	}
	return s.placed
}

func (s *Simulator) bulldozing() bool {
	return s.Tools != nil && s.Tools.BulldozeActive()
}

func (s *Simulator) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Simulator) visuals() ports.VisualSink {
	if s.Visuals != nil {
		return s.Visuals
	}
	return nopVisuals{}
}

func (s *Simulator) metrics() ports.TurnMetrics {
	if s.Metrics != nil {
		return s.Metrics
	}
	return nopMetrics{}
}

type nopVisuals struct{}

func (nopVisuals) CreateVisual(string, int, int) {}
func (nopVisuals) RemoveVisual(int, int) {}

type nopMetrics struct{}

func (nopMetrics) RecordTurn(time.Duration, int) {}
func (nopMetrics) RecordTurnFailure() {}
func (nopMetrics) RecordPurchase(bool) {}
func (nopMetrics) RecordEvolution() {}
func (nopMetrics) RecordGameOver(economy.Reason) {}
