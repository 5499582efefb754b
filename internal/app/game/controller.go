package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ExploryKod/Anoria/internal/app/command"
	"github.com/ExploryKod/Anoria/internal/app/ports"
	"github.com/ExploryKod/Anoria/internal/app/turn"
	"github.com/ExploryKod/Anoria/internal/domain/building"
	"github.com/ExploryKod/Anoria/internal/domain/city"
	"github.com/ExploryKod/Anoria/internal/domain/economy"

	"github.com/google/uuid"
)

const (
	DefaultInterval = 4 * time.Second
	MinInterval     = 100 * time.Millisecond
)

var (
	ErrGameOver     = errors.New("game is over")
	ErrInvalidSpeed = errors.New("invalid turn interval")
	ErrUnknownTool  = errors.New("unknown tool")
)

type Deps struct {
	Sim       *turn.Simulator
	Commands  command.UseCase
	Buildings ports.BuildingLedger
	Game      ports.GameLedger
	Tools     *Toolbox
	Publisher ports.StatsPublisher
	Metrics   ports.TurnMetrics
	Logger    *slog.Logger
}

type Status struct {
	GameID     string            `json:"game_id"`
	Turn       int               `json:"turn"`
	Paused     bool              `json:"paused"`
	GameOver   *economy.GameOver `json:"game_over,omitempty"`
	IntervalMS int64             `json:"interval_ms"`
	Tool       string            `json:"tool"`
	Stats      economy.Stats     `json:"stats"`
}

// Controller owns the turn cadence and is the single writer of game state:
// ticks and player commands all go through mu.
type Controller struct {
	deps  Deps
	speed chan time.Duration

	mu       sync.Mutex
	interval time.Duration
	turn     int
	paused   bool
	over     *economy.GameOver
	gameID   string
	stats    economy.Stats
}

func New(deps Deps, interval time.Duration) *Controller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if deps.Tools == nil {
		deps.Tools = &Toolbox{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Controller{
		deps:     deps,
		speed:    make(chan time.Duration, 1),
		interval: interval,
	}
}

// Start opens a new game and writes its turn 0 snapshot.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.newGame(ctx)
}

func (c *Controller) newGame(ctx context.Context) error {
	c.gameID = uuid.NewString()
	c.deps.Sim.GameID = c.gameID
	c.turn = 0
	c.over = nil
	c.paused = false
	res, err := c.deps.Sim.Update(ctx, 0)
	if err != nil {
		return fmt.Errorf("open game %s: %w", c.gameID, err)
	}
	c.stats = res.Stats
	c.publisher().PublishStats(res.Stats)
	c.deps.Logger.Info("game started", "game_id", c.gameID)
	return nil
}

// Run ticks until ctx is done. A turn already running when ctx ends is
// allowed to finish its writes.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(c.Interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.speed:
			ticker.Reset(c.Interval())
		case <-ticker.C:
			if _, err := c.Step(ctx); err != nil {
				c.deps.Logger.Error("turn failed", "err", err)
			}
		}
	}
}

// Step advances one turn unless paused or over and reports whether it ran.
func (c *Controller) Step(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused || c.over != nil {
		return false, nil
	}
	c.turn++
	res, err := c.deps.Sim.Update(context.WithoutCancel(ctx), c.turn)
	if err != nil {
		return true, err
	}
	c.stats = res.Stats
	c.publisher().PublishStats(res.Stats)
	if res.GameOver != nil {
		c.over = res.GameOver
		if c.deps.Metrics != nil {
			c.deps.Metrics.RecordGameOver(res.GameOver.Reason)
		}
		c.publisher().PublishGameOver(*res.GameOver)
		c.deps.Logger.Warn("game over", "game_id", c.gameID, "reason", res.GameOver.Reason, "turn", res.GameOver.Turn)
	}
	return true, nil
}

func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
}

func (c *Controller) SetSpeed(d time.Duration) error {
	if d < MinInterval {
		return ErrInvalidSpeed
	}
	c.mu.Lock()
	c.interval = d
	c.mu.Unlock()
	select {
	case <-c.speed:
	default:
	}
	select {
	case c.speed <- d:
	default:
	}
	return nil
}

func (c *Controller) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

func (c *Controller) SelectTool(id string) error {
	if !validTool(id) {
		return ErrUnknownTool
	}
	c.deps.Tools.Select(id)
	return nil
}

// Place buys a building and draws it right away.
func (c *Controller) Place(ctx context.Context, req command.PlaceRequest) (command.PlaceResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.over != nil {
		return command.PlaceResponse{}, ErrGameOver
	}
	if c.deps.Sim.Rendered(req.X, req.Y) != "" {
		return command.PlaceResponse{}, command.ErrTileOccupied
	}
	req.Turn = c.turn
	resp, err := c.deps.Commands.Place(ctx, req)
	if err != nil {
		return resp, err
	}
	c.deps.Tools.Select(req.Type)
	if resp.Paid {
		if err := c.deps.Sim.SyncVisuals(ctx); err != nil {
			c.deps.Logger.Error("draw placement failed", "x", req.X, "y", req.Y, "err", err)
		}
	}
	return resp, nil
}

// Bulldoze empties a tile and arms the bulldozer for the next turn.
func (c *Controller) Bulldoze(ctx context.Context, req command.BulldozeRequest) (command.BulldozeResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.over != nil {
		return command.BulldozeResponse{}, ErrGameOver
	}
	c.deps.Tools.Select(building.Bulldoze)
	return c.deps.Commands.Bulldoze(ctx, req)
}

// Reset wipes both ledgers and the grid and starts a new game.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.deps.Buildings.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear buildings: %w", err)
	}
	if err := c.deps.Game.Clear(ctx); err != nil {
		return fmt.Errorf("clear game ledger: %w", err)
	}
	c.deps.Sim.Grid.ClearBuildings()
	c.deps.Sim.Reset()
	c.deps.Tools.Select("")
	return c.newGame(ctx)
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		GameID:     c.gameID,
		Turn:       c.turn,
		Paused:     c.paused,
		GameOver:   c.over,
		IntervalMS: c.interval.Milliseconds(),
		Tool:       c.deps.Tools.Active(),
		Stats:      c.stats,
	}
}

func (c *Controller) Tiles() []city.Tile {
	return c.deps.Sim.Grid.Tiles()
}

func (c *Controller) Buildings(ctx context.Context) ([]building.Record, error) {
	return c.deps.Buildings.ListAll(ctx)
}

func (c *Controller) Building(ctx context.Context, name string) (building.Record, error) {
	return c.deps.Buildings.Get(ctx, name)
}

func (c *Controller) Expenses(ctx context.Context) ([]building.Expense, error) {
	return c.deps.Buildings.ExpensesByType(ctx)
}

func (c *Controller) publisher() ports.StatsPublisher {
	if c.deps.Publisher != nil {
		return c.deps.Publisher
	}
	return nopPublisher{}
}

type nopPublisher struct{}

func (nopPublisher) PublishStats(economy.Stats) {}
func (nopPublisher) PublishGameOver(economy.GameOver) {}
