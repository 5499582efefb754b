package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ExploryKod/Anoria/internal/app/command"
	"github.com/ExploryKod/Anoria/internal/app/game"
	"github.com/ExploryKod/Anoria/internal/app/ports"
	"github.com/ExploryKod/Anoria/internal/domain/building"
	"github.com/ExploryKod/Anoria/internal/domain/city"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// GameService is the controller surface the API drives.
type GameService interface {
	Place(ctx context.Context, req command.PlaceRequest) (command.PlaceResponse, error)
	Bulldoze(ctx context.Context, req command.BulldozeRequest) (command.BulldozeResponse, error)
	Pause()
	Resume()
	Reset(ctx context.Context) error
	SetSpeed(d time.Duration) error
	SelectTool(id string) error
	Status() game.Status
	Tiles() []city.Tile
	Buildings(ctx context.Context) ([]building.Record, error)
	Building(ctx context.Context, name string) (building.Record, error)
	Expenses(ctx context.Context) ([]building.Expense, error)
}

type Handler struct {
	Game    GameService
	KPI     kpiSnapshotProvider
	Limiter *RateLimiter
	Logger  *slog.Logger
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	cmd := h.Limiter.Middleware()
	cityGroup := s.Group("/api/city")
	cityGroup.POST("/place", cmd, h.place)
	cityGroup.POST("/bulldoze", cmd, h.bulldoze)
	cityGroup.GET("/buildings", h.listBuildings)
	cityGroup.GET("/buildings/:name", h.getBuilding)
	cityGroup.GET("/tiles", h.tiles)
	cityGroup.GET("/expenses", h.expenses)

	gameGroup := s.Group("/api/game")
	gameGroup.GET("/status", h.status)
	gameGroup.POST("/pause", cmd, h.pause)
	gameGroup.POST("/resume", cmd, h.resume)
	gameGroup.POST("/reset", cmd, h.reset)
	gameGroup.POST("/speed", cmd, h.speed)
	gameGroup.POST("/tool", cmd, h.tool)

	s.GET("/ops/kpi", h.kpi)
}

type speedRequest struct {
	IntervalMS int `json:"interval_ms"`
}

type toolRequest struct {
	Tool string `json:"tool"`
}

func (h Handler) place(c context.Context, ctx *app.RequestContext) {
	var body command.PlaceRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.Game.Place(c, body)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) bulldoze(c context.Context, ctx *app.RequestContext) {
	var body command.BulldozeRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.Game.Bulldoze(c, body)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) listBuildings(c context.Context, ctx *app.RequestContext) {
	recs, err := h.Game.Buildings(c)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"buildings": recs})
}

func (h Handler) getBuilding(c context.Context, ctx *app.RequestContext) {
	name := strings.TrimSpace(ctx.Param("name"))
	if name == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "building name is required")
		return
	}
	rec, err := h.Game.Building(c, name)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, rec)
}

func (h Handler) tiles(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{"tiles": h.Game.Tiles()})
}

func (h Handler) expenses(c context.Context, ctx *app.RequestContext) {
	out, err := h.Game.Expenses(c)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"expenses": out})
}

func (h Handler) status(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, h.Game.Status())
}

func (h Handler) pause(_ context.Context, ctx *app.RequestContext) {
	h.Game.Pause()
	ctx.JSON(consts.StatusOK, h.Game.Status())
}

func (h Handler) resume(_ context.Context, ctx *app.RequestContext) {
	h.Game.Resume()
	ctx.JSON(consts.StatusOK, h.Game.Status())
}

func (h Handler) reset(c context.Context, ctx *app.RequestContext) {
	if err := h.Game.Reset(c); err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, h.Game.Status())
}

func (h Handler) speed(_ context.Context, ctx *app.RequestContext) {
	var body speedRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := h.Game.SetSpeed(time.Duration(body.IntervalMS) * time.Millisecond); err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, h.Game.Status())
}

func (h Handler) tool(_ context.Context, ctx *app.RequestContext) {
	var body toolRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := h.Game.SelectTool(strings.TrimSpace(body.Tool)); err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, h.Game.Status())
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (h Handler) writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, command.ErrInvalidRequest),
		errors.Is(err, game.ErrInvalidSpeed),
		errors.Is(err, game.ErrUnknownTool):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, command.ErrOutOfBounds):
		writeErrorBody(ctx, consts.StatusBadRequest, "out_of_bounds", err.Error())
	case errors.Is(err, command.ErrTileOccupied):
		writeErrorBody(ctx, consts.StatusConflict, "tile_occupied", err.Error())
	case errors.Is(err, command.ErrNotBuildable):
		writeErrorBody(ctx, consts.StatusConflict, "not_buildable", err.Error())
	case errors.Is(err, game.ErrGameOver):
		writeErrorBody(ctx, consts.StatusConflict, "game_over", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		h.logger().Error("request failed", "err", err)
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func (h Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
