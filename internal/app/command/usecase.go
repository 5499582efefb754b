package command

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ExploryKod/Anoria/internal/app/ports"
	"github.com/ExploryKod/Anoria/internal/domain/building"
	"github.com/ExploryKod/Anoria/internal/domain/city"
)

var (
	ErrInvalidRequest = errors.New("invalid command request")
	ErrOutOfBounds    = errors.New("tile out of bounds")
	ErrTileOccupied   = errors.New("tile occupied")
	ErrNotBuildable   = errors.New("tile not buildable")
)

// UseCase handles player placement and bulldozing on the grid.
type UseCase struct {
	Grid      *city.Grid
	Buildings ports.BuildingLedger
	Metrics   ports.TurnMetrics
	Logger    *slog.Logger
}

type PlaceRequest struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Type string `json:"type"`
	Turn int    `json:"-"`
}

type PlaceResponse struct {
	Paid   bool             `json:"paid"`
	Record *building.Record `json:"record,omitempty"`
}

// Place charges the building and, once paid, puts it on the grid.
// An unaffordable building returns Paid=false and leaves the tile empty.
func (u UseCase) Place(ctx context.Context, req PlaceRequest) (PlaceResponse, error) {
	req.Type = strings.TrimSpace(req.Type)
	if _, ok := building.Lookup(req.Type); !ok {
		return PlaceResponse{}, ErrInvalidRequest
	}
	tile, ok := u.Grid.Tile(req.X, req.Y)
	if !ok {
		return PlaceResponse{}, ErrOutOfBounds
	}
	if tile.BuildingID != "" {
		return PlaceResponse{}, ErrTileOccupied
	}
	if !tile.Buildable() {
		return PlaceResponse{}, ErrNotBuildable
	}

	rec := building.NewRecord(req.Type, req.X, req.Y, req.Turn)
	paid, err := u.Buildings.AddAndPay(ctx, rec)
	if err != nil {
		return PlaceResponse{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordPurchase(paid)
	}
	if !paid {
		return PlaceResponse{Paid: false}, nil
	}
	u.Grid.SetBuildingID(req.X, req.Y, req.Type)
	u.logger().Info("building placed", "building", rec.Name, "price", rec.Price, "turn", req.Turn)
	return PlaceResponse{Paid: true, Record: &rec}, nil
}

type BulldozeRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type BulldozeResponse struct {
	Previous string `json:"previous"`
}

// Bulldoze empties the tile. The ledger row goes away on the next turn.
func (u UseCase) Bulldoze(_ context.Context, req BulldozeRequest) (BulldozeResponse, error) {
	tile, ok := u.Grid.Tile(req.X, req.Y)
	if !ok {
		return BulldozeResponse{}, ErrOutOfBounds
	}
	u.Grid.SetBuildingID(req.X, req.Y, "")
	return BulldozeResponse{Previous: tile.BuildingID}, nil
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return slog.Default()
}
