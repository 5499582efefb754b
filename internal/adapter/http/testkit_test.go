package httpadapter

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ExploryKod/Anoria/internal/app/command"
	"github.com/ExploryKod/Anoria/internal/app/game"
	"github.com/ExploryKod/Anoria/internal/app/ports"
	"github.com/ExploryKod/Anoria/internal/domain/building"
	"github.com/ExploryKod/Anoria/internal/domain/city"

	"github.com/cloudwego/hertz/pkg/app"
)

type fakeGame struct {
	placeResp command.PlaceResponse
	err       error
	speed     time.Duration
	paused    bool
	tool      string
	records   map[string]building.Record
	lastPlace command.PlaceRequest
}

func (f *fakeGame) Place(_ context.Context, req command.PlaceRequest) (command.PlaceResponse, error) {
	f.lastPlace = req
	return f.placeResp, f.err
}

func (f *fakeGame) Bulldoze(_ context.Context, req command.BulldozeRequest) (command.BulldozeResponse, error) {
	return command.BulldozeResponse{Previous: building.Road}, f.err
}

func (f *fakeGame) Pause() { f.paused = true }
func (f *fakeGame) Resume() { f.paused = false }

func (f *fakeGame) Reset(context.Context) error { return f.err }

func (f *fakeGame) SetSpeed(d time.Duration) error {
	if d < game.MinInterval {
		return game.ErrInvalidSpeed
	}
	f.speed = d
	return nil
}

func (f *fakeGame) SelectTool(id string) error {
	if id == "castle" {
		return game.ErrUnknownTool
	}
	f.tool = id
	return nil
}

func (f *fakeGame) Status() game.Status {
	return game.Status{GameID: "g1", Turn: 3, Paused: f.paused, IntervalMS: f.speed.Milliseconds(), Tool: f.tool}
}

func (f *fakeGame) Tiles() []city.Tile {
	return []city.Tile{{X: 0, Y: 0, Terrain: city.TerrainGrass}, {X: 0, Y: 1, Terrain: city.TerrainWater}}
}

func (f *fakeGame) Buildings(context.Context) ([]building.Record, error) {
	out := make([]building.Record, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, f.err
}

func (f *fakeGame) Building(_ context.Context, name string) (building.Record, error) {
	r, ok := f.records[name]
	if !ok {
		return building.Record{}, ports.ErrNotFound
	}
	return r, nil
}

func (f *fakeGame) Expenses(context.Context) ([]building.Expense, error) {
	return []building.Expense{{Type: building.Road, Count: 2, Total: 10}}, f.err
}

type staticKPI struct{}

func (staticKPI) SnapshotAny() any {
	return map[string]int{"turn_total": 7}
}

func errorCode(t *testing.T, ctx *app.RequestContext) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Code
}
