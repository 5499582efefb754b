package turn

import (
	"context"
	"errors"
	"fmt"

	"github.com/ExploryKod/Anoria/internal/app/ports"
	"github.com/ExploryKod/Anoria/internal/domain/building"
	"github.com/ExploryKod/Anoria/internal/domain/city"
)

var (
	popCap  = &building.Condition{Operator: building.OpLessEqual, Limit: building.MaxHousePop}
	roadCap = &building.Condition{Operator: building.OpLessEqual, Limit: building.MaxRoads}
)

func (s *Simulator) updateHouse(ctx context.Context, tile city.Tile, typ string, p *pass) error {
	name := building.RecordName(typ, tile.X, tile.Y)
	refs, hasRoad, err := s.adjacentRefs(tile)
	if err != nil {
		return err
	}
	turn := p.turn
	if err := s.Buildings.UpdateFields(ctx, name, building.Patch{Neighbors: refs, WorldTime: &turn}, false); err != nil {
		return err
	}
	if p.turn > 0 {
		if _, err := s.Buildings.IncrementField(ctx, building.Increment{Name: name, Field: building.FieldTime, By: 1}, nil); err != nil {
			return err
		}
	}
	if _, err := s.Buildings.IncrementField(ctx, building.Increment{Name: name, Field: building.FieldPop, By: 1}, popCap); err != nil {
		return err
	}
	if hasRoad {
		if _, err := s.Buildings.IncrementField(ctx, building.Increment{Name: name, Field: building.FieldRoad, By: 1}, roadCap); err != nil {
			return err
		}
	}

	rec, err := s.Buildings.Get(ctx, name)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil
		}
		return err
	}
	if !building.ShouldEvolve(rec) {
		return nil
	}
	return s.evolve(ctx, tile, rec, p)
}

func (s *Simulator) evolve(ctx context.Context, tile city.Tile, rec building.Record, p *pass) error {
	up, ok := building.Upgrade(rec.Type)
	if !ok {
		return nil
	}
	newName := building.RecordName(up, tile.X, tile.Y)
	if err := s.Buildings.RenameAndMigrate(ctx, rec.Name, newName, building.Overrides{Type: up, Price: building.Price(up)}); err != nil {
		return fmt.Errorf("evolve %s: %w", rec.Name, err)
	}
	s.visuals().RemoveVisual(tile.X, tile.Y)
	s.visuals().CreateVisual(up, tile.X, tile.Y)
	if cur, ok := s.Grid.Tile(tile.X, tile.Y); ok && cur.BuildingID == rec.Type {
		s.Grid.SetBuildingID(tile.X, tile.Y, up)
	}
	s.rendered()[tile.Point()] = up
	p.evolutions++
	s.metrics().RecordEvolution()
	s.logger().Info("house evolved", "from", rec.Name, "to", newName, "turn", p.turn)
	return nil
}

// adjacentRefs lists the buildings in the radius-1 ring and whether one of
// them is a road.
func (s *Simulator) adjacentRefs(tile city.Tile) ([]building.Ref, bool, error) {
	ring, err := city.ImmediateNeighbors(s.Grid, tile.X, tile.Y, 1)
	if err != nil {
		return nil, false, err
	}
	refs := []building.Ref{}
	hasRoad := false
	for _, n := range ring {
		if !n.Ok || n.Tile.BuildingID == "" {
			continue
		}
		id := n.Tile.BuildingID
		refs = append(refs, building.Ref{
			Name: building.RecordName(id, n.Tile.X, n.Tile.Y),
			Type: id,
			X:    n.Tile.X,
			Y:    n.Tile.Y,
		})
		if id == building.Road {
			hasRoad = true
		}
	}
	return refs, hasRoad, nil
}
