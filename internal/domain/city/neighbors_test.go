package city

import (
	"reflect"
	"testing"
)

func TestImmediateNeighborsOrderAndBounds(t *testing.T) {
	g, _ := NewGrid(5, nil)
	g.SetBuildingID(2, 1, "roads")
	g.SetBuildingID(1, 1, "House-Red")

	ring, err := ImmediateNeighbors(g, 2, 2, 1)
	if err != nil {
		t.Fatalf("immediate neighbors: %v", err)
	}
	if !ring[0].Ok || ring[0].Tile.BuildingID != "roads" {
		t.Fatalf("expected roads north, got %+v", ring[0])
	}
	if !ring[7].Ok || ring[7].Tile.BuildingID != "House-Red" {
		t.Fatalf("expected house north-west, got %+v", ring[7])
	}

	corner, err := ImmediateNeighbors(g, 0, 0, 1)
	if err != nil {
		t.Fatalf("corner neighbors: %v", err)
	}
	present := 0
	for _, n := range corner {
		if n.Ok {
			present++
		}
	}
	if present != 3 {
		t.Fatalf("expected 3 in-grid neighbors at corner, got %d", present)
	}
}

func TestImmediateNeighborsRejectsZeroRadius(t *testing.T) {
	g, _ := NewGrid(5, nil)
	if _, err := ImmediateNeighbors(g, 2, 2, 0); err != ErrInvalidRadius {
		t.Fatalf("expected ErrInvalidRadius, got %v", err)
	}
	if _, err := ZoneNeighborIDs(g, 2, 2, 0); err != ErrInvalidRadius {
		t.Fatalf("expected ErrInvalidRadius from zone scan, got %v", err)
	}
}

func TestZoneNeighborIDsKeepsDuplicatesAcrossRadii(t *testing.T) {
	g, _ := NewGrid(16, nil)
	g.SetBuildingID(5, 6, "House-Red")
	g.SetBuildingID(5, 7, "House-Red")
	g.SetBuildingID(7, 5, "Farm-Wheat")

	ids, err := ZoneNeighborIDs(g, 5, 5, 2)
	if err != nil {
		t.Fatalf("zone ids: %v", err)
	}
	want := []string{"House-Red", "Farm-Wheat", "House-Red"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("zone ids=%v want %v", ids, want)
	}
}

func TestZoneNeighborIDsIsIdempotent(t *testing.T) {
	g, _ := NewGrid(8, nil)
	g.SetBuildingID(3, 3, "Market-Stall")
	g.SetBuildingID(4, 4, "Farm-Carrot")
	g.SetBuildingID(3, 5, "House-Blue")

	first, _ := ZoneNeighborIDs(g, 3, 4, 2)
	second, _ := ZoneNeighborIDs(g, 3, 4, 2)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("zone scan changed between calls: %v vs %v", first, second)
	}
}

func TestZoneNeighborsSkipsOffGridOffsets(t *testing.T) {
	g, _ := NewGrid(4, nil)
	tiles, err := ZoneNeighbors(g, 0, 0, 3)
	if err != nil {
		t.Fatalf("zone neighbors: %v", err)
	}
	// rings 1..3 from a corner keep E, SE and S only
	if len(tiles) != 9 {
		t.Fatalf("expected 9 tiles, got %d", len(tiles))
	}
}
