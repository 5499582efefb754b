package city

import "errors"

var ErrInvalidRadius = errors.New("radius must be positive")

// Reader is the read side of Grid used by neighbor queries.
type Reader interface {
	Tile(x, y int) (Tile, bool)
}

// Compass offsets at unit distance, N first then clockwise.
// Scaled by d they give the eight diamond/diagonal positions of ring d.
var compass = [8]Point{
	{X: 0, Y: -1},
	{X: 1, Y: -1},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
	{X: -1, Y: 1},
	{X: -1, Y: 0},
	{X: -1, Y: -1},
}

// Neighbor is one compass slot; Ok is false when the slot is off the grid.
type Neighbor struct {
	Tile Tile
	Ok   bool
}

// ImmediateNeighbors returns the eight compass tiles at offset d from (x,y).
func ImmediateNeighbors(g Reader, x, y, d int) ([8]Neighbor, error) {
	var out [8]Neighbor
	if d <= 0 {
		return out, ErrInvalidRadius
	}
	for i, off := range compass {
		t, ok := g.Tile(x+off.X*d, y+off.Y*d)
		out[i] = Neighbor{Tile: t, Ok: ok}
	}
	return out, nil
}

// ZoneNeighbors scans rings 1..maxRadius and returns every in-grid tile,
// radius ascending then compass order.
func ZoneNeighbors(g Reader, x, y, maxRadius int) ([]Tile, error) {
	if maxRadius <= 0 {
		return nil, ErrInvalidRadius
	}
	out := make([]Tile, 0, 8*maxRadius)
	for r := 1; r <= maxRadius; r++ {
		ring, err := ImmediateNeighbors(g, x, y, r)
		if err != nil {
			return nil, err
		}
		for _, n := range ring {
			if n.Ok {
				out = append(out, n.Tile)
			}
		}
	}
	return out, nil
}

// ZoneNeighborIDs returns the building ids found in rings 1..maxRadius.
// Empty tiles are dropped; repeated ids are kept.
func ZoneNeighborIDs(g Reader, x, y, maxRadius int) ([]string, error) {
	tiles, err := ZoneNeighbors(g, x, y, maxRadius)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(tiles))
	for _, t := range tiles {
		if t.BuildingID != "" {
			ids = append(ids, t.BuildingID)
		}
	}
	return ids, nil
}
