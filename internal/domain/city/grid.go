package city

import (
	"errors"
	"sync"
)

const DefaultSize = 16

var ErrInvalidSize = errors.New("invalid grid size")

// TerrainFunc decides the terrain of a tile when the grid is built.
type TerrainFunc func(x, y int) Terrain

func FlatTerrain(int, int) Terrain {
	return TerrainGrass
}

// Grid is the size x size tile matrix. Tiles are indexed [x][y].
// It is safe for concurrent use: the simulation writes, API readers read.
type Grid struct {
	mu    sync.RWMutex
	size  int
	tiles [][]Tile
}

func NewGrid(size int, terrain TerrainFunc) (*Grid, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if terrain == nil {
		terrain = FlatTerrain
	}
	tiles := make([][]Tile, size)
	for x := 0; x < size; x++ {
		tiles[x] = make([]Tile, size)
		for y := 0; y < size; y++ {
			tiles[x][y] = Tile{X: x, Y: y, Terrain: terrain(x, y)}
		}
	}
	return &Grid{size: size, tiles: tiles}, nil
}

func (g *Grid) Size() int {
	return g.size
}

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.size && y < g.size
}

// InCityLimits reports whether (x,y) lies strictly inside the border ring,
// where every radius-1 neighbor exists.
func (g *Grid) InCityLimits(x, y int) bool {
	return x > 0 && y > 0 && x < g.size-1 && y < g.size-1
}

// Tile returns a copy of the tile at (x,y); ok is false outside the grid.
func (g *Grid) Tile(x, y int) (Tile, bool) {
	if !g.InBounds(x, y) {
		return Tile{}, false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.tiles[x][y], true
}

// SetBuildingID places id on (x,y); an empty id clears the tile.
// It reports false when (x,y) is outside the grid.
func (g *Grid) SetBuildingID(x, y int, id string) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tiles[x][y].BuildingID = id
	return true
}

// Tiles returns a snapshot in x-major order.
func (g *Grid) Tiles() []Tile {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Tile, 0, g.size*g.size)
	for x := 0; x < g.size; x++ {
		out = append(out, g.tiles[x]...)
	}
	return out
}

func (g *Grid) ClearBuildings() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for x := range g.tiles {
		for y := range g.tiles[x] {
			g.tiles[x][y].BuildingID = ""
		}
	}
}
