package city

type Terrain string

const (
	TerrainGrass Terrain = "grass"
	TerrainWater Terrain = "water"
)

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Tile is one grid cell. An empty BuildingID means nothing is placed there.
type Tile struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Terrain    Terrain `json:"terrain"`
	BuildingID string  `json:"building_id,omitempty"`
}

func (t Tile) Point() Point {
	return Point{X: t.X, Y: t.Y}
}

func (t Tile) Buildable() bool {
	return t.Terrain != TerrainWater
}
