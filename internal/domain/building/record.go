package building

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField    = errors.New("unknown building field")
	ErrInvalidOperator = errors.New("invalid condition operator")
)

type Stocks struct {
	Food    int `json:"food"`
	Wheat   int `json:"wheat"`
	Carrot  int `json:"carrot"`
	Cabbage int `json:"cabbage"`
}

func (s Stocks) Crop(c Crop) int {
	switch c {
	case CropWheat:
		return s.Wheat
	case CropCarrot:
		return s.Carrot
	case CropCabbage:
		return s.Cabbage
	}
	return 0
}

func (s *Stocks) AddCrop(c Crop, n int) {
	switch c {
	case CropWheat:
		s.Wheat += n
	case CropCarrot:
		s.Carrot += n
	case CropCabbage:
		s.Cabbage += n
	}
}

func (s Stocks) Total() int {
	return s.Food + s.Wheat + s.Carrot + s.Cabbage
}

// Ref points at a neighboring building.
type Ref struct {
	Name string `json:"name"`
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

type Record struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Pop         int    `json:"pop"`
	Stocks      Stocks `json:"stocks"`
	Time        int    `json:"time"`
	Road        int    `json:"road"`
	Price       int    `json:"price"`
	Maintenance int    `json:"maintenance"`
	Neighbors   []Ref  `json:"neighbors"`
	Stage       int    `json:"stage"`
	StageName   string `json:"stage_name"`
	GameTurn    int    `json:"game_turn"`
	WorldTime   int    `json:"world_time"`
}

// RecordName is the ledger key of the building of type typ at (x,y).
func RecordName(typ string, x, y int) string {
	return fmt.Sprintf("%s-%d-%d", typ, x, y)
}

// NewRecord builds a freshly placed building priced from the catalog.
func NewRecord(typ string, x, y, turn int) Record {
	return Record{
		Name:      RecordName(typ, x, y),
		Type:      typ,
		X:         x,
		Y:         y,
		Price:     Price(typ),
		Neighbors: []Ref{},
		StageName: typ,
		GameTurn:  turn,
	}
}

func (r Record) Ref() Ref {
	return Ref{Name: r.Name, Type: r.Type, X: r.X, Y: r.Y}
}

// Field looks a value up by its JSON key. Stock keys are reachable directly.
func (r Record) Field(key string) (any, bool) {
	switch key {
	case "name":
		return r.Name, true
	case "type":
		return r.Type, true
	case "x":
		return r.X, true
	case "y":
		return r.Y, true
	case "pop":
		return r.Pop, true
	case "stocks":
		return r.Stocks, true
	case "food":
		return r.Stocks.Food, true
	case "wheat":
		return r.Stocks.Wheat, true
	case "carrot":
		return r.Stocks.Carrot, true
	case "cabbage":
		return r.Stocks.Cabbage, true
	case "time":
		return r.Time, true
	case "road":
		return r.Road, true
	case "price":
		return r.Price, true
	case "maintenance":
		return r.Maintenance, true
	case "neighbors":
		return r.Neighbors, true
	case "stage":
		return r.Stage, true
	case "stage_name":
		return r.StageName, true
	case "game_turn":
		return r.GameTurn, true
	case "world_time":
		return r.WorldTime, true
	}
	return nil, false
}

// Patch holds the fields to overwrite; nil fields are left alone.
type Patch struct {
	Stocks    *Stocks
	Neighbors []Ref
	Stage     *int
	StageName *string
	WorldTime *int
}

// ApplyPatch merges p into r. Neighbors are replaced unless appendArrays is set.
func (r *Record) ApplyPatch(p Patch, appendArrays bool) {
	if p.Stocks != nil {
		r.Stocks = *p.Stocks
	}
	if p.Neighbors != nil {
		if appendArrays {
			r.Neighbors = append(append([]Ref{}, r.Neighbors...), p.Neighbors...)
		} else {
			r.Neighbors = append([]Ref{}, p.Neighbors...)
		}
	}
	if p.Stage != nil {
		r.Stage = *p.Stage
	}
	if p.StageName != nil {
		r.StageName = *p.StageName
	}
	if p.WorldTime != nil {
		r.WorldTime = *p.WorldTime
	}
}

// Overrides are applied when a record moves to a new key.
type Overrides struct {
	Type  string
	Price int
}

func (r Record) Migrate(newName string, o Overrides) Record {
	out := r
	out.Name = newName
	out.Neighbors = append([]Ref{}, r.Neighbors...)
	if o.Type != "" {
		out.Type = o.Type
		out.StageName = o.Type
		out.Stage = r.Stage + 1
	}
	out.Price = o.Price
	return out
}

type Expense struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
	Total int    `json:"total"`
}
