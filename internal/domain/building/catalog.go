package building

type Category string

const (
	CategoryZone   Category = "zone"
	CategoryHouse  Category = "house"
	CategoryTomb   Category = "tomb"
	CategoryFarm   Category = "farm"
	CategoryMarket Category = "market"
)

const (
	Road        = "roads"
	HouseBlue   = "House-Blue"
	HouseRed    = "House-Red"
	HousePurple = "House-Purple"
	House2Story = "House-2Story"
	Tombstone1  = "Tombstone-1"
	Tombstone2  = "Tombstone-2"
	Tombstone3  = "Tombstone-3"
	FarmWheat   = "Farm-Wheat"
	FarmCarrot  = "Farm-Carrot"
	FarmCabbage = "Farm-Cabbage"
	MarketStall = "Market-Stall"

	// Bulldoze is a tool id, never a placed building.
	Bulldoze = "bulldoze"
)

const (
	MaxHousePop = 2
	MaxRoads    = 4

	// MarketRadius is the ring distance a market reaches for farms and houses.
	MarketRadius = 2
	// FoodPerFarm is the flat food a market gains per farm in reach.
	FoodPerFarm = 3

	// Evolution thresholds: time strictly above, food strictly above.
	EvolveAfterTime = 3
	EvolveAboveFood = 5
)

type Crop string

const (
	CropWheat   Crop = "wheat"
	CropCarrot  Crop = "carrot"
	CropCabbage Crop = "cabbage"
)

var Crops = []Crop{CropWheat, CropCarrot, CropCabbage}

type Spec struct {
	ID         string   `json:"id"`
	Category   Category `json:"category"`
	Price      int      `json:"price"`
	FirstStage bool     `json:"first_stage,omitempty"`
	Crop       Crop     `json:"crop,omitempty"`
}

var catalog = map[string]Spec{
	Road:        {ID: Road, Category: CategoryZone, Price: 5},
	HouseBlue:   {ID: HouseBlue, Category: CategoryHouse, Price: 10, FirstStage: true},
	HouseRed:    {ID: HouseRed, Category: CategoryHouse, Price: 10, FirstStage: true},
	HousePurple: {ID: HousePurple, Category: CategoryHouse, Price: 10, FirstStage: true},
	House2Story: {ID: House2Story, Category: CategoryHouse, Price: 20},
	Tombstone1:  {ID: Tombstone1, Category: CategoryTomb, Price: 2},
	Tombstone2:  {ID: Tombstone2, Category: CategoryTomb, Price: 4},
	Tombstone3:  {ID: Tombstone3, Category: CategoryTomb, Price: 8},
	FarmWheat:   {ID: FarmWheat, Category: CategoryFarm, Price: 10, Crop: CropWheat},
	FarmCarrot:  {ID: FarmCarrot, Category: CategoryFarm, Price: 20, Crop: CropCarrot},
	FarmCabbage: {ID: FarmCabbage, Category: CategoryFarm, Price: 30, Crop: CropCabbage},
	MarketStall: {ID: MarketStall, Category: CategoryMarket, Price: 10},
}

func Lookup(id string) (Spec, bool) {
	s, ok := catalog[id]
	return s, ok
}

func Price(id string) int {
	return catalog[id].Price
}

func IsHouse(id string) bool {
	return catalog[id].Category == CategoryHouse
}

func IsFirstStage(id string) bool {
	return catalog[id].FirstStage
}

func IsFarm(id string) bool {
	return catalog[id].Category == CategoryFarm
}

func IsMarket(id string) bool {
	return catalog[id].Category == CategoryMarket
}

func CropOf(id string) (Crop, bool) {
	s, ok := catalog[id]
	if !ok || s.Crop == "" {
		return "", false
	}
	return s.Crop, true
}

// Upgrade returns the type a first-stage house evolves into.
func Upgrade(id string) (string, bool) {
	if !IsFirstStage(id) {
		return "", false
	}
	return House2Story, true
}

func ShouldEvolve(r Record) bool {
	return IsFirstStage(r.Type) && r.Time > EvolveAfterTime && r.Stocks.Food > EvolveAboveFood
}
