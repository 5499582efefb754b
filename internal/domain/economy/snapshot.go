package economy

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	InitSnapshotName = "gameplay_init"
	DefaultFunds     = 300
	DefaultMaxPop    = 5000
	DefaultTaxRate   = 0.2
)

// Snapshot is the game ledger row for one turn. Rows are stored as JSON
// documents; older rows may lack some of these keys.
type Snapshot struct {
	Name            string  `json:"name"`
	GameID          string  `json:"game_id"`
	Turn            int     `json:"turn"`
	Population      int     `json:"population"`
	MaxPop          int     `json:"max_pop"`
	Deads           int     `json:"deads"`
	Delay           int     `json:"delay"`
	FoodAvailable   int     `json:"food_available"`
	FoodNeeded      int     `json:"food_needed"`
	Salaries        int     `json:"salaries"`
	SalesTax        float64 `json:"sales_tax"`
	CitizenTax      float64 `json:"citizen_tax"`
	Markets         int     `json:"markets"`
	FoodMarkets     int     `json:"food_markets"`
	GoodsMarkets    int     `json:"goods_markets"`
	GoodsNeeded     int     `json:"goods_needed"`
	GoodsAvailable  int     `json:"goods_available"`
	FoodSales       int     `json:"food_sales"`
	GoodSales       int     `json:"good_sales"`
	LastImmoExpense int     `json:"last_immo_expense"`
	Debt            int     `json:"debt"`
	Funds           int     `json:"funds"`
}

func SnapshotName(turn int) string {
	if turn == 0 {
		return InitSnapshotName
	}
	return "gameplay_" + strconv.Itoa(turn)
}

// NewSnapshot opens the row for turn with zeroed per-turn counters.
func NewSnapshot(gameID string, turn int) Snapshot {
	return Snapshot{
		Name:       SnapshotName(turn),
		GameID:     gameID,
		Turn:       turn,
		MaxPop:     DefaultMaxPop,
		SalesTax:   DefaultTaxRate,
		CitizenTax: DefaultTaxRate,
	}
}

// CanAfford is the purchase admission rule.
func (s Snapshot) CanAfford(price int) bool {
	return s.Funds >= price && s.Debt <= s.Funds
}

// Pay debits funds and credits debt by price.
func (s *Snapshot) Pay(price int) {
	s.Funds -= price
	s.Debt += price
}

func (s Snapshot) Stats() Stats {
	return Stats{
		Turn:          s.Turn,
		Population:    s.Population,
		FoodAvailable: s.FoodAvailable,
		FoodNeeded:    s.FoodNeeded,
		Funds:         s.Funds,
		Debt:          s.Debt,
		Deaths:        s.Deads,
		Delay:         s.Delay,
	}
}

func (s Snapshot) Encode() ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot %s: %w", s.Name, err)
	}
	return b, nil
}

func DecodeSnapshot(doc []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(doc, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// LookupField returns the decoded value of key in a stored row, if present.
func LookupField(doc []byte, key string) (any, bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return nil, false, fmt.Errorf("decode snapshot fields: %w", err)
	}
	raw, ok := fields[key]
	if !ok {
		return nil, false, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, fmt.Errorf("decode snapshot field %s: %w", key, err)
	}
	return v, true, nil
}

// IntValue converts a JSON-decoded number to int.
func IntValue(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}
