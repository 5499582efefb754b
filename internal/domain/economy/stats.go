package economy

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Stats is the per-turn figure set shown to the player.
type Stats struct {
	Turn          int `json:"turn"`
	Population    int `json:"population"`
	FoodAvailable int `json:"food_available"`
	FoodNeeded    int `json:"food_needed"`
	Funds         int `json:"funds"`
	Debt          int `json:"debt"`
	Deaths        int `json:"deaths"`
	Delay         int `json:"delay"`
}

func FormatMoney(n int) string {
	return humanize.Comma(int64(n))
}

func (s Stats) String() string {
	return fmt.Sprintf("turn %d: pop=%d food=%d/%d funds=%s debt=%s deaths=%d delay=%d",
		s.Turn, s.Population, s.FoodAvailable, s.FoodNeeded,
		FormatMoney(s.Funds), FormatMoney(s.Debt), s.Deaths, s.Delay)
}
