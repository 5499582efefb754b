package economy

type Reason string

const (
	ReasonDebt  Reason = "debt"
	ReasonDeath Reason = "death"
	ReasonIdle  Reason = "idle"
)

// GameOver is the terminal signal; it is a value, not an error.
type GameOver struct {
	Reason Reason `json:"reason"`
	Turn   int    `json:"turn"`
	Value  int    `json:"value"`
}

type Rules struct {
	DebtLimit     int
	DeathLimit    int
	IdleAfterTurn int
	StartingFunds int
}

func DefaultRules() Rules {
	return Rules{
		DebtLimit:     500,
		DeathLimit:    10,
		IdleAfterTurn: 10,
		StartingFunds: DefaultFunds,
	}
}

// Evaluate checks debt, then deaths, then idleness.
func (r Rules) Evaluate(s Snapshot) (GameOver, bool) {
	switch {
	case s.Debt > r.DebtLimit:
		return GameOver{Reason: ReasonDebt, Turn: s.Turn, Value: s.Debt}, true
	case s.Deads > r.DeathLimit:
		return GameOver{Reason: ReasonDeath, Turn: s.Turn, Value: s.Deads}, true
	case s.Turn > r.IdleAfterTurn && s.Population == 0 && s.FoodAvailable <= 0:
		return GameOver{Reason: ReasonIdle, Turn: s.Turn, Value: s.Population}, true
	}
	return GameOver{}, false
}
