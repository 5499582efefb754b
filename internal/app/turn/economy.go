package turn

import (
	"context"

	"github.com/ExploryKod/Anoria/internal/domain/building"
	"github.com/ExploryKod/Anoria/internal/domain/economy"
)

// openTurn replaces the game ledger with the row for turn t. Funds, debt,
// deaths and the shortage streak carry over from the previous row.
func (s *Simulator) openTurn(ctx context.Context, t int) error {
	return s.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		funds, err := s.carried(txCtx, "funds", s.Rules.StartingFunds)
		if err != nil {
			return err
		}
		debt, err := s.carried(txCtx, "debt", 0)
		if err != nil {
			return err
		}
		deads, err := s.carried(txCtx, "deads", 0)
		if err != nil {
			return err
		}
		delay, err := s.carried(txCtx, "delay", 0)
		if err != nil {
			return err
		}
		pop, err := s.Buildings.GlobalPopulation(txCtx)
		if err != nil {
			return err
		}
		prices, err := s.Buildings.GlobalBuildingPrices(txCtx)
		if err != nil {
			return err
		}
		if err := s.Game.Clear(txCtx); err != nil {
			return err
		}
		snap := economy.NewSnapshot(s.GameID, t)
		snap.Funds = funds
		snap.Debt = debt
		snap.Deads = deads
		snap.Delay = delay
		snap.Population = pop
		snap.LastImmoExpense = prices
		return s.Game.AddSnapshot(txCtx, snap)
	})
}

func (s *Simulator) carried(ctx context.Context, field string, fallback int) (int, error) {
	v, ok, err := s.Game.LatestByField(ctx, field)
	if err != nil {
		return 0, err
	}
	if !ok {
		return fallback, nil
	}
	n, ok := economy.IntValue(v)
	if !ok {
		return fallback, nil
	}
	return n, nil
}

// closeTurn recomputes the city totals after the tile pass.
func (s *Simulator) closeTurn(ctx context.Context, p *pass) (economy.Snapshot, error) {
	var out economy.Snapshot
	err := s.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		recs, err := s.Buildings.ListAll(txCtx)
		if err != nil {
			return err
		}
		var pop, food, markets int
		for _, r := range recs {
			pop += r.Pop
			switch {
			case building.IsHouse(r.Type):
				food += r.Stocks.Food
			case building.IsMarket(r.Type):
				markets++
			}
		}
		out, err = s.Game.UpdateLatest(txCtx, func(snap *economy.Snapshot) {
			snap.Population = pop
			snap.FoodAvailable = food
			snap.FoodNeeded = pop
			snap.Markets = markets
			snap.FoodMarkets = markets
			snap.Deads += p.deaths
			if food < pop {
				snap.Delay++
			} else {
				snap.Delay = 0
			}
		})
		return err
	})
	return out, err
}
