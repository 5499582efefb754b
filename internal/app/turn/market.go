package turn

import (
	"context"
	"errors"
	"fmt"

	"github.com/ExploryKod/Anoria/internal/app/ports"
	"github.com/ExploryKod/Anoria/internal/domain/building"
	"github.com/ExploryKod/Anoria/internal/domain/city"
)

func (s *Simulator) updateMarket(ctx context.Context, tile city.Tile, typ string) error {
	name := building.RecordName(typ, tile.X, tile.Y)
	if _, err := s.Buildings.IncrementField(ctx, building.Increment{Name: name, Field: building.FieldTime, By: 1}, nil); err != nil {
		return err
	}
	zone, err := city.ZoneNeighbors(s.Grid, tile.X, tile.Y, building.MarketRadius)
	if err != nil {
		return err
	}
	var farms, houses []city.Tile
	for _, n := range zone {
		switch {
		case building.IsFarm(n.BuildingID):
			farms = append(farms, n)
		case building.IsHouse(n.BuildingID):
			houses = append(houses, n)
		}
	}

	// production and delivery commit together so stock is never lost
	return s.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		market, err := s.Buildings.Get(txCtx, name)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return nil
			}
			return err
		}
		stock := market.Stocks
		for _, f := range farms {
			crop, _ := building.CropOf(f.BuildingID)
			stock.AddCrop(crop, 1)
			stock.Food += building.FoodPerFarm
		}

		recipients := make([]building.Record, 0, len(houses))
		for _, h := range houses {
			rec, err := s.Buildings.Get(txCtx, building.RecordName(h.BuildingID, h.X, h.Y))
			if err != nil {
				if errors.Is(err, ports.ErrNotFound) {
					continue
				}
				return err
			}
			recipients = append(recipients, rec)
		}
		shares := make([]building.Stocks, len(recipients))
		for i, r := range recipients {
			shares[i] = r.Stocks
		}
		delivered := distribute(&stock, shares)

		if err := s.Buildings.UpdateFields(txCtx, name, building.Patch{Stocks: &stock}, false); err != nil {
			return fmt.Errorf("update market %s: %w", name, err)
		}
		for i, r := range recipients {
			if err := s.Buildings.UpdateFields(txCtx, r.Name, building.Patch{Stocks: &shares[i]}, false); err != nil {
				return fmt.Errorf("deliver to %s: %w", r.Name, err)
			}
		}
		s.logger().Debug("market delivered",
			"market", name, "farms", len(farms), "houses", len(recipients),
			"food", delivered.Food, "wheat", delivered.Wheat, "carrot", delivered.Carrot, "cabbage", delivered.Cabbage)
		return nil
	})
}

// distribute moves goods from market to houses in order: one unit of each
// crop while it lasts, then an even share of the food. The remainder of the
// food stays in the market. It returns the total moved.
func distribute(market *building.Stocks, houses []building.Stocks) building.Stocks {
	var moved building.Stocks
	if len(houses) == 0 {
		return moved
	}
	share := market.Food / len(houses)
	for i := range houses {
		for _, c := range building.Crops {
			if market.Crop(c) > 0 {
				market.AddCrop(c, -1)
				houses[i].AddCrop(c, 1)
				moved.AddCrop(c, 1)
			}
		}
		market.Food -= share
		houses[i].Food += share
		moved.Food += share
	}
	return moved
}
