package memory

import (
	"context"
	"sort"

	"github.com/ExploryKod/Anoria/internal/app/ports"
	"github.com/ExploryKod/Anoria/internal/domain/building"
)

type BuildingRepo struct {
	store *Store
}

func NewBuildingRepo(store *Store) BuildingRepo {
	return BuildingRepo{store: store}
}

func (r BuildingRepo) Insert(_ context.Context, rec building.Record) error {
	if err := r.store.fault("buildings.insert"); err != nil {
		return err
	}
	if _, ok := r.store.houses[rec.Name]; ok {
		return ports.ErrConflict
	}
	r.store.houses[rec.Name] = rec
	return nil
}

func (r BuildingRepo) Get(_ context.Context, name string) (building.Record, error) {
	rec, ok := r.store.houses[name]
	if !ok {
		return building.Record{}, ports.ErrNotFound
	}
	return rec, nil
}

func (r BuildingRepo) Save(_ context.Context, rec building.Record) error {
	if err := r.store.fault("buildings.save"); err != nil {
		return err
	}
	if _, ok := r.store.houses[rec.Name]; !ok {
		return ports.ErrNotFound
	}
	r.store.houses[rec.Name] = rec
	return nil
}

func (r BuildingRepo) Increment(_ context.Context, inc building.Increment, cond *building.Condition) (bool, error) {
	rec, ok := r.store.houses[inc.Name]
	if !ok {
		return false, ports.ErrNotFound
	}
	applied, err := rec.ApplyIncrement(inc, cond)
	if err != nil || !applied {
		return false, err
	}
	if err := r.store.fault("buildings.save"); err != nil {
		return false, err
	}
	r.store.houses[inc.Name] = rec
	return true, nil
}

func (r BuildingRepo) Delete(_ context.Context, name string) error {
	if err := r.store.fault("buildings.delete"); err != nil {
		return err
	}
	delete(r.store.houses, name)
	return nil
}

func (r BuildingRepo) DeleteAll(_ context.Context) error {
	r.store.houses = make(map[string]building.Record)
	return nil
}

func (r BuildingRepo) List(_ context.Context) ([]building.Record, error) {
	out := make([]building.Record, 0, len(r.store.houses))
	for _, rec := range r.store.houses {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Price < out[j].Price
	})
	return out, nil
}

func (r BuildingRepo) SumPopulation(_ context.Context) (int, error) {
	total := 0
	for _, rec := range r.store.houses {
		total += rec.Pop
	}
	return total, nil
}

func (r BuildingRepo) SumPrices(_ context.Context) (int, error) {
	total := 0
	for _, rec := range r.store.houses {
		total += rec.Price
	}
	return total, nil
}

func (r BuildingRepo) ExpensesByType(_ context.Context) ([]building.Expense, error) {
	byType := map[string]*building.Expense{}
	for _, rec := range r.store.houses {
		e, ok := byType[rec.Type]
		if !ok {
			e = &building.Expense{Type: rec.Type}
			byType[rec.Type] = e
		}
		e.Count++
		e.Total += rec.Price
	}
	out := make([]building.Expense, 0, len(byType))
	for _, e := range byType {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}
