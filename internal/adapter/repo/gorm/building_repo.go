package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ExploryKod/Anoria/internal/adapter/repo/gorm/model"
	"github.com/ExploryKod/Anoria/internal/app/ports"
	"github.com/ExploryKod/Anoria/internal/domain/building"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BuildingRepo struct {
	db *gorm.DB
}

func NewBuildingRepo(db *gorm.DB) BuildingRepo {
	return BuildingRepo{db: db}
}

func (r BuildingRepo) Insert(ctx context.Context, rec building.Record) error {
	m, err := toHouseModel(rec)
	if err != nil {
		return err
	}
	res := getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r BuildingRepo) Get(ctx context.Context, name string) (building.Record, error) {
	var m model.House
	if err := getDBFromCtx(ctx, r.db).Where("name = ?", name).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return building.Record{}, ports.ErrNotFound
		}
		return building.Record{}, err
	}
	return fromHouseModel(m)
}

func (r BuildingRepo) Save(ctx context.Context, rec building.Record) error {
	m, err := toHouseModel(rec)
	if err != nil {
		return err
	}
	updates := map[string]any{
		"type":        m.Type,
		"x":           m.X,
		"y":           m.Y,
		"pop":         m.Pop,
		"time":        m.Time,
		"road":        m.Road,
		"price":       m.Price,
		"maintenance": m.Maintenance,
		"stage":       m.Stage,
		"stage_name":  m.StageName,
		"game_turn":   m.GameTurn,
		"world_time":  m.WorldTime,
		"stocks":      m.Stocks,
		"neighbors":   m.Neighbors,
	}
	res := getDBFromCtx(ctx, r.db).Model(&model.House{}).Where("name = ?", rec.Name).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Increment applies the counter update and its condition in one UPDATE.
func (r BuildingRepo) Increment(ctx context.Context, inc building.Increment, cond *building.Condition) (bool, error) {
	if !inc.Field.Valid() {
		return false, building.ErrUnknownField
	}
	if err := cond.Validate(); err != nil {
		return false, err
	}
	col := clause.Column{Name: string(inc.Field)}
	db := getDBFromCtx(ctx, r.db)
	q := db.Model(&model.House{}).Where("name = ?", inc.Name)
	if cond != nil {
		q = q.Where(clause.Expr{
			SQL:  "? + ? " + string(cond.Operator) + " ?",
			Vars: []any{col, inc.By, cond.Limit},
		})
	}
	res := q.UpdateColumn(string(inc.Field), gorm.Expr("? + ?", col, inc.By))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	var n int64
	if err := db.Model(&model.House{}).Where("name = ?", inc.Name).Count(&n).Error; err != nil {
		return false, err
	}
	if n == 0 {
		return false, ports.ErrNotFound
	}
	return false, nil
}

func (r BuildingRepo) Delete(ctx context.Context, name string) error {
	return getDBFromCtx(ctx, r.db).Where("name = ?", name).Delete(&model.House{}).Error
}

func (r BuildingRepo) DeleteAll(ctx context.Context) error {
	return getDBFromCtx(ctx, r.db).Exec("DELETE FROM " + model.TableNameHouse).Error
}

func (r BuildingRepo) List(ctx context.Context) ([]building.Record, error) {
	var rows []model.House
	if err := getDBFromCtx(ctx, r.db).Order("name ASC, price ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]building.Record, 0, len(rows))
	for _, m := range rows {
		rec, err := fromHouseModel(m)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r BuildingRepo) SumPopulation(ctx context.Context) (int, error) {
	return r.sum(ctx, "pop")
}

func (r BuildingRepo) SumPrices(ctx context.Context) (int, error) {
	return r.sum(ctx, "price")
}

func (r BuildingRepo) sum(ctx context.Context, column string) (int, error) {
	var total int64
	err := getDBFromCtx(ctx, r.db).Model(&model.House{}).
		Select("COALESCE(SUM(?), 0)", clause.Column{Name: column}).
		Scan(&total).Error
	return int(total), err
}

func (r BuildingRepo) ExpensesByType(ctx context.Context) ([]building.Expense, error) {
	var rows []struct {
		Type  string
		Count int64
		Total int64
	}
	err := getDBFromCtx(ctx, r.db).Model(&model.House{}).
		Select("type, COUNT(*) AS count, COALESCE(SUM(price), 0) AS total").
		Group("type").
		Order("type ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]building.Expense, 0, len(rows))
	for _, row := range rows {
		out = append(out, building.Expense{Type: row.Type, Count: int(row.Count), Total: int(row.Total)})
	}
	return out, nil
}

func toHouseModel(rec building.Record) (model.House, error) {
	stocks, err := json.Marshal(rec.Stocks)
	if err != nil {
		return model.House{}, err
	}
	neighbors := rec.Neighbors
	if neighbors == nil {
		neighbors = []building.Ref{}
	}
	refs, err := json.Marshal(neighbors)
	if err != nil {
		return model.House{}, err
	}
	return model.House{
		Name:        rec.Name,
		Type:        rec.Type,
		X:           int32(rec.X),
		Y:           int32(rec.Y),
		Pop:         int32(rec.Pop),
		Time:        int32(rec.Time),
		Road:        int32(rec.Road),
		Price:       int32(rec.Price),
		Maintenance: int32(rec.Maintenance),
		Stage:       int32(rec.Stage),
		StageName:   rec.StageName,
		GameTurn:    int32(rec.GameTurn),
		WorldTime:   int32(rec.WorldTime),
		Stocks:      string(stocks),
		Neighbors:   string(refs),
	}, nil
}

func fromHouseModel(m model.House) (building.Record, error) {
	rec := building.Record{
		Name:        m.Name,
		Type:        m.Type,
		X:           int(m.X),
		Y:           int(m.Y),
		Pop:         int(m.Pop),
		Time:        int(m.Time),
		Road:        int(m.Road),
		Price:       int(m.Price),
		Maintenance: int(m.Maintenance),
		Stage:       int(m.Stage),
		StageName:   m.StageName,
		GameTurn:    int(m.GameTurn),
		WorldTime:   int(m.WorldTime),
	}
	if err := json.Unmarshal([]byte(m.Stocks), &rec.Stocks); err != nil {
		return building.Record{}, fmt.Errorf("decode stocks of %s: %w", m.Name, err)
	}
	if err := json.Unmarshal([]byte(m.Neighbors), &rec.Neighbors); err != nil {
		return building.Record{}, fmt.Errorf("decode neighbors of %s: %w", m.Name, err)
	}
	return rec, nil
}
