package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ExploryKod/Anoria/internal/app/ports"
	"github.com/ExploryKod/Anoria/internal/domain/building"

	"github.com/jmoiron/sqlx"
)

type houseRow struct {
	Name        string `db:"name"`
	Type        string `db:"type"`
	X           int    `db:"x"`
	Y           int    `db:"y"`
	Pop         int    `db:"pop"`
	Time        int    `db:"time"`
	Road        int    `db:"road"`
	Price       int    `db:"price"`
	Maintenance int    `db:"maintenance"`
	Stage       int    `db:"stage"`
	StageName   string `db:"stage_name"`
	GameTurn    int    `db:"game_turn"`
	WorldTime   int    `db:"world_time"`
	Stocks      string `db:"stocks_json"`
	Neighbors   string `db:"neighbors_json"`
}

const houseColumns = `name, type, x, y, pop, "time", road, price, maintenance, stage, stage_name, game_turn, world_time, stocks_json, neighbors_json`

func toHouseRow(rec building.Record) (houseRow, error) {
	stocks, err := json.Marshal(rec.Stocks)
	if err != nil {
		return houseRow{}, err
	}
	neighbors := rec.Neighbors
	if neighbors == nil {
		neighbors = []building.Ref{}
	}
	refs, err := json.Marshal(neighbors)
	if err != nil {
		return houseRow{}, err
	}
	return houseRow{
		Name:        rec.Name,
		Type:        rec.Type,
		X:           rec.X,
		Y:           rec.Y,
		Pop:         rec.Pop,
		Time:        rec.Time,
		Road:        rec.Road,
		Price:       rec.Price,
		Maintenance: rec.Maintenance,
		Stage:       rec.Stage,
		StageName:   rec.StageName,
		GameTurn:    rec.GameTurn,
		WorldTime:   rec.WorldTime,
		Stocks:      string(stocks),
		Neighbors:   string(refs),
	}, nil
}

func (h houseRow) record() (building.Record, error) {
	rec := building.Record{
		Name:        h.Name,
		Type:        h.Type,
		X:           h.X,
		Y:           h.Y,
		Pop:         h.Pop,
		Time:        h.Time,
		Road:        h.Road,
		Price:       h.Price,
		Maintenance: h.Maintenance,
		Stage:       h.Stage,
		StageName:   h.StageName,
		GameTurn:    h.GameTurn,
		WorldTime:   h.WorldTime,
	}
	if err := json.Unmarshal([]byte(h.Stocks), &rec.Stocks); err != nil {
		return building.Record{}, fmt.Errorf("decode stocks of %s: %w", h.Name, err)
	}
	if err := json.Unmarshal([]byte(h.Neighbors), &rec.Neighbors); err != nil {
		return building.Record{}, fmt.Errorf("decode neighbors of %s: %w", h.Name, err)
	}
	return rec, nil
}

type BuildingRepo struct {
	db *sqlx.DB
}

func NewBuildingRepo(db *sqlx.DB) BuildingRepo {
	return BuildingRepo{db: db}
}

func (r BuildingRepo) Insert(ctx context.Context, rec building.Record) error {
	row, err := toHouseRow(rec)
	if err != nil {
		return err
	}
	res, err := sqlx.NamedExecContext(ctx, getDB(ctx, r.db), `INSERT INTO houses (`+houseColumns+`)
		VALUES (:name, :type, :x, :y, :pop, :time, :road, :price, :maintenance, :stage, :stage_name, :game_turn, :world_time, :stocks_json, :neighbors_json)
		ON CONFLICT(name) DO NOTHING`, row)
	if err != nil {
		return err
	}
	return conflictIfUntouched(res)
}

func (r BuildingRepo) Get(ctx context.Context, name string) (building.Record, error) {
	var row houseRow
	err := sqlx.GetContext(ctx, getDB(ctx, r.db), &row, `SELECT `+houseColumns+` FROM houses WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return building.Record{}, ports.ErrNotFound
	}
	if err != nil {
		return building.Record{}, err
	}
	return row.record()
}

func (r BuildingRepo) Save(ctx context.Context, rec building.Record) error {
	row, err := toHouseRow(rec)
	if err != nil {
		return err
	}
	res, err := sqlx.NamedExecContext(ctx, getDB(ctx, r.db), `UPDATE houses SET
		type = :type, x = :x, y = :y, pop = :pop, "time" = :time, road = :road, price = :price,
		maintenance = :maintenance, stage = :stage, stage_name = :stage_name, game_turn = :game_turn,
		world_time = :world_time, stocks_json = :stocks_json, neighbors_json = :neighbors_json
		WHERE name = :name`, row)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Increment applies the counter update and its condition in one statement.
func (r BuildingRepo) Increment(ctx context.Context, inc building.Increment, cond *building.Condition) (bool, error) {
	if !inc.Field.Valid() {
		return false, building.ErrUnknownField
	}
	if err := cond.Validate(); err != nil {
		return false, err
	}
	col := `"` + string(inc.Field) + `"`
	query := `UPDATE houses SET ` + col + ` = ` + col + ` + ? WHERE name = ?`
	args := []any{inc.By, inc.Name}
	if cond != nil {
		query += ` AND (` + col + ` + ?) ` + string(cond.Operator) + ` ?`
		args = append(args, inc.By, cond.Limit)
	}
	db := getDB(ctx, r.db)
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	var exists int
	if err := sqlx.GetContext(ctx, db, &exists, `SELECT COUNT(1) FROM houses WHERE name = ?`, inc.Name); err != nil {
		return false, err
	}
	if exists == 0 {
		return false, ports.ErrNotFound
	}
	return false, nil
}

func (r BuildingRepo) Delete(ctx context.Context, name string) error {
	_, err := getDB(ctx, r.db).ExecContext(ctx, `DELETE FROM houses WHERE name = ?`, name)
	return err
}

func (r BuildingRepo) DeleteAll(ctx context.Context) error {
	_, err := getDB(ctx, r.db).ExecContext(ctx, `DELETE FROM houses`)
	return err
}

func (r BuildingRepo) List(ctx context.Context) ([]building.Record, error) {
	var rows []houseRow
	if err := sqlx.SelectContext(ctx, getDB(ctx, r.db), &rows, `SELECT `+houseColumns+` FROM houses ORDER BY name, price`); err != nil {
		return nil, err
	}
	out := make([]building.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r BuildingRepo) SumPopulation(ctx context.Context) (int, error) {
	var total int
	err := sqlx.GetContext(ctx, getDB(ctx, r.db), &total, `SELECT COALESCE(SUM(pop), 0) FROM houses`)
	return total, err
}

func (r BuildingRepo) SumPrices(ctx context.Context) (int, error) {
	var total int
	err := sqlx.GetContext(ctx, getDB(ctx, r.db), &total, `SELECT COALESCE(SUM(price), 0) FROM houses`)
	return total, err
}

func (r BuildingRepo) ExpensesByType(ctx context.Context) ([]building.Expense, error) {
	var rows []struct {
		Type  string `db:"type"`
		Count int    `db:"count"`
		Total int    `db:"total"`
	}
	err := sqlx.SelectContext(ctx, getDB(ctx, r.db), &rows,
		`SELECT type, COUNT(*) AS count, COALESCE(SUM(price), 0) AS total FROM houses GROUP BY type ORDER BY type`)
	if err != nil {
		return nil, err
	}
	out := make([]building.Expense, 0, len(rows))
	for _, row := range rows {
		out = append(out, building.Expense{Type: row.Type, Count: row.Count, Total: row.Total})
	}
	return out, nil
}

func conflictIfUntouched(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrConflict
	}
	return nil
}
