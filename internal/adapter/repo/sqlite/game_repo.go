package sqliterepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ExploryKod/Anoria/internal/app/ports"

	"github.com/jmoiron/sqlx"
)

type gameRow struct {
	Seq      int64  `db:"seq"`
	Name     string `db:"name"`
	Document string `db:"document"`
}

func (g gameRow) port() ports.GameRow {
	return ports.GameRow{Seq: g.Seq, Name: g.Name, Document: []byte(g.Document)}
}

type GameRepo struct {
	db *sqlx.DB
}

func NewGameRepo(db *sqlx.DB) GameRepo {
	return GameRepo{db: db}
}

func (r GameRepo) Insert(ctx context.Context, row ports.GameRow) error {
	res, err := getDB(ctx, r.db).ExecContext(ctx,
		`INSERT INTO game_ledger (name, document) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
		row.Name, string(row.Document))
	if err != nil {
		return err
	}
	return conflictIfUntouched(res)
}

func (r GameRepo) Replace(ctx context.Context, name string, doc []byte) error {
	res, err := getDB(ctx, r.db).ExecContext(ctx, `UPDATE game_ledger SET document = ? WHERE name = ?`, string(doc), name)
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

func (r GameRepo) DeleteAll(ctx context.Context) error {
	_, err := getDB(ctx, r.db).ExecContext(ctx, `DELETE FROM game_ledger`)
	return err
}

func (r GameRepo) List(ctx context.Context) ([]ports.GameRow, error) {
	var rows []gameRow
	if err := sqlx.SelectContext(ctx, getDB(ctx, r.db), &rows, `SELECT seq, name, document FROM game_ledger ORDER BY seq`); err != nil {
		return nil, err
	}
	out := make([]ports.GameRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.port())
	}
	return out, nil
}

func (r GameRepo) Latest(ctx context.Context) (ports.GameRow, error) {
	var row gameRow
	err := sqlx.GetContext(ctx, getDB(ctx, r.db), &row, `SELECT seq, name, document FROM game_ledger ORDER BY seq DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.GameRow{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.GameRow{}, err
	}
	return row.port(), nil
}
