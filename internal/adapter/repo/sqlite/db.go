package sqliterepo

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const MemoryPath = ":memory:"

// Open opens or creates the ledger database at path and applies the schema.
// The pool holds one connection so every ledger operation is serialized.
func Open(path string) (*sqlx.DB, error) {
	dsn := path
	if path != MemoryPath {
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func migrate(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS houses (
		name TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		pop INTEGER NOT NULL DEFAULT 0,
		"time" INTEGER NOT NULL DEFAULT 0,
		road INTEGER NOT NULL DEFAULT 0,
		price INTEGER NOT NULL DEFAULT 0,
		maintenance INTEGER NOT NULL DEFAULT 0,
		stage INTEGER NOT NULL DEFAULT 0,
		stage_name TEXT NOT NULL DEFAULT '',
		game_turn INTEGER NOT NULL DEFAULT 0,
		world_time INTEGER NOT NULL DEFAULT 0,
		stocks_json TEXT NOT NULL DEFAULT '{}',
		neighbors_json TEXT NOT NULL DEFAULT '[]'
	);

	CREATE TABLE IF NOT EXISTS game_ledger (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		document TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_houses_type ON houses(type);
	CREATE INDEX IF NOT EXISTS idx_houses_name_price ON houses(name, price);
	`
	_, err := db.Exec(schema)
	return err
}
