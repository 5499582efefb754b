package gormrepo

import (
	"context"
	"fmt"
	"io/fs"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// Open connects and brings the schema up to date from migrations.
func Open(ctx context.Context, dsn string, migrations fs.FS) (*gorm.DB, error) {
	db, err := OpenPostgres(dsn)
	if err != nil {
		return nil, err
	}
	if err := ApplyMigrations(ctx, db, migrations); err != nil {
		return nil, err
	}
	return db, nil
}
