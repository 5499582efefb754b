package gormrepo

import (
	"context"
	"errors"

	"github.com/ExploryKod/Anoria/internal/adapter/repo/gorm/model"
	"github.com/ExploryKod/Anoria/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GameRepo struct {
	db *gorm.DB
}

func NewGameRepo(db *gorm.DB) GameRepo {
	return GameRepo{db: db}
}

func (r GameRepo) Insert(ctx context.Context, row ports.GameRow) error {
	m := model.GameLedger{Name: row.Name, Document: string(row.Document)}
	res := getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r GameRepo) Replace(ctx context.Context, name string, doc []byte) error {
	res := getDBFromCtx(ctx, r.db).Model(&model.GameLedger{}).
		Where("name = ?", name).
		Update("document", string(doc))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r GameRepo) DeleteAll(ctx context.Context) error {
	return getDBFromCtx(ctx, r.db).Exec("DELETE FROM " + model.TableNameGameLedger).Error
}

func (r GameRepo) List(ctx context.Context) ([]ports.GameRow, error) {
	var rows []model.GameLedger
	if err := getDBFromCtx(ctx, r.db).Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.GameRow, 0, len(rows))
	for _, m := range rows {
		out = append(out, ports.GameRow{Seq: m.Seq, Name: m.Name, Document: []byte(m.Document)})
	}
	return out, nil
}

func (r GameRepo) Latest(ctx context.Context) (ports.GameRow, error) {
	var m model.GameLedger
	if err := getDBFromCtx(ctx, r.db).Last(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.GameRow{}, ports.ErrNotFound
		}
		return ports.GameRow{}, err
	}
	return ports.GameRow{Seq: m.Seq, Name: m.Name, Document: []byte(m.Document)}, nil
}
