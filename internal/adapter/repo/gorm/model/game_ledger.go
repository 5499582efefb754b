package model

const TableNameGameLedger = "game_ledger"

// GameLedger mapped from table <game_ledger>
type GameLedger struct {
	Seq      int64  `gorm:"column:seq;primaryKey;autoIncrement:true" json:"seq"`
	Name     string `gorm:"column:name;not null" json:"name"`
	Document string `gorm:"column:document;type:jsonb;not null" json:"document"`
}

// TableName GameLedger's table name
func (*GameLedger) TableName() string {
	return TableNameGameLedger
}
