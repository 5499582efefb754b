package model

const TableNameHouse = "houses"

// House mapped from table <houses>
type House struct {
	Name        string `gorm:"column:name;primaryKey" json:"name"`
	Type        string `gorm:"column:type;not null" json:"type"`
	X           int32  `gorm:"column:x;not null" json:"x"`
	Y           int32  `gorm:"column:y;not null" json:"y"`
	Pop         int32  `gorm:"column:pop;not null" json:"pop"`
	Time        int32  `gorm:"column:time;not null" json:"time"`
	Road        int32  `gorm:"column:road;not null" json:"road"`
	Price       int32  `gorm:"column:price;not null" json:"price"`
	Maintenance int32  `gorm:"column:maintenance;not null" json:"maintenance"`
	Stage       int32  `gorm:"column:stage;not null" json:"stage"`
	StageName   string `gorm:"column:stage_name;not null" json:"stage_name"`
	GameTurn    int32  `gorm:"column:game_turn;not null" json:"game_turn"`
	WorldTime   int32  `gorm:"column:world_time;not null" json:"world_time"`
	Stocks      string `gorm:"column:stocks;type:jsonb;not null" json:"stocks"`
	Neighbors   string `gorm:"column:neighbors;type:jsonb;not null" json:"neighbors"`
}

// TableName House's table name
func (*House) TableName() string {
	return TableNameHouse
}
