package command

import (
	"context"

	"github.com/ExploryKod/Anoria/internal/app/ports"
	"github.com/ExploryKod/Anoria/internal/domain/building"
)

// stubLedger charges against a fixed purse and keeps records in a map.
type stubLedger struct {
	ports.BuildingLedger
	funds   int
	records map[string]building.Record
	err     error
}

func newStubLedger(funds int) *stubLedger {
	return &stubLedger{funds: funds, records: map[string]building.Record{}}
}

func (l *stubLedger) AddAndPay(_ context.Context, rec building.Record) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	if l.funds < rec.Price {
		return false, nil
	}
	if _, ok := l.records[rec.Name]; ok {
		return false, nil
	}
	l.funds -= rec.Price
	l.records[rec.Name] = rec
	return true, nil
}
