package finance_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/finance"
)

func entry(typ, status, amount string) *entity.FinanceEntry {
	return &entity.FinanceEntry{Type: typ, Status: status, Amount: decimal.RequireFromString(amount)}
}

func TestBalance_IgnoraProgramados(t *testing.T) {
	entries := []*entity.FinanceEntry{
		entry(entity.EntryIncome, entity.EntryPaid, "100"),
		entry(entity.EntryExpense, entity.EntryPaid, "30"),
		entry(entity.EntryIncome, entity.EntryScheduled, "50"),
	}
	assert.True(t, finance.Balance(entries).Equal(decimal.NewFromInt(70)))
}

func TestBalance_AporteYRetirada(t *testing.T) {
	entries := []*entity.FinanceEntry{
		entry(entity.EntryAporte, entity.EntryPaid, "1000.00"),
		entry(entity.EntryRetirada, entity.EntryPaid, "250.25"),
		entry(entity.EntryIncome, entity.EntryPaid, "10.10"),
		entry(entity.EntryExpense, entity.EntryDue, "500.00"),
	}
	assert.Equal(t, "759.85", finance.Balance(entries).StringFixed(2))
}

func TestBalanceFromTotals_SinLanzamientos(t *testing.T) {
	assert.True(t, finance.BalanceFromTotals(nil).IsZero())
}
