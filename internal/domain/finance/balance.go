// Package finance deriva saldos del libro de caja/banco. El saldo nunca se almacena.
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// TypeTotal suma de lanzamientos PAID de un tipo (lo que devuelve la agregación en BD).
type TypeTotal struct {
	Type   string
	Amount decimal.Decimal
}

// BalanceFromTotals saldo = (INCOME + APORTE) − (EXPENSE + RETIRADA).
func BalanceFromTotals(totals []TypeTotal) decimal.Decimal {
	balance := decimal.Zero
	for _, t := range totals {
		switch t.Type {
		case entity.EntryIncome, entity.EntryAporte:
			balance = balance.Add(t.Amount)
		case entity.EntryExpense, entity.EntryRetirada:
			balance = balance.Sub(t.Amount)
		}
	}
	return balance
}

// PaidTotals agrupa por tipo solo los lanzamientos PAID; SCHEDULED y DUE no cuentan.
func PaidTotals(entries []*entity.FinanceEntry) []TypeTotal {
	byType := map[string]decimal.Decimal{}
	var order []string
	for _, e := range entries {
		if e.Status != entity.EntryPaid {
			continue
		}
		if _, ok := byType[e.Type]; !ok {
			order = append(order, e.Type)
		}
		byType[e.Type] = byType[e.Type].Add(e.Amount)
	}
	out := make([]TypeTotal, 0, len(order))
	for _, t := range order {
		out = append(out, TypeTotal{Type: t, Amount: byType[t]})
	}
	return out
}

// Balance saldo derivado de una lista de lanzamientos.
func Balance(entries []*entity.FinanceEntry) decimal.Decimal {
	return BalanceFromTotals(PaidTotals(entries))
}
