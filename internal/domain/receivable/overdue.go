package receivable

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

const day = 24 * time.Hour

// DaysOverdue días completos transcurridos desde el vencimiento: floor((now − due) / 1 día).
func DaysOverdue(now, due time.Time) int {
	d := now.Sub(due)
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return days
}

// IsOverdue cuota abierta con vencimiento estrictamente anterior a now.
func IsOverdue(r *entity.Receivable, now time.Time) bool {
	return r.Status == entity.ReceivableOpen && r.DueDate.Before(now)
}

// CustomerOverdue agrupación de cuotas vencidas de un cliente.
type CustomerOverdue struct {
	CustomerID       string
	TotalOpen        decimal.Decimal
	InvoiceCount     int
	MaxDaysOverdue   int
	LastPurchaseDate *time.Time
}

// GroupOverdue agrupa por cliente las cuotas vencidas y ordena de la más morosa a la menos.
// Cuotas sin cliente (ej. tarjeta a plazo de consumidor final) no entran en el reporte.
// Empates: mayor monto abierto primero y luego CustomerID, para un orden estable.
func GroupOverdue(receivables []*entity.Receivable, now time.Time) []CustomerOverdue {
	idx := map[string]int{}
	var groups []CustomerOverdue
	for _, r := range receivables {
		if r.CustomerID == nil || !IsOverdue(r, now) {
			continue
		}
		i, ok := idx[*r.CustomerID]
		if !ok {
			i = len(groups)
			idx[*r.CustomerID] = i
			groups = append(groups, CustomerOverdue{CustomerID: *r.CustomerID, TotalOpen: decimal.Zero})
		}
		g := &groups[i]
		g.TotalOpen = g.TotalOpen.Add(r.Amount)
		g.InvoiceCount++
		if d := DaysOverdue(now, r.DueDate); d > g.MaxDaysOverdue {
			g.MaxDaysOverdue = d
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.MaxDaysOverdue != b.MaxDaysOverdue {
			return a.MaxDaysOverdue > b.MaxDaysOverdue
		}
		if !a.TotalOpen.Equal(b.TotalOpen) {
			return a.TotalOpen.GreaterThan(b.TotalOpen)
		}
		return a.CustomerID < b.CustomerID
	})
	return groups
}
