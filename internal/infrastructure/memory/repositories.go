package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/finance"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository           = (*productRepo)(nil)
	_ repository.CustomerRepository          = (*customerRepo)(nil)
	_ repository.AccountRepository           = (*accountRepo)(nil)
	_ repository.SaleRepository              = (*saleRepo)(nil)
	_ repository.InventoryMovementRepository = (*movementRepo)(nil)
	_ repository.ReceivableRepository        = (*receivableRepo)(nil)
	_ repository.FinanceEntryRepository      = (*entryRepo)(nil)
)

// ── Productos ─────────────────────────────────────────────────────────────────

type productRepo struct{ v *view }

func (r *productRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(func(d *state) error {
		p, ok := d.products[id]
		if !ok || p.TenantID != tenantID || p.DeletedAt != nil {
			return nil
		}
		p.Units = slices.Clone(p.Units)
		out = &p
		return nil
	})
	return out, err
}

// ── Clientes ──────────────────────────────────────────────────────────────────

type customerRepo struct{ v *view }

func (r *customerRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.v.do(func(d *state) error {
		c, ok := d.customers[id]
		if !ok || c.TenantID != tenantID || c.DeletedAt != nil {
			return nil
		}
		out = &c
		return nil
	})
	return out, err
}

// ── Cuentas ───────────────────────────────────────────────────────────────────

type accountRepo struct{ v *view }

func (r *accountRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Account, error) {
	var out *entity.Account
	err := r.v.do(func(d *state) error {
		a, ok := d.accounts[id]
		if !ok || a.TenantID != tenantID {
			return nil
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *accountRepo) ListActive(_ context.Context, tenantID string) ([]*entity.Account, error) {
	var out []*entity.Account
	err := r.v.do(func(d *state) error {
		for _, a := range d.accounts {
			if a.TenantID == tenantID && a.Active {
				a := a
				out = append(out, &a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// ── Ventas ────────────────────────────────────────────────────────────────────

type saleRepo struct{ v *view }

func (r *saleRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.v.do(func(d *state) error {
		s, ok := d.sales[id]
		if !ok || s.TenantID != tenantID {
			return nil
		}
		s.Items = slices.Clone(s.Items)
		s.Payments = slices.Clone(s.Payments)
		s.Receivables = nil
		for _, rec := range d.receivables {
			if rec.SaleID == id && rec.TenantID == tenantID {
				s.Receivables = append(s.Receivables, rec)
			}
		}
		out = &s
		return nil
	})
	return out, err
}

func (r *saleRepo) GetForUpdate(_ context.Context, tenantID, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.v.do(func(d *state) error {
		s, ok := d.sales[id]
		if !ok || s.TenantID != tenantID {
			return nil
		}
		s.Items = slices.Clone(s.Items)
		s.Payments = nil
		out = &s
		return nil
	})
	return out, err
}

func (r *saleRepo) ReplaceItems(_ context.Context, sale *entity.Sale, items []entity.SaleItem) error {
	return r.v.do(func(d *state) error {
		s, ok := d.sales[sale.ID]
		if !ok || s.TenantID != sale.TenantID {
			return domain.ErrNotFound
		}
		s.Items = slices.Clone(items)
		d.sales[sale.ID] = s
		return nil
	})
}

func (r *saleRepo) CreatePayment(_ context.Context, p *entity.Payment) error {
	return r.v.do(func(d *state) error {
		s, ok := d.sales[p.SaleID]
		if !ok || s.TenantID != p.TenantID {
			return domain.ErrNotFound
		}
		s.Payments = append(s.Payments, *p)
		d.sales[p.SaleID] = s
		return nil
	})
}

func (r *saleRepo) ConfirmDraft(_ context.Context, sale *entity.Sale) error {
	return r.v.do(func(d *state) error {
		s, ok := d.sales[sale.ID]
		if !ok || s.TenantID != sale.TenantID || s.Status != entity.SaleStatusDraft {
			return domain.ErrInvalidStateTransition
		}
		s.Status = entity.SaleStatusConfirmed
		s.Date = sale.Date
		s.CustomerID = sale.CustomerID
		s.DeviceID = sale.DeviceID
		s.Total = sale.Total
		s.UpdatedAt = sale.UpdatedAt
		d.sales[sale.ID] = s
		return nil
	})
}

func (r *saleRepo) CancelDraft(_ context.Context, tenantID, id string, at time.Time) error {
	return r.v.do(func(d *state) error {
		s, ok := d.sales[id]
		if !ok || s.TenantID != tenantID || s.Status != entity.SaleStatusDraft {
			return domain.ErrInvalidStateTransition
		}
		s.Status = entity.SaleStatusCancelled
		s.UpdatedAt = at
		d.sales[id] = s
		return nil
	})
}

func (r *saleRepo) LastConfirmedSaleDates(_ context.Context, tenantID string, customerIDs []string) (map[string]time.Time, error) {
	out := make(map[string]time.Time, len(customerIDs))
	err := r.v.do(func(d *state) error {
		for _, s := range d.sales {
			if s.TenantID != tenantID || s.Status != entity.SaleStatusConfirmed || s.CustomerID == nil {
				continue
			}
			if !slices.Contains(customerIDs, *s.CustomerID) {
				continue
			}
			if last, ok := out[*s.CustomerID]; !ok || s.Date.After(last) {
				out[*s.CustomerID] = s.Date
			}
		}
		return nil
	})
	return out, err
}

// ── Movimientos de inventario ─────────────────────────────────────────────────

type movementRepo struct{ v *view }

func (r *movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	return r.v.do(func(d *state) error {
		d.movements = append(d.movements, *m)
		return nil
	})
}

func (r *movementRepo) SumByProduct(_ context.Context, tenantID, productID string) (in, out int64, err error) {
	err = r.v.do(func(d *state) error {
		for _, m := range d.movements {
			if m.TenantID != tenantID || m.ProductID != productID {
				continue
			}
			if m.Direction == entity.MovementIN {
				in += m.QtyBase
			} else {
				out += m.QtyBase
			}
		}
		return nil
	})
	return in, out, err
}

func (r *movementRepo) ListByProduct(_ context.Context, tenantID, productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	var all []*entity.InventoryMovement
	err := r.v.do(func(d *state) error {
		for i := len(d.movements) - 1; i >= 0; i-- {
			m := d.movements[i]
			if m.TenantID == tenantID && m.ProductID == productID {
				all = append(all, &m)
			}
		}
		return nil
	})
	return page(all, limit, offset), err
}

func (r *movementRepo) ListByReference(_ context.Context, tenantID, referenceID string) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	err := r.v.do(func(d *state) error {
		for _, m := range d.movements {
			if m.TenantID == tenantID && m.ReferenceID == referenceID {
				m := m
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

func (r *movementRepo) ListProductIDs(_ context.Context, tenantID string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	err := r.v.do(func(d *state) error {
		for _, m := range d.movements {
			if m.TenantID == tenantID && !seen[m.ProductID] {
				seen[m.ProductID] = true
				out = append(out, m.ProductID)
			}
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

// ── Cuentas por cobrar ───────────────────────────────────────────────────────

type receivableRepo struct{ v *view }

func (r *receivableRepo) Create(_ context.Context, rec *entity.Receivable) error {
	return r.v.do(func(d *state) error {
		d.receivables = append(d.receivables, *rec)
		return nil
	})
}

func (r *receivableRepo) ListBySale(_ context.Context, tenantID, saleID string) ([]*entity.Receivable, error) {
	var out []*entity.Receivable
	err := r.v.do(func(d *state) error {
		for _, rec := range d.receivables {
			if rec.TenantID == tenantID && rec.SaleID == saleID {
				rec := rec
				out = append(out, &rec)
			}
		}
		return nil
	})
	return out, err
}

func (r *receivableRepo) ListOpenOverdue(_ context.Context, tenantID string, now time.Time) ([]*entity.Receivable, error) {
	var out []*entity.Receivable
	err := r.v.do(func(d *state) error {
		for _, rec := range d.receivables {
			if rec.TenantID == tenantID && rec.CustomerID != nil &&
				rec.Status == entity.ReceivableOpen && rec.DueDate.Before(now) {
				rec := rec
				out = append(out, &rec)
			}
		}
		return nil
	})
	return out, err
}

// ── Lanzamientos financieros ─────────────────────────────────────────────────

type entryRepo struct{ v *view }

func (r *entryRepo) Create(_ context.Context, e *entity.FinanceEntry) error {
	return r.v.do(func(d *state) error {
		d.entries = append(d.entries, *e)
		return nil
	})
}

func (r *entryRepo) GetForUpdate(_ context.Context, tenantID, id string) (*entity.FinanceEntry, error) {
	var out *entity.FinanceEntry
	err := r.v.do(func(d *state) error {
		for _, e := range d.entries {
			if e.ID == id && e.TenantID == tenantID {
				e := e
				out = &e
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *entryRepo) MarkPaid(_ context.Context, tenantID, id string, paidAt time.Time) error {
	return r.v.do(func(d *state) error {
		for i := range d.entries {
			e := &d.entries[i]
			if e.ID != id || e.TenantID != tenantID {
				continue
			}
			if e.Status == entity.EntryPaid {
				return domain.ErrAlreadyPaid
			}
			at := paidAt
			e.Status = entity.EntryPaid
			e.PaidAt = &at
			e.UpdatedAt = paidAt
			return nil
		}
		return domain.ErrNotFound
	})
}

func (r *entryRepo) PromoteDue(_ context.Context, tenantID string, now time.Time) (int64, error) {
	var n int64
	err := r.v.do(func(d *state) error {
		for i := range d.entries {
			e := &d.entries[i]
			if e.TenantID == tenantID && e.Status == entity.EntryScheduled && !e.DueDate.After(now) {
				e.Status = entity.EntryDue
				e.UpdatedAt = now
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *entryRepo) ListByStatus(_ context.Context, tenantID, status string, limit, offset int) ([]*entity.FinanceEntry, error) {
	var all []*entity.FinanceEntry
	err := r.v.do(func(d *state) error {
		for _, e := range d.entries {
			if e.TenantID == tenantID && e.Status == status {
				e := e
				all = append(all, &e)
			}
		}
		return nil
	})
	sort.SliceStable(all, func(i, j int) bool { return all[i].DueDate.Before(all[j].DueDate) })
	return page(all, limit, offset), err
}

func (r *entryRepo) ListBySale(_ context.Context, tenantID, saleID string) ([]*entity.FinanceEntry, error) {
	var out []*entity.FinanceEntry
	err := r.v.do(func(d *state) error {
		for _, e := range d.entries {
			if e.TenantID == tenantID && e.SaleID != nil && *e.SaleID == saleID {
				e := e
				out = append(out, &e)
			}
		}
		return nil
	})
	return out, err
}

func (r *entryRepo) PaidTotals(_ context.Context, tenantID, accountID string) ([]finance.TypeTotal, error) {
	sums := map[string]decimal.Decimal{}
	err := r.v.do(func(d *state) error {
		for _, e := range d.entries {
			if e.TenantID == tenantID && e.AccountID == accountID && e.Status == entity.EntryPaid {
				sums[e.Type] = sums[e.Type].Add(e.Amount)
			}
		}
		return nil
	})
	out := make([]finance.TypeTotal, 0, len(sums))
	for t, amount := range sums {
		out = append(out, finance.TypeTotal{Type: t, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, err
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
