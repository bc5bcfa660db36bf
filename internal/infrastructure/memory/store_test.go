package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/application/ports"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/infrastructure/memory"
)

const tenant = "tenant-1"

func TestRun_ErrorRestauraEstado(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	boom := errors.New("boom")
	err := s.Run(ctx, func(r ports.Repos) error {
		require.NoError(t, r.Movements.Create(ctx, &entity.InventoryMovement{
			ID: "m1", TenantID: tenant, ProductID: "p1", Direction: entity.MovementIN, QtyBase: 10,
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	in, out, err := s.Reader().Movements.SumByProduct(ctx, tenant, "p1")
	require.NoError(t, err)
	assert.Zero(t, in)
	assert.Zero(t, out)
}

func TestRun_CommitVisible(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	err := s.Run(ctx, func(r ports.Repos) error {
		if err := r.Movements.Create(ctx, &entity.InventoryMovement{ID: "m1", TenantID: tenant, ProductID: "p1", Direction: entity.MovementIN, QtyBase: 10}); err != nil {
			return err
		}
		return r.Movements.Create(ctx, &entity.InventoryMovement{ID: "m2", TenantID: tenant, ProductID: "p1", Direction: entity.MovementOUT, QtyBase: 3})
	})
	require.NoError(t, err)

	in, out, err := s.Reader().Movements.SumByProduct(ctx, tenant, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), in)
	assert.Equal(t, int64(3), out)
}

func TestReader_AisladoPorTenant(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	s.AddProduct(entity.Product{ID: "p1", TenantID: tenant, Name: "Água"})
	s.AddMovement(entity.InventoryMovement{ID: "m1", TenantID: tenant, ProductID: "p1", Direction: entity.MovementIN, QtyBase: 5})

	p, err := s.Reader().Products.GetByID(ctx, "otro", "p1")
	require.NoError(t, err)
	assert.Nil(t, p)

	in, _, err := s.Reader().Movements.SumByProduct(ctx, "otro", "p1")
	require.NoError(t, err)
	assert.Zero(t, in)
}

func TestSales_ConfirmDraftCondicional(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	s.AddSale(entity.Sale{ID: "s1", TenantID: tenant, Status: entity.SaleStatusDraft})

	sale := &entity.Sale{ID: "s1", TenantID: tenant, Status: entity.SaleStatusConfirmed, Total: decimal.NewFromInt(10)}
	require.NoError(t, s.Run(ctx, func(r ports.Repos) error { return r.Sales.ConfirmDraft(ctx, sale) }))

	err := s.Run(ctx, func(r ports.Repos) error { return r.Sales.ConfirmDraft(ctx, sale) })
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	err = s.Run(ctx, func(r ports.Repos) error { return r.Sales.CancelDraft(ctx, tenant, "s1", time.Now()) })
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestEntries_PromoteYMarkPaid(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	s.AddEntry(entity.FinanceEntry{ID: "e1", TenantID: tenant, AccountID: "a1", Type: entity.EntryExpense, Amount: decimal.NewFromInt(30), Status: entity.EntryScheduled, DueDate: now.AddDate(0, 0, -1)})
	s.AddEntry(entity.FinanceEntry{ID: "e2", TenantID: tenant, AccountID: "a1", Type: entity.EntryExpense, Amount: decimal.NewFromInt(50), Status: entity.EntryScheduled, DueDate: now.AddDate(0, 0, 5)})

	var n int64
	require.NoError(t, s.Run(ctx, func(r ports.Repos) (err error) {
		n, err = r.Entries.PromoteDue(ctx, tenant, now)
		return err
	}))
	assert.Equal(t, int64(1), n)

	require.NoError(t, s.Run(ctx, func(r ports.Repos) (err error) {
		n, err = r.Entries.PromoteDue(ctx, tenant, now)
		return err
	}))
	assert.Zero(t, n)

	require.NoError(t, s.Run(ctx, func(r ports.Repos) error { return r.Entries.MarkPaid(ctx, tenant, "e1", now) }))
	err := s.Run(ctx, func(r ports.Repos) error { return r.Entries.MarkPaid(ctx, tenant, "e1", now) })
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	totals, err := s.Reader().Entries.PaidTotals(ctx, tenant, "a1")
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.True(t, decimal.NewFromInt(30).Equal(totals[0].Amount))
}
