package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/finance"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/application/sales"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pdv-api/pkg/config"
	"github.com/jhoicas/pdv-api/pkg/logger"
)

// Requiere TEST_DATABASE_URL (también se lee de un .env en la raíz del repo). Sin ella se omite.
func openTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../../.env")
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definida; se omiten tests de integración")
	}
	require.NoError(t, postgres.MigrateUp(url))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

type seeded struct {
	tenant, product, unitCX, customer, caixa, sale string
}

func seed(t *testing.T, pool *pgxpool.Pool) seeded {
	t.Helper()
	ctx := context.Background()
	s := seeded{
		tenant: uuid.NewString(), product: uuid.NewString(), unitCX: uuid.NewString(),
		customer: uuid.NewString(), caixa: uuid.NewString(), sale: uuid.NewString(),
	}
	stmts := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO tenants (id, name) VALUES ($1, 'test')`, []any{s.tenant}},
		{`INSERT INTO products (id, tenant_id, name) VALUES ($1, $2, 'Água')`, []any{s.product, s.tenant}},
		{`INSERT INTO product_units (id, tenant_id, product_id, label, factor_to_base, sort_order) VALUES ($1, $2, $3, 'UN', 1, 0)`,
			[]any{uuid.NewString(), s.tenant, s.product}},
		{`INSERT INTO product_units (id, tenant_id, product_id, label, factor_to_base, sort_order) VALUES ($1, $2, $3, 'CX6', 6, 1)`,
			[]any{s.unitCX, s.tenant, s.product}},
		{`INSERT INTO customers (id, tenant_id, name) VALUES ($1, $2, 'Maria')`, []any{s.customer, s.tenant}},
		{`INSERT INTO accounts (id, tenant_id, name, type) VALUES ($1, $2, 'Caixa', 'CASH')`, []any{s.caixa, s.tenant}},
		{`INSERT INTO inventory_movements (id, tenant_id, product_id, direction, qty_base, source) VALUES ($1, $2, $3, 'IN', 20, 'PURCHASE')`,
			[]any{uuid.NewString(), s.tenant, s.product}},
		{`INSERT INTO sales (id, tenant_id, customer_id, status, date, device_id) VALUES ($1, $2, $3, 'DRAFT', '2024-01-01', 'pdv-01')`,
			[]any{s.sale, s.tenant, s.customer}},
		{`INSERT INTO sale_items (id, tenant_id, sale_id, product_id, unit_id, quantity, unit_price, total) VALUES ($1, $2, $3, $4, $5, 2, 60, 120)`,
			[]any{uuid.NewString(), s.tenant, s.sale, s.product, s.unitCX}},
	}
	for _, st := range stmts {
		_, err := pool.Exec(ctx, st.sql, st.args...)
		require.NoError(t, err, st.sql)
	}
	return s
}

func TestIntegration_ConfirmCrediario(t *testing.T) {
	pool := openTestDB(t)
	s := seed(t, pool)
	ctx := context.Background()
	runner := postgres.NewTxRunner(pool)
	stock := inventory.NewStockUseCase(runner, nil, logger.Nop())
	uc := sales.NewSettlementUseCase(runner, stock, logger.Nop())

	three, thirty := 3, 30
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out, err := uc.Confirm(ctx, sales.ConfirmInput{
		TenantID: s.tenant, SaleID: s.sale, Date: jan1,
		Payments: []dto.PaymentRequest{{Method: "CREDIARIO", Amount: decimal.NewFromInt(120), Installments: &three, InstallmentIntervalDays: &thirty}},
	})
	require.NoError(t, err)
	assert.Len(t, out.Sale.Receivables, 3)

	qty, err := stock.StockOf(ctx, s.tenant, s.product)
	require.NoError(t, err)
	assert.Equal(t, int64(8), qty)

	sale, _, err := uc.GetSale(ctx, s.tenant, s.sale)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", sale.Status)
	require.Len(t, sale.Receivables, 3)
	assert.Equal(t, "2024-03-01", sale.Receivables[2].DueDate.Format("2006-01-02"))

	_, err = uc.Confirm(ctx, sales.ConfirmInput{TenantID: s.tenant, SaleID: s.sale, Date: jan1})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestIntegration_ConfirmConcurrente(t *testing.T) {
	pool := openTestDB(t)
	s := seed(t, pool)
	ctx := context.Background()
	runner := postgres.NewTxRunner(pool)
	stock := inventory.NewStockUseCase(runner, nil, logger.Nop())
	uc := sales.NewSettlementUseCase(runner, stock, logger.Nop())
	fin := finance.NewFinanceUseCase(runner, logger.Nop())

	in := sales.ConfirmInput{
		TenantID: s.tenant, SaleID: s.sale,
		Payments: []dto.PaymentRequest{{Method: "CASH", Amount: decimal.NewFromInt(120), AccountID: s.caixa}},
	}
	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Confirm(ctx, in)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrInvalidStateTransition) || errors.Is(err, domain.ErrPersistenceConflict), err)
	}
	assert.Equal(t, 1, ok)

	qty, err := stock.StockOf(ctx, s.tenant, s.product)
	require.NoError(t, err)
	assert.Equal(t, int64(8), qty)

	balance, err := fin.BalanceOf(ctx, s.tenant, s.caixa)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(120).Equal(balance))
}

func TestIntegration_PromoteAndMarkPaid(t *testing.T) {
	pool := openTestDB(t)
	s := seed(t, pool)
	ctx := context.Background()
	fin := finance.NewFinanceUseCase(postgres.NewTxRunner(pool), logger.Nop())

	entry, err := fin.CreateEntry(ctx, s.tenant, dto.CreateFinanceEntryRequest{
		AccountID: s.caixa, Type: "EXPENSE", Amount: decimal.NewFromInt(30), DueDate: "2024-01-10",
	})
	require.NoError(t, err)

	now := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)
	due, err := fin.ListDueEntries(ctx, s.tenant, now, 20, 0)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, entry.ID, due[0].ID)

	n, err := fin.PromoteDueEntries(ctx, s.tenant, now)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = fin.MarkPaid(ctx, s.tenant, entry.ID, now)
	require.NoError(t, err)
	_, err = fin.MarkPaid(ctx, s.tenant, entry.ID, now)
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
}
