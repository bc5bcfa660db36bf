package sales_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/finance"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/application/ports"
	"github.com/jhoicas/pdv-api/internal/application/sales"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
	"github.com/jhoicas/pdv-api/internal/infrastructure/memory"
	"github.com/jhoicas/pdv-api/pkg/logger"
)

const (
	tenant   = "tenant-1"
	saleID   = "sale-1"
	product  = "prod-agua"
	unitUN   = "unit-un"
	unitCX   = "unit-cx6"
	unitFD   = "unit-fd24"
	customer = "cli-1"
	caixa    = "acc-caixa"
	inactiva = "acc-vieja"
)

var jan1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// ─────────────────────────────────────────────────────────────────────────────
// Fixture
// ─────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store      *memory.Store
	stock      *inventory.StockUseCase
	settlement *sales.SettlementUseCase
	finance    *finance.FinanceUseCase
}

// newFixture: stock inicial 20 unidades; borrador con 2 cajas x6 a 60 (total 120).
func newFixture(t *testing.T, withCustomer bool) *fixture {
	t.Helper()
	s := memory.New()
	s.AddProduct(entity.Product{
		ID: product, TenantID: tenant, Name: "Água",
		Units: []entity.ProductUnit{
			{ID: unitUN, Label: "UN", FactorToBase: 1, IsSellable: true},
			{ID: unitCX, Label: "CX6", FactorToBase: 6, IsSellable: true, SortOrder: 1},
			{ID: unitFD, Label: "FD24", FactorToBase: 24, IsSellable: false, SortOrder: 2},
		},
	})
	s.AddMovement(entity.InventoryMovement{ID: "inicial", TenantID: tenant, ProductID: product, Direction: entity.MovementIN, QtyBase: 20})
	s.AddCustomer(entity.Customer{ID: customer, TenantID: tenant, Name: "Maria"})
	s.AddAccount(entity.Account{ID: caixa, TenantID: tenant, Name: "Caixa", Type: entity.AccountTypeCash, Active: true})
	s.AddAccount(entity.Account{ID: inactiva, TenantID: tenant, Name: "Vieja", Type: entity.AccountTypeBank, Active: false})

	draft := entity.Sale{
		ID: saleID, TenantID: tenant, Status: entity.SaleStatusDraft, DeviceID: "pdv-01",
		Items: []entity.SaleItem{{ID: "item-1", ProductID: product, UnitID: unitCX, Quantity: 2, UnitPrice: decimal.NewFromInt(60)}},
	}
	if withCustomer {
		c := customer
		draft.CustomerID = &c
	}
	s.AddSale(draft)
	return newFixtureWith(s, s)
}

func newFixtureWith(s *memory.Store, runner ports.TxRunner) *fixture {
	log := logger.Nop()
	stock := inventory.NewStockUseCase(runner, nil, log)
	return &fixture{
		store:      s,
		stock:      stock,
		settlement: sales.NewSettlementUseCase(runner, stock, log),
		finance:    finance.NewFinanceUseCase(runner, log),
	}
}

func (f *fixture) stockOf(t *testing.T) int64 {
	t.Helper()
	qty, err := f.stock.StockOf(context.Background(), tenant, product)
	require.NoError(t, err)
	return qty
}

func (f *fixture) saleStatus(t *testing.T) string {
	t.Helper()
	sale, _, err := f.settlement.GetSale(context.Background(), tenant, saleID)
	require.NoError(t, err)
	return sale.Status
}

func intPtr(n int) *int { return &n }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ─────────────────────────────────────────────────────────────────────────────
// Confirm
// ─────────────────────────────────────────────────────────────────────────────

func TestConfirm_CrediarioTresCuotas(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	out, err := f.settlement.Confirm(ctx, sales.ConfirmInput{
		TenantID: tenant, SaleID: saleID, Date: jan1,
		Payments: []dto.PaymentRequest{{Method: "CREDIARIO", Amount: dec("120"), Installments: intPtr(3), InstallmentIntervalDays: intPtr(30)}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusConfirmed, out.Sale.Status)
	assert.True(t, dec("120").Equal(out.Sale.Total))
	require.Len(t, out.Movements, 1)
	assert.Equal(t, entity.MovementOUT, out.Movements[0].Direction)
	assert.Equal(t, int64(12), out.Movements[0].QtyBase)
	assert.Equal(t, saleID, out.Movements[0].ReferenceID)
	assert.Equal(t, int64(8), f.stockOf(t))

	require.Len(t, out.Sale.Receivables, 3)
	wantDates := []time.Time{jan1, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	for i, rec := range out.Sale.Receivables {
		assert.True(t, dec("40").Equal(rec.Amount), "cuota %d", i+1)
		assert.True(t, wantDates[i].Equal(rec.DueDate), "cuota %d", i+1)
		assert.Equal(t, i+1, rec.InstallmentNumber)
		assert.Equal(t, 3, rec.InstallmentCount)
		assert.Equal(t, entity.ReceivableOpen, rec.Status)
		require.NotNil(t, rec.CustomerID)
		assert.Equal(t, customer, *rec.CustomerID)
	}
	assert.Empty(t, out.Entries)
	require.NotNil(t, out.Customer)
	assert.Equal(t, "Maria", out.Customer.Name)

	sale, _, err := f.settlement.GetSale(ctx, tenant, saleID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusConfirmed, sale.Status)
	assert.Len(t, sale.Payments, 1)
	assert.Len(t, sale.Receivables, 3)
	assert.True(t, jan1.Equal(sale.Date))
}

func TestConfirm_ContadoGeneraLanzamientoPagado(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	out, err := f.settlement.Confirm(ctx, sales.ConfirmInput{
		TenantID: tenant, SaleID: saleID, Date: jan1,
		Payments: []dto.PaymentRequest{{Method: "CASH", Amount: dec("120"), AccountID: caixa}},
	})
	require.NoError(t, err)
	require.Len(t, out.Entries, 1)
	e := out.Entries[0]
	assert.Equal(t, entity.EntryIncome, e.Type)
	assert.Equal(t, entity.EntryPaid, e.Status)
	require.NotNil(t, e.PaidAt)
	assert.True(t, jan1.Equal(*e.PaidAt))
	require.NotNil(t, e.SaleID)
	assert.Equal(t, saleID, *e.SaleID)
	assert.Empty(t, out.Sale.Receivables)

	balance, err := f.finance.BalanceOf(ctx, tenant, caixa)
	require.NoError(t, err)
	assert.True(t, dec("120").Equal(balance), "saldo %s", balance)
}

func TestConfirm_PagoMixtoTarjetaEnCuotas(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	out, err := f.settlement.Confirm(ctx, sales.ConfirmInput{
		TenantID: tenant, SaleID: saleID, Date: jan1,
		Payments: []dto.PaymentRequest{
			{Method: "PIX", Amount: dec("20"), AccountID: caixa},
			{Method: "CREDIT_CARD", Amount: dec("100"), Installments: intPtr(3)},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Entries, 1)
	assert.True(t, dec("20").Equal(out.Entries[0].Amount))

	require.Len(t, out.Sale.Receivables, 3)
	amounts := []string{"33.33", "33.33", "33.34"}
	for i, rec := range out.Sale.Receivables {
		assert.True(t, dec(amounts[i]).Equal(rec.Amount), "cuota %d = %s", i+1, rec.Amount)
		assert.Nil(t, rec.CustomerID)
		require.NotNil(t, rec.PaymentID)
	}
	assert.True(t, jan1.AddDate(0, 0, 30).Equal(out.Sale.Receivables[1].DueDate))
}

func TestConfirm_TarjetaSinCuotasEsInmediata(t *testing.T) {
	f := newFixture(t, false)

	out, err := f.settlement.Confirm(context.Background(), sales.ConfirmInput{
		TenantID: tenant, SaleID: saleID, Date: jan1,
		Payments: []dto.PaymentRequest{{Method: "CREDIT_CARD", Amount: dec("120"), AccountID: caixa, Installments: intPtr(1)}},
	})
	require.NoError(t, err)
	assert.Len(t, out.Entries, 1)
	assert.Empty(t, out.Sale.Receivables)
}

func TestConfirm_DebitoConCuotasEsInmediato(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	out, err := f.settlement.Confirm(ctx, sales.ConfirmInput{
		TenantID: tenant, SaleID: saleID, Date: jan1,
		Payments: []dto.PaymentRequest{{Method: "DEBIT_CARD", Amount: dec("120"), AccountID: caixa, Installments: intPtr(3)}},
	})
	require.NoError(t, err)
	require.Len(t, out.Entries, 1)
	assert.Equal(t, entity.EntryPaid, out.Entries[0].Status)
	assert.True(t, dec("120").Equal(out.Entries[0].Amount))
	assert.Empty(t, out.Sale.Receivables)

	balance, err := f.finance.BalanceOf(ctx, tenant, caixa)
	require.NoError(t, err)
	assert.True(t, dec("120").Equal(balance), "saldo %s", balance)
}

func TestConfirm_SinPagosConClienteCreaCuotaUnica(t *testing.T) {
	f := newFixture(t, true)

	out, err := f.settlement.Confirm(context.Background(), sales.ConfirmInput{TenantID: tenant, SaleID: saleID, Date: jan1})
	require.NoError(t, err)
	require.Len(t, out.Sale.Receivables, 1)
	rec := out.Sale.Receivables[0]
	assert.True(t, dec("120").Equal(rec.Amount))
	assert.True(t, jan1.Equal(rec.DueDate))
	assert.Nil(t, rec.PaymentID)
	assert.Empty(t, out.Entries)
}

func TestConfirm_ReemplazaItemsYRecalculaTotal(t *testing.T) {
	f := newFixture(t, false)

	out, err := f.settlement.Confirm(context.Background(), sales.ConfirmInput{
		TenantID: tenant, SaleID: saleID, Date: jan1,
		Items: []dto.SaleItemRequest{
			{ProductID: product, UnitID: unitUN, Quantity: 3, UnitPrice: dec("2.50")},
			{ProductID: product, UnitID: unitCX, Quantity: 1, UnitPrice: dec("14")},
		},
		Payments: []dto.PaymentRequest{{Method: "CASH", Amount: dec("21.50"), AccountID: caixa}},
	})
	require.NoError(t, err)
	assert.True(t, dec("21.50").Equal(out.Sale.Total))
	require.Len(t, out.Movements, 2)
	assert.Equal(t, int64(3), out.Movements[0].QtyBase)
	assert.Equal(t, int64(6), out.Movements[1].QtyBase)
	assert.Equal(t, int64(11), f.stockOf(t))
}

func TestConfirm_SobreventaPermitida(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.settlement.Confirm(context.Background(), sales.ConfirmInput{
		TenantID: tenant, SaleID: saleID, Date: jan1,
		Items:    []dto.SaleItemRequest{{ProductID: product, UnitID: unitCX, Quantity: 5, UnitPrice: dec("1")}},
		Payments: []dto.PaymentRequest{{Method: "CASH", Amount: dec("5"), AccountID: caixa}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-10), f.stockOf(t))
}

// ─────────────────────────────────────────────────────────────────────────────
// Validaciones: nada se escribe
// ─────────────────────────────────────────────────────────────────────────────

func TestConfirm_Validaciones(t *testing.T) {
	tests := []struct {
		name         string
		withCustomer bool
		in           sales.ConfirmInput
		wantErr      error
	}{
		{
			name:    "sin pagos ni cliente",
			in:      sales.ConfirmInput{},
			wantErr: domain.ErrCustomerRequired,
		},
		{
			name:    "crediario sin cliente",
			in:      sales.ConfirmInput{Payments: []dto.PaymentRequest{{Method: "CREDIARIO", Amount: dec("120")}}},
			wantErr: domain.ErrCustomerRequired,
		},
		{
			name:    "suma de pagos distinta del total",
			in:      sales.ConfirmInput{Payments: []dto.PaymentRequest{{Method: "CASH", Amount: dec("100"), AccountID: caixa}}},
			wantErr: domain.ErrPaymentTotalMismatch,
		},
		{
			name:    "medio desconocido",
			in:      sales.ConfirmInput{Payments: []dto.PaymentRequest{{Method: "BITCOIN", Amount: dec("120"), AccountID: caixa}}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "pago inmediato sin cuenta",
			in:      sales.ConfirmInput{Payments: []dto.PaymentRequest{{Method: "CASH", Amount: dec("120")}}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "cuenta inactiva",
			in:      sales.ConfirmInput{Payments: []dto.PaymentRequest{{Method: "PIX", Amount: dec("120"), AccountID: inactiva}}},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "unidad no vendible",
			in: sales.ConfirmInput{
				Items:    []dto.SaleItemRequest{{ProductID: product, UnitID: unitFD, Quantity: 1, UnitPrice: dec("120")}},
				Payments: []dto.PaymentRequest{{Method: "CASH", Amount: dec("120"), AccountID: caixa}},
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "unidad inexistente",
			in: sales.ConfirmInput{
				Items:    []dto.SaleItemRequest{{ProductID: product, UnitID: "nope", Quantity: 1, UnitPrice: dec("120")}},
				Payments: []dto.PaymentRequest{{Method: "CASH", Amount: dec("120"), AccountID: caixa}},
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:         "cliente inexistente",
			withCustomer: true,
			in:           sales.ConfirmInput{CustomerID: strPtr("fantasma")},
			wantErr:      domain.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.withCustomer)
			in := tt.in
			in.TenantID, in.SaleID, in.Date = tenant, saleID, jan1

			_, err := f.settlement.Confirm(context.Background(), in)
			require.ErrorIs(t, err, tt.wantErr)

			assert.Equal(t, int64(20), f.stockOf(t))
			assert.Equal(t, entity.SaleStatusDraft, f.saleStatus(t))
		})
	}
}

func strPtr(s string) *string { return &s }

func TestConfirm_VentaInexistente(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.settlement.Confirm(context.Background(), sales.ConfirmInput{TenantID: tenant, SaleID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.settlement.Confirm(context.Background(), sales.ConfirmInput{TenantID: "otro", SaleID: saleID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// Estados y concurrencia
// ─────────────────────────────────────────────────────────────────────────────

func TestConfirm_DobleConfirmacion(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	in := sales.ConfirmInput{TenantID: tenant, SaleID: saleID, Date: jan1}

	_, err := f.settlement.Confirm(ctx, in)
	require.NoError(t, err)
	_, err = f.settlement.Confirm(ctx, in)
	require.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	assert.Equal(t, int64(8), f.stockOf(t))
	recs, err := f.store.Reader().Receivables.ListBySale(ctx, tenant, saleID)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestConfirm_ConcurrenteUnSoloGanador(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	in := sales.ConfirmInput{
		TenantID: tenant, SaleID: saleID, Date: jan1,
		Payments: []dto.PaymentRequest{{Method: "CASH", Amount: dec("120"), AccountID: caixa}},
	}

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.settlement.Confirm(ctx, in)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrInvalidStateTransition):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, int64(8), f.stockOf(t))

	balance, err := f.finance.BalanceOf(ctx, tenant, caixa)
	require.NoError(t, err)
	assert.True(t, dec("120").Equal(balance))
}

type failingReceivables struct{ repository.ReceivableRepository }

func (failingReceivables) Create(context.Context, *entity.Receivable) error {
	return errors.New("disco lleno")
}

// failingRunner inyecta un fallo al crear cuotas, después de que la tx ya escribió movimientos y pagos.
type failingRunner struct{ *memory.Store }

func (f failingRunner) Run(ctx context.Context, fn func(r ports.Repos) error) error {
	return f.Store.Run(ctx, func(r ports.Repos) error {
		r.Receivables = failingReceivables{r.Receivables}
		return fn(r)
	})
}

func TestConfirm_FalloParcialRevierteTodo(t *testing.T) {
	base := newFixture(t, true)
	f := newFixtureWith(base.store, failingRunner{base.store})
	ctx := context.Background()

	_, err := f.settlement.Confirm(ctx, sales.ConfirmInput{
		TenantID: tenant, SaleID: saleID, Date: jan1,
		Payments: []dto.PaymentRequest{
			{Method: "CASH", Amount: dec("20"), AccountID: caixa},
			{Method: "CREDIARIO", Amount: dec("100"), Installments: intPtr(2)},
		},
	})
	require.Error(t, err)

	assert.Equal(t, int64(20), f.stockOf(t))
	sale, _, err := f.settlement.GetSale(ctx, tenant, saleID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusDraft, sale.Status)
	assert.Empty(t, sale.Payments)
	assert.Empty(t, sale.Receivables)

	entries, err := f.store.Reader().Entries.ListBySale(ctx, tenant, saleID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// memCache caché de stock mínima con generación por producto.
type memCache struct {
	mu   sync.Mutex
	data map[string]int64
	gens map[string]int64
}

func newMemCache() *memCache { return &memCache{data: map[string]int64{}, gens: map[string]int64{}} }

func (c *memCache) Get(_ context.Context, tenantID, productID string) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[tenantID+":"+productID]
	return v, ok, nil
}

func (c *memCache) Generation(_ context.Context, tenantID, productID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[tenantID+":"+productID], nil
}

func (c *memCache) Fill(_ context.Context, tenantID, productID string, gen, qty int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := tenantID + ":" + productID
	if c.gens[k] != gen {
		return false, nil
	}
	c.data[k] = qty
	return true, nil
}

func (c *memCache) Invalidate(_ context.Context, tenantID string, productIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range productIDs {
		c.gens[tenantID+":"+id]++
		delete(c.data, tenantID+":"+id)
	}
	return nil
}

func TestConfirmInTx_TransaccionDelCaller(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	log := logger.Nop()
	stock := inventory.NewStockUseCase(f.store, newMemCache(), log)
	settlement := sales.NewSettlementUseCase(f.store, stock, log)
	boom := errors.New("el caller aborta")

	stockOf := func() int64 {
		qty, err := stock.StockOf(ctx, tenant, product)
		require.NoError(t, err)
		return qty
	}
	require.Equal(t, int64(20), stockOf(), "llena la caché")

	err := f.store.Run(ctx, func(r ports.Repos) error {
		out, err := settlement.ConfirmInTx(ctx, r, sales.ConfirmInput{TenantID: tenant, SaleID: saleID, Date: jan1})
		require.NoError(t, err)
		require.Len(t, out.Sale.Receivables, 1)
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, entity.SaleStatusDraft, f.saleStatus(t))
	assert.Equal(t, int64(20), stockOf())

	// El caller confirma y después invalida los productos de la venta.
	var out *sales.ConfirmedSale
	require.NoError(t, f.store.Run(ctx, func(r ports.Repos) error {
		var err error
		out, err = settlement.ConfirmInTx(ctx, r, sales.ConfirmInput{TenantID: tenant, SaleID: saleID, Date: jan1})
		return err
	}))
	assert.Equal(t, []string{product}, out.ProductIDs())
	assert.Equal(t, int64(20), stockOf(), "sin invalidar la caché conserva el valor previo")

	stock.InvalidateAfterCommit(ctx, tenant, out.ProductIDs())
	assert.Equal(t, int64(8), stockOf())
	assert.Equal(t, entity.SaleStatusConfirmed, f.saleStatus(t))
}

// ─────────────────────────────────────────────────────────────────────────────
// Cancel
// ─────────────────────────────────────────────────────────────────────────────

func TestCancel(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	sale, err := f.settlement.Cancel(ctx, tenant, saleID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, sale.Status)
	assert.Equal(t, int64(20), f.stockOf(t))

	_, err = f.settlement.Cancel(ctx, tenant, saleID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	_, err = f.settlement.Confirm(ctx, sales.ConfirmInput{TenantID: tenant, SaleID: saleID, Date: jan1})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestCancel_Confirmada(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	_, err := f.settlement.Confirm(ctx, sales.ConfirmInput{TenantID: tenant, SaleID: saleID, Date: jan1})
	require.NoError(t, err)

	_, err = f.settlement.Cancel(ctx, tenant, saleID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}
