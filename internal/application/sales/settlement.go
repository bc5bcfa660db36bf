package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/application/ports"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	domaininv "github.com/jhoicas/pdv-api/internal/domain/inventory"
	"github.com/jhoicas/pdv-api/internal/domain/receivable"
	"github.com/jhoicas/pdv-api/pkg/logger"
)

// ConfirmInput datos de confirmación ya resueltos por el adaptador (tenant, usuario, fecha).
// Date cero = ahora. CustomerID nil = conservar el de la venta. DeviceID vacío = conservar el de la venta.
type ConfirmInput struct {
	TenantID   string
	SaleID     string
	UserID     string
	Items      []dto.SaleItemRequest
	Payments   []dto.PaymentRequest
	Date       time.Time
	CustomerID *string
	DeviceID   string
}

// ConfirmedSale resultado de la liquidación: la venta materializada y lo publicado en los libros.
type ConfirmedSale struct {
	Sale     *entity.Sale
	Customer *entity.Customer
	// Movements salidas publicadas. Con ConfirmInTx su stock cacheado sigue vigente hasta que
	// el caller invalide ProductIDs() después del commit.
	Movements []*entity.InventoryMovement
	Entries   []*entity.FinanceEntry
}

// ProductIDs productos con movimientos publicados, sin repetir.
func (cs *ConfirmedSale) ProductIDs() []string {
	seen := make(map[string]bool, len(cs.Movements))
	out := make([]string, 0, len(cs.Movements))
	for _, m := range cs.Movements {
		if !seen[m.ProductID] {
			seen[m.ProductID] = true
			out = append(out, m.ProductID)
		}
	}
	return out
}

// SettlementUseCase motor de liquidación de ventas: DRAFT → CONFIRMED en una sola transacción.
type SettlementUseCase struct {
	txRunner ports.TxRunner
	stock    *inventory.StockUseCase
	log      *logger.Logger
	now      func() time.Time
}

// NewSettlementUseCase construye el caso de uso. stock publica las salidas en el libro de inventario.
func NewSettlementUseCase(txRunner ports.TxRunner, stock *inventory.StockUseCase, log *logger.Logger) *SettlementUseCase {
	return &SettlementUseCase{txRunner: txRunner, stock: stock, log: log, now: time.Now}
}

// Confirm ejecuta ConfirmInTx en su propia transacción. Tras el commit invalida el stock cacheado
// de los productos vendidos.
func (uc *SettlementUseCase) Confirm(ctx context.Context, in ConfirmInput) (*ConfirmedSale, error) {
	var out *ConfirmedSale
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		var err error
		out, err = uc.ConfirmInTx(ctx, r, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.stock.InvalidateAfterCommit(ctx, in.TenantID, out.ProductIDs())

	uc.log.Info().
		Str("tenant_id", in.TenantID).
		Str("sale_id", out.Sale.ID).
		Int("items", len(out.Sale.Items)).
		Int("payments", len(out.Sale.Payments)).
		Int("receivables", len(out.Sale.Receivables)).
		Str("total", out.Sale.Total.StringFixed(2)).
		Msg("venta confirmada")
	return out, nil
}

// ConfirmInTx liquida la venta usando los repos de la transacción del caller. Cualquier error
// deja la transacción para rollback: no hay liquidación parcial.
//
// No toca la caché de stock: tras un commit exitoso el caller debe llamar
// StockUseCase.InvalidateAfterCommit(ctx, tenantID, out.ProductIDs()), o el stock cacheado
// seguirá mostrando el valor previo a la venta hasta que expire.
func (uc *SettlementUseCase) ConfirmInTx(ctx context.Context, r ports.Repos, in ConfirmInput) (*ConfirmedSale, error) {
	now := uc.now()

	// ── 1. Bloquear la venta y verificar estado ───────────────────────────────
	sale, err := r.Sales.GetForUpdate(ctx, in.TenantID, in.SaleID)
	if err != nil {
		return nil, fmt.Errorf("liquidación: cargar venta: %w", err)
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if !sale.IsDraft() {
		return nil, fmt.Errorf("%w: la venta está en estado %s", domain.ErrInvalidStateTransition, sale.Status)
	}

	date := in.Date
	if date.IsZero() {
		date = now
	}
	if in.DeviceID != "" {
		sale.DeviceID = in.DeviceID
	}
	if in.CustomerID != nil {
		sale.CustomerID = in.CustomerID
		if *in.CustomerID == "" {
			sale.CustomerID = nil
		}
	}

	// ── 2. Cliente ────────────────────────────────────────────────────────────
	var customer *entity.Customer
	if sale.CustomerID != nil {
		customer, err = r.Customers.GetByID(ctx, in.TenantID, *sale.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("liquidación: cargar cliente: %w", err)
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
	}

	// ── 3. Ítems, unidades y total ────────────────────────────────────────────
	lines, err := resolveLines(ctx, r, in.TenantID, sale, in.Items)
	if err != nil {
		return nil, err
	}
	items := make([]entity.SaleItem, 0, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		items = append(items, l.item)
		total = total.Add(l.item.Total)
	}
	if len(in.Items) > 0 {
		if err := r.Sales.ReplaceItems(ctx, sale, items); err != nil {
			return nil, fmt.Errorf("liquidación: guardar ítems: %w", err)
		}
	}
	sale.Items = items
	sale.Total = total

	// ── 4. Validar pagos ──────────────────────────────────────────────────────
	if err := validatePayments(in.Payments, total, sale.CustomerID != nil); err != nil {
		return nil, err
	}

	out := &ConfirmedSale{Sale: sale, Customer: customer}

	// ── 5. Salidas de inventario (cantidad × factor) ──────────────────────────
	for _, l := range lines {
		mov, err := uc.stock.PostInTx(ctx, r, in.TenantID, l.item.ProductID, entity.MovementOUT,
			domaininv.ToBase(l.item.Quantity, l.unit), entity.MovementSourceSale, sale.ID, in.UserID, now)
		if err != nil {
			return nil, fmt.Errorf("liquidación: salida de inventario: %w", err)
		}
		out.Movements = append(out.Movements, mov)
	}

	// ── 6. Pagos: inmediato → lanzamiento PAID; a plazo → cuotas ──────────────
	sale.Payments = nil
	sale.Receivables = nil
	for _, req := range in.Payments {
		payment := entity.Payment{
			ID:                      uuid.New().String(),
			TenantID:                in.TenantID,
			SaleID:                  sale.ID,
			Method:                  entity.PaymentMethod(req.Method),
			Amount:                  req.Amount,
			AccountID:               req.AccountID,
			CardType:                req.CardType,
			Installments:            req.Installments,
			InstallmentIntervalDays: req.InstallmentIntervalDays,
			CreatedAt:               now,
			UpdatedAt:               now,
		}
		plan := payment.Plan()

		if payment.AccountID != "" || plan.Kind == entity.PlanImmediate {
			if err := requireActiveAccount(ctx, r, in.TenantID, payment.AccountID); err != nil {
				return nil, err
			}
		}
		if err := r.Sales.CreatePayment(ctx, &payment); err != nil {
			return nil, fmt.Errorf("liquidación: guardar pago: %w", err)
		}
		sale.Payments = append(sale.Payments, payment)

		switch plan.Kind {
		case entity.PlanImmediate:
			entry, err := createPaidIncome(ctx, r, sale, &payment, date, now)
			if err != nil {
				return nil, err
			}
			out.Entries = append(out.Entries, entry)
		case entity.PlanInstallment:
			paymentID := payment.ID
			for _, inst := range receivable.Schedule(payment.Amount, plan.Installments, plan.IntervalDays, date) {
				rec, err := createReceivable(ctx, r, sale, &paymentID, inst, plan.Installments, now)
				if err != nil {
					return nil, err
				}
				sale.Receivables = append(sale.Receivables, *rec)
			}
		}
	}

	// ── 7. Venta a cuenta: sin pagos, una cuota por el total ─────────────────
	if len(in.Payments) == 0 && total.GreaterThan(decimal.Zero) {
		inst := receivable.Installment{Number: 1, DueDate: date, Amount: total}
		rec, err := createReceivable(ctx, r, sale, nil, inst, 1, now)
		if err != nil {
			return nil, err
		}
		sale.Receivables = append(sale.Receivables, *rec)
	}

	// ── 8. DRAFT → CONFIRMED (condicional) ────────────────────────────────────
	sale.Status = entity.SaleStatusConfirmed
	sale.Date = date
	sale.UpdatedAt = now
	if err := r.Sales.ConfirmDraft(ctx, sale); err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel DRAFT → CANCELLED. No escribe en ningún libro.
func (uc *SettlementUseCase) Cancel(ctx context.Context, tenantID, saleID string) (*entity.Sale, error) {
	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		var err error
		sale, err = r.Sales.GetForUpdate(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if !sale.IsDraft() {
			return fmt.Errorf("%w: la venta está en estado %s", domain.ErrInvalidStateTransition, sale.Status)
		}
		now := uc.now()
		if err := r.Sales.CancelDraft(ctx, tenantID, saleID, now); err != nil {
			return err
		}
		sale.Status = entity.SaleStatusCancelled
		sale.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// GetSale venta con ítems, pagos y cuotas, más el cliente si tiene.
func (uc *SettlementUseCase) GetSale(ctx context.Context, tenantID, saleID string) (*entity.Sale, *entity.Customer, error) {
	r := uc.txRunner.Reader()
	sale, err := r.Sales.GetByID(ctx, tenantID, saleID)
	if err != nil {
		return nil, nil, err
	}
	if sale == nil {
		return nil, nil, domain.ErrNotFound
	}
	if sale.CustomerID == nil {
		return sale, nil, nil
	}
	customer, err := r.Customers.GetByID(ctx, tenantID, *sale.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	return sale, customer, nil
}

type line struct {
	item entity.SaleItem
	unit entity.ProductUnit
}

// resolveLines toma los ítems enviados o, si no hay, los del borrador; valida producto y unidad
// y recalcula el total de cada línea.
func resolveLines(ctx context.Context, r ports.Repos, tenantID string, sale *entity.Sale, reqs []dto.SaleItemRequest) ([]line, error) {
	source := sale.Items
	if len(reqs) > 0 {
		source = make([]entity.SaleItem, 0, len(reqs))
		for i, req := range reqs {
			source = append(source, entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ProductID: req.ProductID,
				UnitID:    req.UnitID,
				Quantity:  req.Quantity,
				UnitPrice: req.UnitPrice,
				SortOrder: i,
			})
		}
	}
	if len(source) == 0 {
		return nil, fmt.Errorf("%w: la venta no tiene ítems", domain.ErrInvalidInput)
	}

	products := make(map[string]*entity.Product)
	out := make([]line, 0, len(source))
	for _, it := range source {
		if it.ProductID == "" || it.UnitID == "" || it.Quantity <= 0 || it.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product, ok := products[it.ProductID]
		if !ok {
			var err error
			product, err = r.Products.GetByID(ctx, tenantID, it.ProductID)
			if err != nil {
				return nil, fmt.Errorf("liquidación: cargar producto: %w", err)
			}
			if product == nil {
				return nil, domain.ErrNotFound
			}
			products[it.ProductID] = product
		}
		unit, ok := product.Unit(it.UnitID)
		if !ok {
			return nil, domain.ErrNotFound
		}
		if !unit.IsSellable {
			return nil, fmt.Errorf("%w: la unidad %s no es vendible", domain.ErrInvalidInput, unit.Label)
		}
		it.Total = it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
		out = append(out, line{item: it, unit: unit})
	}
	return out, nil
}

func validatePayments(payments []dto.PaymentRequest, total decimal.Decimal, hasCustomer bool) error {
	if len(payments) == 0 {
		if !hasCustomer {
			return domain.ErrCustomerRequired
		}
		return nil
	}
	sum := decimal.Zero
	for _, p := range payments {
		method := entity.PaymentMethod(p.Method)
		if !method.Valid() || !p.Amount.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		if p.Installments != nil && *p.Installments < 1 {
			return domain.ErrInvalidInput
		}
		if p.InstallmentIntervalDays != nil && *p.InstallmentIntervalDays < 1 {
			return domain.ErrInvalidInput
		}
		if method == entity.PaymentCrediario && !hasCustomer {
			return domain.ErrCustomerRequired
		}
		sum = sum.Add(p.Amount)
	}
	if !sum.Equal(total) {
		return fmt.Errorf("%w (pagos %s, total %s)", domain.ErrPaymentTotalMismatch, sum.StringFixed(2), total.StringFixed(2))
	}
	return nil
}

func requireActiveAccount(ctx context.Context, r ports.Repos, tenantID, accountID string) error {
	if accountID == "" {
		return fmt.Errorf("%w: el pago requiere cuenta", domain.ErrInvalidInput)
	}
	account, err := r.Accounts.GetByID(ctx, tenantID, accountID)
	if err != nil {
		return fmt.Errorf("liquidación: cargar cuenta: %w", err)
	}
	if account == nil || !account.Active {
		return domain.ErrNotFound
	}
	return nil
}

func createPaidIncome(ctx context.Context, r ports.Repos, sale *entity.Sale, p *entity.Payment, date, now time.Time) (*entity.FinanceEntry, error) {
	saleID, paymentID, paidAt := sale.ID, p.ID, date
	entry := &entity.FinanceEntry{
		ID:          uuid.New().String(),
		TenantID:    sale.TenantID,
		AccountID:   p.AccountID,
		Type:        entity.EntryIncome,
		Amount:      p.Amount,
		Status:      entity.EntryPaid,
		Description: fmt.Sprintf("Venta %s (%s)", sale.ID, p.Method),
		SaleID:      &saleID,
		PaymentID:   &paymentID,
		DueDate:     date,
		PaidAt:      &paidAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.Entries.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("liquidación: guardar lanzamiento: %w", err)
	}
	return entry, nil
}

func createReceivable(
	ctx context.Context,
	r ports.Repos,
	sale *entity.Sale,
	paymentID *string,
	inst receivable.Installment,
	count int,
	now time.Time,
) (*entity.Receivable, error) {
	rec := &entity.Receivable{
		ID:                uuid.New().String(),
		TenantID:          sale.TenantID,
		CustomerID:        sale.CustomerID,
		SaleID:            sale.ID,
		PaymentID:         paymentID,
		InstallmentNumber: inst.Number,
		InstallmentCount:  count,
		Amount:            inst.Amount,
		DueDate:           inst.DueDate,
		Status:            entity.ReceivableOpen,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := r.Receivables.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("liquidación: guardar cuota: %w", err)
	}
	return rec, nil
}
