package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/ports"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/finance"
	"github.com/jhoicas/pdv-api/pkg/logger"
)

const dateLayout = "2006-01-02"

// FinanceUseCase libro de caja/banco: lanzamientos, barrido de vencidos y saldos derivados.
type FinanceUseCase struct {
	txRunner ports.TxRunner
	log      *logger.Logger
}

// NewFinanceUseCase construye el caso de uso.
func NewFinanceUseCase(txRunner ports.TxRunner, log *logger.Logger) *FinanceUseCase {
	return &FinanceUseCase{txRunner: txRunner, log: log}
}

// BalanceOf saldo de la cuenta: Σ PAID (INCOME ∪ APORTE) − Σ PAID (EXPENSE ∪ RETIRADA).
func (uc *FinanceUseCase) BalanceOf(ctx context.Context, tenantID, accountID string) (decimal.Decimal, error) {
	r := uc.txRunner.Reader()
	account, err := r.Accounts.GetByID(ctx, tenantID, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if account == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	totals, err := r.Entries.PaidTotals(ctx, tenantID, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return finance.BalanceFromTotals(totals), nil
}

// ListBalances saldo de cada cuenta activa del tenant.
func (uc *FinanceUseCase) ListBalances(ctx context.Context, tenantID string) ([]dto.AccountBalanceResponse, error) {
	r := uc.txRunner.Reader()
	accounts, err := r.Accounts.ListActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AccountBalanceResponse, 0, len(accounts))
	for _, a := range accounts {
		totals, err := r.Entries.PaidTotals(ctx, tenantID, a.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.AccountBalanceResponse{
			AccountID: a.ID,
			Name:      a.Name,
			Type:      a.Type,
			Balance:   finance.BalanceFromTotals(totals),
		})
	}
	return out, nil
}

// PromoteDueEntries pasa a DUE todo SCHEDULED con due_date <= now. Idempotente.
func (uc *FinanceUseCase) PromoteDueEntries(ctx context.Context, tenantID string, now time.Time) (int64, error) {
	var n int64
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		var err error
		n, err = r.Entries.PromoteDue(ctx, tenantID, now)
		return err
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.log.Info().Str("tenant_id", tenantID).Int64("promoted", n).Msg("lanzamientos pasados a DUE")
	}
	return n, nil
}

// ListDueEntries ejecuta el barrido y luego lista los DUE. Tiene efecto lateral: DUE es un
// estado materializado y no se calcula en la lectura.
func (uc *FinanceUseCase) ListDueEntries(ctx context.Context, tenantID string, now time.Time, limit, offset int) ([]dto.FinanceEntryResponse, error) {
	if _, err := uc.PromoteDueEntries(ctx, tenantID, now); err != nil {
		return nil, err
	}
	entries, err := uc.txRunner.Reader().Entries.ListByStatus(ctx, tenantID, entity.EntryDue, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FinanceEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return out, nil
}

// MarkPaid SCHEDULED/DUE → PAID con paidAt = now. ErrAlreadyPaid si ya estaba pagado:
// el mismo lanzamiento no puede contar dos veces en el saldo.
func (uc *FinanceUseCase) MarkPaid(ctx context.Context, tenantID, entryID string, now time.Time) (*dto.FinanceEntryResponse, error) {
	var entry *entity.FinanceEntry
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		var err error
		entry, err = r.Entries.GetForUpdate(ctx, tenantID, entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		if entry.Status == entity.EntryPaid {
			return domain.ErrAlreadyPaid
		}
		if err := r.Entries.MarkPaid(ctx, tenantID, entryID, now); err != nil {
			return err
		}
		entry.Status = entity.EntryPaid
		entry.PaidAt = &now
		entry.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toEntryResponse(entry)
	return &resp, nil
}

// CreateEntry registra un lanzamiento manual (gasto, aporte, retiro, ingreso fuera de venta).
// Con Paid=true nace PAID con paidAt = due_date; si no, SCHEDULED.
func (uc *FinanceUseCase) CreateEntry(ctx context.Context, tenantID string, in dto.CreateFinanceEntryRequest) (*dto.FinanceEntryResponse, error) {
	if in.AccountID == "" || !entity.ValidEntryType(in.Type) || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	dueDate, err := time.Parse(dateLayout, in.DueDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	entry := &entity.FinanceEntry{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		AccountID:   in.AccountID,
		CategoryID:  in.CategoryID,
		Type:        in.Type,
		Amount:      in.Amount,
		Status:      entity.EntryScheduled,
		Description: in.Description,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Paid {
		entry.Status = entity.EntryPaid
		entry.PaidAt = &dueDate
	}

	err = uc.txRunner.Run(ctx, func(r ports.Repos) error {
		account, err := r.Accounts.GetByID(ctx, tenantID, in.AccountID)
		if err != nil {
			return err
		}
		if account == nil || !account.Active {
			return domain.ErrNotFound
		}
		return r.Entries.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	resp := toEntryResponse(entry)
	return &resp, nil
}

func toEntryResponse(e *entity.FinanceEntry) dto.FinanceEntryResponse {
	return dto.FinanceEntryResponse{
		ID:          e.ID,
		AccountID:   e.AccountID,
		CategoryID:  e.CategoryID,
		Type:        e.Type,
		Amount:      e.Amount,
		Status:      e.Status,
		Description: e.Description,
		SaleID:      e.SaleID,
		DueDate:     e.DueDate.Format(dateLayout),
		PaidAt:      e.PaidAt,
	}
}
