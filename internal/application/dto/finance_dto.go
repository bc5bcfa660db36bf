package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateFinanceEntryRequest body para POST /api/finance/entries.
type CreateFinanceEntryRequest struct {
	AccountID   string          `json:"account_id"`
	CategoryID  *string         `json:"category_id,omitempty"`
	Type        string          `json:"type"` // INCOME | EXPENSE | APORTE | RETIRADA
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	DueDate     string          `json:"due_date"` // YYYY-MM-DD
	Paid        bool            `json:"paid"`
}

// FinanceEntryResponse lanzamiento del libro.
type FinanceEntryResponse struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	CategoryID  *string         `json:"category_id,omitempty"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	Description string          `json:"description,omitempty"`
	SaleID      *string         `json:"sale_id,omitempty"`
	DueDate     string          `json:"due_date"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
}

// AccountBalanceResponse saldo derivado de una cuenta.
type AccountBalanceResponse struct {
	AccountID string          `json:"account_id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
}
