package ports

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Products    repository.ProductRepository
	Customers   repository.CustomerRepository
	Accounts    repository.AccountRepository
	Sales       repository.SaleRepository
	Movements   repository.InventoryMovementRepository
	Receivables repository.ReceivableRepository
	Entries     repository.FinanceEntryRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn retorna nil, Rollback en otro caso.
// Ninguna escritura hecha por fn es observable si la transacción no confirma.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
	// Reader repositorios fuera de transacción (consultas de solo lectura).
	Reader() Repos
}
