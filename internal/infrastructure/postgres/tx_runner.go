package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pdv-api/internal/application/ports"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace Commit
// o Rollback. La exclusión sobre la venta la dan el SELECT ... FOR UPDATE y el UPDATE condicional.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return mapError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError("commit transaction", err)
	}
	return nil
}

// Reader repos sobre el pool, fuera de transacción.
func (r *TxRunner) Reader() ports.Repos {
	return reposFor(r.pool)
}

func reposFor(q Querier) ports.Repos {
	return ports.Repos{
		Products:    NewProductRepository(q),
		Customers:   NewCustomerRepository(q),
		Accounts:    NewAccountRepository(q),
		Sales:       NewSaleRepository(q),
		Movements:   NewInventoryMovementRepository(q),
		Receivables: NewReceivableRepository(q),
		Entries:     NewFinanceEntryRepository(q),
	}
}
