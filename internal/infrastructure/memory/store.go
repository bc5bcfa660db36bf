// Package memory implementa los repositorios y el TxRunner en memoria. Se usa en tests y en
// modo desarrollo cuando no hay DATABASE_URL. Las transacciones se serializan con un mutex y
// un error dentro de Run restaura la foto tomada al iniciar, igual que un ROLLBACK.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/pdv-api/internal/application/ports"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

type state struct {
	products    map[string]entity.Product
	customers   map[string]entity.Customer
	accounts    map[string]entity.Account
	sales       map[string]entity.Sale
	movements   []entity.InventoryMovement
	receivables []entity.Receivable
	entries     []entity.FinanceEntry
}

func newState() *state {
	return &state{
		products:  map[string]entity.Product{},
		customers: map[string]entity.Customer{},
		accounts:  map[string]entity.Account{},
		sales:     map[string]entity.Sale{},
	}
}

func (s *state) clone() *state {
	out := &state{
		products:    maps.Clone(s.products),
		customers:   maps.Clone(s.customers),
		accounts:    maps.Clone(s.accounts),
		sales:       make(map[string]entity.Sale, len(s.sales)),
		movements:   slices.Clone(s.movements),
		receivables: slices.Clone(s.receivables),
		entries:     slices.Clone(s.entries),
	}
	for id, sale := range s.sales {
		sale.Items = slices.Clone(sale.Items)
		sale.Payments = slices.Clone(sale.Payments)
		out.sales[id] = sale
	}
	return out
}

// Store almacén en memoria. Implementa ports.TxRunner.
type Store struct {
	mu   sync.Mutex
	data *state
}

var _ ports.TxRunner = (*Store)(nil)

// New crea un almacén vacío.
func New() *Store {
	return &Store{data: newState()}
}

// Run ejecuta fn con exclusión mutua. Si fn falla (o entra en pánico) se restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(r ports.Repos) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	committed := false
	defer func() {
		if !committed {
			s.data = snapshot
		}
	}()

	if err := fn(s.repos(&view{store: s})); err != nil {
		return err
	}
	committed = true
	return nil
}

// Reader repos que toman el lock en cada llamada. No usar dentro de Run.
func (s *Store) Reader() ports.Repos {
	return s.repos(&view{store: s, locking: true})
}

func (s *Store) repos(v *view) ports.Repos {
	return ports.Repos{
		Products:    &productRepo{v},
		Customers:   &customerRepo{v},
		Accounts:    &accountRepo{v},
		Sales:       &saleRepo{v},
		Movements:   &movementRepo{v},
		Receivables: &receivableRepo{v},
		Entries:     &entryRepo{v},
	}
}

// view da acceso al estado: dentro de Run el lock ya está tomado; fuera, cada llamada lo toma.
type view struct {
	store   *Store
	locking bool
}

func (v *view) do(fn func(d *state) error) error {
	if v.locking {
		v.store.mu.Lock()
		defer v.store.mu.Unlock()
	}
	return fn(v.store.data)
}
