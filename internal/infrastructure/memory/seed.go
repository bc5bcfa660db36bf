package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// AddProduct registra un producto con sus unidades.
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range p.Units {
		p.Units[i].ProductID = p.ID
	}
	s.data.products[p.ID] = p
}

// AddCustomer registra un cliente.
func (s *Store) AddCustomer(c entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.customers[c.ID] = c
}

// AddAccount registra una cuenta financiera.
func (s *Store) AddAccount(a entity.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.accounts[a.ID] = a
}

// AddSale registra una venta (normalmente un borrador con sus ítems).
func (s *Store) AddSale(sale entity.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range sale.Items {
		sale.Items[i].SaleID = sale.ID
	}
	s.data.sales[sale.ID] = sale
}

// AddMovement agrega un movimiento directamente al libro (stock inicial).
func (s *Store) AddMovement(m entity.InventoryMovement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.movements = append(s.data.movements, m)
}

// AddEntry agrega un lanzamiento financiero tal cual.
func (s *Store) AddEntry(e entity.FinanceEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.entries = append(s.data.entries, e)
}

// SeedDemo carga un tenant de demostración para el modo desarrollo sin base de datos.
func (s *Store) SeedDemo(tenantID string) {
	now := time.Now()
	minStock := int64(12)
	s.AddProduct(entity.Product{
		ID:       "prod-agua",
		TenantID: tenantID,
		Name:     "Água mineral 500ml",
		MinStock: &minStock,
		Units: []entity.ProductUnit{
			{ID: "unit-agua-un", Label: "UN", FactorToBase: 1, IsSellable: true, SortOrder: 0},
			{ID: "unit-agua-cx", Label: "CX6", FactorToBase: 6, IsSellable: true, SortOrder: 1},
			{ID: "unit-agua-fd", Label: "FD24", FactorToBase: 24, IsSellable: false, SortOrder: 2},
		},
		CreatedAt: now,
		UpdatedAt: now,
	})
	s.AddMovement(entity.InventoryMovement{
		ID:        "mov-agua-inicial",
		TenantID:  tenantID,
		ProductID: "prod-agua",
		Direction: entity.MovementIN,
		QtyBase:   48,
		Source:    entity.MovementSourcePurchase,
		CreatedAt: now,
	})
	s.AddCustomer(entity.Customer{
		ID:        "cli-maria",
		TenantID:  tenantID,
		Name:      "Maria Souza",
		CreatedAt: now,
		UpdatedAt: now,
	})
	s.AddAccount(entity.Account{
		ID:                    "acc-caixa",
		TenantID:              tenantID,
		Name:                  "Caixa",
		Type:                  entity.AccountTypeCash,
		Active:                true,
		DefaultPaymentMethods: []entity.PaymentMethod{entity.PaymentCash},
		CreatedAt:             now,
		UpdatedAt:             now,
	})
	s.AddAccount(entity.Account{
		ID:                    "acc-banco",
		TenantID:              tenantID,
		Name:                  "Banco",
		Type:                  entity.AccountTypeBank,
		Active:                true,
		DefaultPaymentMethods: []entity.PaymentMethod{entity.PaymentPix, entity.PaymentDebitCard, entity.PaymentCreditCard},
		CreatedAt:             now,
		UpdatedAt:             now,
	})
	s.AddSale(entity.Sale{
		ID:       "venda-demo",
		TenantID: tenantID,
		Status:   entity.SaleStatusDraft,
		Date:     now,
		DeviceID: "pdv-01",
		Items: []entity.SaleItem{
			{ID: "item-demo-1", ProductID: "prod-agua", UnitID: "unit-agua-cx", Quantity: 2, UnitPrice: decimal.NewFromInt(60)},
		},
		CreatedAt: now,
		UpdatedAt: now,
	})
}
