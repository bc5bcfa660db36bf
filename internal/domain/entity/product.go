package entity

import "time"

// Product representa un producto vendible del tenant. El stock nunca se guarda en el producto:
// se deriva siempre de los movimientos de inventario (unidad base).
type Product struct {
	ID        string
	TenantID  string
	Name      string
	MinStock  *int64 // umbral de stock mínimo en unidades base (nil = sin alerta)
	Units     []ProductUnit
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductUnit es una unidad de presentación del producto (ej. unidad, caja x6, fardo x24).
// FactorToBase indica cuántas unidades base representa; la unidad con factor 1 es la base.
type ProductUnit struct {
	ID           string
	ProductID    string
	Label        string
	FactorToBase int64
	IsSellable   bool
	SortOrder    int
}

// Unit busca la unidad por ID dentro del producto.
func (p *Product) Unit(unitID string) (ProductUnit, bool) {
	for _, u := range p.Units {
		if u.ID == unitID {
			return u, true
		}
	}
	return ProductUnit{}, false
}

// BaseUnit devuelve la unidad con factor 1.
func (p *Product) BaseUnit() (ProductUnit, bool) {
	for _, u := range p.Units {
		if u.FactorToBase == 1 {
			return u, true
		}
	}
	return ProductUnit{}, false
}
