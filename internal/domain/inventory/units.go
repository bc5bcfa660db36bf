package inventory

import (
	"sort"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// AvailableInUnit convierte cantidad en unidades base a unidades enteras de presentación.
// Redondea siempre hacia −∞: con stock negativo (sobreventa) el resultado también es negativo
// y no se trunca a cero. Un factor no positivo no representa ninguna unidad vendible.
func AvailableInUnit(qtyBase, factor int64) int64 {
	if factor <= 0 {
		return 0
	}
	q := qtyBase / factor
	if qtyBase%factor != 0 && qtyBase < 0 {
		q--
	}
	return q
}

// ToBase convierte una cantidad en la unidad vendida a unidades base.
func ToBase(qty int64, unit entity.ProductUnit) int64 {
	return qty * unit.FactorToBase
}

// UnitAvailability disponibilidad de una presentación del producto.
type UnitAvailability struct {
	UnitID     string
	Label      string
	Factor     int64
	IsSellable bool
	Available  int64
}

// Breakdown calcula la disponibilidad por unidad, en el orden de presentación del producto.
func Breakdown(qtyBase int64, units []entity.ProductUnit) []UnitAvailability {
	sorted := make([]entity.ProductUnit, len(units))
	copy(sorted, units)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SortOrder < sorted[j].SortOrder })

	out := make([]UnitAvailability, 0, len(sorted))
	for _, u := range sorted {
		out = append(out, UnitAvailability{
			UnitID:     u.ID,
			Label:      u.Label,
			Factor:     u.FactorToBase,
			IsSellable: u.IsSellable,
			Available:  AvailableInUnit(qtyBase, u.FactorToBase),
		})
	}
	return out
}

// StockOf deriva el stock desde los movimientos (Σ IN − Σ OUT); el orden no importa.
func StockOf(movements []*entity.InventoryMovement) int64 {
	var total int64
	for _, m := range movements {
		switch m.Direction {
		case entity.MovementIN:
			total += m.QtyBase
		case entity.MovementOUT:
			total -= m.QtyBase
		}
	}
	return total
}

// BelowMinStock indica si el stock está por debajo del umbral del producto.
func BelowMinStock(qtyBase int64, p *entity.Product) bool {
	return p.MinStock != nil && qtyBase < *p.MinStock
}
