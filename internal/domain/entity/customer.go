package entity

import "time"

// Customer representa un cliente del tenant. El CRUD vive fuera de este servicio;
// aquí solo se lee para validar referencias y armar la respuesta de la venta.
type Customer struct {
	ID        string
	TenantID  string
	Name      string
	TaxID     string // CPF/CNPJ
	Phone     string
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
