package entity

import "time"

// Supplier representa un proveedor de compras.
type Supplier struct {
	ID        string
	Name      string
	TaxID     string // NIT o RUC
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
