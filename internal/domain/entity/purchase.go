package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de compra. Solo pendiente admite transiciones.
const (
	PurchasePendiente  = "pendiente"
	PurchaseCompletada = "completada"
	PurchaseCancelada  = "cancelada"
)

// Purchase cabecera de una compra a proveedor para una sede.
type Purchase struct {
	ID         string
	SupplierID string
	SedeID     string
	UserID     string
	Total      decimal.Decimal
	State      string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsPending indica si la compra aún admite cambios.
func (p *Purchase) IsPending() bool {
	return p.State == PurchasePendiente
}

// PurchaseDetail línea de una compra.
type PurchaseDetail struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   int64
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
}
