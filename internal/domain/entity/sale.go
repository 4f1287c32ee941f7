package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale cabecera de una venta. Inmutable desde su creación.
type Sale struct {
	ID        string
	SedeID    string
	UserID    string
	Total     decimal.Decimal
	CreatedAt time.Time
}

// SaleDetail línea de una venta; UnitPrice es el precio de venta de la sede al momento de vender.
type SaleDetail struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
