package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSede es la fila pivote (producto, sede) con stock y precios propios de la sede.
// Stock nunca es negativo y solo cambia junto con un Movement en la misma transacción.
type ProductSede struct {
	ProductID     string
	SedeID        string
	Stock         int64
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PivotDefaults valores con los que se crea una fila ProductSede inexistente.
// Stock inicial siempre es cero; el movimiento que la crea aplica la cantidad.
type PivotDefaults struct {
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
}

// NewProductSede construye explícitamente la fila pivote con stock cero.
func NewProductSede(productID, sedeID string, def PivotDefaults, now time.Time) *ProductSede {
	return &ProductSede{
		ProductID:     productID,
		SedeID:        sedeID,
		Stock:         0,
		PurchasePrice: def.PurchasePrice,
		SalePrice:     def.SalePrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
