package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo global.
// El stock no es atributo del producto: vive por sede en ProductSede.
type Product struct {
	ID          string
	SKU         string // código único global
	Name        string
	Description string
	CategoryID  string
	BrandID     string
	StockMinimo int64 // umbral de stock bajo por sede

	// Precios por defecto para filas ProductSede creadas por compra o entrada manual.
	DefaultPurchasePrice decimal.Decimal
	DefaultSalePrice     decimal.Decimal
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// PivotDefaults precios con los que se crea la fila pivote del producto en una sede nueva.
func (p *Product) PivotDefaults() *PivotDefaults {
	return &PivotDefaults{
		PurchasePrice: p.DefaultPurchasePrice,
		SalePrice:     p.DefaultSalePrice,
	}
}
