package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSedeResponse stock y precios de un producto en una sede.
type ProductSedeResponse struct {
	ProductID     string          `json:"product_id"`
	SedeID        string          `json:"sede_id"`
	Stock         int64           `json:"stock"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// UpdatePricesRequest cambia los precios de la fila pivote (no toca el stock).
type UpdatePricesRequest struct {
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
}

// LowStockDTO producto en o por debajo de su stock mínimo en una sede.
type LowStockDTO struct {
	ProductID   string `json:"product_id"`
	SKU         string `json:"sku"`
	ProductName string `json:"product_name"`
	SedeID      string `json:"sede_id"`
	Stock       int64  `json:"stock"`
	StockMinimo int64  `json:"stock_minimo"`
	Deficit     int64  `json:"deficit"`
}
