package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU                  string          `json:"sku" validate:"required,min=1,max=100"`
	Name                 string          `json:"name" validate:"required,min=1,max=200"`
	Description          string          `json:"description"`
	CategoryID           string          `json:"category_id"`
	BrandID              string          `json:"brand_id"`
	StockMinimo          int64           `json:"stock_minimo" validate:"gte=0"`
	DefaultPurchasePrice decimal.Decimal `json:"default_purchase_price"`
	DefaultSalePrice     decimal.Decimal `json:"default_sale_price"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock: solo cambia por movimientos).
type UpdateProductRequest struct {
	Name                 *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description          *string          `json:"description"`
	CategoryID           *string          `json:"category_id"`
	BrandID              *string          `json:"brand_id"`
	StockMinimo          *int64           `json:"stock_minimo" validate:"omitempty,gte=0"`
	DefaultPurchasePrice *decimal.Decimal `json:"default_purchase_price"`
	DefaultSalePrice     *decimal.Decimal `json:"default_sale_price"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                   string          `json:"id"`
	SKU                  string          `json:"sku"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	CategoryID           string          `json:"category_id"`
	BrandID              string          `json:"brand_id"`
	StockMinimo          int64           `json:"stock_minimo"`
	DefaultPurchasePrice decimal.Decimal `json:"default_purchase_price"`
	DefaultSalePrice     decimal.Decimal `json:"default_sale_price"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
