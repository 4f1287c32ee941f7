package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta. El precio sale de la fila pivote de la sede.
type SaleLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"gt=0"`
}

// CreateSaleRequest body para POST /api/sales. SedeID vacío = sede del usuario.
type CreateSaleRequest struct {
	SedeID string            `json:"sede_id"`
	Lines  []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// SaleFilterRequest query de GET /api/sales.
type SaleFilterRequest struct {
	SedeID string `query:"sede_id"`
	From   string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	PageRequest
}

// SaleDetailResponse línea de venta.
type SaleDetailResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse salida de una venta. LowStock lista los productos que quedaron en o bajo su mínimo.
type SaleResponse struct {
	ID        string               `json:"id"`
	SedeID    string               `json:"sede_id"`
	UserID    string               `json:"user_id"`
	Total     decimal.Decimal      `json:"total"`
	Details   []SaleDetailResponse `json:"details,omitempty"`
	LowStock  []LowStockDTO        `json:"low_stock,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
