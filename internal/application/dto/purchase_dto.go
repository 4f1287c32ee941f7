package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest línea de compra.
type PurchaseLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseRequest body para POST /api/purchases. SedeID vacío = sede del usuario.
type CreatePurchaseRequest struct {
	SupplierID string                `json:"supplier_id" validate:"required"`
	SedeID     string                `json:"sede_id"`
	Notes      string                `json:"notes" validate:"max=500"`
	Lines      []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// UpdatePurchaseRequest reemplaza las líneas de una compra pendiente.
type UpdatePurchaseRequest struct {
	Notes *string               `json:"notes" validate:"omitempty,max=500"`
	Lines []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ChangeStateRequest body para PATCH .../state.
type ChangeStateRequest struct {
	State string `json:"state" validate:"required"`
}

// PurchaseFilterRequest query de GET /api/purchases.
type PurchaseFilterRequest struct {
	SedeID string `query:"sede_id"`
	State  string `query:"state" validate:"omitempty,oneof=pendiente completada cancelada"`
	PageRequest
}

// PurchaseDetailResponse línea de compra.
type PurchaseDetailResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID         string                   `json:"id"`
	SupplierID string                   `json:"supplier_id"`
	SedeID     string                   `json:"sede_id"`
	UserID     string                   `json:"user_id"`
	Total      decimal.Decimal          `json:"total"`
	State      string                   `json:"state"`
	Notes      string                   `json:"notes"`
	Details    []PurchaseDetailResponse `json:"details,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
