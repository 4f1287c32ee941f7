package dto

import "time"

// RegisterMovementRequest body para POST /api/movements (movimiento manual).
// Quantity es la cantidad a sumar/restar; en ajuste es el stock final.
type RegisterMovementRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	SedeID      string `json:"sede_id"`
	Type        string `json:"type" validate:"required,oneof=entrada salida ajuste"`
	Quantity    int64  `json:"quantity" validate:"gte=0"`
	Description string `json:"description" validate:"max=500"`
}

// MovementFilterRequest query de GET /api/movements.
type MovementFilterRequest struct {
	ProductID string `query:"product_id"`
	SedeID    string `query:"sede_id"`
	Type      string `query:"type" validate:"omitempty,oneof=entrada salida ajuste"`
	From      string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	PageRequest
}

// MovementResponse fila del libro de movimientos.
type MovementResponse struct {
	ID            string     `json:"id"`
	ProductID     string     `json:"product_id"`
	SedeID        string     `json:"sede_id"`
	UserID        string     `json:"user_id"`
	Type          string     `json:"type"`
	Quantity      int64      `json:"quantity"`
	StockBefore   int64      `json:"stock_before"`
	StockAfter    int64      `json:"stock_after"`
	Description   string     `json:"description"`
	ReferenceType string     `json:"reference_type,omitempty"`
	ReferenceID   string     `json:"reference_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ReversedAt    *time.Time `json:"reversed_at,omitempty"`
	ReversedBy    string     `json:"reversed_by,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReconcileResponse compara el stock guardado con el reconstruido desde el libro.
type ReconcileResponse struct {
	ProductID  string `json:"product_id"`
	SedeID     string `json:"sede_id"`
	Stock      int64  `json:"stock"`
	Ledger     int64  `json:"ledger"`
	Movements  int    `json:"movements"`
	Consistent bool   `json:"consistent"`
}
