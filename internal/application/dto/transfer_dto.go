package dto

import "time"

// CreateTransferRequest body para POST /api/transfers. OriginSedeID vacío = sede del usuario.
type CreateTransferRequest struct {
	ProductID    string `json:"product_id" validate:"required"`
	Quantity     int64  `json:"quantity" validate:"gt=0"`
	OriginSedeID string `json:"origin_sede_id"`
	DestSedeID   string `json:"dest_sede_id" validate:"required"`
	Notes        string `json:"notes" validate:"max=500"`
}

// TransferFilterRequest query de GET /api/transfers.
type TransferFilterRequest struct {
	SedeID string `query:"sede_id"`
	State  string `query:"state" validate:"omitempty,oneof=pendiente enviado recibido cancelado"`
	PageRequest
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	Quantity     int64     `json:"quantity"`
	OriginSedeID string    `json:"origin_sede_id"`
	DestSedeID   string    `json:"dest_sede_id"`
	State        string    `json:"state"`
	UserID       string    `json:"user_id"`
	ReceivedBy   string    `json:"received_by,omitempty"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
