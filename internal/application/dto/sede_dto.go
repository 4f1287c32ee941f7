package dto

import "time"

// CreateSedeRequest entrada para crear una sede.
type CreateSedeRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"max=300"`
}

// UpdateSedeRequest entrada para actualizar una sede.
type UpdateSedeRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address *string `json:"address" validate:"omitempty,max=300"`
}

// SedeResponse salida de una sede.
type SedeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SedeListResponse lista paginada de sedes.
type SedeListResponse struct {
	Items []SedeResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
