package entity

import "time"

// Sede representa una ubicación física (tienda o bodega). Todo stock está asociado a una sede.
type Sede struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
