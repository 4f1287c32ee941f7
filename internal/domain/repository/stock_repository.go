package repository

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// LowStockItem fila pivote cuyo stock está en o por debajo del mínimo del producto.
type LowStockItem struct {
	ProductID   string
	SKU         string
	ProductName string
	SedeID      string
	Stock       int64
	StockMinimo int64
}

// StockRepository define el puerto para la fila pivote (producto, sede).
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve nil, nil si la fila no existe.
	Get(ctx context.Context, productID, sedeID string) (*entity.ProductSede, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Devuelve nil, nil si no existe.
	GetForUpdate(ctx context.Context, productID, sedeID string) (*entity.ProductSede, error)
	// Insert crea la fila si no existe; si ya existe no hace nada (ni la pisa ni falla).
	Insert(ctx context.Context, row *entity.ProductSede) error
	// Update guarda una fila existente, bloqueada antes con GetForUpdate. ErrNotFound si no existe.
	Update(ctx context.Context, row *entity.ProductSede) error
	ListBySede(ctx context.Context, sedeID string, limit, offset int) ([]*entity.ProductSede, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.ProductSede, error)
	// ListLowStock devuelve las filas con stock <= stock mínimo del producto. sedeID vacío = todas.
	ListLowStock(ctx context.Context, sedeID string) ([]LowStockItem, error)
}
