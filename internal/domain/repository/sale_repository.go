package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// SaleFilter filtros de listado de ventas.
type SaleFilter struct {
	SedeID string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// SaleRepository define el puerto de persistencia para ventas. No hay Update ni Delete:
// una venta es inmutable desde su creación.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale, details []*entity.SaleDetail) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetDetails(ctx context.Context, saleID string) ([]*entity.SaleDetail, error)
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
	// Totals devuelve SUM(total) y COUNT(*) de las ventas de la sede en el rango. sedeID vacío = todas.
	Totals(ctx context.Context, sedeID string, from, to time.Time) (decimal.Decimal, int, error)
}
