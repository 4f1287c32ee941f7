package repository

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// PurchaseFilter filtros de listado de compras.
type PurchaseFilter struct {
	SedeID string
	State  string
	Limit  int
	Offset int
}

// PurchaseRepository define el puerto de persistencia para compras y sus líneas.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase, details []*entity.PurchaseDetail) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	// GetForUpdate bloquea la cabecera para serializar cambios de estado.
	GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error)
	GetDetails(ctx context.Context, purchaseID string) ([]*entity.PurchaseDetail, error)
	ReplaceDetails(ctx context.Context, purchase *entity.Purchase, details []*entity.PurchaseDetail) error
	UpdateState(ctx context.Context, purchase *entity.Purchase) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter PurchaseFilter) ([]*entity.Purchase, error)
}
