package repository

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// TransferFilter filtros de listado de traslados. SedeID coincide con origen o destino.
type TransferFilter struct {
	SedeID string
	State  string
	Limit  int
	Offset int
}

// TransferRepository define el puerto de persistencia para traslados entre sedes.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error)
	UpdateState(ctx context.Context, transfer *entity.Transfer) error
	List(ctx context.Context, filter TransferFilter) ([]*entity.Transfer, error)
	CountByState(ctx context.Context, sedeID, state string) (int, error)
}
