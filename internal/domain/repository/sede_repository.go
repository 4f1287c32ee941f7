package repository

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// SedeRepository define el puerto de persistencia para Sede (DIP).
type SedeRepository interface {
	Create(ctx context.Context, sede *entity.Sede) error
	GetByID(ctx context.Context, id string) (*entity.Sede, error)
	Update(ctx context.Context, sede *entity.Sede) error
	List(ctx context.Context, limit, offset int) ([]*entity.Sede, error)
}
