package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// MovementFilter filtros para consultar el libro de movimientos. Campos vacíos no filtran.
type MovementFilter struct {
	ProductID string
	SedeID    string
	Type      string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// El libro es de solo inserción: la única actualización permitida es MarkReversed.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// GetForUpdate bloquea la fila del movimiento (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	// MarkReversed registra el reverso solo si el movimiento no estaba revertido.
	// Devuelve domain.ErrMovementReversed si ya lo estaba.
	MarkReversed(ctx context.Context, id, userID string, at time.Time) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// ListForPivot devuelve todos los movimientos de (producto, sede) en orden de registro.
	ListForPivot(ctx context.Context, productID, sedeID string) ([]*entity.Movement, error)
}
