package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/stock"
)

// Change describe un cambio de stock sobre una fila pivote (producto, sede).
// Defaults solo se usa cuando la fila no existe y el movimiento puede crearla (entrada, ajuste).
type Change struct {
	ProductID     string
	SedeID        string
	UserID        string
	Quantity      int64
	Description   string
	ReferenceType string
	ReferenceID   string
	Defaults      *entity.PivotDefaults
}

// Engine es la rutina única que muta stock: bloquea la fila pivote, aplica el movimiento,
// guarda la fila y agrega el Movement al libro. Siempre se ejecuta dentro de TxRunner.Run.
type Engine struct {
	now func() time.Time
}

// NewEngine construye el motor de stock.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Result fila pivote y movimiento resultantes de un cambio.
type Result struct {
	Pivot    *entity.ProductSede
	Movement *entity.Movement
}

// Entrada suma Quantity al stock. Crea la fila pivote si no existe y Defaults viene informado.
func (e *Engine) Entrada(ctx context.Context, s Stores, c Change) (*Result, error) {
	return e.apply(ctx, s, entity.MovementEntrada, c)
}

// Salida resta Quantity del stock. Falla con ErrProductNotAvailable si la fila no existe
// y con ErrInsufficientStock si el stock quedaría negativo.
func (e *Engine) Salida(ctx context.Context, s Stores, c Change) (*Result, error) {
	c.Defaults = nil
	return e.apply(ctx, s, entity.MovementSalida, c)
}

// Ajuste fija el stock en Quantity.
func (e *Engine) Ajuste(ctx context.Context, s Stores, c Change) (*Result, error) {
	return e.apply(ctx, s, entity.MovementAjuste, c)
}

// Apply despacha según movType.
func (e *Engine) Apply(ctx context.Context, s Stores, movType string, c Change) (*Result, error) {
	switch movType {
	case entity.MovementEntrada:
		return e.Entrada(ctx, s, c)
	case entity.MovementSalida:
		return e.Salida(ctx, s, c)
	case entity.MovementAjuste:
		return e.Ajuste(ctx, s, c)
	}
	return nil, domain.NewValidationError("type", "oneof=entrada salida ajuste")
}

func (e *Engine) apply(ctx context.Context, s Stores, movType string, c Change) (*Result, error) {
	pivot, err := e.lockPivot(ctx, s, movType, c)
	if err != nil {
		return nil, err
	}
	now := e.now()

	before := pivot.Stock
	after, err := stock.Apply(movType, before, c.Quantity)
	if err != nil {
		return nil, fmt.Errorf("producto %s, sede %s: %w", c.ProductID, c.SedeID, err)
	}

	pivot.Stock = after
	pivot.UpdatedAt = now
	if err := s.Stock.Update(ctx, pivot); err != nil {
		return nil, err
	}

	mov := &entity.Movement{
		ID:            uuid.New().String(),
		ProductID:     c.ProductID,
		SedeID:        c.SedeID,
		UserID:        c.UserID,
		Type:          movType,
		Quantity:      c.Quantity,
		StockBefore:   before,
		StockAfter:    after,
		Description:   c.Description,
		ReferenceType: c.ReferenceType,
		ReferenceID:   c.ReferenceID,
		CreatedAt:     now,
	}
	if err := s.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return &Result{Pivot: pivot, Movement: mov}, nil
}

// lockPivot bloquea la fila (SELECT FOR UPDATE). Una fila ausente no se puede bloquear:
// se inserta en cero con los precios por defecto (sin pisar la de otra transacción)
// y se vuelve a leer bloqueada, así el stock siempre parte del valor confirmado.
func (e *Engine) lockPivot(ctx context.Context, s Stores, movType string, c Change) (*entity.ProductSede, error) {
	pivot, err := s.Stock.GetForUpdate(ctx, c.ProductID, c.SedeID)
	if err != nil || pivot != nil {
		return pivot, err
	}
	if movType == entity.MovementSalida || c.Defaults == nil {
		return nil, fmt.Errorf("%w: producto %s, sede %s", domain.ErrProductNotAvailable, c.ProductID, c.SedeID)
	}
	if err := s.Stock.Insert(ctx, entity.NewProductSede(c.ProductID, c.SedeID, *c.Defaults, e.now())); err != nil {
		return nil, err
	}
	pivot, err = s.Stock.GetForUpdate(ctx, c.ProductID, c.SedeID)
	if err != nil {
		return nil, err
	}
	if pivot == nil {
		return nil, fmt.Errorf("stock de producto %s en sede %s no quedó creado", c.ProductID, c.SedeID)
	}
	return pivot, nil
}
