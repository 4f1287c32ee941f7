// Package stock contiene la aritmética pura de stock por (producto, sede):
// aplicación de movimientos, reverso y reconstrucción desde el libro.
package stock

import (
	"fmt"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// Apply devuelve el stock resultante de aplicar un movimiento de tipo movType con quantity
// sobre current. entrada y salida exigen quantity > 0; ajuste exige quantity >= 0.
func Apply(movType string, current, quantity int64) (int64, error) {
	switch movType {
	case entity.MovementEntrada:
		if quantity <= 0 {
			return current, domain.NewValidationError("quantity", "gt=0")
		}
		return current + quantity, nil
	case entity.MovementSalida:
		if quantity <= 0 {
			return current, domain.NewValidationError("quantity", "gt=0")
		}
		if current < quantity {
			return current, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, current, quantity)
		}
		return current - quantity, nil
	case entity.MovementAjuste:
		if quantity < 0 {
			return current, domain.NewValidationError("quantity", "gte=0")
		}
		return quantity, nil
	}
	return current, domain.NewValidationError("type", "oneof=entrada salida ajuste")
}

// Delta devuelve el cambio neto que produjo m sobre la fila pivote.
func Delta(m *entity.Movement) int64 {
	return m.StockAfter - m.StockBefore
}

// ReversalDelta devuelve el cambio que deshace el efecto de m:
// resta lo que sumó una entrada, devuelve lo que quitó una salida y compensa un ajuste.
func ReversalDelta(m *entity.Movement) int64 {
	switch m.Type {
	case entity.MovementEntrada:
		return -m.Quantity
	case entity.MovementSalida:
		return m.Quantity
	}
	return -Delta(m)
}

// Reversal traduce un delta de reverso al movimiento compensatorio (tipo y cantidad).
func Reversal(delta int64) (movType string, quantity int64) {
	if delta >= 0 {
		return entity.MovementEntrada, delta
	}
	return entity.MovementSalida, -delta
}

// Replay reconstruye el stock de una fila pivote recorriendo sus movimientos en el orden
// en que se registraron (el que devuelve ListForPivot), no por CreatedAt.
// Los movimientos revertidos siguen contando: su reverso es otro movimiento del libro.
func Replay(movements []*entity.Movement) (int64, error) {
	var current int64
	for _, m := range movements {
		next, err := Apply(m.Type, current, m.Quantity)
		if err != nil {
			return current, fmt.Errorf("replay movimiento %s: %w", m.ID, err)
		}
		current = next
	}
	return current, nil
}
