package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementEntrada = "entrada" // suma
	MovementSalida  = "salida"  // resta
	MovementAjuste  = "ajuste"  // fija el stock al valor indicado
)

// Tipos de documento que originan un movimiento. Vacío = movimiento manual.
const (
	ReferenceManual   = ""
	ReferencePurchase = "compra"
	ReferenceSale     = "venta"
	ReferenceTransfer = "traslado"
	ReferenceReversal = "reverso"
)

// Movement es una fila inmutable del libro de movimientos.
// StockBefore/StockAfter guardan el stock de la fila pivote antes y después de aplicarlo.
// Un movimiento revertido conserva su fila (ReversedAt != nil) y su efecto se compensa con
// otro movimiento de referencia ReferenceReversal.
type Movement struct {
	ID            string
	ProductID     string
	SedeID        string
	UserID        string
	Type          string
	Quantity      int64
	StockBefore   int64
	StockAfter    int64
	Description   string
	ReferenceType string
	ReferenceID   string
	CreatedAt     time.Time
	ReversedAt    *time.Time
	ReversedBy    string
}

// IsManual indica si el movimiento no pertenece a un documento (compra, venta, traslado).
func (m *Movement) IsManual() bool {
	return m.ReferenceType == ReferenceManual
}

// IsReversed indica si el movimiento ya fue revertido.
func (m *Movement) IsReversed() bool {
	return m.ReversedAt != nil
}

// ValidMovementType indica si t es un tipo de movimiento conocido.
func ValidMovementType(t string) bool {
	switch t {
	case MovementEntrada, MovementSalida, MovementAjuste:
		return true
	}
	return false
}
