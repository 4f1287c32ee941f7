package entity

import "time"

// Estados de traslado entre sedes. El stock solo se mueve al pasar a recibido.
const (
	TransferPendiente = "pendiente"
	TransferEnviado   = "enviado"
	TransferRecibido  = "recibido"
	TransferCancelado = "cancelado"
)

// Transfer traslado de un producto desde una sede de origen a una de destino.
type Transfer struct {
	ID           string
	ProductID    string
	Quantity     int64
	OriginSedeID string
	DestSedeID   string
	State        string
	UserID       string
	ReceivedBy   string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanTransition indica si el traslado puede pasar al estado target.
func (t *Transfer) CanTransition(target string) bool {
	switch t.State {
	case TransferPendiente:
		return target == TransferEnviado || target == TransferCancelado
	case TransferEnviado:
		return target == TransferRecibido || target == TransferCancelado
	}
	return false
}
