package inventory

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// Stores agrupa los repositorios atados a una misma transacción.
type Stores struct {
	Products  repository.ProductRepository
	Sedes     repository.SedeRepository
	Suppliers repository.SupplierRepository
	Stock     repository.StockRepository
	Movements repository.MovementRepository
	Purchases repository.PurchaseRepository
	Sales     repository.SaleRepository
	Transfers repository.TransferRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; en otro caso Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

// Categorías de notificación.
const (
	CategoryLowStock          = "stock_bajo"
	CategoryPurchaseCompleted = "compra_completada"
	CategoryTransfer          = "traslado"
)

// Notification mensaje para el despachador externo. SedeID o UserID identifican al destinatario.
type Notification struct {
	SedeID   string         `json:"sede_id,omitempty"`
	UserID   string         `json:"user_id,omitempty"`
	Category string         `json:"category"`
	Message  string         `json:"message"`
	Data     map[string]any `json:"data,omitempty"`
}

// Notifier despacha notificaciones. Los fallos no deben afectar la transacción principal.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Tipos de documento para los que se genera factura/recibo.
const (
	InvoiceKindSale     = "venta"
	InvoiceKindPurchase = "compra"
)

// InvoiceRequester solicita la generación asíncrona de la factura de un documento ya confirmado.
type InvoiceRequester interface {
	RequestInvoice(ctx context.Context, kind, documentID string) error
}

// MovementExporter serializa el libro de movimientos a una hoja de cálculo.
type MovementExporter interface {
	ExportMovements(ctx context.Context, movements []*entity.Movement) ([]byte, error)
}
