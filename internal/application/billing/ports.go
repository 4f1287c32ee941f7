package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Receipt datos de un documento (venta o compra) listos para representarse en PDF.
type Receipt struct {
	Kind         string // inventory.InvoiceKindSale | inventory.InvoiceKindPurchase
	DocumentID   string
	Date         time.Time
	SedeName     string
	SedeAddress  string
	Counterparty string // proveedor en compras; vacío en ventas
	UserID       string
	Total        decimal.Decimal
	Lines        []ReceiptLine
}

// ReceiptLine línea del recibo enriquecida con el nombre del producto.
type ReceiptLine struct {
	SKU         string
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// ReceiptPDFGenerator genera la representación PDF de un recibo.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, r *Receipt) ([]byte, error)
}
