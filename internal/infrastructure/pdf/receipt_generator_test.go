package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/billing"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
)

func TestGenerateReceiptPDF(t *testing.T) {
	g := NewMarotoReceiptGenerator()
	r := &billing.Receipt{
		Kind:         inventory.InvoiceKindPurchase,
		DocumentID:   "0f8fad5b-d9cb-469f-a165-70867728950e",
		Date:         time.Date(2026, 10, 15, 10, 30, 0, 0, time.UTC),
		SedeName:     "Sede Centro",
		SedeAddress:  "Calle 10 # 5-20",
		Counterparty: "Distribuidora Andina",
		UserID:       "u-1",
		Total:        decimal.NewFromInt(50000),
		Lines: []billing.ReceiptLine{
			{SKU: "CAF-001", ProductName: "Café 500g", Quantity: 5, UnitPrice: decimal.NewFromInt(10000), Subtotal: decimal.NewFromInt(50000)},
		},
	}

	out, err := g.GenerateReceiptPDF(context.Background(), r)
	require.NoError(t, err)
	assert.True(t, len(out) > 4)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "N° 0F8FAD5B", shortID("0f8fad5b-d9cb"))
	assert.Equal(t, "N° abc", shortID("abc"))
}
