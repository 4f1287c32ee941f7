package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

func TestExportMovements(t *testing.T) {
	at := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	movs := []*entity.Movement{
		{ID: "m1", ProductID: "p1", SedeID: "s1", UserID: "u1", Type: entity.MovementEntrada, Quantity: 10, StockBefore: 0, StockAfter: 10, CreatedAt: at},
		{ID: "m2", ProductID: "p1", SedeID: "s1", UserID: "u1", Type: entity.MovementSalida, Quantity: 3, StockBefore: 10, StockAfter: 7,
			ReferenceType: entity.ReferenceSale, ReferenceID: "v1", CreatedAt: at.Add(time.Hour)},
	}

	out, err := NewXLSXExporter().ExportMovements(context.Background(), movs)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(movementsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Fecha", rows[0][0])
	assert.Equal(t, "salida", rows[2][4])
	assert.Equal(t, "7", rows[2][7])
	assert.Equal(t, "venta", rows[2][9])
}

func TestExportMovements_Empty(t *testing.T) {
	out, err := NewXLSXExporter().ExportMovements(context.Background(), nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(movementsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
