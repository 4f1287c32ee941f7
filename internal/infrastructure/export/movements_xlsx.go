// Package export genera hojas de cálculo del libro de movimientos.
package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

const movementsSheet = "Movimientos"

var movementHeaders = []string{
	"Fecha", "Producto", "Sede", "Usuario", "Tipo", "Cantidad",
	"Stock anterior", "Stock posterior", "Descripción", "Referencia", "ID referencia", "Revertido",
}

var _ inventory.MovementExporter = (*XLSXExporter)(nil)

// XLSXExporter implementa inventory.MovementExporter con excelize.
type XLSXExporter struct{}

// NewXLSXExporter construye el exportador.
func NewXLSXExporter() *XLSXExporter { return &XLSXExporter{} }

// ExportMovements escribe una fila por movimiento (más encabezado) y devuelve el .xlsx en bytes.
func (e *XLSXExporter) ExportMovements(ctx context.Context, movements []*entity.Movement) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", movementsSheet); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(movementsSheet, "A1", &movementHeaders); err != nil {
		return nil, fmt.Errorf("xlsx: encabezado: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(movementsSheet, 1, 1, style)
	}

	for i, m := range movements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		reversed := ""
		if m.ReversedAt != nil {
			reversed = m.ReversedAt.Format("2006-01-02 15:04:05")
		}
		row := []any{
			m.CreatedAt.Format("2006-01-02 15:04:05"),
			m.ProductID,
			m.SedeID,
			m.UserID,
			m.Type,
			m.Quantity,
			m.StockBefore,
			m.StockAfter,
			m.Description,
			m.ReferenceType,
			m.ReferenceID,
			reversed,
		}
		if err := f.SetSheetRow(movementsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(movementsSheet, "A", "A", 20)
	_ = f.SetColWidth(movementsSheet, "B", "D", 38)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
