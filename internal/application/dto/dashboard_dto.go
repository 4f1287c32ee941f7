package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Solo agregados simples (SUM/COUNT) para la sede indicada o todas.
type DashboardSummaryDTO struct {
	SedeID string `json:"sede_id,omitempty"`

	// Ventas del día actual (00:00 – 23:59)
	TodaySales decimal.Decimal `json:"today_sales"`
	TodayCount int             `json:"today_count"`

	PendingTransfers int `json:"pending_transfers"`
	LowStockItems    int `json:"low_stock_items"`

	DateLabel string `json:"date_label"` // ej: "15 de octubre de 2026"
}
