// Package analytics contiene el resumen del dashboard: solo agregados simples (SUM/COUNT).
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// DashboardUseCase genera el resumen del día para una sede (o todas).
// Solo lectura: delega en los repositorios de ventas, traslados y stock.
type DashboardUseCase struct {
	saleRepo     repository.SaleRepository
	transferRepo repository.TransferRepository
	stockRepo    repository.StockRepository
	now          func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	saleRepo repository.SaleRepository,
	transferRepo repository.TransferRepository,
	stockRepo repository.StockRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		saleRepo:     saleRepo,
		transferRepo: transferRepo,
		stockRepo:    stockRepo,
		now:          time.Now,
	}
}

// GetSummary construye el DashboardSummaryDTO. sedeID vacío = todas las sedes.
//
// Tres consultas en paralelo:
//  1. Totals(hoy)                  → TodaySales + TodayCount
//  2. CountByState(pendiente)      → PendingTransfers
//  3. ListLowStock                 → LowStockItems
func (uc *DashboardUseCase) GetSummary(ctx context.Context, sedeID string) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// Hoy: 00:00:00.000 – 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)

	type salesResult struct {
		total decimal.Decimal
		count int
		err   error
	}
	type countResult struct {
		n   int
		err error
	}

	salesCh := make(chan salesResult, 1)
	transfersCh := make(chan countResult, 1)
	lowCh := make(chan countResult, 1)

	go func() {
		total, count, err := uc.saleRepo.Totals(ctx, sedeID, todayStart, todayEnd)
		salesCh <- salesResult{total, count, err}
	}()
	go func() {
		n, err := uc.transferRepo.CountByState(ctx, sedeID, entity.TransferPendiente)
		transfersCh <- countResult{n, err}
	}()
	go func() {
		items, err := uc.stockRepo.ListLowStock(ctx, sedeID)
		lowCh <- countResult{len(items), err}
	}()

	sales := <-salesCh
	transfers := <-transfersCh
	low := <-lowCh

	if sales.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", sales.err)
	}
	if transfers.err != nil {
		return nil, fmt.Errorf("dashboard: traslados pendientes: %w", transfers.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}

	return &dto.DashboardSummaryDTO{
		SedeID:           sedeID,
		TodaySales:       sales.total.Round(2),
		TodayCount:       sales.count,
		PendingTransfers: transfers.n,
		LowStockItems:    low.n,
		DateLabel:        dayLabel(now),
	}, nil
}

// dayLabel devuelve una etiqueta legible del día, ej: "15 de octubre de 2026".
func dayLabel(t time.Time) string {
	months := [...]string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), months[t.Month()-1], t.Year())
}
