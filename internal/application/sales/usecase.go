// Package sales implementa la venta en una sede: todas las líneas se validan contra el stock
// bloqueado antes de mutar, y la venta es inmutable una vez creada.
package sales

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/validation"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

// UseCase casos de uso de ventas.
type UseCase struct {
	txRunner inventory.TxRunner
	engine   *inventory.Engine
	saleRepo repository.SaleRepository
	sedeRepo repository.SedeRepository
	notifier inventory.Notifier
	invoices inventory.InvoiceRequester
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. notifier e invoices pueden ser nil.
func NewUseCase(
	txRunner inventory.TxRunner,
	engine *inventory.Engine,
	saleRepo repository.SaleRepository,
	sedeRepo repository.SedeRepository,
	notifier inventory.Notifier,
	invoices inventory.InvoiceRequester,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		engine:   engine,
		saleRepo: saleRepo,
		sedeRepo: sedeRepo,
		notifier: notifier,
		invoices: invoices,
		log:      log,
		now:      time.Now,
	}
}

type line struct {
	productID string
	quantity  int64
	product   *entity.Product
	pivot     *entity.ProductSede
}

// Create registra la venta y descuenta el stock de la sede en una sola transacción.
// Las líneas repetidas del mismo producto se suman. Si alguna línea no tiene stock
// suficiente no se aplica ninguna.
func (uc *UseCase) Create(ctx context.Context, id entity.Identity, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	sedeID := in.SedeID
	if sedeID == "" {
		sedeID = id.SedeID
	}
	if sedeID == "" {
		return nil, domain.NewValidationError("sede_id", "required")
	}
	if !id.IsAdmin() && sedeID != id.SedeID {
		return nil, domain.ErrForbidden
	}
	sede, err := uc.sedeRepo.GetByID(ctx, sedeID)
	if err != nil {
		return nil, err
	}
	if sede == nil {
		return nil, fmt.Errorf("%w: sede %s", domain.ErrNotFound, sedeID)
	}

	lines, err := mergeLines(in.Lines)
	if err != nil {
		return nil, err
	}

	var (
		sale     *entity.Sale
		details  []*entity.SaleDetail
		lowStock []dto.LowStockDTO
	)
	err = uc.txRunner.Run(ctx, func(ctx context.Context, s inventory.Stores) error {
		// 1. Bloquear todas las filas y validar todas las líneas antes de mutar
		for _, l := range lines {
			product, err := s.Products.GetByID(ctx, l.productID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.productID)
			}
			pivot, err := s.Stock.GetForUpdate(ctx, l.productID, sede.ID)
			if err != nil {
				return err
			}
			if pivot == nil {
				return fmt.Errorf("%w: %s (%s) en sede %s", domain.ErrProductNotAvailable, product.Name, product.SKU, sede.Name)
			}
			if pivot.Stock < l.quantity {
				return fmt.Errorf("%w: %s (%s) disponible %d, solicitado %d",
					domain.ErrInsufficientStock, product.Name, product.SKU, pivot.Stock, l.quantity)
			}
			l.product, l.pivot = product, pivot
		}

		// 2. Cabecera y líneas al precio de venta de la sede
		now := uc.now()
		sale = &entity.Sale{
			ID:        uuid.New().String(),
			SedeID:    sede.ID,
			UserID:    id.UserID,
			Total:     decimal.Zero,
			CreatedAt: now,
		}
		details = make([]*entity.SaleDetail, 0, len(lines))
		for _, l := range lines {
			subtotal := l.pivot.SalePrice.Mul(decimal.NewFromInt(l.quantity))
			sale.Total = sale.Total.Add(subtotal)
			details = append(details, &entity.SaleDetail{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ProductID: l.productID,
				Quantity:  l.quantity,
				UnitPrice: l.pivot.SalePrice,
				Subtotal:  subtotal,
			})
		}
		if err := s.Sales.Create(ctx, sale, details); err != nil {
			return err
		}

		// 3. Salida por línea
		for _, l := range lines {
			res, err := uc.engine.Salida(ctx, s, inventory.Change{
				ProductID:     l.productID,
				SedeID:        sede.ID,
				UserID:        id.UserID,
				Quantity:      l.quantity,
				Description:   "venta " + sale.ID,
				ReferenceType: entity.ReferenceSale,
				ReferenceID:   sale.ID,
			})
			if err != nil {
				return err
			}
			if res.Pivot.Stock <= l.product.StockMinimo {
				lowStock = append(lowStock, dto.LowStockDTO{
					ProductID:   l.productID,
					SKU:         l.product.SKU,
					ProductName: l.product.Name,
					SedeID:      sede.ID,
					Stock:       res.Pivot.Stock,
					StockMinimo: l.product.StockMinimo,
					Deficit:     l.product.StockMinimo - res.Pivot.Stock,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifications := make([]inventory.Notification, 0, len(lowStock))
	for _, ls := range lowStock {
		notifications = append(notifications, inventory.Notification{
			SedeID:   ls.SedeID,
			Category: inventory.CategoryLowStock,
			Message:  fmt.Sprintf("Stock bajo: %s (%s) quedó en %d, mínimo %d", ls.ProductName, ls.SKU, ls.Stock, ls.StockMinimo),
			Data:     map[string]any{"product_id": ls.ProductID, "stock": ls.Stock, "sale_id": sale.ID},
		})
	}
	inventory.Dispatch(ctx, uc.log, uc.notifier, notifications...)
	inventory.RequestInvoice(ctx, uc.log, uc.invoices, inventory.InvoiceKindSale, sale.ID)

	out := toSaleResponse(sale, details)
	out.LowStock = lowStock
	return out, nil
}

// Update siempre falla: una venta no se modifica.
func (uc *UseCase) Update(ctx context.Context, id entity.Identity, saleID string) error {
	return fmt.Errorf("%w: la venta %s no puede modificarse", domain.ErrImmutable, saleID)
}

// Delete siempre falla: una venta no se elimina.
func (uc *UseCase) Delete(ctx context.Context, id entity.Identity, saleID string) error {
	return fmt.Errorf("%w: la venta %s no puede eliminarse", domain.ErrImmutable, saleID)
}

// GetByID obtiene una venta con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	details, err := uc.saleRepo.GetDetails(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, details), nil
}

// List lista ventas con filtros.
func (uc *UseCase) List(ctx context.Context, in dto.SaleFilterRequest) (*dto.SaleListResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	from, to, err := dto.ParseDateRange(in.From, in.To)
	if err != nil {
		return nil, domain.NewValidationError("from", "datetime=2006-01-02")
	}
	in.DefaultPage()
	list, err := uc.saleRepo.List(ctx, repository.SaleFilter{
		SedeID: in.SedeID,
		From:   from,
		To:     to,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s, nil))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// mergeLines suma las líneas del mismo producto y las ordena por producto (orden de bloqueo).
// Las cantidades ya son > 0; una suma que no cabe en int64 se rechaza.
func mergeLines(in []dto.SaleLineRequest) ([]*line, error) {
	byID := make(map[string]*line, len(in))
	for _, l := range in {
		if cur, ok := byID[l.ProductID]; ok {
			if cur.quantity > math.MaxInt64-l.Quantity {
				return nil, domain.NewValidationError("lines", "max")
			}
			cur.quantity += l.Quantity
			continue
		}
		byID[l.ProductID] = &line{productID: l.ProductID, quantity: l.Quantity}
	}
	out := make([]*line, 0, len(byID))
	for _, l := range byID {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].productID < out[j].productID })
	return out, nil
}

func toSaleResponse(s *entity.Sale, details []*entity.SaleDetail) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:        s.ID,
		SedeID:    s.SedeID,
		UserID:    s.UserID,
		Total:     s.Total,
		CreatedAt: s.CreatedAt,
	}
	for _, d := range details {
		out.Details = append(out.Details, dto.SaleDetailResponse{
			ID:        d.ID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			Subtotal:  d.Subtotal,
		})
	}
	return out
}
