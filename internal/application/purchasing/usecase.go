// Package purchasing implementa el flujo de compras: creación pendiente, edición de líneas
// y completado atómico que ingresa el stock a la sede.
package purchasing

import (
	"context"
	"fmt"
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
	"github.com/jhoicas/inventario-sedes/internal/domain/stock"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

// UseCase casos de uso de compras.
type UseCase struct {
	txRunner     inventory.TxRunner
	engine       *inventory.Engine
	purchaseRepo repository.PurchaseRepository
	supplierRepo repository.SupplierRepository
	sedeRepo     repository.SedeRepository
	productRepo  repository.ProductRepository
	notifier     inventory.Notifier
	invoices     inventory.InvoiceRequester
	log          *logger.Logger
	now          func() time.Time
}

// NewUseCase construye el caso de uso. notifier e invoices pueden ser nil.
func NewUseCase(
	txRunner inventory.TxRunner,
	engine *inventory.Engine,
	purchaseRepo repository.PurchaseRepository,
	supplierRepo repository.SupplierRepository,
	sedeRepo repository.SedeRepository,
	productRepo repository.ProductRepository,
	notifier inventory.Notifier,
	invoices inventory.InvoiceRequester,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		engine:       engine,
		purchaseRepo: purchaseRepo,
		supplierRepo: supplierRepo,
		sedeRepo:     sedeRepo,
		productRepo:  productRepo,
		notifier:     notifier,
		invoices:     invoices,
		log:          log,
		now:          time.Now,
	}
}

// Create registra una compra en estado pendiente. No toca stock.
func (uc *UseCase) Create(ctx context.Context, id entity.Identity, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := validatePrices(in.Lines); err != nil {
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

	supplier, err := uc.supplierRepo.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, in.SupplierID)
	}
	sede, err := uc.sedeRepo.GetByID(ctx, sedeID)
	if err != nil {
		return nil, err
	}
	if sede == nil {
		return nil, fmt.Errorf("%w: sede %s", domain.ErrNotFound, sedeID)
	}
	if err := uc.checkProducts(ctx, in.Lines); err != nil {
		return nil, err
	}

	now := uc.now()
	purchase := &entity.Purchase{
		ID:         uuid.New().String(),
		SupplierID: supplier.ID,
		SedeID:     sede.ID,
		UserID:     id.UserID,
		State:      entity.PurchasePendiente,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	details := buildDetails(purchase, in.Lines)
	if err := uc.purchaseRepo.Create(ctx, purchase, details); err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase, details), nil
}

// UpdateDetails reemplaza las líneas de una compra pendiente y recalcula el total.
func (uc *UseCase) UpdateDetails(ctx context.Context, id entity.Identity, purchaseID string, in dto.UpdatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := validatePrices(in.Lines); err != nil {
		return nil, err
	}
	if err := uc.checkProducts(ctx, in.Lines); err != nil {
		return nil, err
	}

	var out *dto.PurchaseResponse
	err := uc.txRunner.Run(ctx, func(ctx context.Context, s inventory.Stores) error {
		purchase, err := lockPending(ctx, s, id, purchaseID)
		if err != nil {
			return err
		}
		if in.Notes != nil {
			purchase.Notes = *in.Notes
		}
		purchase.UpdatedAt = uc.now()
		details := buildDetails(purchase, in.Lines)
		if err := s.Purchases.ReplaceDetails(ctx, purchase, details); err != nil {
			return err
		}
		out = toPurchaseResponse(purchase, details)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ChangeState aplica la transición desde pendiente a completada o cancelada.
// Completar ingresa cada línea a la sede en una sola transacción: si una línea falla,
// no se aplica ninguna. Completar dos veces falla sin volver a ingresar el stock.
func (uc *UseCase) ChangeState(ctx context.Context, id entity.Identity, purchaseID, target string) (*dto.PurchaseResponse, error) {
	if target != entity.PurchaseCompletada && target != entity.PurchaseCancelada {
		return nil, fmt.Errorf("%w: estado destino %q", domain.ErrInvalidStateTransition, target)
	}

	var out *dto.PurchaseResponse
	err := uc.txRunner.Run(ctx, func(ctx context.Context, s inventory.Stores) error {
		purchase, err := lockPending(ctx, s, id, purchaseID)
		if err != nil {
			return err
		}
		details, err := s.Purchases.GetDetails(ctx, purchase.ID)
		if err != nil {
			return err
		}
		if target == entity.PurchaseCompletada {
			if err := uc.receive(ctx, s, id, purchase, details); err != nil {
				return err
			}
		}
		purchase.State = target
		purchase.UpdatedAt = uc.now()
		if err := s.Purchases.UpdateState(ctx, purchase); err != nil {
			return err
		}
		out = toPurchaseResponse(purchase, details)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if target == entity.PurchaseCompletada {
		inventory.Dispatch(ctx, uc.log, uc.notifier, inventory.Notification{
			SedeID:   out.SedeID,
			Category: inventory.CategoryPurchaseCompleted,
			Message:  fmt.Sprintf("Compra %s completada por %s", out.ID, out.Total.StringFixed(2)),
			Data:     map[string]any{"purchase_id": out.ID, "supplier_id": out.SupplierID},
		})
		inventory.RequestInvoice(ctx, uc.log, uc.invoices, inventory.InvoiceKindPurchase, out.ID)
	}
	return out, nil
}

// receive ingresa cada línea a la sede en orden de producto (orden de bloqueo estable)
// y recalcula el precio de compra promedio ponderado de la fila pivote.
func (uc *UseCase) receive(ctx context.Context, s inventory.Stores, id entity.Identity, purchase *entity.Purchase, details []*entity.PurchaseDetail) error {
	lines := make([]*entity.PurchaseDetail, len(details))
	copy(lines, details)
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	for _, d := range lines {
		product, err := s.Products.GetByID(ctx, d.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, d.ProductID)
		}
		res, err := uc.engine.Entrada(ctx, s, inventory.Change{
			ProductID:     d.ProductID,
			SedeID:        purchase.SedeID,
			UserID:        id.UserID,
			Quantity:      d.Quantity,
			Description:   "compra " + purchase.ID,
			ReferenceType: entity.ReferencePurchase,
			ReferenceID:   purchase.ID,
			Defaults: &entity.PivotDefaults{
				PurchasePrice: d.UnitPrice,
				SalePrice:     product.DefaultSalePrice,
			},
		})
		if err != nil {
			return err
		}
		cost := stock.WeightedCost(res.Movement.StockBefore, res.Pivot.PurchasePrice, d.Quantity, d.UnitPrice)
		if !cost.Equal(res.Pivot.PurchasePrice) {
			res.Pivot.PurchasePrice = cost
			if err := s.Stock.Update(ctx, res.Pivot); err != nil {
				return err
			}
		}
	}
	return nil
}

// Delete elimina una compra pendiente con sus líneas.
func (uc *UseCase) Delete(ctx context.Context, id entity.Identity, purchaseID string) error {
	return uc.txRunner.Run(ctx, func(ctx context.Context, s inventory.Stores) error {
		purchase, err := lockPending(ctx, s, id, purchaseID)
		if err != nil {
			return err
		}
		return s.Purchases.Delete(ctx, purchase.ID)
	})
}

// GetByID obtiene una compra con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, purchaseID string) (*dto.PurchaseResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	details, err := uc.purchaseRepo.GetDetails(ctx, purchase.ID)
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase, details), nil
}

// List lista compras con filtros.
func (uc *UseCase) List(ctx context.Context, in dto.PurchaseFilterRequest) (*dto.PurchaseListResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, err := uc.purchaseRepo.List(ctx, repository.PurchaseFilter{
		SedeID: in.SedeID,
		State:  in.State,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPurchaseResponse(p, nil))
	}
	return &dto.PurchaseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// lockPending bloquea la compra y exige estado pendiente.
func lockPending(ctx context.Context, s inventory.Stores, id entity.Identity, purchaseID string) (*entity.Purchase, error) {
	purchase, err := s.Purchases.GetForUpdate(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, fmt.Errorf("%w: compra %s", domain.ErrNotFound, purchaseID)
	}
	if !id.IsAdmin() && purchase.SedeID != id.SedeID {
		return nil, domain.ErrForbidden
	}
	if !purchase.IsPending() {
		return nil, fmt.Errorf("%w: la compra está %s", domain.ErrInvalidStateTransition, purchase.State)
	}
	return purchase, nil
}

func (uc *UseCase) checkProducts(ctx context.Context, lines []dto.PurchaseLineRequest) error {
	for _, l := range lines {
		p, err := uc.productRepo.GetByID(ctx, l.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
		}
	}
	return nil
}

func validatePrices(lines []dto.PurchaseLineRequest) error {
	ve := &domain.ValidationError{}
	for i, l := range lines {
		if l.UnitPrice.IsNegative() {
			ve.Add(fmt.Sprintf("lines[%d].unit_price", i), "gte=0")
		}
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}

// buildDetails arma las líneas y fija el total de la compra (Σ cantidad × precio unitario).
func buildDetails(purchase *entity.Purchase, lines []dto.PurchaseLineRequest) []*entity.PurchaseDetail {
	total := decimal.Zero
	details := make([]*entity.PurchaseDetail, 0, len(lines))
	for _, l := range lines {
		subtotal := l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
		total = total.Add(subtotal)
		details = append(details, &entity.PurchaseDetail{
			ID:         uuid.New().String(),
			PurchaseID: purchase.ID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			Subtotal:   subtotal,
		})
	}
	purchase.Total = total
	return details
}

func toPurchaseResponse(p *entity.Purchase, details []*entity.PurchaseDetail) *dto.PurchaseResponse {
	out := &dto.PurchaseResponse{
		ID:         p.ID,
		SupplierID: p.SupplierID,
		SedeID:     p.SedeID,
		UserID:     p.UserID,
		Total:      p.Total,
		State:      p.State,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	for _, d := range details {
		out.Details = append(out.Details, dto.PurchaseDetailResponse{
			ID:        d.ID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			Subtotal:  d.Subtotal,
		})
	}
	return out
}
