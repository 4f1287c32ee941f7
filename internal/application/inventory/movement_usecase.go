package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/validation"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
	"github.com/jhoicas/inventario-sedes/internal/domain/stock"
)

// exportLimit máximo de filas por exportación del libro.
const exportLimit = 10000

// MovementUseCase movimientos manuales, reverso y consultas sobre el libro.
type MovementUseCase struct {
	txRunner     TxRunner
	engine       *Engine
	productRepo  repository.ProductRepository
	sedeRepo     repository.SedeRepository
	movementRepo repository.MovementRepository
	exporter     MovementExporter
	now          func() time.Time
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	engine *Engine,
	productRepo repository.ProductRepository,
	sedeRepo repository.SedeRepository,
	movementRepo repository.MovementRepository,
	exporter MovementExporter,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:     txRunner,
		engine:       engine,
		productRepo:  productRepo,
		sedeRepo:     sedeRepo,
		movementRepo: movementRepo,
		exporter:     exporter,
		now:          time.Now,
	}
}

// Register registra un movimiento manual (entrada, salida o ajuste) fuera de documentos.
// El ajuste es exclusivo de administradores. Entrada y ajuste crean la fila pivote si no existe,
// con los precios por defecto del producto.
func (uc *MovementUseCase) Register(ctx context.Context, id entity.Identity, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Type != entity.MovementAjuste && in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "gt=0")
	}
	if in.Type == entity.MovementAjuste && !id.IsAdmin() {
		return nil, domain.ErrForbidden
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

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	sede, err := uc.sedeRepo.GetByID(ctx, sedeID)
	if err != nil {
		return nil, err
	}
	if sede == nil {
		return nil, fmt.Errorf("%w: sede %s", domain.ErrNotFound, sedeID)
	}

	var res *Result
	err = uc.txRunner.Run(ctx, func(ctx context.Context, s Stores) error {
		var err error
		res, err = uc.engine.Apply(ctx, s, in.Type, Change{
			ProductID:     product.ID,
			SedeID:        sede.ID,
			UserID:        id.UserID,
			Quantity:      in.Quantity,
			Description:   in.Description,
			ReferenceType: entity.ReferenceManual,
			Defaults:      product.PivotDefaults(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(res.Movement), nil
}

// Delete revierte un movimiento manual (solo administradores). El movimiento no se borra:
// se marca como revertido y se agrega al libro el movimiento compensatorio.
// Un segundo intento devuelve ErrMovementReversed sin tocar el stock.
func (uc *MovementUseCase) Delete(ctx context.Context, id entity.Identity, movementID string) error {
	if !id.IsAdmin() {
		return domain.ErrForbidden
	}
	return uc.txRunner.Run(ctx, func(ctx context.Context, s Stores) error {
		m, err := s.Movements.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, movementID)
		}
		if m.IsReversed() {
			return domain.ErrMovementReversed
		}
		if !m.IsManual() {
			return fmt.Errorf("%w: el movimiento pertenece a %s %s", domain.ErrImmutable, m.ReferenceType, m.ReferenceID)
		}

		if delta := stock.ReversalDelta(m); delta != 0 {
			movType, qty := stock.Reversal(delta)
			_, err := uc.engine.Apply(ctx, s, movType, Change{
				ProductID:     m.ProductID,
				SedeID:        m.SedeID,
				UserID:        id.UserID,
				Quantity:      qty,
				Description:   "reverso de movimiento " + m.ID,
				ReferenceType: entity.ReferenceReversal,
				ReferenceID:   m.ID,
			})
			if err != nil {
				return err
			}
		}
		return s.Movements.MarkReversed(ctx, m.ID, id.UserID, uc.now())
	})
}

// GetByID obtiene un movimiento.
func (uc *MovementUseCase) GetByID(ctx context.Context, movementID string) (*dto.MovementResponse, error) {
	m, err := uc.movementRepo.GetByID(ctx, movementID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return ToMovementResponse(m), nil
}

// List consulta el libro con filtros y paginación.
func (uc *MovementUseCase) List(ctx context.Context, in dto.MovementFilterRequest) (*dto.MovementListResponse, error) {
	filter, err := uc.filter(in)
	if err != nil {
		return nil, err
	}
	list, err := uc.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// ExportXLSX exporta el libro filtrado a una hoja de cálculo (sin paginación, hasta exportLimit filas).
func (uc *MovementUseCase) ExportXLSX(ctx context.Context, in dto.MovementFilterRequest) ([]byte, error) {
	filter, err := uc.filter(in)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = exportLimit, 0
	list, err := uc.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return uc.exporter.ExportMovements(ctx, list)
}

// Reconcile compara el stock de la fila pivote con el reconstruido desde su libro.
func (uc *MovementUseCase) Reconcile(ctx context.Context, productID, sedeID string) (*dto.ReconcileResponse, error) {
	var out *dto.ReconcileResponse
	err := uc.txRunner.Run(ctx, func(ctx context.Context, s Stores) error {
		pivot, err := s.Stock.GetForUpdate(ctx, productID, sedeID)
		if err != nil {
			return err
		}
		if pivot == nil {
			return fmt.Errorf("%w: producto %s, sede %s", domain.ErrNotFound, productID, sedeID)
		}
		movs, err := s.Movements.ListForPivot(ctx, productID, sedeID)
		if err != nil {
			return err
		}
		ledger, err := stock.Replay(movs)
		if err != nil {
			return err
		}
		out = &dto.ReconcileResponse{
			ProductID:  productID,
			SedeID:     sedeID,
			Stock:      pivot.Stock,
			Ledger:     ledger,
			Movements:  len(movs),
			Consistent: ledger == pivot.Stock,
		}
		return nil
	})
	return out, err
}

func (uc *MovementUseCase) filter(in dto.MovementFilterRequest) (repository.MovementFilter, error) {
	if err := validation.Struct(in); err != nil {
		return repository.MovementFilter{}, err
	}
	from, to, err := dto.ParseDateRange(in.From, in.To)
	if err != nil {
		return repository.MovementFilter{}, domain.NewValidationError("from", "datetime=2006-01-02")
	}
	in.DefaultPage()
	return repository.MovementFilter{
		ProductID: in.ProductID,
		SedeID:    in.SedeID,
		Type:      in.Type,
		From:      from,
		To:        to,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}, nil
}

// ToMovementResponse mapea la entidad al DTO.
func ToMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		SedeID:        m.SedeID,
		UserID:        m.UserID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		StockBefore:   m.StockBefore,
		StockAfter:    m.StockAfter,
		Description:   m.Description,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		CreatedAt:     m.CreatedAt,
		ReversedAt:    m.ReversedAt,
		ReversedBy:    m.ReversedBy,
	}
}
