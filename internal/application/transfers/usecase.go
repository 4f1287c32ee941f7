// Package transfers implementa el traslado de un producto entre sedes.
// El stock solo se mueve al recibir: salida en origen y entrada en destino en la misma transacción.
package transfers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/validation"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

// UseCase casos de uso de traslados.
type UseCase struct {
	txRunner     inventory.TxRunner
	engine       *inventory.Engine
	transferRepo repository.TransferRepository
	productRepo  repository.ProductRepository
	sedeRepo     repository.SedeRepository
	stockRepo    repository.StockRepository
	notifier     inventory.Notifier
	log          *logger.Logger
	now          func() time.Time
}

// NewUseCase construye el caso de uso. notifier puede ser nil.
func NewUseCase(
	txRunner inventory.TxRunner,
	engine *inventory.Engine,
	transferRepo repository.TransferRepository,
	productRepo repository.ProductRepository,
	sedeRepo repository.SedeRepository,
	stockRepo repository.StockRepository,
	notifier inventory.Notifier,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		engine:       engine,
		transferRepo: transferRepo,
		productRepo:  productRepo,
		sedeRepo:     sedeRepo,
		stockRepo:    stockRepo,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
}

// Create registra un traslado pendiente. El stock de origen se verifica aquí solo como aviso;
// la verificación que cuenta es la de Receive, con la fila bloqueada.
func (uc *UseCase) Create(ctx context.Context, id entity.Identity, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	origin := in.OriginSedeID
	if origin == "" {
		origin = id.SedeID
	}
	if origin == "" {
		return nil, domain.NewValidationError("origin_sede_id", "required")
	}
	if origin == in.DestSedeID {
		return nil, fmt.Errorf("%w: %w", domain.ErrSameSede, domain.NewValidationError("dest_sede_id", "nefield=origin_sede_id"))
	}
	if !id.IsAdmin() && origin != id.SedeID {
		return nil, domain.ErrForbidden
	}

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	for _, sedeID := range []string{origin, in.DestSedeID} {
		sede, err := uc.sedeRepo.GetByID(ctx, sedeID)
		if err != nil {
			return nil, err
		}
		if sede == nil {
			return nil, fmt.Errorf("%w: sede %s", domain.ErrNotFound, sedeID)
		}
	}

	pivot, err := uc.stockRepo.Get(ctx, product.ID, origin)
	if err != nil {
		return nil, err
	}
	if pivot == nil {
		return nil, fmt.Errorf("%w: %s (%s) en sede %s", domain.ErrProductNotAvailable, product.Name, product.SKU, origin)
	}
	if pivot.Stock < in.Quantity {
		return nil, fmt.Errorf("%w: %s (%s) disponible %d, solicitado %d",
			domain.ErrInsufficientStock, product.Name, product.SKU, pivot.Stock, in.Quantity)
	}

	now := uc.now()
	t := &entity.Transfer{
		ID:           uuid.New().String(),
		ProductID:    product.ID,
		Quantity:     in.Quantity,
		OriginSedeID: origin,
		DestSedeID:   in.DestSedeID,
		State:        entity.TransferPendiente,
		UserID:       id.UserID,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.transferRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	uc.notify(ctx, t, fmt.Sprintf("Traslado %s creado: %d unidades de %s", t.ID, t.Quantity, product.Name))
	return toTransferResponse(t), nil
}

// ChangeState aplica una transición permitida: pendiente->enviado, enviado->recibido,
// pendiente|enviado->cancelado. Recibir mueve el stock de forma atómica.
func (uc *UseCase) ChangeState(ctx context.Context, id entity.Identity, transferID, target string) (*dto.TransferResponse, error) {
	var t *entity.Transfer
	err := uc.txRunner.Run(ctx, func(ctx context.Context, s inventory.Stores) error {
		var err error
		t, err = s.Transfers.GetForUpdate(ctx, transferID)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("%w: traslado %s", domain.ErrNotFound, transferID)
		}
		if !t.CanTransition(target) {
			return fmt.Errorf("%w: de %s a %q", domain.ErrInvalidStateTransition, t.State, target)
		}
		if err := authorize(id, t, target); err != nil {
			return err
		}

		if target == entity.TransferRecibido {
			if err := uc.receive(ctx, s, id, t); err != nil {
				return err
			}
			t.ReceivedBy = id.UserID
		}
		t.State = target
		t.UpdatedAt = uc.now()
		return s.Transfers.UpdateState(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	uc.notify(ctx, t, fmt.Sprintf("Traslado %s ahora está %s", t.ID, t.State))
	return toTransferResponse(t), nil
}

// receive descuenta en origen y suma en destino. La fila de destino, si no existe,
// hereda los precios de la fila de origen.
func (uc *UseCase) receive(ctx context.Context, s inventory.Stores, id entity.Identity, t *entity.Transfer) error {
	// Bloquea ambas filas en orden de sede para evitar interbloqueos entre traslados cruzados
	locked := make(map[string]*entity.ProductSede, 2)
	for _, sedeID := range lockOrder(t.OriginSedeID, t.DestSedeID) {
		row, err := s.Stock.GetForUpdate(ctx, t.ProductID, sedeID)
		if err != nil {
			return err
		}
		locked[sedeID] = row
	}

	origin := locked[t.OriginSedeID]
	if origin == nil {
		return fmt.Errorf("%w: producto %s en sede %s", domain.ErrProductNotAvailable, t.ProductID, t.OriginSedeID)
	}
	if origin.Stock < t.Quantity {
		return fmt.Errorf("%w: disponible %d en origen, solicitado %d", domain.ErrInsufficientStock, origin.Stock, t.Quantity)
	}
	defaults := &entity.PivotDefaults{PurchasePrice: origin.PurchasePrice, SalePrice: origin.SalePrice}

	if _, err := uc.engine.Salida(ctx, s, inventory.Change{
		ProductID:     t.ProductID,
		SedeID:        t.OriginSedeID,
		UserID:        id.UserID,
		Quantity:      t.Quantity,
		Description:   "traslado " + t.ID + " hacia " + t.DestSedeID,
		ReferenceType: entity.ReferenceTransfer,
		ReferenceID:   t.ID,
	}); err != nil {
		return err
	}
	_, err := uc.engine.Entrada(ctx, s, inventory.Change{
		ProductID:     t.ProductID,
		SedeID:        t.DestSedeID,
		UserID:        id.UserID,
		Quantity:      t.Quantity,
		Description:   "traslado " + t.ID + " desde " + t.OriginSedeID,
		ReferenceType: entity.ReferenceTransfer,
		ReferenceID:   t.ID,
		Defaults:      defaults,
	})
	return err
}

func lockOrder(a, b string) []string {
	if b < a {
		return []string{b, a}
	}
	return []string{a, b}
}

// authorize: enviar y cancelar corresponde a la sede de origen; recibir a la de destino.
func authorize(id entity.Identity, t *entity.Transfer, target string) error {
	if id.IsAdmin() {
		return nil
	}
	if target == entity.TransferRecibido {
		if id.SedeID != t.DestSedeID {
			return domain.ErrForbidden
		}
		return nil
	}
	if id.SedeID != t.OriginSedeID {
		return domain.ErrForbidden
	}
	return nil
}

// GetByID obtiene un traslado.
func (uc *UseCase) GetByID(ctx context.Context, transferID string) (*dto.TransferResponse, error) {
	t, err := uc.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return toTransferResponse(t), nil
}

// List lista traslados donde la sede es origen o destino.
func (uc *UseCase) List(ctx context.Context, in dto.TransferFilterRequest) (*dto.TransferListResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, err := uc.transferRepo.List(ctx, repository.TransferFilter{
		SedeID: in.SedeID,
		State:  in.State,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTransferResponse(t))
	}
	return &dto.TransferListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

func (uc *UseCase) notify(ctx context.Context, t *entity.Transfer, msg string) {
	data := map[string]any{"transfer_id": t.ID, "state": t.State, "product_id": t.ProductID}
	inventory.Dispatch(ctx, uc.log, uc.notifier,
		inventory.Notification{SedeID: t.DestSedeID, Category: inventory.CategoryTransfer, Message: msg, Data: data},
		inventory.Notification{SedeID: t.OriginSedeID, Category: inventory.CategoryTransfer, Message: msg, Data: data},
	)
}

func toTransferResponse(t *entity.Transfer) *dto.TransferResponse {
	return &dto.TransferResponse{
		ID:           t.ID,
		ProductID:    t.ProductID,
		Quantity:     t.Quantity,
		OriginSedeID: t.OriginSedeID,
		DestSedeID:   t.DestSedeID,
		State:        t.State,
		UserID:       t.UserID,
		ReceivedBy:   t.ReceivedBy,
		Notes:        t.Notes,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
