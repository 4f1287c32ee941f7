package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// StockUseCase consultas de stock por sede y producto, y lista de reposición.
type StockUseCase struct {
	txRunner  TxRunner
	stockRepo repository.StockRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner, stockRepo repository.StockRepository) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, stockRepo: stockRepo}
}

// ListBySede devuelve el stock de todos los productos de una sede.
func (uc *StockUseCase) ListBySede(ctx context.Context, sedeID string, page dto.PageRequest) ([]dto.ProductSedeResponse, error) {
	page.DefaultPage()
	rows, err := uc.stockRepo.ListBySede(ctx, sedeID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toProductSedeResponses(rows), nil
}

// ListByProduct devuelve el stock de un producto en cada sede donde existe.
func (uc *StockUseCase) ListByProduct(ctx context.Context, productID string) ([]dto.ProductSedeResponse, error) {
	rows, err := uc.stockRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toProductSedeResponses(rows), nil
}

// Get devuelve la fila pivote (producto, sede).
func (uc *StockUseCase) Get(ctx context.Context, productID, sedeID string) (*dto.ProductSedeResponse, error) {
	row, err := uc.stockRepo.Get(ctx, productID, sedeID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: producto %s, sede %s", domain.ErrNotFound, productID, sedeID)
	}
	out := toProductSedeResponse(row)
	return &out, nil
}

// UpdatePrices cambia los precios de la fila pivote. El stock no se toca, por eso no genera movimiento.
func (uc *StockUseCase) UpdatePrices(ctx context.Context, id entity.Identity, productID, sedeID string, in dto.UpdatePricesRequest) (*dto.ProductSedeResponse, error) {
	if !id.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	ve := &domain.ValidationError{}
	if in.PurchasePrice != nil && in.PurchasePrice.IsNegative() {
		ve.Add("purchase_price", "gte=0")
	}
	if in.SalePrice != nil && in.SalePrice.IsNegative() {
		ve.Add("sale_price", "gte=0")
	}
	if ve.HasErrors() {
		return nil, ve
	}

	var out dto.ProductSedeResponse
	err := uc.txRunner.Run(ctx, func(ctx context.Context, s Stores) error {
		row, err := s.Stock.GetForUpdate(ctx, productID, sedeID)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("%w: producto %s, sede %s", domain.ErrNotFound, productID, sedeID)
		}
		if in.PurchasePrice != nil {
			row.PurchasePrice = *in.PurchasePrice
		}
		if in.SalePrice != nil {
			row.SalePrice = *in.SalePrice
		}
		row.UpdatedAt = time.Now()
		if err := s.Stock.Update(ctx, row); err != nil {
			return err
		}
		out = toProductSedeResponse(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LowStock devuelve los productos en o por debajo de su stock mínimo, ordenados por mayor déficit.
// sedeID vacío considera todas las sedes.
func (uc *StockUseCase) LowStock(ctx context.Context, sedeID string) ([]dto.LowStockDTO, error) {
	items, err := uc.stockRepo.ListLowStock(ctx, sedeID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LowStockDTO{
			ProductID:   it.ProductID,
			SKU:         it.SKU,
			ProductName: it.ProductName,
			SedeID:      it.SedeID,
			Stock:       it.Stock,
			StockMinimo: it.StockMinimo,
			Deficit:     it.StockMinimo - it.Stock,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Deficit != out[j].Deficit {
			return out[i].Deficit > out[j].Deficit
		}
		return out[i].SKU < out[j].SKU
	})
	return out, nil
}

func toProductSedeResponses(rows []*entity.ProductSede) []dto.ProductSedeResponse {
	out := make([]dto.ProductSedeResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toProductSedeResponse(r))
	}
	return out
}

func toProductSedeResponse(r *entity.ProductSede) dto.ProductSedeResponse {
	return dto.ProductSedeResponse{
		ProductID:     r.ProductID,
		SedeID:        r.SedeID,
		Stock:         r.Stock,
		PurchasePrice: r.PurchasePrice,
		SalePrice:     r.SalePrice,
		UpdatedAt:     r.UpdatedAt,
	}
}
