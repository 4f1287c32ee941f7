package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const pivotColumns = `product_id, sede_id, stock, purchase_price, sale_price, created_at, updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene la fila pivote. nil si el producto no existe en la sede.
func (r *StockRepo) Get(ctx context.Context, productID, sedeID string) (*entity.ProductSede, error) {
	query := `SELECT ` + pivotColumns + ` FROM product_sede WHERE product_id = $1 AND sede_id = $2`
	return r.getOne(ctx, "get stock", query, productID, sedeID)
}

// GetForUpdate obtiene la fila pivote y la bloquea hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, sedeID string) (*entity.ProductSede, error) {
	query := `SELECT ` + pivotColumns + ` FROM product_sede WHERE product_id = $1 AND sede_id = $2 FOR UPDATE`
	return r.getOne(ctx, "get stock for update", query, productID, sedeID)
}

func (r *StockRepo) getOne(ctx context.Context, op, query, productID, sedeID string) (*entity.ProductSede, error) {
	ps, err := scanPivot(r.q.QueryRow(ctx, query, productID, sedeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// Insert crea la fila pivote con ON CONFLICT DO NOTHING. Si otra transacción la insertó
// primero, espera a que confirme y no hace nada; el llamador la bloquea con GetForUpdate.
func (r *StockRepo) Insert(ctx context.Context, ps *entity.ProductSede) error {
	query := `
		INSERT INTO product_sede (` + pivotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id, sede_id) DO NOTHING`
	_, err := r.q.Exec(ctx, query,
		ps.ProductID, ps.SedeID, ps.Stock, ps.PurchasePrice, ps.SalePrice, ps.CreatedAt, ps.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: producto %s, sede %s", domain.ErrInsufficientStock, ps.ProductID, ps.SedeID)
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// Update guarda stock y precios de una fila ya bloqueada. El CHECK stock >= 0 es la última barrera.
func (r *StockRepo) Update(ctx context.Context, ps *entity.ProductSede) error {
	query := `
		UPDATE product_sede
		SET stock = $3, purchase_price = $4, sale_price = $5, updated_at = $6
		WHERE product_id = $1 AND sede_id = $2`
	tag, err := r.q.Exec(ctx, query,
		ps.ProductID, ps.SedeID, ps.Stock, ps.PurchasePrice, ps.SalePrice, ps.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: producto %s, sede %s", domain.ErrInsufficientStock, ps.ProductID, ps.SedeID)
		}
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: stock de producto %s en sede %s", domain.ErrNotFound, ps.ProductID, ps.SedeID)
	}
	return nil
}

// ListBySede lista las filas de una sede.
func (r *StockRepo) ListBySede(ctx context.Context, sedeID string, limit, offset int) ([]*entity.ProductSede, error) {
	query := `
		SELECT ` + pivotColumns + ` FROM product_sede
		WHERE sede_id = $1 ORDER BY product_id LIMIT $2 OFFSET $3`
	return r.list(ctx, query, sedeID, limit, offset)
}

// ListByProduct lista las filas de un producto en todas las sedes.
func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.ProductSede, error) {
	query := `SELECT ` + pivotColumns + ` FROM product_sede WHERE product_id = $1 ORDER BY sede_id`
	return r.list(ctx, query, productID)
}

func (r *StockRepo) list(ctx context.Context, query string, args ...any) ([]*entity.ProductSede, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var out []*entity.ProductSede
	for rows.Next() {
		ps, err := scanPivot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

// ListLowStock devuelve las filas con stock <= stock_minimo del producto. sedeID vacío = todas.
func (r *StockRepo) ListLowStock(ctx context.Context, sedeID string) ([]repository.LowStockItem, error) {
	query := `
		SELECT p.id, p.sku, p.name, ps.sede_id, ps.stock, p.stock_minimo
		FROM product_sede ps
		JOIN products p ON p.id = ps.product_id
		WHERE ps.stock <= p.stock_minimo
		  AND ($1::text = '' OR ps.sede_id::text = $1::text)
		ORDER BY ps.sede_id, p.sku`
	rows, err := r.q.Query(ctx, query, sedeID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var out []repository.LowStockItem
	for rows.Next() {
		var it repository.LowStockItem
		if err := rows.Scan(&it.ProductID, &it.SKU, &it.ProductName, &it.SedeID, &it.Stock, &it.StockMinimo); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanPivot(row pgx.Row) (*entity.ProductSede, error) {
	var ps entity.ProductSede
	err := row.Scan(&ps.ProductID, &ps.SedeID, &ps.Stock, &ps.PurchasePrice, &ps.SalePrice, &ps.CreatedAt, &ps.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ps, nil
}
