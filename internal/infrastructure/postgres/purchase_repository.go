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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, supplier_id, sede_id, user_id, total, state, notes, created_at, updated_at`

// PurchaseRepo implementación sobre PostgreSQL. Create y ReplaceDetails deben ir dentro de una tx.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create inserta cabecera y líneas.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase, details []*entity.PurchaseDetail) error {
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SupplierID, p.SedeID, p.UserID, p.Total, p.State, p.Notes, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return r.insertDetails(ctx, details)
}

func (r *PurchaseRepo) insertDetails(ctx context.Context, details []*entity.PurchaseDetail) error {
	query := `
		INSERT INTO purchase_details (id, purchase_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, d := range details {
		if _, err := r.q.Exec(ctx, query, d.ID, d.PurchaseID, d.ProductID, d.Quantity, d.UnitPrice, d.Subtotal); err != nil {
			return fmt.Errorf("insert purchase detail: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la cabecera.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.getOne(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id)
}

// GetForUpdate obtiene la cabecera con bloqueo de fila.
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.getOne(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseRepo) getOne(ctx context.Context, query, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// GetDetails lista las líneas de una compra.
func (r *PurchaseRepo) GetDetails(ctx context.Context, purchaseID string) ([]*entity.PurchaseDetail, error) {
	query := `
		SELECT id, purchase_id, product_id, quantity, unit_price, subtotal
		FROM purchase_details WHERE purchase_id = $1 ORDER BY product_id, id`
	rows, err := r.q.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase details: %w", err)
	}
	defer rows.Close()
	var out []*entity.PurchaseDetail
	for rows.Next() {
		var d entity.PurchaseDetail
		if err := rows.Scan(&d.ID, &d.PurchaseID, &d.ProductID, &d.Quantity, &d.UnitPrice, &d.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase detail: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// ReplaceDetails reemplaza las líneas y actualiza el total de la cabecera.
func (r *PurchaseRepo) ReplaceDetails(ctx context.Context, p *entity.Purchase, details []*entity.PurchaseDetail) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_details WHERE purchase_id = $1`, p.ID); err != nil {
		return fmt.Errorf("delete purchase details: %w", err)
	}
	query := `UPDATE purchases SET total = $2, notes = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.Total, p.Notes, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return r.insertDetails(ctx, details)
}

// UpdateState persiste el estado de la cabecera.
func (r *PurchaseRepo) UpdateState(ctx context.Context, p *entity.Purchase) error {
	query := `UPDATE purchases SET state = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.State, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la compra; las líneas caen por ON DELETE CASCADE.
func (r *PurchaseRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista compras por fecha descendente.
func (r *PurchaseRepo) List(ctx context.Context, f repository.PurchaseFilter) ([]*entity.Purchase, error) {
	query := `
		SELECT ` + purchaseColumns + ` FROM purchases
		WHERE ($1::text = '' OR sede_id::text = $1::text)
		  AND ($2::text = '' OR state = $2::text)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.SedeID, f.State, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var out []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(&p.ID, &p.SupplierID, &p.SedeID, &p.UserID, &p.Total, &p.State, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
