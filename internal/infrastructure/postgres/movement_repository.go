package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, product_id, sede_id, user_id, type, quantity, stock_before, stock_after,
	description, reference_type, reference_id, created_at, reversed_at, reversed_by`

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento. seq (BIGSERIAL) fija el orden del libro.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, product_id, sede_id, user_id, type, quantity, stock_before, stock_after,
		                       description, reference_type, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.SedeID, m.UserID, m.Type, m.Quantity, m.StockBefore, m.StockAfter,
		m.Description, m.ReferenceType, m.ReferenceID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	return r.getOne(ctx, "get movement", query, id)
}

// GetForUpdate obtiene el movimiento y bloquea su fila.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, "get movement for update", query, id)
}

func (r *MovementRepo) getOne(ctx context.Context, op, query, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// MarkReversed marca el reverso solo si no estaba revertido (guarda de idempotencia).
func (r *MovementRepo) MarkReversed(ctx context.Context, id, userID string, at time.Time) error {
	query := `
		UPDATE movements SET reversed_at = $2, reversed_by = $3
		WHERE id = $1 AND reversed_at IS NULL`
	tag, err := r.q.Exec(ctx, query, id, at, nullIfEmpty(userID))
	if err != nil {
		return fmt.Errorf("mark movement reversed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMovementReversed
	}
	return nil
}

// List consulta el libro con filtros; más recientes primero.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.SedeID != "" {
		add("sede_id = $%d", f.SedeID)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	query := `SELECT ` + movementColumns + ` FROM movements`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY seq DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return r.list(ctx, query, args...)
}

// ListForPivot devuelve el libro completo de (producto, sede) en orden de inserción.
func (r *MovementRepo) ListForPivot(ctx context.Context, productID, sedeID string) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE product_id = $1 AND sede_id = $2 ORDER BY seq`
	return r.list(ctx, query, productID, sedeID)
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var out []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var (
		m          entity.Movement
		reversedBy *string
	)
	err := row.Scan(
		&m.ID, &m.ProductID, &m.SedeID, &m.UserID, &m.Type, &m.Quantity, &m.StockBefore, &m.StockAfter,
		&m.Description, &m.ReferenceType, &m.ReferenceID, &m.CreatedAt, &m.ReversedAt, &reversedBy,
	)
	if err != nil {
		return nil, err
	}
	if reversedBy != nil {
		m.ReversedBy = *reversedBy
	}
	return &m, nil
}
