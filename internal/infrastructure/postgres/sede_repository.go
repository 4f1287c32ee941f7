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

var _ repository.SedeRepository = (*SedeRepo)(nil)

// SedeRepo implementación del puerto SedeRepository sobre PostgreSQL.
type SedeRepo struct {
	q Querier
}

// NewSedeRepository construye el adaptador de persistencia para sedes.
func NewSedeRepository(q Querier) *SedeRepo {
	return &SedeRepo{q: q}
}

// Create persiste una nueva sede.
func (r *SedeRepo) Create(ctx context.Context, s *entity.Sede) error {
	query := `
		INSERT INTO sedes (id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, s.ID, s.Name, s.Address, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sede: %w", err)
	}
	return nil
}

// GetByID obtiene una sede por ID.
func (r *SedeRepo) GetByID(ctx context.Context, id string) (*entity.Sede, error) {
	query := `SELECT id, name, address, created_at, updated_at FROM sedes WHERE id = $1`
	var s entity.Sede
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sede: %w", err)
	}
	return &s, nil
}

// Update actualiza nombre y dirección.
func (r *SedeRepo) Update(ctx context.Context, s *entity.Sede) error {
	query := `UPDATE sedes SET name = $2, address = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Name, s.Address, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update sede: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista sedes por nombre con paginación.
func (r *SedeRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sede, error) {
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM sedes ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sedes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sede
	for rows.Next() {
		var s entity.Sede
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sede: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
