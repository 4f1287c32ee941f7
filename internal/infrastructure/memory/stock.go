package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// StockRepo implementa repository.StockRepository.
type StockRepo struct {
	st *Store
	tx bool
}

func (r *StockRepo) Get(_ context.Context, productID, sedeID string) (*entity.ProductSede, error) {
	var out *entity.ProductSede
	r.st.read(r.tx, func(d *state) {
		if row, ok := d.stock[pivotKey{productID, sedeID}]; ok {
			c := *row
			out = &c
		}
	})
	return out, nil
}

// GetForUpdate dentro de Run el store ya está bloqueado; fuera de transacción equivale a Get.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, sedeID string) (*entity.ProductSede, error) {
	return r.Get(ctx, productID, sedeID)
}

// Insert no pisa una fila existente.
func (r *StockRepo) Insert(_ context.Context, row *entity.ProductSede) error {
	return r.st.write(r.tx, func(d *state) error {
		if row.Stock < 0 {
			return domain.ErrInsufficientStock
		}
		k := pivotKey{row.ProductID, row.SedeID}
		if _, ok := d.stock[k]; ok {
			return nil
		}
		c := *row
		d.stock[k] = &c
		return nil
	})
}

func (r *StockRepo) Update(_ context.Context, row *entity.ProductSede) error {
	return r.st.write(r.tx, func(d *state) error {
		if row.Stock < 0 {
			return domain.ErrInsufficientStock
		}
		k := pivotKey{row.ProductID, row.SedeID}
		if _, ok := d.stock[k]; !ok {
			return fmt.Errorf("%w: stock de producto %s en sede %s", domain.ErrNotFound, row.ProductID, row.SedeID)
		}
		c := *row
		d.stock[k] = &c
		return nil
	})
}

func (r *StockRepo) ListBySede(_ context.Context, sedeID string, limit, offset int) ([]*entity.ProductSede, error) {
	var out []*entity.ProductSede
	r.st.read(r.tx, func(d *state) {
		all := make([]*entity.ProductSede, 0)
		for k, row := range d.stock {
			if k.sedeID == sedeID {
				c := *row
				all = append(all, &c)
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].ProductID < all[j].ProductID })
		from, to := page(len(all), limit, offset)
		out = all[from:to]
	})
	return out, nil
}

func (r *StockRepo) ListByProduct(_ context.Context, productID string) ([]*entity.ProductSede, error) {
	var out []*entity.ProductSede
	r.st.read(r.tx, func(d *state) {
		for k, row := range d.stock {
			if k.productID == productID {
				c := *row
				out = append(out, &c)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].SedeID < out[j].SedeID })
	})
	return out, nil
}

func (r *StockRepo) ListLowStock(_ context.Context, sedeID string) ([]repository.LowStockItem, error) {
	var out []repository.LowStockItem
	r.st.read(r.tx, func(d *state) {
		for k, row := range d.stock {
			if sedeID != "" && k.sedeID != sedeID {
				continue
			}
			p, ok := d.products[k.productID]
			if !ok || row.Stock > p.StockMinimo {
				continue
			}
			out = append(out, repository.LowStockItem{
				ProductID:   p.ID,
				SKU:         p.SKU,
				ProductName: p.Name,
				SedeID:      k.sedeID,
				Stock:       row.Stock,
				StockMinimo: p.StockMinimo,
			})
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].SedeID != out[j].SedeID {
				return out[i].SedeID < out[j].SedeID
			}
			return out[i].SKU < out[j].SKU
		})
	})
	return out, nil
}

// MovementRepo implementa repository.MovementRepository. El slice conserva el orden de inserción.
type MovementRepo struct {
	st *Store
	tx bool
}

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.st.write(r.tx, func(d *state) error {
		d.movements = append(d.movements, copyMovement(m))
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	r.st.read(r.tx, func(d *state) {
		for _, m := range d.movements {
			if m.ID == id {
				out = copyMovement(m)
				return
			}
		}
	})
	return out, nil
}

func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

func (r *MovementRepo) MarkReversed(_ context.Context, id, userID string, at time.Time) error {
	return r.st.write(r.tx, func(d *state) error {
		for _, m := range d.movements {
			if m.ID != id {
				continue
			}
			if m.ReversedAt != nil {
				return domain.ErrMovementReversed
			}
			t := at
			m.ReversedAt = &t
			m.ReversedBy = userID
			return nil
		}
		return domain.ErrNotFound
	})
}

// List devuelve los movimientos más recientes primero.
func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	r.st.read(r.tx, func(d *state) {
		all := make([]*entity.Movement, 0)
		for i := len(d.movements) - 1; i >= 0; i-- {
			m := d.movements[i]
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.SedeID != "" && m.SedeID != f.SedeID {
				continue
			}
			if f.Type != "" && m.Type != f.Type {
				continue
			}
			if f.From != nil && m.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && m.CreatedAt.After(*f.To) {
				continue
			}
			all = append(all, copyMovement(m))
		}
		from, to := page(len(all), f.Limit, f.Offset)
		out = all[from:to]
	})
	return out, nil
}

func (r *MovementRepo) ListForPivot(_ context.Context, productID, sedeID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	r.st.read(r.tx, func(d *state) {
		for _, m := range d.movements {
			if m.ProductID == productID && m.SedeID == sedeID {
				out = append(out, copyMovement(m))
			}
		}
	})
	return out, nil
}
