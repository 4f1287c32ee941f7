package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct {
	st *Store
	tx bool
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.st.write(r.tx, func(d *state) error {
		if _, ok := d.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range d.products {
			if other.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		c := *p
		d.products[p.ID] = &c
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.st.read(r.tx, func(d *state) {
		if p, ok := d.products[id]; ok {
			c := *p
			out = &c
		}
	})
	return out, nil
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	r.st.read(r.tx, func(d *state) {
		for _, p := range d.products {
			if p.SKU == sku {
				c := *p
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.st.write(r.tx, func(d *state) error {
		if _, ok := d.products[p.ID]; !ok {
			return domain.ErrNotFound
		}
		c := *p
		d.products[p.ID] = &c
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	r.st.read(r.tx, func(d *state) {
		all := make([]*entity.Product, 0, len(d.products))
		for _, p := range d.products {
			c := *p
			all = append(all, &c)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		from, to := page(len(all), limit, offset)
		out = all[from:to]
	})
	return out, nil
}

// SedeRepo implementa repository.SedeRepository.
type SedeRepo struct {
	st *Store
	tx bool
}

func (r *SedeRepo) Create(_ context.Context, s *entity.Sede) error {
	return r.st.write(r.tx, func(d *state) error {
		if _, ok := d.sedes[s.ID]; ok {
			return domain.ErrDuplicate
		}
		c := *s
		d.sedes[s.ID] = &c
		return nil
	})
}

func (r *SedeRepo) GetByID(_ context.Context, id string) (*entity.Sede, error) {
	var out *entity.Sede
	r.st.read(r.tx, func(d *state) {
		if s, ok := d.sedes[id]; ok {
			c := *s
			out = &c
		}
	})
	return out, nil
}

func (r *SedeRepo) Update(_ context.Context, s *entity.Sede) error {
	return r.st.write(r.tx, func(d *state) error {
		if _, ok := d.sedes[s.ID]; !ok {
			return domain.ErrNotFound
		}
		c := *s
		d.sedes[s.ID] = &c
		return nil
	})
}

func (r *SedeRepo) List(_ context.Context, limit, offset int) ([]*entity.Sede, error) {
	var out []*entity.Sede
	r.st.read(r.tx, func(d *state) {
		all := make([]*entity.Sede, 0, len(d.sedes))
		for _, s := range d.sedes {
			c := *s
			all = append(all, &c)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		from, to := page(len(all), limit, offset)
		out = all[from:to]
	})
	return out, nil
}

// SupplierRepo implementa repository.SupplierRepository.
type SupplierRepo struct {
	st *Store
	tx bool
}

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.st.write(r.tx, func(d *state) error {
		if _, ok := d.suppliers[s.ID]; ok {
			return domain.ErrDuplicate
		}
		c := *s
		d.suppliers[s.ID] = &c
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	r.st.read(r.tx, func(d *state) {
		if s, ok := d.suppliers[id]; ok {
			c := *s
			out = &c
		}
	})
	return out, nil
}

func (r *SupplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	r.st.read(r.tx, func(d *state) {
		all := make([]*entity.Supplier, 0, len(d.suppliers))
		for _, s := range d.suppliers {
			c := *s
			all = append(all, &c)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		from, to := page(len(all), limit, offset)
		out = all[from:to]
	})
	return out, nil
}
