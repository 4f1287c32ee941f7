package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// PurchaseRepo implementa repository.PurchaseRepository.
type PurchaseRepo struct {
	st *Store
	tx bool
}

func (r *PurchaseRepo) Create(_ context.Context, p *entity.Purchase, details []*entity.PurchaseDetail) error {
	return r.st.write(r.tx, func(d *state) error {
		if _, ok := d.purchases[p.ID]; ok {
			return domain.ErrDuplicate
		}
		c := *p
		d.purchases[p.ID] = &c
		d.purchaseDetails[p.ID] = copyPurchaseDetails(details)
		return nil
	})
}

func (r *PurchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	r.st.read(r.tx, func(d *state) {
		if p, ok := d.purchases[id]; ok {
			c := *p
			out = &c
		}
	})
	return out, nil
}

func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchaseRepo) GetDetails(_ context.Context, purchaseID string) ([]*entity.PurchaseDetail, error) {
	var out []*entity.PurchaseDetail
	r.st.read(r.tx, func(d *state) {
		out = copyPurchaseDetails(d.purchaseDetails[purchaseID])
	})
	return out, nil
}

func (r *PurchaseRepo) ReplaceDetails(_ context.Context, p *entity.Purchase, details []*entity.PurchaseDetail) error {
	return r.st.write(r.tx, func(d *state) error {
		if _, ok := d.purchases[p.ID]; !ok {
			return domain.ErrNotFound
		}
		c := *p
		d.purchases[p.ID] = &c
		d.purchaseDetails[p.ID] = copyPurchaseDetails(details)
		return nil
	})
}

func (r *PurchaseRepo) UpdateState(_ context.Context, p *entity.Purchase) error {
	return r.st.write(r.tx, func(d *state) error {
		cur, ok := d.purchases[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.State = p.State
		cur.UpdatedAt = p.UpdatedAt
		return nil
	})
}

func (r *PurchaseRepo) Delete(_ context.Context, id string) error {
	return r.st.write(r.tx, func(d *state) error {
		if _, ok := d.purchases[id]; !ok {
			return domain.ErrNotFound
		}
		delete(d.purchases, id)
		delete(d.purchaseDetails, id)
		return nil
	})
}

func (r *PurchaseRepo) List(_ context.Context, f repository.PurchaseFilter) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	r.st.read(r.tx, func(d *state) {
		all := make([]*entity.Purchase, 0)
		for _, p := range d.purchases {
			if f.SedeID != "" && p.SedeID != f.SedeID {
				continue
			}
			if f.State != "" && p.State != f.State {
				continue
			}
			c := *p
			all = append(all, &c)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
		from, to := page(len(all), f.Limit, f.Offset)
		out = all[from:to]
	})
	return out, nil
}

// SaleRepo implementa repository.SaleRepository.
type SaleRepo struct {
	st *Store
	tx bool
}

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale, details []*entity.SaleDetail) error {
	return r.st.write(r.tx, func(d *state) error {
		if _, ok := d.sales[s.ID]; ok {
			return domain.ErrDuplicate
		}
		c := *s
		d.sales[s.ID] = &c
		d.saleDetails[s.ID] = copySaleDetails(details)
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	r.st.read(r.tx, func(d *state) {
		if s, ok := d.sales[id]; ok {
			c := *s
			out = &c
		}
	})
	return out, nil
}

func (r *SaleRepo) GetDetails(_ context.Context, saleID string) ([]*entity.SaleDetail, error) {
	var out []*entity.SaleDetail
	r.st.read(r.tx, func(d *state) {
		out = copySaleDetails(d.saleDetails[saleID])
	})
	return out, nil
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	r.st.read(r.tx, func(d *state) {
		all := make([]*entity.Sale, 0)
		for _, s := range d.sales {
			if !saleMatches(s, f.SedeID, f.From, f.To) {
				continue
			}
			c := *s
			all = append(all, &c)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
		from, to := page(len(all), f.Limit, f.Offset)
		out = all[from:to]
	})
	return out, nil
}

func (r *SaleRepo) Totals(_ context.Context, sedeID string, from, to time.Time) (decimal.Decimal, int, error) {
	total, count := decimal.Zero, 0
	r.st.read(r.tx, func(d *state) {
		for _, s := range d.sales {
			if saleMatches(s, sedeID, &from, &to) {
				total = total.Add(s.Total)
				count++
			}
		}
	})
	return total, count, nil
}

func saleMatches(s *entity.Sale, sedeID string, from, to *time.Time) bool {
	if sedeID != "" && s.SedeID != sedeID {
		return false
	}
	if from != nil && s.CreatedAt.Before(*from) {
		return false
	}
	if to != nil && s.CreatedAt.After(*to) {
		return false
	}
	return true
}

// TransferRepo implementa repository.TransferRepository.
type TransferRepo struct {
	st *Store
	tx bool
}

func (r *TransferRepo) Create(_ context.Context, t *entity.Transfer) error {
	return r.st.write(r.tx, func(d *state) error {
		if _, ok := d.transfers[t.ID]; ok {
			return domain.ErrDuplicate
		}
		c := *t
		d.transfers[t.ID] = &c
		return nil
	})
}

func (r *TransferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	r.st.read(r.tx, func(d *state) {
		if t, ok := d.transfers[id]; ok {
			c := *t
			out = &c
		}
	})
	return out, nil
}

func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.GetByID(ctx, id)
}

func (r *TransferRepo) UpdateState(_ context.Context, t *entity.Transfer) error {
	return r.st.write(r.tx, func(d *state) error {
		cur, ok := d.transfers[t.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.State = t.State
		cur.ReceivedBy = t.ReceivedBy
		cur.UpdatedAt = t.UpdatedAt
		return nil
	})
}

func (r *TransferRepo) List(_ context.Context, f repository.TransferFilter) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	r.st.read(r.tx, func(d *state) {
		all := make([]*entity.Transfer, 0)
		for _, t := range d.transfers {
			if !transferMatches(t, f.SedeID, f.State) {
				continue
			}
			c := *t
			all = append(all, &c)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
		from, to := page(len(all), f.Limit, f.Offset)
		out = all[from:to]
	})
	return out, nil
}

func (r *TransferRepo) CountByState(_ context.Context, sedeID, transferState string) (int, error) {
	n := 0
	r.st.read(r.tx, func(d *state) {
		for _, t := range d.transfers {
			if transferMatches(t, sedeID, transferState) {
				n++
			}
		}
	})
	return n, nil
}

func transferMatches(t *entity.Transfer, sedeID, transferState string) bool {
	if sedeID != "" && t.OriginSedeID != sedeID && t.DestSedeID != sedeID {
		return false
	}
	return transferState == "" || t.State == transferState
}
