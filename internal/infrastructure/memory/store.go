// Package memory implementa todos los repositorios en memoria (modo desarrollo y tests).
// Las transacciones se serializan con un mutex y el Rollback restaura una copia del estado.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

type pivotKey struct {
	productID string
	sedeID    string
}

type state struct {
	products        map[string]*entity.Product
	sedes           map[string]*entity.Sede
	suppliers       map[string]*entity.Supplier
	stock           map[pivotKey]*entity.ProductSede
	movements       []*entity.Movement
	purchases       map[string]*entity.Purchase
	purchaseDetails map[string][]*entity.PurchaseDetail
	sales           map[string]*entity.Sale
	saleDetails     map[string][]*entity.SaleDetail
	transfers       map[string]*entity.Transfer
}

func newState() *state {
	return &state{
		products:        make(map[string]*entity.Product),
		sedes:           make(map[string]*entity.Sede),
		suppliers:       make(map[string]*entity.Supplier),
		stock:           make(map[pivotKey]*entity.ProductSede),
		purchases:       make(map[string]*entity.Purchase),
		purchaseDetails: make(map[string][]*entity.PurchaseDetail),
		sales:           make(map[string]*entity.Sale),
		saleDetails:     make(map[string][]*entity.SaleDetail),
		transfers:       make(map[string]*entity.Transfer),
	}
}

// clone copia el estado para poder restaurarlo en Rollback. Las entidades se guardan
// siempre como copias propias del store, así que basta con copiar punteros a copias.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		p := *v
		c.products[k] = &p
	}
	for k, v := range s.sedes {
		x := *v
		c.sedes[k] = &x
	}
	for k, v := range s.suppliers {
		x := *v
		c.suppliers[k] = &x
	}
	for k, v := range s.stock {
		x := *v
		c.stock[k] = &x
	}
	c.movements = make([]*entity.Movement, 0, len(s.movements))
	for _, v := range s.movements {
		c.movements = append(c.movements, copyMovement(v))
	}
	for k, v := range s.purchases {
		x := *v
		c.purchases[k] = &x
	}
	for k, v := range s.purchaseDetails {
		c.purchaseDetails[k] = copyPurchaseDetails(v)
	}
	for k, v := range s.sales {
		x := *v
		c.sales[k] = &x
	}
	for k, v := range s.saleDetails {
		c.saleDetails[k] = copySaleDetails(v)
	}
	for k, v := range s.transfers {
		x := *v
		c.transfers[k] = &x
	}
	return c
}

// Store base de datos en memoria.
type Store struct {
	mu   sync.RWMutex
	data *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

// read ejecuta fn con lock de lectura (repositorios fuera de transacción).
func (s *Store) read(tx bool, fn func(d *state)) {
	if !tx {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn(s.data)
}

// write ejecuta fn con lock exclusivo (repositorios fuera de transacción).
func (s *Store) write(tx bool, fn func(d *state) error) error {
	if !tx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.data)
}

// Repos devuelve los repositorios fuera de transacción.
func (s *Store) Repos() inventory.Stores {
	return s.stores(false)
}

func (s *Store) stores(tx bool) inventory.Stores {
	return inventory.Stores{
		Products:  &ProductRepo{st: s, tx: tx},
		Sedes:     &SedeRepo{st: s, tx: tx},
		Suppliers: &SupplierRepo{st: s, tx: tx},
		Stock:     &StockRepo{st: s, tx: tx},
		Movements: &MovementRepo{st: s, tx: tx},
		Purchases: &PurchaseRepo{st: s, tx: tx},
		Sales:     &SaleRepo{st: s, tx: tx},
		Transfers: &TransferRepo{st: s, tx: tx},
	}
}

// TxRunner implementa inventory.TxRunner sobre el Store.
type TxRunner struct {
	st *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(st *Store) *TxRunner {
	return &TxRunner{st: st}
}

// Run ejecuta fn con el store bloqueado. Si fn devuelve error (o entra en pánico) el estado se restaura.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, s inventory.Stores) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	snapshot := r.st.data.clone()
	defer func() {
		if p := recover(); p != nil {
			r.st.data = snapshot
			panic(p)
		}
		if err != nil {
			r.st.data = snapshot
		}
	}()
	return fn(ctx, r.st.stores(true))
}

func copyMovement(m *entity.Movement) *entity.Movement {
	c := *m
	if m.ReversedAt != nil {
		t := *m.ReversedAt
		c.ReversedAt = &t
	}
	return &c
}

func copyPurchaseDetails(in []*entity.PurchaseDetail) []*entity.PurchaseDetail {
	out := make([]*entity.PurchaseDetail, 0, len(in))
	for _, d := range in {
		x := *d
		out = append(out, &x)
	}
	return out
}

func copySaleDetails(in []*entity.SaleDetail) []*entity.SaleDetail {
	out := make([]*entity.SaleDetail, 0, len(in))
	for _, d := range in {
		x := *d
		out = append(out, &x)
	}
	return out
}

// page aplica limit/offset sobre n elementos y devuelve el rango [from, to).
func page(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		return n, n
	}
	to := n
	if limit > 0 && offset+limit < n {
		to = offset + limit
	}
	return offset, to
}
