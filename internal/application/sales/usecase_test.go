package sales_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/sales"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

type recordingNotifier struct {
	mu  sync.Mutex
	got []inventory.Notification
	err error
}

func (n *recordingNotifier) Notify(_ context.Context, msg inventory.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, msg)
	return n.err
}

func (n *recordingNotifier) received() []inventory.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]inventory.Notification(nil), n.got...)
}

type recordingInvoices struct {
	mu   sync.Mutex
	docs []string
}

func (r *recordingInvoices) RequestInvoice(_ context.Context, kind, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, kind+":"+documentID)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	sedeX  = "sede-x"
	sedeY  = "sede-y"
	arroz  = "prod-arroz"
	frijol = "prod-frijol"
)

var (
	admin    = entity.Identity{UserID: "u-admin", SedeID: sedeX, Role: entity.RoleAdmin}
	vendedor = entity.Identity{UserID: "u-vend", SedeID: sedeX, Role: entity.RoleVendedor}
)

type fixture struct {
	repos     inventory.Stores
	tx        *memory.TxRunner
	movements *inventory.MovementUseCase
	notifier  *recordingNotifier
	invoices  *recordingInvoices
	uc        *sales.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.NewStore()
	repos := st.Repos()
	tx := memory.NewTxRunner(st)
	engine := inventory.NewEngine()

	require.NoError(t, repos.Sedes.Create(ctx, &entity.Sede{ID: sedeX, Name: "Centro"}))
	require.NoError(t, repos.Sedes.Create(ctx, &entity.Sede{ID: sedeY, Name: "Norte"}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: arroz, SKU: "ARZ-500", Name: "Arroz", StockMinimo: 5,
		DefaultSalePrice: decimal.NewFromInt(2500),
	}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: frijol, SKU: "FRJ-500", Name: "Frijol", StockMinimo: 0,
		DefaultSalePrice: decimal.NewFromInt(4000),
	}))

	f := &fixture{
		repos:     repos,
		tx:        tx,
		movements: inventory.NewMovementUseCase(tx, engine, repos.Products, repos.Sedes, repos.Movements, nil),
		notifier:  &recordingNotifier{},
		invoices:  &recordingInvoices{},
	}
	f.uc = sales.NewUseCase(tx, engine, repos.Sales, repos.Sedes, f.notifier, f.invoices, logger.Nop())
	return f
}

func (f *fixture) seed(t *testing.T, productID, sedeID string, qty int64) {
	t.Helper()
	_, err := f.movements.Register(context.Background(), admin, dto.RegisterMovementRequest{
		ProductID: productID, SedeID: sedeID, Type: entity.MovementEntrada, Quantity: qty,
	})
	require.NoError(t, err)
}

func (f *fixture) stock(t *testing.T, productID, sedeID string) int64 {
	t.Helper()
	row, err := f.repos.Stock.Get(context.Background(), productID, sedeID)
	require.NoError(t, err)
	require.NotNil(t, row)
	return row.Stock
}

func (f *fixture) reconciled(t *testing.T, productID, sedeID string) {
	t.Helper()
	rec, err := f.movements.Reconcile(context.Background(), productID, sedeID)
	require.NoError(t, err)
	assert.True(t, rec.Consistent, "stock %d, libro %d", rec.Stock, rec.Ledger)
}

func saleReq(lines ...dto.SaleLineRequest) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{Lines: lines}
}

func line(productID string, qty int64) dto.SaleLineRequest {
	return dto.SaleLineRequest{ProductID: productID, Quantity: qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_DescuentaStockYCalculaTotal(t *testing.T) {
	f := newFixture(t)
	f.seed(t, arroz, sedeX, 10)
	f.seed(t, frijol, sedeX, 4)

	out, err := f.uc.Create(context.Background(), vendedor, saleReq(line(arroz, 3), line(frijol, 1)))
	require.NoError(t, err)

	assert.Equal(t, sedeX, out.SedeID)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(3*2500+4000)), "total %s", out.Total)
	assert.Len(t, out.Details, 2)
	assert.Equal(t, int64(7), f.stock(t, arroz, sedeX))
	assert.Equal(t, int64(3), f.stock(t, frijol, sedeX))
	f.reconciled(t, arroz, sedeX)

	movs, err := f.repos.Movements.ListForPivot(context.Background(), arroz, sedeX)
	require.NoError(t, err)
	last := movs[len(movs)-1]
	assert.Equal(t, entity.ReferenceSale, last.ReferenceType)
	assert.Equal(t, out.ID, last.ReferenceID)
}

func TestCreate_LineasRepetidasSeSuman(t *testing.T) {
	f := newFixture(t)
	f.seed(t, arroz, sedeX, 10)

	out, err := f.uc.Create(context.Background(), vendedor, saleReq(line(arroz, 2), line(arroz, 3)))
	require.NoError(t, err)

	require.Len(t, out.Details, 1)
	assert.Equal(t, int64(5), out.Details[0].Quantity)
	assert.Equal(t, int64(5), f.stock(t, arroz, sedeX))
}

// Dos líneas del mismo producto cuya suma no cabe en int64 se rechazan antes de tocar stock.
func TestCreate_SumaDeLineasDesbordada(t *testing.T) {
	f := newFixture(t)
	f.seed(t, arroz, sedeX, 10)

	_, err := f.uc.Create(context.Background(), vendedor, saleReq(line(arroz, math.MaxInt64), line(arroz, math.MaxInt64)))
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "lines")
	assert.Equal(t, int64(10), f.stock(t, arroz, sedeX))
}

// Si una línea no alcanza, ninguna se aplica y no queda venta ni movimiento.
func TestCreate_TodoONada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, arroz, sedeX, 10)
	f.seed(t, frijol, sedeX, 1)

	_, err := f.uc.Create(ctx, vendedor, saleReq(line(arroz, 3), line(frijol, 2)))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(10), f.stock(t, arroz, sedeX))
	assert.Equal(t, int64(1), f.stock(t, frijol, sedeX))
	list, err := f.uc.List(ctx, dto.SaleFilterRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	movs, err := f.repos.Movements.ListForPivot(ctx, arroz, sedeX)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestCreate_ProductoSinFilaEnLaSede(t *testing.T) {
	f := newFixture(t)
	f.seed(t, arroz, sedeY, 10)

	_, err := f.uc.Create(context.Background(), vendedor, saleReq(line(arroz, 1)))
	assert.ErrorIs(t, err, domain.ErrProductNotAvailable)
}

func TestCreate_Rechazos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, vendedor, dto.CreateSaleRequest{SedeID: sedeY, Lines: []dto.SaleLineRequest{line(arroz, 1)}})
	assert.ErrorIs(t, err, domain.ErrForbidden, "un vendedor solo vende en su sede")

	_, err = f.uc.Create(ctx, vendedor, saleReq())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, vendedor, saleReq(line(arroz, 0)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, entity.Identity{UserID: "u", Role: entity.RoleAdmin}, saleReq(line(arroz, 1)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin sede en la petición ni en la identidad")
}

func TestCreate_NotificaStockBajoYSolicitaFactura(t *testing.T) {
	f := newFixture(t)
	f.seed(t, arroz, sedeX, 8)
	f.seed(t, frijol, sedeX, 10)

	out, err := f.uc.Create(context.Background(), vendedor, saleReq(line(arroz, 3), line(frijol, 1)))
	require.NoError(t, err)

	require.Len(t, out.LowStock, 1)
	assert.Equal(t, arroz, out.LowStock[0].ProductID)
	assert.Equal(t, int64(5), out.LowStock[0].Stock)

	assert.Eventually(t, func() bool { return len(f.notifier.received()) == 1 }, time.Second, 10*time.Millisecond)
	n := f.notifier.received()[0]
	assert.Equal(t, inventory.CategoryLowStock, n.Category)
	assert.Equal(t, sedeX, n.SedeID)
	assert.Equal(t, []string{inventory.InvoiceKindSale + ":" + out.ID}, f.invoices.docs)
}

func TestCreate_FalloDeNotificacionNoRevierteLaVenta(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("redis caído")
	f.seed(t, arroz, sedeX, 6)

	out, err := f.uc.Create(context.Background(), vendedor, saleReq(line(arroz, 2)))
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(f.notifier.received()) == 1 }, time.Second, 10*time.Millisecond)
	got, err := f.uc.GetByID(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.ID, got.ID)
	assert.Equal(t, int64(4), f.stock(t, arroz, sedeX))
}

// Ventas concurrentes sobre la misma fila nunca dejan stock negativo.
func TestCreate_ConcurrenciaNuncaNegativo(t *testing.T) {
	f := newFixture(t)
	f.seed(t, frijol, sedeX, 10)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Create(context.Background(), vendedor, saleReq(line(frijol, 1)))
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, int64(0), f.stock(t, frijol, sedeX))
	f.reconciled(t, frijol, sedeX)
}

// ──────────────────────────────────────────────────────────────────────────────
// Inmutabilidad y consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateDelete_SiempreInmutable(t *testing.T) {
	f := newFixture(t)
	f.seed(t, arroz, sedeX, 10)
	out, err := f.uc.Create(context.Background(), vendedor, saleReq(line(arroz, 1)))
	require.NoError(t, err)

	assert.ErrorIs(t, f.uc.Update(context.Background(), admin, out.ID), domain.ErrImmutable)
	assert.ErrorIs(t, f.uc.Delete(context.Background(), admin, out.ID), domain.ErrImmutable)
	assert.Equal(t, int64(9), f.stock(t, arroz, sedeX))
}

func TestGetByID_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.GetByID(context.Background(), "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_FiltraPorSede(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, arroz, sedeX, 10)
	f.seed(t, arroz, sedeY, 10)
	_, err := f.uc.Create(ctx, vendedor, saleReq(line(arroz, 1)))
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, admin, dto.CreateSaleRequest{SedeID: sedeY, Lines: []dto.SaleLineRequest{line(arroz, 1)}})
	require.NoError(t, err)

	list, err := f.uc.List(ctx, dto.SaleFilterRequest{SedeID: sedeY})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, sedeY, list.Items[0].SedeID)
}
