package purchasing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/purchasing"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

type recordingNotifier struct {
	mu  sync.Mutex
	got []inventory.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, msg inventory.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, msg)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.got)
}

const (
	sedeX      = "sede-x"
	sedeY      = "sede-y"
	supplierID = "prov-1"
	arroz      = "prod-arroz"
	frijol     = "prod-frijol"
)

var (
	admin     = entity.Identity{UserID: "u-admin", SedeID: sedeX, Role: entity.RoleAdmin}
	bodeguero = entity.Identity{UserID: "u-bod", SedeID: sedeX, Role: entity.RoleBodeguero}
)

type fixture struct {
	repos    inventory.Stores
	notifier *recordingNotifier
	uc       *purchasing.UseCase
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
	require.NoError(t, repos.Suppliers.Create(ctx, &entity.Supplier{ID: supplierID, Name: "Distribuidora Sur", TaxID: "900123456"}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: arroz, SKU: "ARZ-500", Name: "Arroz",
		DefaultPurchasePrice: decimal.NewFromInt(1500), DefaultSalePrice: decimal.NewFromInt(2500),
	}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: frijol, SKU: "FRJ-500", Name: "Frijol",
		DefaultPurchasePrice: decimal.NewFromInt(3000), DefaultSalePrice: decimal.NewFromInt(4000),
	}))

	f := &fixture{repos: repos, notifier: &recordingNotifier{}}
	f.uc = purchasing.NewUseCase(tx, engine, repos.Purchases, repos.Suppliers, repos.Sedes, repos.Products, f.notifier, nil, logger.Nop())
	return f
}

func (f *fixture) stock(t *testing.T, productID, sedeID string) *entity.ProductSede {
	t.Helper()
	row, err := f.repos.Stock.Get(context.Background(), productID, sedeID)
	require.NoError(t, err)
	require.NotNil(t, row)
	return row
}

func pl(productID string, qty, price int64) dto.PurchaseLineRequest {
	return dto.PurchaseLineRequest{ProductID: productID, Quantity: qty, UnitPrice: decimal.NewFromInt(price)}
}

func (f *fixture) create(t *testing.T, lines ...dto.PurchaseLineRequest) *dto.PurchaseResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), bodeguero, dto.CreatePurchaseRequest{SupplierID: supplierID, Lines: lines})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / UpdateDetails / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_PendienteSinTocarStock(t *testing.T) {
	f := newFixture(t)

	out := f.create(t, pl(arroz, 10, 1400), pl(frijol, 2, 3100))

	assert.Equal(t, entity.PurchasePendiente, out.State)
	assert.Equal(t, sedeX, out.SedeID)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(10*1400+2*3100)), "total %s", out.Total)
	row, err := f.repos.Stock.Get(context.Background(), arroz, sedeX)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestCreate_Rechazos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, bodeguero, dto.CreatePurchaseRequest{SupplierID: "nada", Lines: []dto.PurchaseLineRequest{pl(arroz, 1, 1)}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Create(ctx, bodeguero, dto.CreatePurchaseRequest{SupplierID: supplierID, Lines: []dto.PurchaseLineRequest{pl(arroz, 1, -5)}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, bodeguero, dto.CreatePurchaseRequest{SupplierID: supplierID, Lines: []dto.PurchaseLineRequest{pl("nada", 1, 1)}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Create(ctx, bodeguero, dto.CreatePurchaseRequest{SupplierID: supplierID, SedeID: sedeY, Lines: []dto.PurchaseLineRequest{pl(arroz, 1, 1)}})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateDetails_SoloPendiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.create(t, pl(arroz, 10, 1400))

	notes := "ajuste de pedido"
	out, err := f.uc.UpdateDetails(ctx, bodeguero, p.ID, dto.UpdatePurchaseRequest{Notes: &notes, Lines: []dto.PurchaseLineRequest{pl(arroz, 4, 1000)}})
	require.NoError(t, err)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(4000)))
	assert.Equal(t, notes, out.Notes)

	got, err := f.uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Details, 1)
	assert.Equal(t, int64(4), got.Details[0].Quantity)

	_, err = f.uc.ChangeState(ctx, bodeguero, p.ID, entity.PurchaseCancelada)
	require.NoError(t, err)
	_, err = f.uc.UpdateDetails(ctx, bodeguero, p.ID, dto.UpdatePurchaseRequest{Lines: []dto.PurchaseLineRequest{pl(arroz, 1, 1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestDelete_SoloPendiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.create(t, pl(arroz, 1, 1))
	require.NoError(t, f.uc.Delete(ctx, bodeguero, p.ID))
	_, err := f.uc.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	done := f.create(t, pl(arroz, 1, 1))
	_, err = f.uc.ChangeState(ctx, bodeguero, done.ID, entity.PurchaseCompletada)
	require.NoError(t, err)
	assert.ErrorIs(t, f.uc.Delete(ctx, bodeguero, done.ID), domain.ErrInvalidStateTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// ChangeState
// ──────────────────────────────────────────────────────────────────────────────

func TestChangeState_CompletarIngresaStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.create(t, pl(arroz, 10, 1400), pl(frijol, 2, 3100))

	out, err := f.uc.ChangeState(ctx, bodeguero, p.ID, entity.PurchaseCompletada)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseCompletada, out.State)

	row := f.stock(t, arroz, sedeX)
	assert.Equal(t, int64(10), row.Stock)
	assert.True(t, row.PurchasePrice.Equal(decimal.NewFromInt(1400)), "la fila nueva toma el precio de la línea")
	assert.True(t, row.SalePrice.Equal(decimal.NewFromInt(2500)), "y el precio de venta por defecto del producto")
	assert.Equal(t, int64(2), f.stock(t, frijol, sedeX).Stock)

	movs, err := f.repos.Movements.ListForPivot(ctx, arroz, sedeX)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.ReferencePurchase, movs[0].ReferenceType)
	assert.Equal(t, p.ID, movs[0].ReferenceID)

	assert.Eventually(t, func() bool { return f.notifier.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestChangeState_PrecioPromedioPonderado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.create(t, pl(arroz, 10, 1000))
	_, err := f.uc.ChangeState(ctx, bodeguero, first.ID, entity.PurchaseCompletada)
	require.NoError(t, err)

	second := f.create(t, pl(arroz, 10, 2000))
	_, err = f.uc.ChangeState(ctx, bodeguero, second.ID, entity.PurchaseCompletada)
	require.NoError(t, err)

	row := f.stock(t, arroz, sedeX)
	assert.Equal(t, int64(20), row.Stock)
	assert.True(t, row.PurchasePrice.Equal(decimal.NewFromInt(1500)), "precio %s", row.PurchasePrice)
}

func TestChangeState_CompletarDosVecesNoDuplica(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.create(t, pl(arroz, 5, 1000))

	_, err := f.uc.ChangeState(ctx, bodeguero, p.ID, entity.PurchaseCompletada)
	require.NoError(t, err)
	_, err = f.uc.ChangeState(ctx, bodeguero, p.ID, entity.PurchaseCompletada)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	assert.Equal(t, int64(5), f.stock(t, arroz, sedeX).Stock)
}

func TestChangeState_CompletarEnParaleloAplicaUnaVez(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, pl(arroz, 5, 1000))

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.ChangeState(context.Background(), bodeguero, p.ID, entity.PurchaseCompletada)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, int64(5), f.stock(t, arroz, sedeX).Stock)
}

func TestChangeState_CancelarNoTocaStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.create(t, pl(arroz, 5, 1000))

	out, err := f.uc.ChangeState(ctx, bodeguero, p.ID, entity.PurchaseCancelada)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseCancelada, out.State)

	row, err := f.repos.Stock.Get(ctx, arroz, sedeX)
	require.NoError(t, err)
	assert.Nil(t, row)

	_, err = f.uc.ChangeState(ctx, bodeguero, p.ID, entity.PurchaseCompletada)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestChangeState_DestinoInvalido(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, pl(arroz, 5, 1000))

	_, err := f.uc.ChangeState(context.Background(), bodeguero, p.ID, entity.PurchasePendiente)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestChangeState_OtraSedeProhibido(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, pl(arroz, 5, 1000))
	other := entity.Identity{UserID: "u-y", SedeID: sedeY, Role: entity.RoleBodeguero}

	_, err := f.uc.ChangeState(context.Background(), other, p.ID, entity.PurchaseCompletada)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.ChangeState(context.Background(), admin, p.ID, entity.PurchaseCompletada)
	assert.NoError(t, err, "el administrador opera en cualquier sede")
}

func TestList_FiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, pl(arroz, 1, 1))
	p := f.create(t, pl(arroz, 1, 1))
	_, err := f.uc.ChangeState(ctx, bodeguero, p.ID, entity.PurchaseCancelada)
	require.NoError(t, err)

	list, err := f.uc.List(ctx, dto.PurchaseFilterRequest{State: entity.PurchasePendiente})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	_, err = f.uc.List(ctx, dto.PurchaseFilterRequest{State: "pagada"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
