package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/memory"
)

func pivot(productID, sedeID string, stock int64) *entity.ProductSede {
	return &entity.ProductSede{
		ProductID: productID,
		SedeID:    sedeID,
		Stock:     stock,
		SalePrice: decimal.NewFromInt(1000),
	}
}

func TestTxRunner_RollbackRestauraEstado(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	repos := st.Repos()
	require.NoError(t, repos.Stock.Insert(ctx, pivot("p1", "s1", 10)))

	boom := errors.New("boom")
	err := memory.NewTxRunner(st).Run(ctx, func(ctx context.Context, s inventory.Stores) error {
		require.NoError(t, s.Stock.Update(ctx, pivot("p1", "s1", 3)))
		require.NoError(t, s.Movements.Create(ctx, &entity.Movement{ID: "m1", ProductID: "p1", SedeID: "s1"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	row, err := repos.Stock.Get(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), row.Stock)

	m, err := repos.Movements.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Nil(t, m, "el movimiento de una transacción revertida no debe quedar en el libro")
}

func TestTxRunner_CommitPersiste(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()

	err := memory.NewTxRunner(st).Run(ctx, func(ctx context.Context, s inventory.Stores) error {
		return s.Stock.Insert(ctx, pivot("p1", "s1", 4))
	})
	require.NoError(t, err)

	row, err := st.Repos().Stock.Get(ctx, "p1", "s1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, int64(4), row.Stock)
}

func TestTxRunner_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := memory.NewTxRunner(memory.NewStore()).Run(ctx, func(context.Context, inventory.Stores) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

// Las entidades devueltas son copias: modificarlas no altera el store.
func TestStockRepo_DevuelveCopias(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	require.NoError(t, repos.Stock.Insert(ctx, pivot("p1", "s1", 5)))

	row, err := repos.Stock.Get(ctx, "p1", "s1")
	require.NoError(t, err)
	row.Stock = 999

	again, err := repos.Stock.Get(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), again.Stock)
}

func TestStockRepo_RechazaNegativo(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	assert.ErrorIs(t, repos.Stock.Insert(ctx, pivot("p1", "s1", -1)), domain.ErrInsufficientStock)

	require.NoError(t, repos.Stock.Insert(ctx, pivot("p1", "s1", 2)))
	assert.ErrorIs(t, repos.Stock.Update(ctx, pivot("p1", "s1", -1)), domain.ErrInsufficientStock)
}

// Insert nunca pisa una fila existente: si otra transacción la creó primero, gana la suya
// y el llamador la vuelve a leer bloqueada. Update solo guarda filas existentes.
func TestStockRepo_InsertNoPisaYUpdateExigeFila(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()

	require.NoError(t, repos.Stock.Insert(ctx, pivot("p1", "s1", 7)))
	require.NoError(t, repos.Stock.Insert(ctx, pivot("p1", "s1", 0)))
	row, err := repos.Stock.Get(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), row.Stock)

	err = repos.Stock.Update(ctx, pivot("p2", "s1", 3))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	missing, err := repos.Stock.Get(ctx, "p2", "s1")
	require.NoError(t, err)
	assert.Nil(t, missing, "Update no debe crear filas")
}

func TestStockRepo_ListLowStock(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "A-1", Name: "Arroz", StockMinimo: 5}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p2", SKU: "B-1", Name: "Frijol", StockMinimo: 2}))
	require.NoError(t, repos.Stock.Insert(ctx, pivot("p1", "s1", 5)))
	require.NoError(t, repos.Stock.Insert(ctx, pivot("p2", "s1", 10)))
	require.NoError(t, repos.Stock.Insert(ctx, pivot("p1", "s2", 1)))

	items, err := repos.Stock.ListLowStock(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "A-1", items[0].SKU)
	assert.Equal(t, int64(5), items[0].Stock)

	all, err := repos.Stock.ListLowStock(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMovementRepo_MarkReversedDosVeces(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	require.NoError(t, repos.Movements.Create(ctx, &entity.Movement{ID: "m1", ProductID: "p1", SedeID: "s1"}))

	require.NoError(t, repos.Movements.MarkReversed(ctx, "m1", "admin", time.Now()))
	err := repos.Movements.MarkReversed(ctx, "m1", "admin", time.Now())
	assert.ErrorIs(t, err, domain.ErrMovementReversed)

	err = repos.Movements.MarkReversed(ctx, "no-existe", "admin", time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovementRepo_ListRecientesPrimeroYPagina(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	for _, id := range []string{"m1", "m2", "m3"} {
		require.NoError(t, repos.Movements.Create(ctx, &entity.Movement{
			ID: id, ProductID: "p1", SedeID: "s1", Type: entity.MovementEntrada,
		}))
	}
	require.NoError(t, repos.Movements.Create(ctx, &entity.Movement{
		ID: "m4", ProductID: "p2", SedeID: "s1", Type: entity.MovementSalida,
	}))

	list, err := repos.Movements.List(ctx, repository.MovementFilter{ProductID: "p1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "m3", list[0].ID)
	assert.Equal(t, "m2", list[1].ID)

	list, err = repos.Movements.List(ctx, repository.MovementFilter{Type: entity.MovementSalida})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "m4", list[0].ID)

	pivotMovs, err := repos.Movements.ListForPivot(ctx, "p1", "s1")
	require.NoError(t, err)
	require.Len(t, pivotMovs, 3)
	assert.Equal(t, "m1", pivotMovs[0].ID, "ListForPivot conserva el orden de inserción")
}

func TestProductRepo_SKUDuplicado(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "A-1"}))

	err := repos.Products.Create(ctx, &entity.Product{ID: "p2", SKU: "A-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestTransferRepo_CountByStateOrigenODestino(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	require.NoError(t, repos.Transfers.Create(ctx, &entity.Transfer{ID: "t1", OriginSedeID: "s1", DestSedeID: "s2", State: entity.TransferPendiente}))
	require.NoError(t, repos.Transfers.Create(ctx, &entity.Transfer{ID: "t2", OriginSedeID: "s3", DestSedeID: "s1", State: entity.TransferPendiente}))
	require.NoError(t, repos.Transfers.Create(ctx, &entity.Transfer{ID: "t3", OriginSedeID: "s1", DestSedeID: "s2", State: entity.TransferRecibido}))

	n, err := repos.Transfers.CountByState(ctx, "s1", entity.TransferPendiente)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repos.Transfers.CountByState(ctx, "s2", "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
