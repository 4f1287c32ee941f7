package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

type fakeExporter struct {
	got []*entity.Movement
}

func (e *fakeExporter) ExportMovements(_ context.Context, movements []*entity.Movement) ([]byte, error) {
	e.got = movements
	return []byte("xlsx"), nil
}

func (f *fixture) movementUC(exp inventory.MovementExporter) *inventory.MovementUseCase {
	return inventory.NewMovementUseCase(f.tx, f.engine, f.repos.Products, f.repos.Sedes, f.repos.Movements, exp)
}

func register(t *testing.T, uc *inventory.MovementUseCase, id entity.Identity, movType string, qty int64) *dto.MovementResponse {
	t.Helper()
	m, err := uc.Register(context.Background(), id, dto.RegisterMovementRequest{
		ProductID: productID,
		SedeID:    sedeX,
		Type:      movType,
		Quantity:  qty,
	})
	require.NoError(t, err)
	return m
}

func assertReconciled(t *testing.T, uc *inventory.MovementUseCase, sedeID string) {
	t.Helper()
	rec, err := uc.Reconcile(context.Background(), productID, sedeID)
	require.NoError(t, err)
	assert.True(t, rec.Consistent, "stock %d, libro %d", rec.Stock, rec.Ledger)
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_EntradaManualUsaPreciosDelProducto(t *testing.T) {
	f := newFixture(t)
	uc := f.movementUC(nil)

	m := register(t, uc, bodeguero, entity.MovementEntrada, 7)
	assert.Equal(t, entity.ReferenceManual, m.ReferenceType)
	assert.Equal(t, int64(7), m.StockAfter)

	row, err := f.repos.Stock.Get(context.Background(), productID, sedeX)
	require.NoError(t, err)
	assert.True(t, row.PurchasePrice.Equal(decimal.NewFromInt(1500)))
	assertReconciled(t, uc, sedeX)
}

func TestRegister_SedePorDefectoDeLaIdentidad(t *testing.T) {
	f := newFixture(t)
	uc := f.movementUC(nil)

	m, err := uc.Register(context.Background(), bodeguero, dto.RegisterMovementRequest{
		ProductID: productID,
		Type:      entity.MovementEntrada,
		Quantity:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, sedeX, m.SedeID)
}

func TestRegister_Rechazos(t *testing.T) {
	cases := []struct {
		name string
		id   entity.Identity
		req  dto.RegisterMovementRequest
		want error
	}{
		{
			name: "ajuste de no administrador",
			id:   bodeguero,
			req:  dto.RegisterMovementRequest{ProductID: productID, SedeID: sedeX, Type: entity.MovementAjuste, Quantity: 3},
			want: domain.ErrForbidden,
		},
		{
			name: "otra sede",
			id:   bodeguero,
			req:  dto.RegisterMovementRequest{ProductID: productID, SedeID: sedeY, Type: entity.MovementEntrada, Quantity: 3},
			want: domain.ErrForbidden,
		},
		{
			name: "cantidad cero",
			id:   admin,
			req:  dto.RegisterMovementRequest{ProductID: productID, SedeID: sedeX, Type: entity.MovementEntrada},
			want: domain.ErrInvalidInput,
		},
		{
			name: "tipo inválido",
			id:   admin,
			req:  dto.RegisterMovementRequest{ProductID: productID, SedeID: sedeX, Type: "merma", Quantity: 1},
			want: domain.ErrInvalidInput,
		},
		{
			name: "producto inexistente",
			id:   admin,
			req:  dto.RegisterMovementRequest{ProductID: "nada", SedeID: sedeX, Type: entity.MovementEntrada, Quantity: 1},
			want: domain.ErrNotFound,
		},
		{
			name: "salida sin fila pivote",
			id:   admin,
			req:  dto.RegisterMovementRequest{ProductID: productID, SedeID: sedeY, Type: entity.MovementSalida, Quantity: 1},
			want: domain.ErrProductNotAvailable,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.movementUC(nil).Register(context.Background(), tc.id, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete (reverso)
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_RevierteSalidaUnaSolaVez(t *testing.T) {
	f := newFixture(t)
	uc := f.movementUC(nil)
	ctx := context.Background()
	register(t, uc, admin, entity.MovementEntrada, 10)
	salida := register(t, uc, admin, entity.MovementSalida, 3)
	require.Equal(t, int64(7), f.stock(t, sedeX))

	require.NoError(t, uc.Delete(ctx, admin, salida.ID))
	assert.Equal(t, int64(10), f.stock(t, sedeX))

	err := uc.Delete(ctx, admin, salida.ID)
	assert.ErrorIs(t, err, domain.ErrMovementReversed)
	assert.Equal(t, int64(10), f.stock(t, sedeX), "el segundo intento no toca el stock")

	got, err := uc.GetByID(ctx, salida.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ReversedAt)
	assert.Equal(t, admin.UserID, got.ReversedBy)
	assertReconciled(t, uc, sedeX)
}

func TestDelete_ReversoQueDejariaStockNegativo(t *testing.T) {
	f := newFixture(t)
	uc := f.movementUC(nil)
	ctx := context.Background()
	entrada := register(t, uc, admin, entity.MovementEntrada, 10)
	register(t, uc, admin, entity.MovementSalida, 8)

	err := uc.Delete(ctx, admin, entrada.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(2), f.stock(t, sedeX))
	got, err := uc.GetByID(ctx, entrada.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ReversedAt, "el movimiento no debe quedar marcado si el reverso falla")
	assertReconciled(t, uc, sedeX)
}

func TestDelete_RevierteAjuste(t *testing.T) {
	f := newFixture(t)
	uc := f.movementUC(nil)
	register(t, uc, admin, entity.MovementEntrada, 5)
	ajuste := register(t, uc, admin, entity.MovementAjuste, 8)
	register(t, uc, admin, entity.MovementSalida, 2)
	require.Equal(t, int64(6), f.stock(t, sedeX))

	require.NoError(t, uc.Delete(context.Background(), admin, ajuste.ID))
	assert.Equal(t, int64(3), f.stock(t, sedeX), "el reverso de un ajuste compensa su delta (+3)")
	assertReconciled(t, uc, sedeX)
}

func TestDelete_AjusteSinCambioNoAgregaMovimiento(t *testing.T) {
	f := newFixture(t)
	uc := f.movementUC(nil)
	ctx := context.Background()
	register(t, uc, admin, entity.MovementEntrada, 5)
	ajuste := register(t, uc, admin, entity.MovementAjuste, 5)

	require.NoError(t, uc.Delete(ctx, admin, ajuste.ID))

	movs, err := f.repos.Movements.ListForPivot(ctx, productID, sedeX)
	require.NoError(t, err)
	assert.Len(t, movs, 2)
	assert.Equal(t, int64(5), f.stock(t, sedeX))
}

func TestDelete_SoloAdministrador(t *testing.T) {
	f := newFixture(t)
	uc := f.movementUC(nil)
	m := register(t, uc, bodeguero, entity.MovementEntrada, 5)

	err := uc.Delete(context.Background(), bodeguero, m.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDelete_MovimientoDeDocumentoEsInmutable(t *testing.T) {
	f := newFixture(t)
	uc := f.movementUC(nil)
	ctx := context.Background()

	var movID string
	err := f.tx.Run(ctx, func(ctx context.Context, s inventory.Stores) error {
		res, err := f.engine.Entrada(ctx, s, inventory.Change{
			ProductID:     productID,
			SedeID:        sedeX,
			UserID:        admin.UserID,
			Quantity:      4,
			ReferenceType: entity.ReferencePurchase,
			ReferenceID:   "compra-1",
			Defaults:      defaults,
		})
		if err != nil {
			return err
		}
		movID = res.Movement.ID
		return nil
	})
	require.NoError(t, err)

	err = uc.Delete(ctx, admin, movID)
	assert.ErrorIs(t, err, domain.ErrImmutable)
	assert.Equal(t, int64(4), f.stock(t, sedeX))
}

func TestDelete_NoExiste(t *testing.T) {
	f := newFixture(t)
	err := f.movementUC(nil).Delete(context.Background(), admin, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas, exportación y conciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestList_FiltraPorTipo(t *testing.T) {
	f := newFixture(t)
	uc := f.movementUC(nil)
	register(t, uc, admin, entity.MovementEntrada, 5)
	register(t, uc, admin, entity.MovementSalida, 1)
	register(t, uc, admin, entity.MovementSalida, 1)

	out, err := uc.List(context.Background(), dto.MovementFilterRequest{Type: entity.MovementSalida})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 20, out.Page.Limit)
}

func TestList_FechaInvalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.movementUC(nil).List(context.Background(), dto.MovementFilterRequest{From: "15/10/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExportXLSX_EnviaElLibroFiltrado(t *testing.T) {
	f := newFixture(t)
	exp := &fakeExporter{}
	uc := f.movementUC(exp)
	register(t, uc, admin, entity.MovementEntrada, 5)
	register(t, uc, admin, entity.MovementSalida, 2)

	out, err := uc.ExportXLSX(context.Background(), dto.MovementFilterRequest{SedeID: sedeX})
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), out)
	assert.Len(t, exp.got, 2)
}

func TestReconcile_SinFilaPivote(t *testing.T) {
	f := newFixture(t)
	_, err := f.movementUC(nil).Reconcile(context.Background(), productID, sedeY)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
