package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain"
)

func TestStruct_Valido(t *testing.T) {
	req := dto.CreateSaleRequest{Lines: []dto.SaleLineRequest{{ProductID: "p1", Quantity: 2}}}
	assert.NoError(t, Struct(req))
}

func TestStruct_CamposPorNombreJSON(t *testing.T) {
	req := dto.CreateSaleRequest{Lines: []dto.SaleLineRequest{{ProductID: "", Quantity: 0}}}

	err := Struct(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "required", ve.Fields["lines[0].product_id"])
	assert.Equal(t, "gt=0", ve.Fields["lines[0].quantity"])
}

func TestStruct_LineasVacias(t *testing.T) {
	err := Struct(dto.CreateSaleRequest{})

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "required", ve.Fields["lines"])
}

func TestStruct_TipoDeMovimiento(t *testing.T) {
	err := Struct(dto.RegisterMovementRequest{ProductID: "p1", Type: "traslado", Quantity: 1})

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "oneof=entrada salida ajuste", ve.Fields["type"])
}
