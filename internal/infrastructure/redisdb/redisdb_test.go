package redisdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/pkg/config"
)

func TestConnect_Disabled(t *testing.T) {
	rdb, err := Connect(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, rdb)
	assert.Nil(t, Locker(rdb))
}

func TestConnect_Unreachable(t *testing.T) {
	rdb, err := Connect(context.Background(), config.RedisConfig{Address: "127.0.0.1:1"})
	assert.Error(t, err)
	assert.Nil(t, rdb)
}
