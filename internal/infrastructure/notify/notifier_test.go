package notify

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

func TestNew_FallsBackToLog(t *testing.T) {
	n := New(nil, "canal", logger.Nop())
	_, ok := n.(*LogNotifier)
	assert.True(t, ok)

	err := n.Notify(context.Background(), inventory.Notification{
		SedeID:   "s1",
		Category: inventory.CategoryLowStock,
		Message:  "stock bajo",
	})
	assert.NoError(t, err)
}

func TestRedisNotifier_PublishError(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()

	n := New(rdb, "inventario:notificaciones", logger.Nop())
	_, ok := n.(*RedisNotifier)
	assert.True(t, ok)

	err := n.Notify(context.Background(), inventory.Notification{Category: inventory.CategoryTransfer, Message: "x"})
	assert.ErrorContains(t, err, "inventario:notificaciones")
}
