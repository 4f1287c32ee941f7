// Package notify implementa inventory.Notifier: publicación en un canal de Redis o registro en log.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

var (
	_ inventory.Notifier = (*RedisNotifier)(nil)
	_ inventory.Notifier = (*LogNotifier)(nil)
)

// RedisNotifier publica cada notificación como JSON en un canal (PUBLISH).
// Los consumidores (push, email) quedan fuera de este servicio.
type RedisNotifier struct {
	rdb     *redis.Client
	channel string
}

// NewRedisNotifier construye el publicador sobre el canal indicado.
func NewRedisNotifier(rdb *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{rdb: rdb, channel: channel}
}

// Notify serializa y publica la notificación.
func (n *RedisNotifier) Notify(ctx context.Context, msg inventory.Notification) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("serializar notificación: %w", err)
	}
	if err := n.rdb.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("publicar en %s: %w", n.channel, err)
	}
	return nil
}

// LogNotifier registra las notificaciones en el log (sin Redis configurado).
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador de respaldo.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify nunca falla.
func (n *LogNotifier) Notify(_ context.Context, msg inventory.Notification) error {
	n.log.Info().
		Str("category", msg.Category).
		Str("sede_id", msg.SedeID).
		Str("user_id", msg.UserID).
		Interface("data", msg.Data).
		Msg(msg.Message)
	return nil
}

// New elige RedisNotifier si hay cliente; si no, LogNotifier.
func New(rdb *redis.Client, channel string, log *logger.Logger) inventory.Notifier {
	if rdb == nil {
		return NewLogNotifier(log)
	}
	return NewRedisNotifier(rdb, channel)
}
