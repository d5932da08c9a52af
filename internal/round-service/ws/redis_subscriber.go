package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RoundsInvalidator derruba as entradas de cache afetadas por um
// resultado (rounds da banca e contador de abertos), pro feed REST
// não servir round fechado até o TTL vencer.
type RoundsInvalidator interface {
	InvalidateRounds(ctx context.Context, houseID int64) error
}

// StartRedisSubscriber inicia uma goroutine que escuta o canal Redis
// Pub/Sub de resultados e repassa cada publicação: invalida o cache
// de rounds da banca e entrega aos clientes WebSocket inscritos.
func StartRedisSubscriber(ctx context.Context, log *zap.Logger, r *redis.Client, channel string, inv RoundsInvalidator, hub *Hub) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close() // encerra a inscrição ao finalizar o contexto
				return
			case msg := <-ch:
				if msg == nil {
					continue
				}
				dispatchResult(ctx, log, []byte(msg.Payload), inv, hub)
			}
		}
	}()
}

func dispatchResult(ctx context.Context, log *zap.Logger, payload []byte, inv RoundsInvalidator, hub *Hub) {
	var upd ResultUpdate
	if err := json.Unmarshal(payload, &upd); err != nil {
		log.Warn("ws subscriber unmarshal", zap.Error(err))
		return
	}
	if inv != nil {
		if err := inv.InvalidateRounds(ctx, upd.HouseID); err != nil {
			log.Warn("rounds cache invalidate", zap.Int64("houseId", upd.HouseID), zap.Error(err))
		}
	}
	hub.Broadcast(upd)
}
