package ws

import (
	"context"
	"encoding/json"
	"strconv"

	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/idfuturestars/starguide/internal/app"
)

// BusMessage carries a gateway event across instances. PodID zero means
// process-wide fan-out (presence). Origin lets an instance skip frames it
// published itself, since redis pub/sub echoes to every subscriber.
type BusMessage struct {
	Origin  string          `json:"origin"`
	PodID   int64           `json:"podId"`
	Payload json.RawMessage `json:"payload"`
}

type RedisBus struct {
	rdb *redis.Client
	log *slog.Logger
}

const onlineKey = "starguide:online"

// NewRedisBus connects to redis and verifies connectivity
func NewRedisBus(ctx context.Context, cfg app.Config, log *slog.Logger) (*RedisBus, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisBus{rdb: rdb, log: log}, nil
}

// Publish sends a frame to the channel for its pod
func (b *RedisBus) Publish(ctx context.Context, m BusMessage) error {
	raw, _ := json.Marshal(m)
	return b.rdb.Publish(ctx, channel(m.PodID), raw).Err()
}

// Subscribe listens to all pod channels and invokes fn for each frame
func (b *RedisBus) Subscribe(ctx context.Context, fn func(BusMessage)) {
	pubsub := b.rdb.PSubscribe(ctx, "pod:*")
	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			_ = pubsub.Close()
			return
		case msg := <-ch:
			var bm BusMessage
			if err := json.Unmarshal([]byte(msg.Payload), &bm); err != nil {
				b.log.Debug("bus.decode", "err", err)
				continue
			}
			fn(bm)
		}
	}
}

// AddOnline bumps the cluster-wide presence counter and returns it
func (b *RedisBus) AddOnline(ctx context.Context) (int64, error) {
	return b.rdb.Incr(ctx, onlineKey).Result()
}

// RemoveOnline decrements the cluster-wide presence counter and returns it
func (b *RedisBus) RemoveOnline(ctx context.Context) (int64, error) {
	n, err := b.rdb.Decr(ctx, onlineKey).Result()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		// counter drifted (e.g. crash between incr and decr); clamp
		_ = b.rdb.Set(ctx, onlineKey, 0, 0).Err()
		return 0, nil
	}
	return n, nil
}

// Close shuts down the redis connection
func (b *RedisBus) Close() { _ = b.rdb.Close() }

// channel namespacing for pod pub/sub; pod 0 is the process-wide channel
func channel(podID int64) string { return "pod:" + strconv.FormatInt(podID, 10) }
