package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher delivers availability events. Delivery is best-effort: callers
// never fail a write because an event could not be published.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LogPublisher writes events to the structured log. It is the default sink
// when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	fields := []zap.Field{
		zap.String("type", string(event.Type)),
		zap.String("provider_id", event.ProviderID),
		zap.Time("timestamp", event.Timestamp),
	}
	if event.ServiceID != nil {
		fields = append(fields, zap.String("service_id", *event.ServiceID))
	}
	if len(event.Payload) > 0 {
		fields = append(fields, zap.Any("payload", event.Payload))
	}
	p.logger.Info("availability event", fields...)
	return nil
}

// RedisPublisher fans events out over Redis pub/sub. Each event goes to the
// firehose channel, the provider's channel, and, when the event carries a
// service, that service's channel, so both subscriber audiences can listen
// without client-side filtering.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	for _, ch := range p.channels(event) {
		if err := p.rdb.Publish(ctx, ch, raw).Err(); err != nil {
			return err
		}
	}
	return nil
}

func (p *RedisPublisher) channels(event Event) []string {
	chs := []string{p.channel, p.channel + ":provider:" + event.ProviderID}
	if event.ServiceID != nil {
		chs = append(chs, p.channel+":service:"+*event.ServiceID)
	}
	return chs
}
