package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	"github.com/circle-app/circle-server"
)

const DefaultSignalChannel = "circle:events"

// broker is the slice of *redis.Client the signal service talks to.
type broker interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// SignalService fans events out to every observer. With redis configured
// events travel through a pub/sub channel so that every instance delivers
// them; without it they go straight to the local hub.
type SignalService struct {
	hub     *Hub
	rdb     broker
	channel string
}

func NewSignalService(hub *Hub, redisClient *redis.Client) *SignalService {
	s := &SignalService{
		hub:     hub,
		channel: DefaultSignalChannel,
	}
	if redisClient != nil {
		s.rdb = redisClient
	}
	return s
}

func (s *SignalService) Publish(ctx context.Context, event string, payload any) error {
	ctx, span := tracer.Start(ctx, "Signal.Service.Publish", trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()

	ev := circle.Event{Event: event, Payload: payload}
	if s.rdb == nil {
		s.hub.Broadcast(ev)
		return nil
	}

	jsonstr, err := json.Marshal(ev)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to encode event")
	}

	err = s.rdb.Publish(ctx, s.channel, jsonstr).Err()
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to publish event")
	}

	return nil
}

// Run relays the redis channel into the local hub until ctx is done.
// It returns immediately when redis is not configured.
func (s *SignalService) Run(ctx context.Context) {
	if s.rdb == nil {
		return
	}

	pubsub := s.rdb.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	s.relay(ctx, pubsub.Channel())
}

func (s *SignalService) relay(ctx context.Context, ch <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev circle.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				slog.Error(
					"failed to decode event",
					slog.String("error", err.Error()),
					slog.String("module", "realtime"),
				)
				continue
			}
			s.hub.Broadcast(ev)
		}
	}
}

func (s *SignalService) Subscribe() *Observer {
	return s.hub.Attach()
}

func (s *SignalService) Unsubscribe(o *Observer) {
	s.hub.Detach(o)
}
