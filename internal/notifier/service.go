// Package notifier turns order lifecycle events into buyer/seller
// notifications. Delivery is pluggable; the default sink logs structured
// records, which is where a push or email gateway would hang off.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/adityarama/pasarkampus/internal/kafka"
	"github.com/adityarama/pasarkampus/internal/orders"
	"github.com/adityarama/pasarkampus/internal/redisx"
)

// Sink receives a rendered notification for one recipient.
type Sink interface {
	Notify(ctx context.Context, recipientID, message string) error
}

type LogSink struct{ Logger *slog.Logger }

func (s LogSink) Notify(_ context.Context, recipientID, message string) error {
	s.Logger.Info("notify", "recipient", recipientID, "message", message)
	return nil
}

type Service struct {
	Redis       *redis.Client
	Sink        Sink
	ServiceName string
}

// Handle is installed as the consumer handler for all order topics.
func (s *Service) Handle(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	// Dedup by event id; consumer retries and rebalances redeliver.
	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
		exists, _ := redisx.Exists(ctx, s.Redis, dkey)
		if exists {
			return nil
		}
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	switch env.EventType {
	case orders.EventOrderPlaced:
		p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
		if err != nil {
			return err
		}
		return s.Sink.Notify(ctx, p.UMKMID,
			fmt.Sprintf("new order %s: %d item(s), total %.0f", p.OrderID, len(p.Lines), p.TotalAmount))

	case orders.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		return s.Sink.Notify(ctx, p.BuyerID,
			fmt.Sprintf("order %s is now %s", p.OrderID, p.To))

	case orders.EventOrderCancelled:
		p, err := kafkax.UnwrapPayload[orders.OrderCancelledPayload](env.Payload)
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("order %s was cancelled", p.OrderID)
		if p.Reason != "" {
			msg += ": " + p.Reason
		}
		if err := s.Sink.Notify(ctx, p.BuyerID, msg); err != nil {
			return err
		}
		return s.Sink.Notify(ctx, p.UMKMID, msg)
	}
	return nil
}
