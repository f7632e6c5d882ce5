// Package marketplace orchestrates the campus marketplace workflows: order
// placement against merchant and stock state, cancellation with stock
// restoration, seller-driven fulfillment transitions, promo application and
// review-driven rating aggregation. Domain rules live in the entity packages;
// this package only coordinates them against the stores.
package marketplace

import (
	"errors"
	"time"

	"github.com/google/uuid"

	kafkax "github.com/adityarama/pasarkampus/internal/kafka"
	"github.com/adityarama/pasarkampus/internal/orders"
	"github.com/adityarama/pasarkampus/internal/store"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUMKMNotAccepting   = errors.New("umkm is not accepting orders")
	ErrProductMismatch    = errors.New("product does not belong to this umkm")
	ErrProductUnavailable = errors.New("product is not available in requested quantity")
)

// Clock supplies the current time; tests substitute a fixed clock.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// EventPublisher is the outbound port for lifecycle events. kafka
// TopicPublishers implements it; tests use a recording fake or leave it nil.
type EventPublisher interface {
	Publish(topic string, key, value []byte)
}

type Service struct {
	Products store.ProductStore
	UMKMs    store.UMKMStore
	Orders   store.OrderStore
	Promos   store.PromoStore
	Reviews  store.ReviewStore
	Clock    Clock
	Events   EventPublisher
	Name     string // producer name stamped on events
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now()
}

func (s *Service) publish(topic, eventType, orderID string, payload any) {
	if s.Events == nil {
		return
	}
	env := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    s.now(),
		Producer:      s.Name,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	s.Events.Publish(topic, orders.PartitionKey(orderID), kafkax.MustMarshal(env))
}
