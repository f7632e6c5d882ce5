package marketplace

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adityarama/pasarkampus/internal/catalog"
	"github.com/adityarama/pasarkampus/internal/orders"
	"github.com/adityarama/pasarkampus/internal/store"
	"github.com/adityarama/pasarkampus/internal/umkm"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func intPtr(v int) *int              { return &v }
func floatPtr(v float64) *float64    { return &v }
func timePtr(t time.Time) *time.Time { return &t }

// recordingPublisher captures published events so tests can assert on them.
type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	Topic    string
	Key      string
	Envelope orders.Envelope
}

func (p *recordingPublisher) Publish(topic string, key, value []byte) {
	var env orders.Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		panic(err)
	}
	p.mu.Lock()
	p.events = append(p.events, recordedEvent{Topic: topic, Key: string(key), Envelope: env})
	p.mu.Unlock()
}

func (p *recordingPublisher) byType(eventType string) []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []recordedEvent
	for _, e := range p.events {
		if e.Envelope.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	svc    *Service
	events *recordingPublisher
	umkm   *umkm.UMKM
}

// newFixture wires the service against in-memory stores with one approved
// umkm owned by "owner-1".
func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory()
	pub := &recordingPublisher{}
	svc := &Service{
		Products: mem.Products(),
		UMKMs:    mem.UMKMs(),
		Orders:   mem.Orders(),
		Promos:   mem.Promos(),
		Reviews:  mem.Reviews(),
		Clock:    fixedClock{t0},
		Events:   pub,
		Name:     "marketplace-test",
	}

	u, err := umkm.Register(umkm.RegisterInput{
		OwnerID:     "owner-1",
		Name:        "Warung Bu Sari",
		Description: "Masakan rumahan untuk anak kos",
		Location:    "Kantin Fakultas Teknik",
		Phone:       "+628123456789",
	}, t0)
	require.NoError(t, err)
	require.NoError(t, u.Approve(t0))
	require.NoError(t, mem.UMKMs().Put(context.Background(), u))

	return &fixture{svc: svc, events: pub, umkm: u}
}

// addProduct stores a product under the fixture umkm with the given stock.
// A negative stock means unlimited.
func (f *fixture) addProduct(t *testing.T, name string, price float64, stock int) *catalog.Product {
	t.Helper()
	in := catalog.NewProductInput{
		UMKMID:      f.umkm.ID,
		Name:        name,
		Description: "menu andalan warung",
		Price:       price,
		Category:    catalog.CategoryFood,
	}
	if stock >= 0 {
		in.StockQuantity = intPtr(stock)
	}
	p, err := catalog.NewProduct(in, t0)
	require.NoError(t, err)
	require.NoError(t, f.svc.Products.Put(context.Background(), p))
	return p
}

func (f *fixture) stockOf(t *testing.T, productID string) int {
	t.Helper()
	p, err := f.svc.Products.Get(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p.StockQuantity)
	return *p.StockQuantity
}
