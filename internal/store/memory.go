package store

import (
	"context"
	"sync"

	"github.com/adityarama/pasarkampus/internal/catalog"
	"github.com/adityarama/pasarkampus/internal/orders"
	"github.com/adityarama/pasarkampus/internal/promo"
	"github.com/adityarama/pasarkampus/internal/review"
	"github.com/adityarama/pasarkampus/internal/umkm"
)

// Memory bundles in-memory implementations of every store interface. Reads
// and writes deep-copy, so callers never share pointers with the store.
type Memory struct {
	mu       sync.RWMutex
	products map[string]*catalog.Product
	umkms    map[string]*umkm.UMKM
	orders   map[string]*orders.Order
	promos   map[string]*promo.Promo
	reviews  map[string]*review.Review
}

func NewMemory() *Memory {
	return &Memory{
		products: make(map[string]*catalog.Product),
		umkms:    make(map[string]*umkm.UMKM),
		orders:   make(map[string]*orders.Order),
		promos:   make(map[string]*promo.Promo),
		reviews:  make(map[string]*review.Review),
	}
}

type MemoryProducts struct{ m *Memory }
type MemoryUMKMs struct{ m *Memory }
type MemoryOrders struct{ m *Memory }
type MemoryPromos struct{ m *Memory }
type MemoryReviews struct{ m *Memory }

func (m *Memory) Products() *MemoryProducts { return &MemoryProducts{m} }
func (m *Memory) UMKMs() *MemoryUMKMs       { return &MemoryUMKMs{m} }
func (m *Memory) Orders() *MemoryOrders     { return &MemoryOrders{m} }
func (m *Memory) Promos() *MemoryPromos     { return &MemoryPromos{m} }
func (m *Memory) Reviews() *MemoryReviews   { return &MemoryReviews{m} }

// ---- products ----

func (s *MemoryProducts) Get(_ context.Context, id string) (*catalog.Product, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	p, ok := s.m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryProducts) Put(_ context.Context, p *catalog.Product) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	cur, ok := s.m.products[p.ID]
	if ok && cur.Version != p.Version {
		return ErrVersionConflict
	}
	if !ok && p.Version != 0 {
		return ErrVersionConflict
	}
	cp := p.Clone()
	cp.Version++
	s.m.products[p.ID] = cp
	p.Version = cp.Version
	return nil
}

func (s *MemoryProducts) ListByUMKM(_ context.Context, umkmID string) ([]*catalog.Product, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	var out []*catalog.Product
	for _, p := range s.m.products {
		if p.UMKMID == umkmID {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

// ---- umkms ----

func (s *MemoryUMKMs) Get(_ context.Context, id string) (*umkm.UMKM, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	u, ok := s.m.umkms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

func (s *MemoryUMKMs) GetByOwner(_ context.Context, ownerID string) (*umkm.UMKM, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	for _, u := range s.m.umkms {
		if u.OwnerID == ownerID {
			return u.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUMKMs) Put(_ context.Context, u *umkm.UMKM) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.umkms[u.ID] = u.Clone()
	return nil
}

// ---- orders ----

func (s *MemoryOrders) Get(_ context.Context, id string) (*orders.Order, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	o, ok := s.m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o.Clone(), nil
}

func (s *MemoryOrders) Put(_ context.Context, o *orders.Order) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.orders[o.ID] = o.Clone()
	return nil
}

func (s *MemoryOrders) ListByBuyer(_ context.Context, buyerID string) ([]*orders.Order, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	var out []*orders.Order
	for _, o := range s.m.orders {
		if o.BuyerID == buyerID {
			out = append(out, o.Clone())
		}
	}
	return out, nil
}

func (s *MemoryOrders) ListByUMKM(_ context.Context, umkmID string) ([]*orders.Order, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	var out []*orders.Order
	for _, o := range s.m.orders {
		if o.UMKMID == umkmID {
			out = append(out, o.Clone())
		}
	}
	return out, nil
}

// ---- promos ----

func (s *MemoryPromos) Get(_ context.Context, id string) (*promo.Promo, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	p, ok := s.m.promos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryPromos) Put(_ context.Context, p *promo.Promo) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.promos[p.ID] = p.Clone()
	return nil
}

func (s *MemoryPromos) ListByUMKM(_ context.Context, umkmID string) ([]*promo.Promo, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	var out []*promo.Promo
	for _, p := range s.m.promos {
		if p.UMKMID == umkmID {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

// ---- reviews ----

func (s *MemoryReviews) Get(_ context.Context, id string) (*review.Review, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	r, ok := s.m.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.Clone(), nil
}

func (s *MemoryReviews) Put(_ context.Context, r *review.Review) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.reviews[r.ID] = r.Clone()
	return nil
}

func (s *MemoryReviews) ListByUMKM(_ context.Context, umkmID string, visibleOnly bool) ([]*review.Review, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	var out []*review.Review
	for _, r := range s.m.reviews {
		if r.UMKMID != umkmID {
			continue
		}
		if visibleOnly && !r.IsVisible {
			continue
		}
		out = append(out, r.Clone())
	}
	return out, nil
}
