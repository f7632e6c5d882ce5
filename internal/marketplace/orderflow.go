package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/adityarama/pasarkampus/internal/orders"
	"github.com/adityarama/pasarkampus/internal/store"
)

// maxReserveRetries bounds the re-read loop when a product write loses the
// optimistic-version race against a concurrent order.
const maxReserveRetries = 3

type LineInput struct {
	ProductID string
	Quantity  int
}

type CreateOrderInput struct {
	BuyerID    string
	UMKMID     string
	Lines      []LineInput
	PickupTime *time.Time
	Notes      string
}

// CreateOrder validates the merchant, reserves stock line by line, then
// constructs and persists the order. If anything fails after some lines were
// already reserved, the reservations made so far are compensated before the
// error is returned.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*orders.Order, error) {
	u, err := s.UMKMs.Get(ctx, in.UMKMID)
	if err != nil {
		return nil, fmt.Errorf("umkm %s: %w", in.UMKMID, err)
	}
	if !u.CanAcceptOrders() {
		return nil, ErrUMKMNotAccepting
	}

	lines := make([]orders.Line, 0, len(in.Lines))
	fail := func(err error) (*orders.Order, error) {
		s.restoreLines(ctx, lines)
		return nil, err
	}

	for _, req := range in.Lines {
		line, err := s.reserveLine(ctx, in.UMKMID, req)
		if err != nil {
			return fail(err)
		}
		lines = append(lines, line)
	}

	o, err := orders.New(in.BuyerID, in.UMKMID, lines, in.PickupTime, in.Notes, s.now())
	if err != nil {
		return fail(err)
	}
	if err := s.Orders.Put(ctx, o); err != nil {
		return fail(err)
	}

	s.publish(orders.TopicOrderPlaced, orders.EventOrderPlaced, o.ID, orders.OrderPlacedPayload{
		OrderID:     o.ID,
		BuyerID:     o.BuyerID,
		UMKMID:      o.UMKMID,
		Lines:       orders.LinePayloads(o.Lines),
		TotalAmount: o.TotalAmount,
		PickupTime:  o.PickupTime,
	})
	return o, nil
}

// reserveLine snapshots the product into an order line and commits the stock
// decrement. A version conflict on the write means another order touched the
// same product between our read and write; re-read and try again so the
// decision is always made against current stock.
func (s *Service) reserveLine(ctx context.Context, umkmID string, req LineInput) (orders.Line, error) {
	if req.Quantity <= 0 {
		return orders.Line{}, fmt.Errorf("%w: quantity must be positive", orders.ErrInvalidLine)
	}
	for attempt := 0; ; attempt++ {
		p, err := s.Products.Get(ctx, req.ProductID)
		if err != nil {
			return orders.Line{}, fmt.Errorf("product %s: %w", req.ProductID, err)
		}
		if p.UMKMID != umkmID {
			return orders.Line{}, fmt.Errorf("%w: product %s", ErrProductMismatch, p.ID)
		}
		if !p.CanReserve(req.Quantity) {
			return orders.Line{}, fmt.Errorf("%w: %s", ErrProductUnavailable, p.Name)
		}
		line, err := orders.NewLine(p.ID, p.Name, req.Quantity, p.Price)
		if err != nil {
			return orders.Line{}, err
		}
		if err := p.Reserve(req.Quantity, s.now()); err != nil {
			return orders.Line{}, err
		}
		err = s.Products.Put(ctx, p)
		if err == nil {
			return line, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) || attempt >= maxReserveRetries {
			return orders.Line{}, fmt.Errorf("commit reservation for product %s: %w", p.ID, err)
		}
	}
}

// restoreLines compensates already-committed reservations. Best effort: a
// product that vanished meanwhile is skipped, conflicts are retried.
func (s *Service) restoreLines(ctx context.Context, lines []orders.Line) {
	for _, l := range lines {
		if err := s.restoreProduct(ctx, l.ProductID, l.Quantity); err != nil {
			log.Printf("restore stock product=%s qty=%d: %v", l.ProductID, l.Quantity, err)
		}
	}
}

func (s *Service) restoreProduct(ctx context.Context, productID string, qty int) error {
	for attempt := 0; ; attempt++ {
		p, err := s.Products.Get(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := p.Restore(qty, s.now()); err != nil {
			return err
		}
		err = s.Products.Put(ctx, p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrVersionConflict) || attempt >= maxReserveRetries {
			return err
		}
	}
}

// CancelOrder releases the order's stock and moves it to cancelled. Allowed
// for the buyer and for the owner of the selling umkm.
func (s *Service) CancelOrder(ctx context.Context, orderID, actorID, reason string) (*orders.Order, error) {
	o, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}

	if o.BuyerID != actorID {
		u, err := s.UMKMs.Get(ctx, o.UMKMID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("umkm %s: %w", o.UMKMID, err)
		}
		if err != nil || u.OwnerID != actorID {
			return nil, fmt.Errorf("%w: cannot cancel this order", ErrUnauthorized)
		}
	}

	if !o.CanCancel() {
		return nil, fmt.Errorf("%w: %s -> %s", orders.ErrInvalidTransition, o.Status, orders.StatusCancelled)
	}

	// Release stock before flipping the state, line by line.
	for _, l := range o.Lines {
		if err := s.restoreProduct(ctx, l.ProductID, l.Quantity); err != nil {
			return nil, fmt.Errorf("restore stock for product %s: %w", l.ProductID, err)
		}
	}

	if err := o.Cancel(reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.Orders.Put(ctx, o); err != nil {
		return nil, err
	}

	s.publish(orders.TopicOrderCancelled, orders.EventOrderCancelled, o.ID, orders.OrderCancelledPayload{
		OrderID: o.ID,
		UMKMID:  o.UMKMID,
		BuyerID: o.BuyerID,
		Reason:  reason,
		Lines:   orders.LinePayloads(o.Lines),
	})
	return o, nil
}

// UpdateOrderStatus drives one forward transition of the fulfillment state
// machine. Only the owner of the selling umkm may do this.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID, sellerID string, next orders.Status) (*orders.Order, error) {
	o, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}
	u, err := s.UMKMs.Get(ctx, o.UMKMID)
	if err != nil {
		return nil, fmt.Errorf("umkm %s: %w", o.UMKMID, err)
	}
	if u.OwnerID != sellerID {
		return nil, fmt.Errorf("%w: you don't own this umkm", ErrUnauthorized)
	}

	from := o.Status
	if err := o.ApplyTrigger(next, s.now()); err != nil {
		return nil, err
	}
	if err := s.Orders.Put(ctx, o); err != nil {
		return nil, err
	}

	s.publish(orders.TopicOrderStatusChanged, orders.EventOrderStatusChanged, o.ID, orders.OrderStatusChangedPayload{
		OrderID: o.ID,
		UMKMID:  o.UMKMID,
		BuyerID: o.BuyerID,
		From:    from,
		To:      o.Status,
	})
	return o, nil
}

// ConfirmOrder is the seller accepting a placed order.
func (s *Service) ConfirmOrder(ctx context.Context, orderID, sellerID string) (*orders.Order, error) {
	return s.UpdateOrderStatus(ctx, orderID, sellerID, orders.StatusConfirmed)
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*orders.Order, error) {
	o, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}
	return o, nil
}

func (s *Service) ListBuyerOrders(ctx context.Context, buyerID string) ([]*orders.Order, error) {
	return s.Orders.ListByBuyer(ctx, buyerID)
}

func (s *Service) ListUMKMOrders(ctx context.Context, umkmID string) ([]*orders.Order, error) {
	return s.Orders.ListByUMKM(ctx, umkmID)
}

// UpdatePickupTime reschedules a preorder. Only the buyer may reschedule, and
// only while the order is still placed or confirmed.
func (s *Service) UpdatePickupTime(ctx context.Context, orderID, buyerID string, pickup time.Time) (*orders.Order, error) {
	o, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}
	if o.BuyerID != buyerID {
		return nil, fmt.Errorf("%w: not your order", ErrUnauthorized)
	}
	if err := o.UpdatePickupTime(pickup, s.now()); err != nil {
		return nil, err
	}
	if err := s.Orders.Put(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}
