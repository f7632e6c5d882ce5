// Package orders holds the order aggregate and its fulfillment state machine.
package orders

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrEmptyOrder        = errors.New("order must have at least one line")
	ErrInvalidPickupTime = errors.New("pickup time must be in the future")
	ErrNonPositiveTotal  = errors.New("order total must be positive")
	ErrInvalidLine       = errors.New("invalid order line")
)

// Line is a value object: a snapshot of one product at order time. Later
// edits to the product never change what the buyer agreed to.
type Line struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   float64
}

func NewLine(productID, productName string, quantity int, unitPrice float64) (Line, error) {
	if quantity <= 0 {
		return Line{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidLine)
	}
	if unitPrice <= 0 {
		return Line{}, fmt.Errorf("%w: unit price must be positive", ErrInvalidLine)
	}
	return Line{ProductID: productID, ProductName: productName, Quantity: quantity, UnitPrice: unitPrice}, nil
}

func (l Line) Subtotal() float64 { return float64(l.Quantity) * l.UnitPrice }

type Order struct {
	ID      string
	BuyerID string
	UMKMID  string
	Lines   []Line
	Status  Status
	// TotalAmount is fixed at construction and never recomputed.
	TotalAmount        float64
	PickupTime         *time.Time
	Notes              string
	CancelledAt        *time.Time
	CancellationReason string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// New builds an order in the placed state and runs the construction
// invariants: at least one line, strictly future pickup time if supplied,
// strictly positive total.
func New(buyerID, umkmID string, lines []Line, pickupTime *time.Time, notes string, now time.Time) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	if pickupTime != nil && !pickupTime.After(now) {
		return nil, ErrInvalidPickupTime
	}
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	if total <= 0 {
		// Only reachable if line invariants were bypassed.
		return nil, ErrNonPositiveTotal
	}
	o := &Order{
		ID:          uuid.NewString(),
		BuyerID:     buyerID,
		UMKMID:      umkmID,
		Lines:       lines,
		Status:      StatusPlaced,
		TotalAmount: total,
		PickupTime:  pickupTime,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return o, nil
}

func (o *Order) transition(to Status, now time.Time) error {
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	o.UpdatedAt = now
	return nil
}

func (o *Order) Confirm(now time.Time) error       { return o.transition(StatusConfirmed, now) }
func (o *Order) MarkPreparing(now time.Time) error { return o.transition(StatusPreparing, now) }
func (o *Order) MarkReady(now time.Time) error     { return o.transition(StatusReady, now) }
func (o *Order) Complete(now time.Time) error      { return o.transition(StatusCompleted, now) }

func (o *Order) CanCancel() bool { return CanTransition(o.Status, StatusCancelled) }

// Cancel records the cancellation moment and reason. Stock restoration is the
// workflow's job, not the aggregate's; cancelling only changes order state.
func (o *Order) Cancel(reason string, now time.Time) error {
	if err := o.transition(StatusCancelled, now); err != nil {
		return err
	}
	t := now
	o.CancelledAt = &t
	o.CancellationReason = reason
	return nil
}

// ApplyTrigger dispatches one of the seller-driven forward transitions.
// Cancellation is not reachable through here; it has its own path with
// authorization and stock restoration.
func (o *Order) ApplyTrigger(to Status, now time.Time) error {
	switch to {
	case StatusConfirmed:
		return o.Confirm(now)
	case StatusPreparing:
		return o.MarkPreparing(now)
	case StatusReady:
		return o.MarkReady(now)
	case StatusCompleted:
		return o.Complete(now)
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
}

// IsPreorder reports whether the order carries a still-future pickup time.
func (o *Order) IsPreorder(now time.Time) bool {
	return o.PickupTime != nil && o.PickupTime.After(now)
}

// UpdatePickupTime is only allowed before preparation starts.
func (o *Order) UpdatePickupTime(t time.Time, now time.Time) error {
	if o.Status != StatusPlaced && o.Status != StatusConfirmed {
		return fmt.Errorf("%w: cannot reschedule order in status %s", ErrInvalidTransition, o.Status)
	}
	if !t.After(now) {
		return ErrInvalidPickupTime
	}
	tt := t
	o.PickupTime = &tt
	o.UpdatedAt = now
	return nil
}

func (o *Order) Clone() *Order {
	cp := *o
	cp.Lines = append([]Line(nil), o.Lines...)
	if o.PickupTime != nil {
		t := *o.PickupTime
		cp.PickupTime = &t
	}
	if o.CancelledAt != nil {
		t := *o.CancelledAt
		cp.CancelledAt = &t
	}
	return &cp
}
