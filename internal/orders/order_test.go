package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func testLines(t *testing.T) []Line {
	t.Helper()
	l1, err := NewLine("prod-1", "Nasi Goreng", 2, 15000)
	require.NoError(t, err)
	l2, err := NewLine("prod-2", "Es Teh", 3, 5000)
	require.NoError(t, err)
	return []Line{l1, l2}
}

func TestNewLine_Validation(t *testing.T) {
	_, err := NewLine("p", "x", 0, 100)
	assert.ErrorIs(t, err, ErrInvalidLine)
	_, err = NewLine("p", "x", -1, 100)
	assert.ErrorIs(t, err, ErrInvalidLine)
	_, err = NewLine("p", "x", 1, 0)
	assert.ErrorIs(t, err, ErrInvalidLine)
}

func TestNew_TotalComputedOnce(t *testing.T) {
	o, err := New("buyer-1", "umkm-1", testLines(t), nil, "", t0)
	require.NoError(t, err)
	assert.Equal(t, 2*15000.0+3*5000.0, o.TotalAmount)
	assert.Equal(t, StatusPlaced, o.Status)

	// transitions never recompute the total
	require.NoError(t, o.Confirm(t0))
	o.Lines[0].Quantity = 99
	require.NoError(t, o.MarkPreparing(t0))
	assert.Equal(t, 45000.0, o.TotalAmount)
}

func TestNew_Invariants(t *testing.T) {
	_, err := New("b", "u", nil, nil, "", t0)
	assert.ErrorIs(t, err, ErrEmptyOrder)

	past := t0.Add(-time.Hour)
	_, err = New("b", "u", testLines(t), &past, "", t0)
	assert.ErrorIs(t, err, ErrInvalidPickupTime)

	// pickup exactly "now" is not strictly in the future
	now := t0
	_, err = New("b", "u", testLines(t), &now, "", t0)
	assert.ErrorIs(t, err, ErrInvalidPickupTime)

	future := t0.Add(2 * time.Hour)
	o, err := New("b", "u", testLines(t), &future, "tanpa sambal", t0)
	require.NoError(t, err)
	assert.True(t, o.IsPreorder(t0))
	assert.Equal(t, "tanpa sambal", o.Notes)
}

func TestNew_NonPositiveTotal(t *testing.T) {
	// bypass line constructor to hit the defensive total check
	_, err := New("b", "u", []Line{{ProductID: "p", Quantity: 1, UnitPrice: -5}}, nil, "", t0)
	assert.ErrorIs(t, err, ErrNonPositiveTotal)
}

func orderInStatus(t *testing.T, s Status) *Order {
	t.Helper()
	o, err := New("buyer-1", "umkm-1", testLines(t), nil, "", t0)
	require.NoError(t, err)
	o.Status = s
	return o
}

func TestTransitionTable(t *testing.T) {
	all := []Status{StatusPlaced, StatusConfirmed, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled}
	triggers := []struct {
		name string
		to   Status
		fire func(*Order) error
	}{
		{"confirm", StatusConfirmed, func(o *Order) error { return o.Confirm(t0) }},
		{"markPreparing", StatusPreparing, func(o *Order) error { return o.MarkPreparing(t0) }},
		{"markReady", StatusReady, func(o *Order) error { return o.MarkReady(t0) }},
		{"complete", StatusCompleted, func(o *Order) error { return o.Complete(t0) }},
		{"cancel", StatusCancelled, func(o *Order) error { return o.Cancel("", t0) }},
	}

	for _, from := range all {
		for _, tr := range triggers {
			t.Run(string(from)+"_"+tr.name, func(t *testing.T) {
				o := orderInStatus(t, from)
				err := tr.fire(o)
				if validNext[from][tr.to] {
					require.NoError(t, err)
					assert.Equal(t, tr.to, o.Status)
				} else {
					assert.ErrorIs(t, err, ErrInvalidTransition)
					assert.Contains(t, err.Error(), string(from))
					assert.Equal(t, from, o.Status, "failed trigger must not change state")
				}
			})
		}
	}
}

func TestCancel_RecordsReasonAndTime(t *testing.T) {
	o := orderInStatus(t, StatusPreparing)
	now := t0.Add(30 * time.Minute)
	require.NoError(t, o.Cancel("buyer changed mind", now))
	assert.Equal(t, StatusCancelled, o.Status)
	require.NotNil(t, o.CancelledAt)
	assert.Equal(t, now, *o.CancelledAt)
	assert.Equal(t, "buyer changed mind", o.CancellationReason)
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPlaced.IsTerminal())

	o := orderInStatus(t, StatusCompleted)
	assert.False(t, o.CanCancel())
	assert.ErrorIs(t, o.Cancel("too late", t0), ErrInvalidTransition)
}

func TestApplyTrigger(t *testing.T) {
	o := orderInStatus(t, StatusPlaced)
	require.NoError(t, o.ApplyTrigger(StatusConfirmed, t0))
	assert.Equal(t, StatusConfirmed, o.Status)

	// cancellation is not dispatched through ApplyTrigger
	assert.ErrorIs(t, o.ApplyTrigger(StatusCancelled, t0), ErrInvalidTransition)
	assert.ErrorIs(t, o.ApplyTrigger(StatusPlaced, t0), ErrInvalidTransition)
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("preparing")
	require.True(t, ok)
	assert.Equal(t, StatusPreparing, s)

	_, ok = ParseStatus("PREPARING")
	assert.False(t, ok)
	_, ok = ParseStatus("shipped")
	assert.False(t, ok)
}

func TestUpdatePickupTime(t *testing.T) {
	o := orderInStatus(t, StatusConfirmed)
	future := t0.Add(4 * time.Hour)
	require.NoError(t, o.UpdatePickupTime(future, t0))
	assert.Equal(t, future, *o.PickupTime)

	assert.ErrorIs(t, o.UpdatePickupTime(t0.Add(-time.Hour), t0), ErrInvalidPickupTime)

	o.Status = StatusPreparing
	assert.ErrorIs(t, o.UpdatePickupTime(future, t0), ErrInvalidTransition)
}
