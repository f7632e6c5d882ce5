package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventOrderCancelled     = "OrderCancelled"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload per event ----

type LinePayload struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Qty         int     `json:"qty"`
	UnitPrice   float64 `json:"unit_price"`
}

type OrderPlacedPayload struct {
	OrderID     string        `json:"order_id"`
	BuyerID     string        `json:"buyer_id"`
	UMKMID      string        `json:"umkm_id"`
	Lines       []LinePayload `json:"lines"`
	TotalAmount float64       `json:"total_amount"`
	PickupTime  *time.Time    `json:"pickup_time,omitempty"`
}

type OrderStatusChangedPayload struct {
	OrderID string `json:"order_id"`
	UMKMID  string `json:"umkm_id"`
	BuyerID string `json:"buyer_id"`
	From    Status `json:"from"`
	To      Status `json:"to"`
}

type OrderCancelledPayload struct {
	OrderID string `json:"order_id"`
	UMKMID  string `json:"umkm_id"`
	BuyerID string `json:"buyer_id"`
	Reason  string `json:"reason,omitempty"`
	// Lines whose stock was restored, for downstream reconciliation.
	Lines []LinePayload `json:"lines"`
}

func LinePayloads(lines []Line) []LinePayload {
	out := make([]LinePayload, 0, len(lines))
	for _, l := range lines {
		out = append(out, LinePayload{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Qty:         l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	return out
}
