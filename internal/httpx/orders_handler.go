package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/adityarama/pasarkampus/internal/marketplace"
	"github.com/adityarama/pasarkampus/internal/orders"
	"github.com/adityarama/pasarkampus/internal/redisx"
)

type OrdersHandler struct {
	Service *marketplace.Service
	Redis   *redis.Client
}

type orderLineReq struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type createOrderReq struct {
	ExternalID string         `json:"external_id"`
	UMKMID     string         `json:"umkm_id"`
	Lines      []orderLineReq `json:"lines"`
	PickupTime *time.Time     `json:"pickup_time,omitempty"`
	Notes      string         `json:"notes,omitempty"`
}

type cancelOrderReq struct {
	Reason string `json:"reason,omitempty"`
}

type updateStatusReq struct {
	Status string `json:"status"`
}

type pickupTimeReq struct {
	PickupTime time.Time `json:"pickup_time"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Post("/orders/{id}/cancel", h.cancelOrder)
	r.Post("/orders/{id}/confirm", h.confirmOrder)
	r.Post("/orders/{id}/status", h.updateStatus)
	r.Post("/orders/{id}/pickup-time", h.updatePickupTime)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	buyerID := actor(r)
	if buyerID == "" || req.UMKMID == "" || len(req.Lines) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Fast-path idempotency: a repeated external_id returns the first order.
	var idemKey string
	if req.ExternalID != "" && h.Redis != nil {
		idemKey = fmt.Sprintf(redisx.KeyIdemOrderCreate, req.ExternalID)
		if orderID, err := h.Redis.Get(ctx, idemKey).Result(); err == nil && orderID != "" {
			if o, err := h.Service.GetOrder(ctx, orderID); err == nil {
				writeJSON(w, http.StatusOK, o)
				return
			}
		}
	}

	lines := make([]marketplace.LineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, marketplace.LineInput{ProductID: l.ProductID, Quantity: l.Qty})
	}

	o, err := h.Service.CreateOrder(ctx, marketplace.CreateOrderInput{
		BuyerID:    buyerID,
		UMKMID:     req.UMKMID,
		Lines:      lines,
		PickupTime: req.PickupTime,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if idemKey != "" {
		_ = h.Redis.Set(ctx, idemKey, o.ID, redisx.TTLIdempotency).Err()
	}
	h.cacheStatus(ctx, o)

	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Service.GetOrder(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var (
		out []*orders.Order
		err error
	)
	switch {
	case r.URL.Query().Get("buyer_id") != "":
		out, err = h.Service.ListBuyerOrders(ctx, r.URL.Query().Get("buyer_id"))
	case r.URL.Query().Get("umkm_id") != "":
		out, err = h.Service.ListUMKMOrders(ctx, r.URL.Query().Get("umkm_id"))
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "buyer_id or umkm_id required"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	var req cancelOrderReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Service.CancelOrder(ctx, chi.URLParam(r, "id"), actor(r), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheStatus(ctx, o)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) confirmOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Service.ConfirmOrder(ctx, chi.URLParam(r, "id"), actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheStatus(ctx, o)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	st, ok := orders.ParseStatus(req.Status)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown status"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Service.UpdateOrderStatus(ctx, chi.URLParam(r, "id"), actor(r), st)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheStatus(ctx, o)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) updatePickupTime(w http.ResponseWriter, r *http.Request) {
	var req pickupTimeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Service.UpdatePickupTime(ctx, chi.URLParam(r, "id"), actor(r), req.PickupTime)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) cacheStatus(ctx context.Context, o *orders.Order) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	body, _ := json.Marshal(map[string]any{"status": o.Status, "updated_at": o.UpdatedAt})
	_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
}
