package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adityarama/pasarkampus/internal/marketplace"
	"github.com/adityarama/pasarkampus/internal/promo"
)

type PromosHandler struct {
	Service *marketplace.Service
}

type createPromoReq struct {
	UMKMID        string    `json:"umkm_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Type          string    `json:"type"`
	DiscountValue float64   `json:"discount_value"`
	ValidFrom     time.Time `json:"valid_from"`
	ValidUntil    time.Time `json:"valid_until"`
	Code          string    `json:"code,omitempty"`
	MinPurchase   *float64  `json:"min_purchase,omitempty"`
	MaxDiscount   *float64  `json:"max_discount,omitempty"`
	UsageLimit    *int      `json:"usage_limit,omitempty"`
}

type discountReq struct {
	OrderAmount float64 `json:"order_amount"`
}

type discountResp struct {
	Discount float64 `json:"discount"`
}

func (h *PromosHandler) Register(r *chi.Mux) {
	r.Post("/promos", h.create)
	r.Get("/promos", h.list)
	r.Post("/promos/{id}/preview", h.preview)
	r.Post("/promos/{id}/apply", h.apply)
	r.Post("/promos/{id}/activate", h.setActive(true))
	r.Post("/promos/{id}/deactivate", h.setActive(false))
}

func (h *PromosHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createPromoReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Service.CreatePromo(ctx, actor(r), promo.NewPromoInput{
		UMKMID:        req.UMKMID,
		Title:         req.Title,
		Description:   req.Description,
		Type:          promo.Type(req.Type),
		DiscountValue: req.DiscountValue,
		ValidFrom:     req.ValidFrom,
		ValidUntil:    req.ValidUntil,
		Code:          req.Code,
		MinPurchase:   req.MinPurchase,
		MaxDiscount:   req.MaxDiscount,
		UsageLimit:    req.UsageLimit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PromosHandler) list(w http.ResponseWriter, r *http.Request) {
	umkmID := r.URL.Query().Get("umkm_id")
	if umkmID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "umkm_id required"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Service.ListUMKMPromos(ctx, umkmID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *PromosHandler) preview(w http.ResponseWriter, r *http.Request) {
	h.discount(w, r, h.Service.CalculateDiscount)
}

func (h *PromosHandler) apply(w http.ResponseWriter, r *http.Request) {
	h.discount(w, r, h.Service.ApplyPromo)
}

func (h *PromosHandler) discount(w http.ResponseWriter, r *http.Request, fn func(context.Context, string, float64) (float64, error)) {
	var req discountReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	d, err := fn(ctx, chi.URLParam(r, "id"), req.OrderAmount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, discountResp{Discount: d})
}

func (h *PromosHandler) setActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		p, err := h.Service.SetPromoActive(ctx, chi.URLParam(r, "id"), actor(r), active)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}
