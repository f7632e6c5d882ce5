package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adityarama/pasarkampus/internal/catalog"
	"github.com/adityarama/pasarkampus/internal/marketplace"
)

type ProductsHandler struct {
	Service *marketplace.Service
}

type createProductReq struct {
	UMKMID           string  `json:"umkm_id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Price            float64 `json:"price"`
	Category         string  `json:"category"`
	ImageURL         string  `json:"image_url,omitempty"`
	StockQty         *int    `json:"stock_qty,omitempty"` // null = unlimited
	PreorderRequired bool    `json:"preorder_required,omitempty"`
	MinPreorderHours int     `json:"min_preorder_hours,omitempty"`
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Post("/products", h.create)
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.get)
	r.Post("/products/{id}/price", h.setPrice)
	r.Post("/products/{id}/stock", h.setStock)
	r.Post("/products/{id}/availability", h.setAvailability)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Service.CreateProduct(ctx, actor(r), catalog.NewProductInput{
		UMKMID:           req.UMKMID,
		Name:             req.Name,
		Description:      req.Description,
		Price:            req.Price,
		Category:         catalog.Category(req.Category),
		ImageURL:         req.ImageURL,
		StockQuantity:    req.StockQty,
		PreorderRequired: req.PreorderRequired,
		MinPreorderHours: req.MinPreorderHours,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	umkmID := r.URL.Query().Get("umkm_id")
	if umkmID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "umkm_id required"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Service.ListUMKMProducts(ctx, umkmID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Service.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) setPrice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Service.UpdateProductPrice(ctx, chi.URLParam(r, "id"), actor(r), req.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) setStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StockQty *int `json:"stock_qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Service.SetProductStock(ctx, chi.URLParam(r, "id"), actor(r), req.StockQty)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) setAvailability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Available bool `json:"available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Service.SetProductAvailability(ctx, chi.URLParam(r, "id"), actor(r), req.Available)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
