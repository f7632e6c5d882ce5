package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adityarama/pasarkampus/internal/marketplace"
	"github.com/adityarama/pasarkampus/internal/review"
)

type ReviewsHandler struct {
	Service *marketplace.Service
}

type createReviewReq struct {
	UMKMID  string `json:"umkm_id"`
	OrderID string `json:"order_id,omitempty"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type updateReviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ReviewsHandler) Register(r *chi.Mux) {
	r.Post("/reviews", h.create)
	r.Get("/reviews", h.list)
	r.Patch("/reviews/{id}", h.update)
	r.Post("/reviews/{id}/flag", h.moderate(func(ctx context.Context, s *marketplace.Service, id string) (*review.Review, error) {
		return s.FlagReview(ctx, id)
	}))
	r.Post("/reviews/{id}/hide", h.moderate(func(ctx context.Context, s *marketplace.Service, id string) (*review.Review, error) {
		return s.HideReview(ctx, id)
	}))
	r.Post("/reviews/{id}/show", h.moderate(func(ctx context.Context, s *marketplace.Service, id string) (*review.Review, error) {
		return s.ShowReview(ctx, id)
	}))
}

func (h *ReviewsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createReviewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rv, err := h.Service.CreateReview(ctx, marketplace.CreateReviewInput{
		UserID:  actor(r),
		UMKMID:  req.UMKMID,
		OrderID: req.OrderID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

func (h *ReviewsHandler) list(w http.ResponseWriter, r *http.Request) {
	umkmID := r.URL.Query().Get("umkm_id")
	if umkmID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "umkm_id required"})
		return
	}
	visibleOnly := r.URL.Query().Get("include_hidden") != "true"

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rs, err := h.Service.ListUMKMReviews(ctx, umkmID, visibleOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

func (h *ReviewsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateReviewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rv, err := h.Service.UpdateReview(ctx, chi.URLParam(r, "id"), actor(r), req.Rating, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

func (h *ReviewsHandler) moderate(fn func(context.Context, *marketplace.Service, string) (*review.Review, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		rv, err := fn(ctx, h.Service, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rv)
	}
}
