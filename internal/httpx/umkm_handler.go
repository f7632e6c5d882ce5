package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adityarama/pasarkampus/internal/marketplace"
	"github.com/adityarama/pasarkampus/internal/umkm"
)

type UMKMHandler struct {
	Service *marketplace.Service
}

type registerUMKMReq struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Location       string `json:"location"`
	Phone          string `json:"phone"`
	ImageURL       string `json:"image_url,omitempty"`
	OperatingHours string `json:"operating_hours,omitempty"`
}

type suspendReq struct {
	Reason string `json:"reason,omitempty"`
}

func (h *UMKMHandler) Register(r *chi.Mux) {
	r.Post("/umkm", h.register)
	r.Get("/umkm/{id}", h.get)
	r.Patch("/umkm/{id}", h.update)
	r.Post("/umkm/{id}/approve", h.approve)
	r.Post("/umkm/{id}/suspend", h.suspend)
	r.Post("/umkm/{id}/reactivate", h.reactivate)
	r.Post("/umkm/{id}/close", h.close)
}

func (h *UMKMHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerUMKMReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Service.RegisterUMKM(ctx, umkm.RegisterInput{
		OwnerID:        actor(r),
		Name:           req.Name,
		Description:    req.Description,
		Location:       req.Location,
		Phone:          req.Phone,
		ImageURL:       req.ImageURL,
		OperatingHours: req.OperatingHours,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *UMKMHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Service.GetUMKM(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UMKMHandler) update(w http.ResponseWriter, r *http.Request) {
	var req umkm.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Service.UpdateUMKM(ctx, chi.URLParam(r, "id"), actor(r), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UMKMHandler) approve(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, id string) (*umkm.UMKM, error) {
		return h.Service.ApproveUMKM(ctx, id)
	})
}

func (h *UMKMHandler) suspend(w http.ResponseWriter, r *http.Request) {
	var req suspendReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	h.mutate(w, r, func(ctx context.Context, id string) (*umkm.UMKM, error) {
		return h.Service.SuspendUMKM(ctx, id, req.Reason)
	})
}

func (h *UMKMHandler) reactivate(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, id string) (*umkm.UMKM, error) {
		return h.Service.ReactivateUMKM(ctx, id)
	})
}

func (h *UMKMHandler) close(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, id string) (*umkm.UMKM, error) {
		return h.Service.CloseUMKM(ctx, id)
	})
}

func (h *UMKMHandler) mutate(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (*umkm.UMKM, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := fn(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
