package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adityarama/pasarkampus/internal/catalog"
	"github.com/adityarama/pasarkampus/internal/marketplace"
	"github.com/adityarama/pasarkampus/internal/orders"
	"github.com/adityarama/pasarkampus/internal/promo"
	"github.com/adityarama/pasarkampus/internal/review"
	"github.com/adityarama/pasarkampus/internal/store"
	"github.com/adityarama/pasarkampus/internal/umkm"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinel errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, marketplace.ErrUnauthorized):
		code = http.StatusForbidden
	case errors.Is(err, marketplace.ErrUMKMNotAccepting),
		errors.Is(err, marketplace.ErrProductUnavailable),
		errors.Is(err, catalog.ErrInsufficientStock),
		errors.Is(err, orders.ErrInvalidTransition),
		errors.Is(err, umkm.ErrInvalidTransition),
		errors.Is(err, promo.ErrUsageLimitReached),
		errors.Is(err, store.ErrVersionConflict):
		code = http.StatusConflict
	case errors.Is(err, marketplace.ErrProductMismatch),
		errors.Is(err, orders.ErrEmptyOrder),
		errors.Is(err, orders.ErrInvalidLine),
		errors.Is(err, orders.ErrInvalidPickupTime),
		errors.Is(err, orders.ErrNonPositiveTotal),
		errors.Is(err, catalog.ErrInvalidProduct),
		errors.Is(err, umkm.ErrInvalidUMKM),
		errors.Is(err, umkm.ErrInvalidRating),
		errors.Is(err, promo.ErrInvalidPromo),
		errors.Is(err, review.ErrInvalidReview):
		code = http.StatusBadRequest
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// actor pulls the authenticated user id injected by the edge proxy.
// Token verification happens upstream; this service only needs the identity.
func actor(r *http.Request) string { return r.Header.Get("X-User-Id") }
