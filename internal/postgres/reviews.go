package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adityarama/pasarkampus/internal/review"
	"github.com/adityarama/pasarkampus/internal/store"
)

type ReviewStore struct{ DB *pgxpool.Pool }

const reviewCols = `id, user_id, umkm_id, order_id, rating, comment,
	is_visible, is_flagged, created_at, updated_at`

func scanReview(row pgx.Row) (*review.Review, error) {
	var r review.Review
	err := row.Scan(&r.ID, &r.UserID, &r.UMKMID, &r.OrderID, &r.Rating, &r.Comment,
		&r.IsVisible, &r.IsFlagged, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *ReviewStore) Get(ctx context.Context, id string) (*review.Review, error) {
	return scanReview(s.DB.QueryRow(ctx, `SELECT `+reviewCols+` FROM reviews WHERE id=$1`, id))
}

func (s *ReviewStore) Put(ctx context.Context, r *review.Review) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO reviews(id, user_id, umkm_id, order_id, rating, comment,
		                    is_visible, is_flagged, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			rating=EXCLUDED.rating, comment=EXCLUDED.comment,
			is_visible=EXCLUDED.is_visible, is_flagged=EXCLUDED.is_flagged,
			updated_at=EXCLUDED.updated_at`,
		r.ID, r.UserID, r.UMKMID, r.OrderID, r.Rating, r.Comment,
		r.IsVisible, r.IsFlagged, r.CreatedAt, r.UpdatedAt)
	return err
}

func (s *ReviewStore) ListByUMKM(ctx context.Context, umkmID string, visibleOnly bool) ([]*review.Review, error) {
	q := `SELECT ` + reviewCols + ` FROM reviews WHERE umkm_id=$1`
	if visibleOnly {
		q += ` AND is_visible`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := s.DB.Query(ctx, q, umkmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*review.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
