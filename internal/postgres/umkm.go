package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adityarama/pasarkampus/internal/store"
	"github.com/adityarama/pasarkampus/internal/umkm"
)

type UMKMStore struct{ DB *pgxpool.Pool }

const umkmCols = `id, owner_id, name, description, location, phone, status,
	image_url, operating_hours, rating_average, rating_count, suspend_reason,
	created_at, updated_at`

func scanUMKM(row pgx.Row) (*umkm.UMKM, error) {
	var u umkm.UMKM
	err := row.Scan(&u.ID, &u.OwnerID, &u.Name, &u.Description, &u.Location, &u.Phone,
		&u.Status, &u.ImageURL, &u.OperatingHours, &u.RatingAverage, &u.RatingCount,
		&u.SuspendReason, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UMKMStore) Get(ctx context.Context, id string) (*umkm.UMKM, error) {
	return scanUMKM(s.DB.QueryRow(ctx, `SELECT `+umkmCols+` FROM umkm WHERE id=$1`, id))
}

func (s *UMKMStore) GetByOwner(ctx context.Context, ownerID string) (*umkm.UMKM, error) {
	return scanUMKM(s.DB.QueryRow(ctx, `SELECT `+umkmCols+` FROM umkm WHERE owner_id=$1`, ownerID))
}

func (s *UMKMStore) Put(ctx context.Context, u *umkm.UMKM) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO umkm(id, owner_id, name, description, location, phone, status,
		                 image_url, operating_hours, rating_average, rating_count,
		                 suspend_reason, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name, description=EXCLUDED.description,
			location=EXCLUDED.location, phone=EXCLUDED.phone, status=EXCLUDED.status,
			image_url=EXCLUDED.image_url, operating_hours=EXCLUDED.operating_hours,
			rating_average=EXCLUDED.rating_average, rating_count=EXCLUDED.rating_count,
			suspend_reason=EXCLUDED.suspend_reason, updated_at=EXCLUDED.updated_at`,
		u.ID, u.OwnerID, u.Name, u.Description, u.Location, u.Phone, u.Status,
		u.ImageURL, u.OperatingHours, u.RatingAverage, u.RatingCount,
		u.SuspendReason, u.CreatedAt, u.UpdatedAt)
	return err
}
