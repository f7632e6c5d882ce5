package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adityarama/pasarkampus/internal/promo"
	"github.com/adityarama/pasarkampus/internal/store"
)

type PromoStore struct{ DB *pgxpool.Pool }

const promoCols = `id, umkm_id, title, description, promo_type, discount_value,
	valid_from, valid_until, code, min_purchase, max_discount, usage_limit,
	usage_count, is_active, created_at, updated_at`

func scanPromo(row pgx.Row) (*promo.Promo, error) {
	var p promo.Promo
	err := row.Scan(&p.ID, &p.UMKMID, &p.Title, &p.Description, &p.Type, &p.DiscountValue,
		&p.ValidFrom, &p.ValidUntil, &p.Code, &p.MinPurchase, &p.MaxDiscount,
		&p.UsageLimit, &p.UsageCount, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PromoStore) Get(ctx context.Context, id string) (*promo.Promo, error) {
	return scanPromo(s.DB.QueryRow(ctx, `SELECT `+promoCols+` FROM promos WHERE id=$1`, id))
}

func (s *PromoStore) Put(ctx context.Context, p *promo.Promo) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO promos(id, umkm_id, title, description, promo_type, discount_value,
		                   valid_from, valid_until, code, min_purchase, max_discount,
		                   usage_limit, usage_count, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		ON CONFLICT (id) DO UPDATE SET
			title=EXCLUDED.title, description=EXCLUDED.description,
			promo_type=EXCLUDED.promo_type, discount_value=EXCLUDED.discount_value,
			valid_from=EXCLUDED.valid_from, valid_until=EXCLUDED.valid_until,
			code=EXCLUDED.code, min_purchase=EXCLUDED.min_purchase,
			max_discount=EXCLUDED.max_discount, usage_limit=EXCLUDED.usage_limit,
			usage_count=EXCLUDED.usage_count, is_active=EXCLUDED.is_active,
			updated_at=EXCLUDED.updated_at`,
		p.ID, p.UMKMID, p.Title, p.Description, p.Type, p.DiscountValue,
		p.ValidFrom, p.ValidUntil, p.Code, p.MinPurchase, p.MaxDiscount,
		p.UsageLimit, p.UsageCount, p.IsActive, p.CreatedAt, p.UpdatedAt)
	return err
}

func (s *PromoStore) ListByUMKM(ctx context.Context, umkmID string) ([]*promo.Promo, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT `+promoCols+` FROM promos WHERE umkm_id=$1 ORDER BY valid_from DESC`, umkmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*promo.Promo
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
