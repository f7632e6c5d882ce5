// Package postgres implements the marketplace store interfaces on pgx.
//
// Expected tables: products, umkm, orders, order_lines, promos, reviews.
// Products carry a version column used for optimistic concurrency control on
// stock writes.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adityarama/pasarkampus/internal/catalog"
	"github.com/adityarama/pasarkampus/internal/store"
)

type ProductStore struct{ DB *pgxpool.Pool }

const productCols = `id, umkm_id, name, description, price, category, image_url,
	stock_qty, is_available, preorder_required, min_preorder_hours, version,
	created_at, updated_at`

func scanProduct(row pgx.Row) (*catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(&p.ID, &p.UMKMID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.ImageURL, &p.StockQuantity, &p.IsAvailable, &p.PreorderRequired,
		&p.MinPreorderHours, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductStore) Get(ctx context.Context, id string) (*catalog.Product, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id)
	return scanProduct(row)
}

// Put inserts a new product (Version 0) or updates an existing row guarded by
// the version column. A write that matches no row lost the race and returns
// ErrVersionConflict.
func (s *ProductStore) Put(ctx context.Context, p *catalog.Product) error {
	if p.Version == 0 {
		ct, err := s.DB.Exec(ctx, `
			INSERT INTO products(id, umkm_id, name, description, price, category, image_url,
			                     stock_qty, is_available, preorder_required, min_preorder_hours,
			                     version, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,1,$12,$13)
			ON CONFLICT (id) DO NOTHING`,
			p.ID, p.UMKMID, p.Name, p.Description, p.Price, p.Category, p.ImageURL,
			p.StockQuantity, p.IsAvailable, p.PreorderRequired, p.MinPreorderHours,
			p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return err
		}
		if ct.RowsAffected() != 1 {
			return store.ErrVersionConflict
		}
		p.Version = 1
		return nil
	}

	ct, err := s.DB.Exec(ctx, `
		UPDATE products
		SET name=$2, description=$3, price=$4, category=$5, image_url=$6,
		    stock_qty=$7, is_available=$8, preorder_required=$9, min_preorder_hours=$10,
		    version=version+1, updated_at=$11
		WHERE id=$1 AND version=$12`,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.ImageURL,
		p.StockQuantity, p.IsAvailable, p.PreorderRequired, p.MinPreorderHours,
		p.UpdatedAt, p.Version)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return store.ErrVersionConflict
	}
	p.Version++
	return nil
}

func (s *ProductStore) ListByUMKM(ctx context.Context, umkmID string) ([]*catalog.Product, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+productCols+` FROM products WHERE umkm_id=$1 ORDER BY name`, umkmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
