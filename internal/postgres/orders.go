package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adityarama/pasarkampus/internal/orders"
	"github.com/adityarama/pasarkampus/internal/store"
)

type OrderStore struct{ DB *pgxpool.Pool }

const orderCols = `id, buyer_id, umkm_id, status, total_amount, pickup_time,
	notes, cancelled_at, cancellation_reason, created_at, updated_at`

func scanOrder(row pgx.Row) (*orders.Order, error) {
	var o orders.Order
	err := row.Scan(&o.ID, &o.BuyerID, &o.UMKMID, &o.Status, &o.TotalAmount,
		&o.PickupTime, &o.Notes, &o.CancelledAt, &o.CancellationReason,
		&o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderStore) loadLines(ctx context.Context, o *orders.Order) error {
	rows, err := s.DB.Query(ctx, `
		SELECT product_id, product_name, qty, unit_price
		FROM order_lines WHERE order_id=$1 ORDER BY position`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var l orders.Line
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice); err != nil {
			return err
		}
		o.Lines = append(o.Lines, l)
	}
	return rows.Err()
}

func (s *OrderStore) Get(ctx context.Context, id string) (*orders.Order, error) {
	o, err := scanOrder(s.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	if err := s.loadLines(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Put upserts the order header and inserts its lines on first write. Lines
// are immutable snapshots; later writes only touch the header.
func (s *OrderStore) Put(ctx context.Context, o *orders.Order) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, buyer_id, umkm_id, status, total_amount, pickup_time,
		                   notes, cancelled_at, cancellation_reason, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			status=EXCLUDED.status, pickup_time=EXCLUDED.pickup_time,
			notes=EXCLUDED.notes, cancelled_at=EXCLUDED.cancelled_at,
			cancellation_reason=EXCLUDED.cancellation_reason,
			updated_at=EXCLUDED.updated_at`,
		o.ID, o.BuyerID, o.UMKMID, o.Status, o.TotalAmount, o.PickupTime,
		o.Notes, o.CancelledAt, o.CancellationReason, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return err
	}

	for i, l := range o.Lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_lines(order_id, position, product_id, product_name, qty, unit_price)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (order_id, position) DO NOTHING`,
			o.ID, i, l.ProductID, l.ProductName, l.Quantity, l.UnitPrice); err != nil {
			return fmt.Errorf("insert line %d: %w", i, err)
		}
	}
	return tx.Commit(ctx)
}

func (s *OrderStore) listBy(ctx context.Context, col, val string) ([]*orders.Order, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT `+orderCols+` FROM orders WHERE `+col+`=$1 ORDER BY created_at DESC`, val)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*orders.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range out {
		if err := s.loadLines(ctx, o); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *OrderStore) ListByBuyer(ctx context.Context, buyerID string) ([]*orders.Order, error) {
	return s.listBy(ctx, "buyer_id", buyerID)
}

func (s *OrderStore) ListByUMKM(ctx context.Context, umkmID string) ([]*orders.Order, error) {
	return s.listBy(ctx, "umkm_id", umkmID)
}
