// internal/repository/postgres/order_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/coldfront-analytics/dryice-backend/internal/domain"
)

// OrderRepository archives historical orders and evicted ledger entries.
//
// Schema:
//
//	CREATE TABLE orders (
//	    id BIGSERIAL PRIMARY KEY,
//	    order_date DATE NOT NULL,
//	    quantity_kg DOUBLE PRECISION NOT NULL,
//	    containers_used DOUBLE PRECISION NOT NULL,
//	    effective_quantity DOUBLE PRECISION NOT NULL,
//	    total_cost DOUBLE PRECISION NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//	CREATE TABLE stock_transactions (
//	    id UUID PRIMARY KEY,
//	    ts TIMESTAMPTZ NOT NULL,
//	    quantity DOUBLE PRECISION NOT NULL,
//	    tx_type TEXT NOT NULL,
//	    balance DOUBLE PRECISION NOT NULL,
//	    reason TEXT NOT NULL DEFAULT ''
//	);
type OrderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// InsertOrders archives a batch of orders in one transaction and returns the
// number of rows written.
func (r *OrderRepository) InsertOrders(ctx context.Context, orders []domain.Order) (int, error) {
	if len(orders) == 0 {
		return 0, nil
	}

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO orders (order_date, quantity_kg, containers_used, effective_quantity, total_cost)
			VALUES ($1, $2, $3, $4, $5)`)
		if err != nil {
			return fmt.Errorf("prepare order insert: %w", err)
		}
		defer stmt.Close()

		for _, o := range orders {
			if _, err := stmt.ExecContext(ctx, o.Date, o.QuantityKg, o.ContainersUsed,
				o.EffectiveQuantity, o.TotalCost); err != nil {
				return fmt.Errorf("insert order on %s: %w", o.Date.Format("2006-01-02"), err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(orders), nil
}

// GetOrders fetches the archived orders inside [start, end], date-ordered.
func (r *OrderRepository) GetOrders(ctx context.Context, start, end time.Time) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.SelectContext(ctx, &orders, `
		SELECT order_date, quantity_kg, containers_used, effective_quantity, total_cost
		FROM orders
		WHERE order_date BETWEEN $1 AND $2
		ORDER BY order_date`, start, end)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	return orders, nil
}

// CountOrders reports the archive size.
func (r *OrderRepository) CountOrders(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders`); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

// ArchiveTransactions persists ledger entries evicted from the bounded
// in-memory log.
func (r *OrderRepository) ArchiveTransactions(ctx context.Context, txs []domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO stock_transactions (id, ts, quantity, tx_type, balance, reason)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING`)
		if err != nil {
			return fmt.Errorf("prepare transaction insert: %w", err)
		}
		defer stmt.Close()

		for _, t := range txs {
			if _, err := stmt.ExecContext(ctx, t.ID, t.Timestamp, t.Quantity,
				string(t.Type), t.Balance, t.Reason); err != nil {
				return fmt.Errorf("archive transaction %s: %w", t.ID, err)
			}
		}
		return nil
	})
}
