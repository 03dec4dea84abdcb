// internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/coldfront-analytics/dryice-backend/internal/domain"
)

// OrderRepository is the durable archive of historical orders. It backs the
// ingest endpoint and serves as an alternate dataset source to the CSV file.
type OrderRepository interface {
	InsertOrders(ctx context.Context, orders []domain.Order) (int, error)
	GetOrders(ctx context.Context, start, end time.Time) ([]domain.Order, error)
	CountOrders(ctx context.Context) (int, error)
}

// TransactionArchive receives ledger entries evicted from the bounded
// in-memory log so the full transaction history stays queryable.
type TransactionArchive interface {
	ArchiveTransactions(ctx context.Context, txs []domain.Transaction) error
}
