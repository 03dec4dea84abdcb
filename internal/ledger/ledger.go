// internal/ledger/ledger.go
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/coldfront-analytics/dryice-backend/internal/domain"
	"github.com/google/uuid"
)

// ThresholdSource supplies the live safety stock and reorder point. The
// ledger never caches these values; every consume and every status call
// re-evaluates them against the current policy.
type ThresholdSource interface {
	Thresholds() (safetyStock, reorderPoint float64, err error)
}

// ThresholdFunc adapts a plain function to a ThresholdSource.
type ThresholdFunc func() (float64, float64, error)

func (f ThresholdFunc) Thresholds() (float64, float64, error) { return f() }

// Option configures a Ledger.
type Option func(*Ledger)

// WithMaxHistory bounds the in-memory transaction log. Entries evicted from
// the head are handed to the overflow handler, if any.
func WithMaxHistory(n int) Option {
	return func(l *Ledger) { l.maxHistory = n }
}

// WithOverflowHandler receives evicted transactions, oldest first. The
// handler runs while the ledger lock is held and must not call back into
// the ledger.
func WithOverflowHandler(fn func([]domain.Transaction)) Option {
	return func(l *Ledger) { l.overflow = fn }
}

// Ledger tracks the running dry ice stock balance with an append-only
// transaction log. The balance may go negative transiently; stockouts are
// surfaced as alerts, not errors. All mutations are serialized behind a
// mutex so the ledger is safe for concurrent HTTP callers.
type Ledger struct {
	mu         sync.Mutex
	current    float64
	history    []domain.Transaction
	thresholds ThresholdSource
	maxHistory int
	overflow   func([]domain.Transaction)
}

func New(initialStock float64, thresholds ThresholdSource, opts ...Option) *Ledger {
	l := &Ledger{
		current:    initialStock,
		thresholds: thresholds,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Consume deducts quantity from stock, logs the transaction, and re-checks
// the reorder condition. It returns an alert record when the balance has
// fallen to or below the reorder point, nil otherwise.
func (l *Ledger) Consume(quantity float64, reason string) (*domain.Alert, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current -= quantity
	l.appendLocked(quantity, domain.TxConsumption, reason)

	safety, reorder, err := l.thresholds.Thresholds()
	if err != nil {
		return nil, fmt.Errorf("ledger: reorder check failed: %w", err)
	}

	if l.current > reorder {
		return nil, nil
	}

	alertType := domain.AlertReorderDue
	priority := domain.PriorityMedium
	if l.current <= safety {
		alertType = domain.AlertLowStock
		priority = domain.PriorityHigh
	}

	return &domain.Alert{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Type:      alertType,
		Message:   fmt.Sprintf("REORDER REQUIRED - Current stock: %.1f kg", l.current),
		Priority:  priority,
		Status:    domain.AlertPending,
	}, nil
}

// Receive adds quantity to stock and logs the transaction. Receiving stock
// never triggers an alert; the asymmetry with Consume is intentional.
func (l *Ledger) Receive(quantity float64, reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current += quantity
	l.appendLocked(quantity, domain.TxReceipt, reason)
}

// Status classifies the current balance against the live thresholds.
// The classification is derived, never stored.
func (l *Ledger) Status() (domain.StockState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	safety, reorder, err := l.thresholds.Thresholds()
	if err != nil {
		return domain.StockState{}, fmt.Errorf("ledger: status unavailable: %w", err)
	}

	status := domain.StockNormal
	switch {
	case l.current <= safety:
		status = domain.StockCritical
	case l.current <= reorder:
		status = domain.StockLow
	}

	return domain.StockState{
		CurrentStock: l.current,
		Status:       status,
		SafetyStock:  safety,
		ReorderPoint: reorder,
	}, nil
}

// History returns a copy of the ordered transaction log.
func (l *Ledger) History() []domain.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.Transaction, len(l.history))
	copy(out, l.history)
	return out
}

// CurrentStock returns the running balance.
func (l *Ledger) CurrentStock() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

func (l *Ledger) appendLocked(quantity float64, txType domain.TransactionType, reason string) {
	l.history = append(l.history, domain.Transaction{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Quantity:  quantity,
		Type:      txType,
		Balance:   l.current,
		Reason:    reason,
	})

	if l.maxHistory <= 0 || len(l.history) <= l.maxHistory {
		return
	}

	evicted := make([]domain.Transaction, len(l.history)-l.maxHistory)
	copy(evicted, l.history[:len(evicted)])
	l.history = append(l.history[:0], l.history[len(evicted):]...)

	if l.overflow != nil {
		l.overflow(evicted)
	}
}
