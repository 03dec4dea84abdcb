package ledger

import (
	"testing"

	"github.com/coldfront-analytics/dryice-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedThresholds(safety, reorder float64) ThresholdSource {
	return ThresholdFunc(func() (float64, float64, error) {
		return safety, reorder, nil
	})
}

func TestConsumeAndReceiveRoundTrip(t *testing.T) {
	l := New(2000, fixedThresholds(200, 1000))

	alert, err := l.Consume(300, "delivery route A")
	require.NoError(t, err)
	assert.Nil(t, alert)
	assert.InDelta(t, 1700, l.CurrentStock(), 1e-9)

	l.Receive(300, "restock")
	assert.InDelta(t, 2000, l.CurrentStock(), 1e-9)

	history := l.History()
	require.Len(t, history, 2)
	assert.Equal(t, domain.TxConsumption, history[0].Type)
	assert.InDelta(t, 1700, history[0].Balance, 1e-9)
	assert.Equal(t, domain.TxReceipt, history[1].Type)
	assert.InDelta(t, 2000, history[1].Balance, 1e-9)
	assert.NotEmpty(t, history[0].ID)
	assert.NotEqual(t, history[0].ID, history[1].ID)
}

func TestConsumeBelowReorderEmitsAlert(t *testing.T) {
	l := New(2000, fixedThresholds(200, 1200))

	alert, err := l.Consume(850, "")
	require.NoError(t, err)
	require.NotNil(t, alert)

	assert.Equal(t, domain.AlertReorderDue, alert.Type)
	assert.Equal(t, domain.PriorityMedium, alert.Priority)
	assert.Equal(t, domain.AlertPending, alert.Status)
	assert.Contains(t, alert.Message, "REORDER REQUIRED")
	assert.Contains(t, alert.Message, "1150.0 kg")
}

func TestConsumeBelowSafetyEscalatesAlert(t *testing.T) {
	l := New(2000, fixedThresholds(500, 1200))

	alert, err := l.Consume(1600, "")
	require.NoError(t, err)
	require.NotNil(t, alert)

	assert.Equal(t, domain.AlertLowStock, alert.Type)
	assert.Equal(t, domain.PriorityHigh, alert.Priority)
}

func TestReceiveNeverAlerts(t *testing.T) {
	l := New(100, fixedThresholds(500, 1200))

	// Balance stays below both thresholds after the receipt; still no alert
	// because receipts move stock in the safe direction.
	l.Receive(50, "")
	state, err := l.Status()
	require.NoError(t, err)
	assert.Equal(t, domain.StockCritical, state.Status)
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		name    string
		initial float64
		want    domain.StockStatus
	}{
		{"above reorder", 1500, domain.StockNormal},
		{"at reorder", 1200, domain.StockLow},
		{"between safety and reorder", 800, domain.StockLow},
		{"at safety", 500, domain.StockCritical},
		{"below safety", 100, domain.StockCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.initial, fixedThresholds(500, 1200))
			state, err := l.Status()
			require.NoError(t, err)
			assert.Equal(t, tt.want, state.Status)
			assert.InDelta(t, tt.initial, state.CurrentStock, 1e-9)
			assert.InDelta(t, 500, state.SafetyStock, 1e-9)
			assert.InDelta(t, 1200, state.ReorderPoint, 1e-9)
		})
	}
}

func TestBalanceMayGoNegative(t *testing.T) {
	l := New(100, fixedThresholds(50, 80))

	alert, err := l.Consume(150, "stockout scenario")
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.InDelta(t, -50, l.CurrentStock(), 1e-9)
	assert.Equal(t, domain.AlertLowStock, alert.Type)
}

func TestHistoryEvictionHandsOffToOverflow(t *testing.T) {
	var archived []domain.Transaction
	l := New(10000, fixedThresholds(0, 0),
		WithMaxHistory(3),
		WithOverflowHandler(func(txs []domain.Transaction) {
			archived = append(archived, txs...)
		}))

	for i := 0; i < 5; i++ {
		_, err := l.Consume(10, "")
		require.NoError(t, err)
	}

	history := l.History()
	assert.Len(t, history, 3)
	require.Len(t, archived, 2)

	// Evicted entries are the oldest and ordering is preserved end to end.
	assert.InDelta(t, 9990, archived[0].Balance, 1e-9)
	assert.InDelta(t, 9980, archived[1].Balance, 1e-9)
	assert.InDelta(t, 9970, history[0].Balance, 1e-9)
}

func TestHistoryReturnsCopy(t *testing.T) {
	l := New(1000, fixedThresholds(0, 0))
	_, err := l.Consume(10, "")
	require.NoError(t, err)

	history := l.History()
	history[0].Reason = "mutated"

	assert.Empty(t, l.History()[0].Reason)
}

func TestThresholdErrorPropagates(t *testing.T) {
	l := New(1000, ThresholdFunc(func() (float64, float64, error) {
		return 0, 0, assert.AnError
	}))

	_, err := l.Consume(10, "")
	assert.ErrorIs(t, err, assert.AnError)

	_, err = l.Status()
	assert.ErrorIs(t, err, assert.AnError)

	// The movement is still recorded; only the reorder check failed.
	assert.InDelta(t, 990, l.CurrentStock(), 1e-9)
	assert.Len(t, l.History(), 1)
}
