package alerts

import (
	"testing"
	"time"

	"github.com/coldfront-analytics/dryice-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStatus struct {
	state domain.StockState
	err   error
}

func (s stubStatus) Status() (domain.StockState, error) { return s.state, s.err }

type recordingNotifier struct {
	name      string
	delivered []domain.Alert
}

func (n *recordingNotifier) Name() string { return n.name }

func (n *recordingNotifier) Deliver(alert domain.Alert) error {
	n.delivered = append(n.delivered, alert)
	return nil
}

func newTestDispatcher(status domain.StockStatus, opts ...Option) *Dispatcher {
	stock := stubStatus{state: domain.StockState{CurrentStock: 500, Status: status}}
	return NewDispatcher(stock, []string{"email", "dashboard"}, opts...)
}

func TestCheckConditionsQuietWhenHealthy(t *testing.T) {
	d := newTestDispatcher(domain.StockNormal)

	emitted := d.CheckConditions(100, 100, 20, 1000, 1000)
	assert.Empty(t, emitted)
	assert.Empty(t, d.GetActive())
}

func TestCheckConditionsCriticalStock(t *testing.T) {
	d := newTestDispatcher(domain.StockCritical)

	emitted := d.CheckConditions(100, 100, 20, 1000, 1000)
	require.Len(t, emitted, 1)
	assert.Equal(t, domain.AlertLowStock, emitted[0].Type)
	assert.Equal(t, domain.PriorityHigh, emitted[0].Priority)
	assert.Contains(t, emitted[0].Message, "CRITICAL stock level: 500.0 kg")
}

func TestCheckConditionsLowStock(t *testing.T) {
	d := newTestDispatcher(domain.StockLow)

	emitted := d.CheckConditions(100, 100, 20, 1000, 1000)
	require.Len(t, emitted, 1)
	assert.Equal(t, domain.AlertReorderDue, emitted[0].Type)
	assert.Equal(t, domain.PriorityMedium, emitted[0].Priority)
}

func TestCheckConditionsDemandAnomaly(t *testing.T) {
	d := newTestDispatcher(domain.StockNormal)

	// 2 sigma is the boundary; only strictly beyond it fires.
	assert.Empty(t, d.CheckConditions(140, 100, 20, 1000, 1000))

	emitted := d.CheckConditions(141, 100, 20, 1000, 1000)
	require.Len(t, emitted, 1)
	assert.Equal(t, domain.AlertUnusualDemand, emitted[0].Type)
	assert.Contains(t, emitted[0].Message, "141.0 kg vs average 100.0 kg")
}

func TestCheckConditionsCostSpike(t *testing.T) {
	d := newTestDispatcher(domain.StockNormal)

	assert.Empty(t, d.CheckConditions(100, 100, 20, 1100, 1000))

	emitted := d.CheckConditions(100, 100, 20, 1101, 1000)
	require.Len(t, emitted, 1)
	assert.Equal(t, domain.AlertCostSpike, emitted[0].Type)
	assert.Equal(t, domain.PriorityLow, emitted[0].Priority)
	assert.Contains(t, emitted[0].Message, "KSh 1101.00 vs average KSh 1000.00")
}

func TestCheckConditionsMultipleRules(t *testing.T) {
	d := newTestDispatcher(domain.StockCritical)

	emitted := d.CheckConditions(300, 100, 20, 2000, 1000)
	assert.Len(t, emitted, 3)
	assert.Len(t, d.GetActive(), 3)
}

func TestCheckConditionsSkipsStockRuleOnStatusError(t *testing.T) {
	d := NewDispatcher(stubStatus{err: assert.AnError}, []string{"email"})

	emitted := d.CheckConditions(300, 100, 20, 1000, 1000)
	require.Len(t, emitted, 1)
	assert.Equal(t, domain.AlertUnusualDemand, emitted[0].Type)
}

func TestNotifyFansOutToChannels(t *testing.T) {
	email := &recordingNotifier{name: "email"}
	sms := &recordingNotifier{name: "sms"}
	d := NewDispatcher(stubStatus{}, []string{"email", "sms"},
		WithNotifier(email), WithNotifier(sms))

	alert := d.Notify(domain.AlertCostSpike, "spike", nil)

	assert.NotEmpty(t, alert.ID)
	assert.Equal(t, []string{"email", "sms"}, alert.Channels)
	require.Len(t, email.delivered, 1)
	require.Len(t, sms.delivered, 1)
	assert.Equal(t, alert.ID, email.delivered[0].ID)
}

func TestNotifyExplicitChannelsOverrideDefaults(t *testing.T) {
	email := &recordingNotifier{name: "email"}
	sms := &recordingNotifier{name: "sms"}
	d := NewDispatcher(stubStatus{}, []string{"email", "sms"},
		WithNotifier(email), WithNotifier(sms))

	d.Notify(domain.AlertCostSpike, "spike", []string{"sms"})

	assert.Empty(t, email.delivered)
	assert.Len(t, sms.delivered, 1)
}

func TestTrackAdoptsLedgerAlert(t *testing.T) {
	email := &recordingNotifier{name: "email"}
	d := NewDispatcher(stubStatus{}, []string{"email"}, WithNotifier(email))

	born := domain.Alert{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Type:      domain.AlertReorderDue,
		Message:   "REORDER REQUIRED - Current stock: 1150.0 kg",
		Priority:  domain.PriorityMedium,
		Status:    domain.AlertPending,
	}

	tracked := d.Track(born)

	assert.Equal(t, born.ID, tracked.ID)
	assert.Equal(t, []string{"email"}, tracked.Channels)
	assert.Len(t, email.delivered, 1)
	assert.Len(t, d.GetActive(), 1)
}

func TestMarkProcessed(t *testing.T) {
	d := newTestDispatcher(domain.StockNormal)
	alert := d.Notify(domain.AlertCostSpike, "spike", nil)

	assert.False(t, d.MarkProcessed("no-such-id"))
	assert.True(t, d.MarkProcessed(alert.ID))
	assert.Empty(t, d.GetActive())

	// Re-acknowledging is a no-op success.
	assert.True(t, d.MarkProcessed(alert.ID))

	all := d.All()
	require.Len(t, all, 1)
	assert.Equal(t, domain.AlertProcessed, all[0].Status)
}

func TestEvictionSparesPendingAlerts(t *testing.T) {
	d := newTestDispatcher(domain.StockNormal, WithMaxRetained(3))

	first := d.Notify(domain.AlertCostSpike, "first", nil)
	d.MarkProcessed(first.ID)

	for i := 0; i < 3; i++ {
		d.Notify(domain.AlertUnusualDemand, "pending", nil)
	}

	all := d.All()
	assert.Len(t, all, 3)
	for _, a := range all {
		assert.Equal(t, domain.AlertPending, a.Status)
	}
}

func TestEvictionNeverDropsPendingOverCap(t *testing.T) {
	d := newTestDispatcher(domain.StockNormal, WithMaxRetained(2))

	for i := 0; i < 5; i++ {
		d.Notify(domain.AlertUnusualDemand, "pending", nil)
	}

	// All pending: the list overruns the cap rather than losing alerts.
	assert.Len(t, d.All(), 5)
	assert.Len(t, d.GetActive(), 5)
}
