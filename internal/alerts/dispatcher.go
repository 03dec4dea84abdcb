// internal/alerts/dispatcher.go
package alerts

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/coldfront-analytics/dryice-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StatusSource reports the current stock classification; in production this
// is the stock ledger.
type StatusSource interface {
	Status() (domain.StockState, error)
}

var priorities = map[domain.AlertType]domain.AlertPriority{
	domain.AlertLowStock:      domain.PriorityHigh,
	domain.AlertReorderDue:    domain.PriorityMedium,
	domain.AlertUnusualDemand: domain.PriorityMedium,
	domain.AlertCostSpike:     domain.PriorityLow,
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMaxRetained bounds the in-memory alert list. Only PROCESSED alerts are
// evicted, oldest first; pending alerts are never discarded.
func WithMaxRetained(n int) Option {
	return func(d *Dispatcher) { d.maxRetained = n }
}

// WithNotifier overrides or adds a delivery channel.
func WithNotifier(n Notifier) Option {
	return func(d *Dispatcher) { d.notifiers[n.Name()] = n }
}

// Dispatcher evaluates alert rules and keeps the alert records. Every alert
// carries a generated id; acknowledgment is by id, so the records stay
// addressable as the list grows and shrinks.
type Dispatcher struct {
	mu          sync.Mutex
	alerts      []domain.Alert
	stock       StatusSource
	channels    []string
	notifiers   map[string]Notifier
	maxRetained int
}

func NewDispatcher(stock StatusSource, channels []string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		stock:     stock,
		channels:  channels,
		notifiers: defaultNotifiers(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CheckConditions runs the stock, demand-anomaly, and cost-spike rules and
// returns the alerts emitted by this evaluation. Stockouts and anomalies are
// data, not faults; this method never fails.
func (d *Dispatcher) CheckConditions(currentDemand, avgDemand, stdDemand, currentCost, avgCost float64) []domain.Alert {
	var emitted []domain.Alert

	state, err := d.stock.Status()
	if err != nil {
		log.Warn().Err(err).Msg("alerts: stock status unavailable, skipping stock rule")
	} else {
		switch state.Status {
		case domain.StockCritical:
			emitted = append(emitted, d.Notify(domain.AlertLowStock,
				fmt.Sprintf("CRITICAL stock level: %.1f kg", state.CurrentStock), nil))
		case domain.StockLow:
			emitted = append(emitted, d.Notify(domain.AlertReorderDue,
				fmt.Sprintf("Low stock level: %.1f kg", state.CurrentStock), nil))
		}
	}

	if math.Abs(currentDemand-avgDemand) > 2*stdDemand {
		emitted = append(emitted, d.Notify(domain.AlertUnusualDemand,
			fmt.Sprintf("Unusual demand detected: %.1f kg vs average %.1f kg", currentDemand, avgDemand), nil))
	}

	if currentCost > avgCost*1.1 {
		emitted = append(emitted, d.Notify(domain.AlertCostSpike,
			fmt.Sprintf("Cost spike detected: KSh %.2f vs average KSh %.2f", currentCost, avgCost), nil))
	}

	return emitted
}

// Notify creates an alert record, fans it out over the delivery channels,
// and retains it. A nil channel list means the configured defaults.
func (d *Dispatcher) Notify(alertType domain.AlertType, message string, channels []string) domain.Alert {
	if channels == nil {
		channels = d.channels
	}

	alert := domain.Alert{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Type:      alertType,
		Message:   message,
		Priority:  priorities[alertType],
		Channels:  channels,
		Status:    domain.AlertPending,
	}

	d.deliver(alert)

	d.mu.Lock()
	d.alerts = append(d.alerts, alert)
	d.evictLocked()
	d.mu.Unlock()

	return alert
}

// Track adopts an alert produced elsewhere (the ledger's reorder check),
// fanning it out and retaining it alongside rule-generated alerts.
func (d *Dispatcher) Track(alert domain.Alert) domain.Alert {
	if alert.Channels == nil {
		alert.Channels = d.channels
	}

	d.deliver(alert)

	d.mu.Lock()
	d.alerts = append(d.alerts, alert)
	d.evictLocked()
	d.mu.Unlock()

	return alert
}

// GetActive returns the alerts still awaiting acknowledgment.
func (d *Dispatcher) GetActive() []domain.Alert {
	d.mu.Lock()
	defer d.mu.Unlock()

	active := make([]domain.Alert, 0)
	for _, a := range d.alerts {
		if a.Status == domain.AlertPending {
			active = append(active, a)
		}
	}
	return active
}

// All returns a copy of every retained alert.
func (d *Dispatcher) All() []domain.Alert {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]domain.Alert, len(d.alerts))
	copy(out, d.alerts)
	return out
}

// MarkProcessed acknowledges one alert by id. It reports whether the id was
// found; acknowledging an already processed alert is a no-op success.
func (d *Dispatcher) MarkProcessed(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.alerts {
		if d.alerts[i].ID == id {
			d.alerts[i].Status = domain.AlertProcessed
			return true
		}
	}
	return false
}

func (d *Dispatcher) deliver(alert domain.Alert) {
	for _, channel := range alert.Channels {
		notifier, ok := d.notifiers[channel]
		if !ok {
			log.Warn().Str("channel", channel).Msg("alerts: no notifier for channel")
			continue
		}
		if err := notifier.Deliver(alert); err != nil {
			log.Error().Err(err).Str("channel", channel).Str("alert_id", alert.ID).
				Msg("alerts: delivery failed")
		}
	}
}

func (d *Dispatcher) evictLocked() {
	if d.maxRetained <= 0 || len(d.alerts) <= d.maxRetained {
		return
	}

	kept := make([]domain.Alert, 0, d.maxRetained)
	excess := len(d.alerts) - d.maxRetained
	for _, a := range d.alerts {
		if excess > 0 && a.Status == domain.AlertProcessed {
			excess--
			continue
		}
		kept = append(kept, a)
	}
	d.alerts = kept
}
