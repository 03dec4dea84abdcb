// internal/analysis/policy.go
package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/coldfront-analytics/dryice-backend/internal/config"
	"github.com/coldfront-analytics/dryice-backend/internal/domain"
)

// ErrInvalidInput is returned when a policy computation would divide by
// zero (zero average order size, zero EOQ, or a zero holding-cost term).
var ErrInvalidInput = errors.New("analysis: invalid policy input")

// Engine computes the inventory policy (EOQ, safety stock, reorder point,
// cost comparison) from a KPI snapshot and the configured cost parameters.
// Demand and ordering cost are both on a monthly horizon; keeping the two
// horizons matched is a correctness invariant of the EOQ formula.
type Engine struct {
	params config.InventoryConfig
}

func NewEngine(params config.InventoryConfig) *Engine {
	return &Engine{params: params}
}

// EOQ returns the economic order quantity in kg.
func (e *Engine) EOQ(kpis domain.KPISnapshot) (float64, error) {
	holdingTerm := e.params.HoldingRate * e.params.PricePerKg
	if holdingTerm <= 0 {
		return 0, fmt.Errorf("%w: holding rate x price per kg is %v", ErrInvalidInput, holdingTerm)
	}
	return math.Sqrt(2 * kpis.AvgMonthlyDemand * e.params.TransportCost / holdingTerm), nil
}

// SafetyStock sizes the demand-variability buffer from per-day aggregated
// demand over the full history. With fewer than two distinct days there is
// no daily variance to measure, so it falls back to half the average order
// size; this is a degraded-data heuristic, not a statistically derived value.
func (e *Engine) SafetyStock(orders []domain.Order) float64 {
	daily := make(map[string]float64)
	var totalQty float64
	for _, o := range orders {
		daily[o.Date.Format("2006-01-02")] += o.QuantityKg
		totalQty += o.QuantityKg
	}

	if len(daily) < 2 {
		if len(orders) == 0 {
			return 0
		}
		return totalQty / float64(len(orders)) * 0.5
	}

	sums := make([]float64, 0, len(daily))
	for _, q := range daily {
		sums = append(sums, q)
	}

	return zScore(e.params.ServiceLevel) * sampleStd(sums) * math.Sqrt(e.params.LeadTimeDays)
}

// CostComparison compares the current ordering pattern against the EOQ
// scenario. Monthly volume is held constant while only the order-size term
// changes between the two scenarios: the comparison answers "what if we only
// changed order size", by intent.
func (e *Engine) CostComparison(kpis domain.KPISnapshot, eoq float64) (current, optimized float64, err error) {
	if kpis.AvgOrderSize == 0 {
		return 0, 0, fmt.Errorf("%w: average order size is zero", ErrInvalidInput)
	}
	if eoq == 0 {
		return 0, 0, fmt.Errorf("%w: EOQ is zero", ErrInvalidInput)
	}

	holdingTerm := e.params.HoldingRate * e.params.PricePerKg
	current = kpis.CurrentMonthlyVolume/kpis.AvgOrderSize*e.params.TransportCost +
		holdingTerm*kpis.AvgOrderSize/2
	optimized = kpis.CurrentMonthlyVolume/eoq*e.params.TransportCost +
		holdingTerm*eoq/2

	return current, optimized, nil
}

// Evaluate derives the complete policy result. It is recomputed whenever the
// snapshot or the parameters change; nothing here is cached.
func (e *Engine) Evaluate(kpis domain.KPISnapshot, orders []domain.Order) (domain.PolicyResult, error) {
	eoq, err := e.EOQ(kpis)
	if err != nil {
		return domain.PolicyResult{}, err
	}

	safety := e.SafetyStock(orders)

	current, optimized, err := e.CostComparison(kpis, eoq)
	if err != nil {
		return domain.PolicyResult{}, err
	}

	savings := math.Max(0, current-optimized)
	var pct float64
	if current > 0 {
		pct = savings / current * 100
	}

	return domain.PolicyResult{
		EOQ:            eoq,
		SafetyStock:    safety,
		ReorderPoint:   eoq + safety,
		CurrentCost:    current,
		EOQCost:        optimized,
		Savings:        savings,
		PercentSavings: pct,
	}, nil
}

// Thresholds recomputes the live safety stock and reorder point for the
// ledger. Callers needing a stable value must snapshot it themselves.
func (e *Engine) Thresholds(kpis domain.KPISnapshot, orders []domain.Order) (safetyStock, reorderPoint float64, err error) {
	eoq, err := e.EOQ(kpis)
	if err != nil {
		return 0, 0, err
	}
	safety := e.SafetyStock(orders)
	return safety, eoq + safety, nil
}
