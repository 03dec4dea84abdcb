package analysis

import (
	"math"
	"testing"

	"github.com/coldfront-analytics/dryice-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEOQFormula(t *testing.T) {
	params := testParams()
	engine := NewEngine(params)

	kpis := domain.KPISnapshot{AvgMonthlyDemand: 3600}

	eoq, err := engine.EOQ(kpis)
	require.NoError(t, err)

	want := math.Sqrt(2 * 3600 * params.TransportCost / (params.HoldingRate * params.PricePerKg))
	assert.InDelta(t, want, eoq, 1e-9)
}

func TestEOQWorkedExample(t *testing.T) {
	engine := NewEngine(testParams())

	// sqrt(2 x 4500 x 1741.94 / (0.03 x 146.55))
	eoq, err := engine.EOQ(domain.KPISnapshot{AvgMonthlyDemand: 4500})
	require.NoError(t, err)
	assert.InDelta(t, 1888.36, eoq, 0.01)
}

func TestEOQScalesWithSqrtDemand(t *testing.T) {
	engine := NewEngine(testParams())

	base, err := engine.EOQ(domain.KPISnapshot{AvgMonthlyDemand: 1000})
	require.NoError(t, err)
	quadrupled, err := engine.EOQ(domain.KPISnapshot{AvgMonthlyDemand: 4000})
	require.NoError(t, err)

	assert.InDelta(t, 2*base, quadrupled, 1e-9)
}

func TestEOQZeroHoldingTerm(t *testing.T) {
	params := testParams()
	params.HoldingRate = 0
	engine := NewEngine(params)

	_, err := engine.EOQ(domain.KPISnapshot{AvgMonthlyDemand: 3600})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSafetyStockAggregatesByDay(t *testing.T) {
	params := testParams()
	engine := NewEngine(params)

	// Two orders on the same day count as one daily observation.
	orders := []domain.Order{
		makeOrder(params, "2024-07-01", 60),
		makeOrder(params, "2024-07-01", 40),
		makeOrder(params, "2024-07-02", 200),
	}

	got := engine.SafetyStock(orders)
	want := zScore(params.ServiceLevel) * sampleStd([]float64{100, 200}) * math.Sqrt(params.LeadTimeDays)
	assert.InDelta(t, want, got, 1e-9)
}

func TestSafetyStockSingleDayFallback(t *testing.T) {
	params := testParams()
	engine := NewEngine(params)

	orders := []domain.Order{
		makeOrder(params, "2024-07-01", 120),
		makeOrder(params, "2024-07-01", 80),
	}

	// One distinct day: half the average order size.
	assert.InDelta(t, 50, engine.SafetyStock(orders), 1e-9)
}

func TestSafetyStockEmpty(t *testing.T) {
	engine := NewEngine(testParams())
	assert.Zero(t, engine.SafetyStock(nil))
}

func TestCostComparisonInvalidInputs(t *testing.T) {
	engine := NewEngine(testParams())

	_, _, err := engine.CostComparison(domain.KPISnapshot{AvgOrderSize: 0}, 100)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = engine.CostComparison(domain.KPISnapshot{AvgOrderSize: 100}, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCostComparisonHoldsVolumeConstant(t *testing.T) {
	params := testParams()
	engine := NewEngine(params)

	kpis := domain.KPISnapshot{AvgOrderSize: 120, CurrentMonthlyVolume: 3600}
	eoq := 1800.0

	current, optimized, err := engine.CostComparison(kpis, eoq)
	require.NoError(t, err)

	holdingTerm := params.HoldingRate * params.PricePerKg
	assert.InDelta(t, 3600/120.0*params.TransportCost+holdingTerm*120/2, current, 1e-9)
	assert.InDelta(t, 3600/1800.0*params.TransportCost+holdingTerm*1800/2, optimized, 1e-9)
}

func TestEvaluateReorderPointAndSavings(t *testing.T) {
	params := testParams()
	engine := NewEngine(params)
	calc := NewCalculator(params)

	orders := []domain.Order{
		makeOrder(params, "2024-07-01", 100),
		makeOrder(params, "2024-07-08", 140),
		makeOrder(params, "2024-07-15", 90),
		makeOrder(params, "2024-07-22", 160),
		makeOrder(params, "2024-07-29", 110),
	}

	kpis, err := calc.Snapshot(orders)
	require.NoError(t, err)

	policy, err := engine.Evaluate(kpis, orders)
	require.NoError(t, err)

	assert.InDelta(t, policy.EOQ+policy.SafetyStock, policy.ReorderPoint, 1e-9)
	assert.GreaterOrEqual(t, policy.Savings, 0.0)
	assert.InDelta(t, math.Max(0, policy.CurrentCost-policy.EOQCost), policy.Savings, 1e-9)
	if policy.CurrentCost > 0 {
		assert.InDelta(t, policy.Savings/policy.CurrentCost*100, policy.PercentSavings, 1e-9)
	}
}

func TestEvaluateSavingsClampedAtZero(t *testing.T) {
	params := testParams()
	engine := NewEngine(params)

	// An average order size already at the EOQ produces the minimum cost;
	// any other EOQ-derived plan cannot be cheaper, so savings is clamped.
	kpis := domain.KPISnapshot{
		AvgMonthlyDemand:     3600,
		CurrentMonthlyVolume: 3600,
	}
	eoq, err := engine.EOQ(kpis)
	require.NoError(t, err)
	kpis.AvgOrderSize = eoq

	policy, err := engine.Evaluate(kpis, []domain.Order{makeOrder(params, "2024-07-01", eoq)})
	require.NoError(t, err)

	assert.InDelta(t, 0, policy.Savings, 1e-6)
	assert.InDelta(t, 0, policy.PercentSavings, 1e-6)
}

func TestThresholdsMatchEvaluate(t *testing.T) {
	params := testParams()
	engine := NewEngine(params)
	calc := NewCalculator(params)

	orders := []domain.Order{
		makeOrder(params, "2024-07-01", 100),
		makeOrder(params, "2024-07-10", 180),
		makeOrder(params, "2024-07-20", 140),
	}

	kpis, err := calc.Snapshot(orders)
	require.NoError(t, err)

	policy, err := engine.Evaluate(kpis, orders)
	require.NoError(t, err)

	safety, reorder, err := engine.Thresholds(kpis, orders)
	require.NoError(t, err)

	assert.InDelta(t, policy.SafetyStock, safety, 1e-9)
	assert.InDelta(t, policy.ReorderPoint, reorder, 1e-9)
}

func TestZScore(t *testing.T) {
	// Standard normal quantiles.
	assert.InDelta(t, 1.6449, zScore(0.95), 1e-3)
	assert.InDelta(t, 0, zScore(0.5), 1e-9)
	assert.InDelta(t, -1.6449, zScore(0.05), 1e-3)

	// Clamping keeps extreme service levels finite.
	assert.False(t, math.IsInf(zScore(1), 1))
	assert.False(t, math.IsInf(zScore(0), -1))
}
