package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/coldfront-analytics/dryice-backend/internal/config"
	"github.com/coldfront-analytics/dryice-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() config.InventoryConfig {
	return config.InventoryConfig{
		PricePerKg:      146.55,
		ContainerSizeKg: 150,
		TransportCost:   1741.94,
		HoldingRate:     0.03,
		SubLossMinPct:   2.27,
		SubLossMaxPct:   4.54,
		LeadTimeDays:    1,
		ServiceLevel:    0.95,
	}
}

func makeOrder(params config.InventoryConfig, date string, qty float64) domain.Order {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return domain.Order{
		Date:              d,
		QuantityKg:        qty,
		ContainersUsed:    math.Ceil(qty / params.ContainerSizeKg),
		EffectiveQuantity: qty * (1 - params.MeanSubLossFraction()),
		TotalCost:         qty * params.PricePerKg,
	}
}

func TestSnapshotEmptyDataset(t *testing.T) {
	calc := NewCalculator(testParams())

	_, err := calc.Snapshot(nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestSnapshotAggregates(t *testing.T) {
	params := testParams()
	calc := NewCalculator(params)

	orders := []domain.Order{
		makeOrder(params, "2024-07-01", 100),
		makeOrder(params, "2024-07-11", 200),
		makeOrder(params, "2024-07-31", 300),
	}

	kpis, err := calc.Snapshot(orders)
	require.NoError(t, err)

	assert.Equal(t, 3, kpis.TotalOrders)
	assert.InDelta(t, 600, kpis.TotalVolume, 1e-9)
	assert.InDelta(t, 200, kpis.AvgOrderSize, 1e-9)
	assert.InDelta(t, 100, kpis.StdOrderSize, 1e-9)
	assert.InDelta(t, 200*30, kpis.AvgMonthlyDemand, 1e-9)
	assert.InDelta(t, 30, kpis.TimeSpanDays, 1e-9)

	// 600 kg over 30 days, annualized to the 30-day month
	assert.InDelta(t, 600, kpis.CurrentMonthlyVolume, 1e-9)
	assert.InDelta(t, 3, kpis.OrderFrequency, 1e-9)

	// 100 kg fits one container, 200 and 300 kg each need two
	assert.InDelta(t, 600/(5*150.0), kpis.ContainerUtilization, 1e-9)

	assert.InDelta(t, 600*params.PricePerKg, kpis.TotalCost, 1e-6)
	assert.InDelta(t, 200*params.PricePerKg, kpis.AvgCostPerOrder, 1e-6)
}

func TestSnapshotSingleDayFallbacks(t *testing.T) {
	params := testParams()
	calc := NewCalculator(params)

	orders := []domain.Order{
		makeOrder(params, "2024-07-01", 120),
		makeOrder(params, "2024-07-01", 80),
	}

	kpis, err := calc.Snapshot(orders)
	require.NoError(t, err)

	// Zero time span: monthly volume falls back to the demand estimate and
	// the frequency to one order per day.
	assert.Zero(t, kpis.TimeSpanDays)
	assert.InDelta(t, kpis.AvgMonthlyDemand, kpis.CurrentMonthlyVolume, 1e-9)
	assert.InDelta(t, 30, kpis.OrderFrequency, 1e-9)
}

func TestSnapshotSingleOrderHasZeroStd(t *testing.T) {
	params := testParams()
	calc := NewCalculator(params)

	kpis, err := calc.Snapshot([]domain.Order{makeOrder(params, "2024-07-01", 150)})
	require.NoError(t, err)
	assert.Zero(t, kpis.StdOrderSize)
}
