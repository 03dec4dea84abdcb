// internal/analysis/kpi.go
package analysis

import (
	"errors"
	"fmt"

	"github.com/coldfront-analytics/dryice-backend/internal/config"
	"github.com/coldfront-analytics/dryice-backend/internal/domain"
)

var (
	// ErrEmptyDataset is returned when a KPI snapshot is requested over an
	// empty order dataset.
	ErrEmptyDataset = errors.New("analysis: empty order dataset")

	// ErrZeroContainers is returned when container utilization would divide
	// by zero. Callers must guarantee at least one order with quantity > 0.
	ErrZeroContainers = errors.New("analysis: containers used sums to zero")
)

// daysPerMonth is a fixed modeling assumption, not a calendar computation.
const daysPerMonth = 30

// Calculator reduces an order dataset to its KPI snapshot.
type Calculator struct {
	params config.InventoryConfig
}

func NewCalculator(params config.InventoryConfig) *Calculator {
	return &Calculator{params: params}
}

// Snapshot computes the full KPI aggregate over orders. It is a pure
// function of its input; snapshots are never mutated in place.
//
// Degraded-data fallbacks: with fewer than two orders the standard deviation
// is 0, and a single-day dataset falls back to avg_monthly_demand for the
// monthly volume and 30 for the order frequency instead of dividing by a
// zero time span.
func (c *Calculator) Snapshot(orders []domain.Order) (domain.KPISnapshot, error) {
	if len(orders) == 0 {
		return domain.KPISnapshot{}, ErrEmptyDataset
	}

	var (
		totalVolume     float64
		totalContainers float64
		totalCost       float64
		quantities      = make([]float64, len(orders))
	)
	minDate, maxDate := orders[0].Date, orders[0].Date
	for i, o := range orders {
		totalVolume += o.QuantityKg
		totalContainers += o.ContainersUsed
		totalCost += o.TotalCost
		quantities[i] = o.QuantityKg

		if o.Date.Before(minDate) {
			minDate = o.Date
		}
		if o.Date.After(maxDate) {
			maxDate = o.Date
		}
	}

	if totalContainers == 0 {
		return domain.KPISnapshot{}, fmt.Errorf("%w: %d orders", ErrZeroContainers, len(orders))
	}

	avgOrder := mean(quantities)
	avgMonthlyDemand := avgOrder * daysPerMonth

	timeSpanDays := maxDate.Sub(minDate).Hours() / 24

	currentMonthlyVolume := avgMonthlyDemand
	orderFrequency := float64(daysPerMonth)
	if timeSpanDays > 0 {
		currentMonthlyVolume = totalVolume / timeSpanDays * daysPerMonth
		orderFrequency = float64(len(orders)) / timeSpanDays * daysPerMonth
	}

	return domain.KPISnapshot{
		TotalOrders:          len(orders),
		TotalVolume:          totalVolume,
		AvgOrderSize:         avgOrder,
		StdOrderSize:         sampleStd(quantities),
		AvgMonthlyDemand:     avgMonthlyDemand,
		CurrentMonthlyVolume: currentMonthlyVolume,
		OrderFrequency:       orderFrequency,
		ContainerUtilization: totalVolume / (totalContainers * c.params.ContainerSizeKg),
		TotalCost:            totalCost,
		AvgCostPerOrder:      totalCost / float64(len(orders)),
		TimeSpanDays:         timeSpanDays,
	}, nil
}
