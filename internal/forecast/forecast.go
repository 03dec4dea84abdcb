// internal/forecast/forecast.go
package forecast

import (
	"errors"
	"sort"
	"time"

	"github.com/coldfront-analytics/dryice-backend/internal/domain"
)

// ErrInsufficientHistory is returned when a model cannot be fit to the
// available demand history.
var ErrInsufficientHistory = errors.New("forecast: insufficient history")

// Forecaster is the capability interface demand-forecast collaborators
// implement. Heavyweight statistical models run outside this service and
// plug in behind the same two methods; the built-in models here are simple
// closed-form baselines, not reimplementations of those libraries.
type Forecaster interface {
	Name() string
	Fit(history []domain.Order) error
	Predict(horizon int) ([]domain.ForecastPoint, error)
}

// series is the per-day aggregated demand the models train on.
type series struct {
	lastDate time.Time
	values   []float64
}

func buildSeries(history []domain.Order) (series, error) {
	byDay := make(map[string]float64)
	for _, o := range history {
		byDay[o.Date.Format("2006-01-02")] += o.QuantityKg
	}
	if len(byDay) < 2 {
		return series{}, ErrInsufficientHistory
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	s := series{values: make([]float64, len(days))}
	for i, day := range days {
		s.values[i] = byDay[day]
	}
	s.lastDate, _ = time.Parse("2006-01-02", days[len(days)-1])
	return s, nil
}

// bandedPoints wraps flat point estimates with the prediction bands the
// dashboard charts expect (80% at +/-10%, 95% at +/-15%).
func bandedPoints(lastDate time.Time, estimates []float64) []domain.ForecastPoint {
	points := make([]domain.ForecastPoint, len(estimates))
	for i, v := range estimates {
		points[i] = domain.ForecastPoint{
			Date:    lastDate.AddDate(0, 0, i+1),
			Value:   v,
			Lower80: v * 0.9,
			Upper80: v * 1.1,
			Lower95: v * 0.85,
			Upper95: v * 1.15,
		}
	}
	return points
}
