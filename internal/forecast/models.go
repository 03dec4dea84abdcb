// internal/forecast/models.go
package forecast

import "github.com/coldfront-analytics/dryice-backend/internal/domain"

// MovingAverage forecasts the mean of the last window days, flat over the
// horizon.
type MovingAverage struct {
	Window int
	s      series
}

func (m *MovingAverage) Name() string { return "moving_average" }

func (m *MovingAverage) Fit(history []domain.Order) error {
	s, err := buildSeries(history)
	if err != nil {
		return err
	}
	m.s = s
	return nil
}

func (m *MovingAverage) Predict(horizon int) ([]domain.ForecastPoint, error) {
	if len(m.s.values) == 0 {
		return nil, ErrInsufficientHistory
	}

	window := m.Window
	if window <= 0 || window > len(m.s.values) {
		window = len(m.s.values)
	}

	var sum float64
	for _, v := range m.s.values[len(m.s.values)-window:] {
		sum += v
	}
	level := sum / float64(window)

	estimates := make([]float64, horizon)
	for i := range estimates {
		estimates[i] = level
	}
	return bandedPoints(m.s.lastDate, estimates), nil
}

// ExponentialSmoothing is single exponential smoothing: the forecast is the
// final smoothed level, flat over the horizon.
type ExponentialSmoothing struct {
	Alpha float64
	s     series
	level float64
}

func (e *ExponentialSmoothing) Name() string { return "exponential_smoothing" }

func (e *ExponentialSmoothing) Fit(history []domain.Order) error {
	s, err := buildSeries(history)
	if err != nil {
		return err
	}

	alpha := e.Alpha
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.3
	}

	level := s.values[0]
	for _, v := range s.values[1:] {
		level = alpha*v + (1-alpha)*level
	}

	e.s = s
	e.level = level
	return nil
}

func (e *ExponentialSmoothing) Predict(horizon int) ([]domain.ForecastPoint, error) {
	if len(e.s.values) == 0 {
		return nil, ErrInsufficientHistory
	}

	estimates := make([]float64, horizon)
	for i := range estimates {
		estimates[i] = e.level
	}
	return bandedPoints(e.s.lastDate, estimates), nil
}

// Drift extrapolates the average day-over-day change of the history, the
// random-walk-with-drift baseline.
type Drift struct {
	s     series
	slope float64
}

func (d *Drift) Name() string { return "drift" }

func (d *Drift) Fit(history []domain.Order) error {
	s, err := buildSeries(history)
	if err != nil {
		return err
	}

	d.s = s
	d.slope = (s.values[len(s.values)-1] - s.values[0]) / float64(len(s.values)-1)
	return nil
}

func (d *Drift) Predict(horizon int) ([]domain.ForecastPoint, error) {
	if len(d.s.values) == 0 {
		return nil, ErrInsufficientHistory
	}

	last := d.s.values[len(d.s.values)-1]
	estimates := make([]float64, horizon)
	for i := range estimates {
		estimates[i] = last + d.slope*float64(i+1)
	}
	return bandedPoints(d.s.lastDate, estimates), nil
}
