// internal/forecast/ensemble.go
package forecast

import (
	"fmt"

	"github.com/coldfront-analytics/dryice-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// Ensemble averages the predictions of its member forecasters, mirroring the
// multi-model comparison in the dashboard. Members that fail to fit are
// skipped; the ensemble only fails when every member does.
type Ensemble struct {
	members []Forecaster
	fitted  []Forecaster
}

func NewEnsemble(members ...Forecaster) *Ensemble {
	return &Ensemble{members: members}
}

// DefaultEnsemble is the stock model set used when no external collaborator
// is plugged in.
func DefaultEnsemble() *Ensemble {
	return NewEnsemble(
		&MovingAverage{Window: 30},
		&ExponentialSmoothing{Alpha: 0.3},
		&Drift{},
	)
}

func (e *Ensemble) Name() string { return "ensemble" }

func (e *Ensemble) Fit(history []domain.Order) error {
	e.fitted = e.fitted[:0]
	for _, m := range e.members {
		if err := m.Fit(history); err != nil {
			log.Warn().Err(err).Str("model", m.Name()).Msg("forecast: model fit failed, excluding from ensemble")
			continue
		}
		e.fitted = append(e.fitted, m)
	}

	if len(e.fitted) == 0 {
		return fmt.Errorf("forecast: no ensemble member could be fit: %w", ErrInsufficientHistory)
	}
	return nil
}

func (e *Ensemble) Predict(horizon int) ([]domain.ForecastPoint, error) {
	if len(e.fitted) == 0 {
		return nil, fmt.Errorf("forecast: ensemble not fitted")
	}
	if horizon <= 0 {
		return nil, fmt.Errorf("forecast: horizon must be positive, got %d", horizon)
	}

	var (
		sums  = make([]float64, horizon)
		dates []domain.ForecastPoint
		used  int
	)
	for _, m := range e.fitted {
		points, err := m.Predict(horizon)
		if err != nil {
			log.Warn().Err(err).Str("model", m.Name()).Msg("forecast: model predict failed, excluding from ensemble")
			continue
		}
		if dates == nil {
			dates = points
		}
		for i, p := range points {
			sums[i] += p.Value
		}
		used++
	}

	if used == 0 {
		return nil, fmt.Errorf("forecast: every ensemble member failed to predict")
	}

	estimates := make([]float64, horizon)
	for i := range estimates {
		estimates[i] = sums[i] / float64(used)
	}
	return bandedPoints(dates[0].Date.AddDate(0, 0, -1), estimates), nil
}
