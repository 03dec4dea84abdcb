// internal/maintenance/scoring.go
package maintenance

import (
	"fmt"
	"math"

	"github.com/coldfront-analytics/dryice-backend/internal/domain"
)

var indicatorWeights = map[string]float64{
	"insulation_efficiency": 0.30,
	"seal_integrity":        0.25,
	"structural_condition":  0.30,
	"usage_cycles":          0.15,
}

// Scorer rates reusable container health from its indicator readings.
// Indicators are 0-100 condition scores reported by inspections.
type Scorer struct {
	indicators []string
}

func NewScorer(indicators []string) *Scorer {
	return &Scorer{indicators: indicators}
}

// Score produces a maintenance report for one container reading. Every
// configured indicator must be present in the reading.
func (s *Scorer) Score(reading domain.ContainerReading) (domain.MaintenanceReport, error) {
	var risk float64
	for _, indicator := range s.indicators {
		value, ok := reading.Indicators[indicator]
		if !ok {
			return domain.MaintenanceReport{}, fmt.Errorf("maintenance: reading for %s missing indicator %q",
				reading.ContainerID, indicator)
		}
		risk += riskFactor(value) * indicatorWeights[indicator]
	}

	return domain.MaintenanceReport{
		ContainerID:        reading.ContainerID,
		RiskScore:          risk,
		FailureProbability: math.Min(0.95, risk*1.2),
		RemainingLifeDays:  remainingLife(risk),
		Recommendations:    maintenancePlan(risk),
	}, nil
}

// riskFactor normalizes an indicator value to a 0-1 risk band (1 = highest).
func riskFactor(value float64) float64 {
	switch {
	case value < 30:
		return 1.0
	case value < 60:
		return 0.6
	case value < 80:
		return 0.3
	default:
		return 0.1
	}
}

func remainingLife(risk float64) int {
	switch {
	case risk > 0.8:
		return 7
	case risk > 0.6:
		return 30
	case risk > 0.4:
		return 90
	default:
		return 180
	}
}

func maintenancePlan(risk float64) []string {
	switch {
	case risk > 0.8:
		return []string{"Immediate inspection", "Pressure testing", "Seal replacement"}
	case risk > 0.6:
		return []string{"Weekly inspection", "Thermal imaging", "Cleaning"}
	case risk > 0.4:
		return []string{"Monthly inspection", "Visual check"}
	default:
		return []string{"Routine maintenance in 6 months"}
	}
}
