// internal/service/report_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/coldfront-analytics/dryice-backend/internal/config"
	"github.com/coldfront-analytics/dryice-backend/internal/report"
)

// ReportService assembles the full analysis document from the live
// computation results and hands it to the generator.
type ReportService struct {
	analysis  *AnalysisService
	generator *report.Generator
	params    config.InventoryConfig
}

func NewReportService(analysis *AnalysisService, generator *report.Generator, params config.InventoryConfig) *ReportService {
	return &ReportService{analysis: analysis, generator: generator, params: params}
}

// Generate produces a new report file and returns its path. forecastDays
// controls the forecast horizon included in the document; zero uses the
// default.
func (s *ReportService) Generate(ctx context.Context, forecastDays int) (string, error) {
	kpis, err := s.analysis.KPIs(ctx)
	if err != nil {
		return "", fmt.Errorf("report: kpis: %w", err)
	}
	policy, err := s.analysis.Policy(ctx)
	if err != nil {
		return "", fmt.Errorf("report: policy: %w", err)
	}
	stock, err := s.analysis.Status(ctx)
	if err != nil {
		return "", fmt.Errorf("report: stock status: %w", err)
	}

	start, end := s.analysis.Window()

	data := report.Data{
		Period:       fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02")),
		GeneratedAt:  time.Now(),
		Params:       s.params,
		KPIs:         kpis,
		Policy:       policy,
		Stock:        stock,
		ActiveAlerts: s.analysis.ActiveAlerts(false),
		Forecast:     s.analysis.Forecast(ctx, forecastDays),
	}

	return s.generator.Generate(ctx, data)
}
