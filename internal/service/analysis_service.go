// internal/service/analysis_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/coldfront-analytics/dryice-backend/internal/alerts"
	"github.com/coldfront-analytics/dryice-backend/internal/analysis"
	"github.com/coldfront-analytics/dryice-backend/internal/cache"
	"github.com/coldfront-analytics/dryice-backend/internal/domain"
	"github.com/coldfront-analytics/dryice-backend/internal/forecast"
	"github.com/coldfront-analytics/dryice-backend/internal/ledger"
	"github.com/rs/zerolog/log"
)

// DatasetSource supplies the cleaned order dataset. The CSV loader and the
// Postgres order archive both implement it.
type DatasetSource interface {
	Orders(ctx context.Context) ([]domain.Order, error)
}

// AnalysisService re-executes the computation graph dataset -> KPIs ->
// policy -> {ledger thresholds, alerts} on demand. Nothing derived is cached
// except the assembled dashboard payload, which is invalidated on every
// ledger mutation.
type AnalysisService struct {
	source      DatasetSource
	calc        *analysis.Calculator
	engine      *analysis.Engine
	ledger      *ledger.Ledger
	dispatcher  *alerts.Dispatcher
	forecaster  forecast.Forecaster
	cache       cache.DashboardCache
	windowStart time.Time
	windowEnd   time.Time
}

func NewAnalysisService(
	source DatasetSource,
	calc *analysis.Calculator,
	engine *analysis.Engine,
	led *ledger.Ledger,
	dispatcher *alerts.Dispatcher,
	forecaster forecast.Forecaster,
	cacheImpl cache.DashboardCache,
	windowStart, windowEnd time.Time,
) *AnalysisService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	if forecaster == nil {
		forecaster = forecast.DefaultEnsemble()
	}
	return &AnalysisService{
		source:      source,
		calc:        calc,
		engine:      engine,
		ledger:      led,
		dispatcher:  dispatcher,
		forecaster:  forecaster,
		cache:       cacheImpl,
		windowStart: windowStart,
		windowEnd:   windowEnd,
	}
}

// Thresholds is the live ThresholdSource the ledger evaluates against on
// every consume and status call.
func (s *AnalysisService) Thresholds() (float64, float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orders, err := s.source.Orders(ctx)
	if err != nil {
		return 0, 0, err
	}
	kpis, err := s.calc.Snapshot(orders)
	if err != nil {
		return 0, 0, err
	}
	return s.engine.Thresholds(kpis, orders)
}

// KPIs recomputes the KPI snapshot for the analysis window.
func (s *AnalysisService) KPIs(ctx context.Context) (domain.KPISnapshot, error) {
	orders, err := s.source.Orders(ctx)
	if err != nil {
		return domain.KPISnapshot{}, err
	}
	return s.calc.Snapshot(orders)
}

// Policy recomputes the full policy result.
func (s *AnalysisService) Policy(ctx context.Context) (domain.PolicyResult, error) {
	orders, err := s.source.Orders(ctx)
	if err != nil {
		return domain.PolicyResult{}, err
	}
	kpis, err := s.calc.Snapshot(orders)
	if err != nil {
		return domain.PolicyResult{}, err
	}
	return s.engine.Evaluate(kpis, orders)
}

// Dashboard assembles the dashboard payload, serving from cache when a
// fresh copy exists.
func (s *AnalysisService) Dashboard(ctx context.Context) (*domain.DashboardSnapshot, error) {
	if snapshot, ok, err := s.cache.Get(ctx, s.windowStart, s.windowEnd); err == nil && ok {
		return snapshot, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard: cache get failed")
	}

	orders, err := s.source.Orders(ctx)
	if err != nil {
		return nil, err
	}
	kpis, err := s.calc.Snapshot(orders)
	if err != nil {
		return nil, err
	}
	policy, err := s.engine.Evaluate(kpis, orders)
	if err != nil {
		return nil, err
	}
	stock, err := s.ledger.Status()
	if err != nil {
		return nil, err
	}

	snapshot := &domain.DashboardSnapshot{
		KPIs:         kpis,
		Policy:       policy,
		Stock:        stock,
		ActiveAlerts: s.dispatcher.GetActive(),
		GeneratedAt:  time.Now(),
	}

	if err := s.cache.Set(ctx, s.windowStart, s.windowEnd, snapshot); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache set failed")
	}

	return snapshot, nil
}

// Forecast produces the demand forecast for the next days. Forecasting is
// best effort: any failure is reported as "no forecast available", never as
// an error.
func (s *AnalysisService) Forecast(ctx context.Context, days int) domain.ForecastResult {
	if days <= 0 {
		days = 30
	}

	orders, err := s.source.Orders(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("forecast: dataset unavailable")
		return domain.ForecastResult{Available: false}
	}

	if err := s.forecaster.Fit(orders); err != nil {
		log.Warn().Err(err).Msg("forecast: fit failed")
		return domain.ForecastResult{Available: false}
	}

	points, err := s.forecaster.Predict(days)
	if err != nil {
		log.Warn().Err(err).Msg("forecast: predict failed")
		return domain.ForecastResult{Available: false}
	}

	return domain.ForecastResult{
		Available: true,
		Model:     s.forecaster.Name(),
		Points:    points,
	}
}

// Consume records stock usage. A returned alert means the reorder point was
// crossed; it has already been routed through the delivery channels.
func (s *AnalysisService) Consume(ctx context.Context, quantity float64, reason string) (domain.StockState, *domain.Alert, error) {
	if quantity <= 0 {
		return domain.StockState{}, nil, fmt.Errorf("consume quantity must be positive, got %v", quantity)
	}

	alert, err := s.ledger.Consume(quantity, reason)
	if err != nil {
		return domain.StockState{}, nil, err
	}
	if alert != nil {
		tracked := s.dispatcher.Track(*alert)
		alert = &tracked
	}

	s.invalidateDashboard(ctx)

	state, err := s.ledger.Status()
	if err != nil {
		return domain.StockState{}, alert, err
	}
	return state, alert, nil
}

// Receive records a stock delivery. Receipts never alert.
func (s *AnalysisService) Receive(ctx context.Context, quantity float64, reason string) (domain.StockState, error) {
	if quantity <= 0 {
		return domain.StockState{}, fmt.Errorf("receive quantity must be positive, got %v", quantity)
	}

	s.ledger.Receive(quantity, reason)
	s.invalidateDashboard(ctx)

	return s.ledger.Status()
}

// History returns the in-memory transaction log.
func (s *AnalysisService) History(ctx context.Context) []domain.Transaction {
	return s.ledger.History()
}

// Status reports the classified stock position.
func (s *AnalysisService) Status(ctx context.Context) (domain.StockState, error) {
	return s.ledger.Status()
}

// CheckAlerts runs the dispatcher rules. When the caller does not supply a
// live demand or cost reading, the most recent order and the average order
// cost stand in.
func (s *AnalysisService) CheckAlerts(ctx context.Context, currentDemand, currentCost *float64) ([]domain.Alert, error) {
	orders, err := s.source.Orders(ctx)
	if err != nil {
		return nil, err
	}
	kpis, err := s.calc.Snapshot(orders)
	if err != nil {
		return nil, err
	}

	demand := kpis.AvgOrderSize
	if len(orders) > 0 {
		demand = orders[len(orders)-1].QuantityKg
	}
	if currentDemand != nil {
		demand = *currentDemand
	}

	cost := kpis.AvgCostPerOrder
	if currentCost != nil {
		cost = *currentCost
	}

	emitted := s.dispatcher.CheckConditions(demand, kpis.AvgOrderSize, kpis.StdOrderSize, cost, kpis.AvgCostPerOrder)
	if len(emitted) > 0 {
		s.invalidateDashboard(ctx)
	}
	return emitted, nil
}

// ActiveAlerts lists pending alerts; all=true includes processed ones.
func (s *AnalysisService) ActiveAlerts(all bool) []domain.Alert {
	if all {
		return s.dispatcher.All()
	}
	return s.dispatcher.GetActive()
}

// AcknowledgeAlert transitions one alert to PROCESSED by id.
func (s *AnalysisService) AcknowledgeAlert(ctx context.Context, id string) bool {
	ok := s.dispatcher.MarkProcessed(id)
	if ok {
		s.invalidateDashboard(ctx)
	}
	return ok
}

// Window reports the analysis window the service operates on.
func (s *AnalysisService) Window() (time.Time, time.Time) {
	return s.windowStart, s.windowEnd
}

func (s *AnalysisService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, s.windowStart, s.windowEnd); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache invalidation failed")
	}
}
