// internal/domain/models.go
package domain

import "time"

// Order represents a single historical dry ice order after loading.
// Derived fields are filled in by the dataset loader from the configured
// cost parameters.
type Order struct {
	Date              time.Time `json:"date" db:"order_date"`
	QuantityKg        float64   `json:"quantity_kg" db:"quantity_kg"`
	ContainersUsed    float64   `json:"containers_used" db:"containers_used"`
	EffectiveQuantity float64   `json:"effective_quantity" db:"effective_quantity"`
	TotalCost         float64   `json:"total_cost" db:"total_cost"`
}

// KPISnapshot is an immutable aggregate over an order dataset slice.
// It is recomputed on demand and never mutated in place.
type KPISnapshot struct {
	TotalOrders          int     `json:"total_orders"`
	TotalVolume          float64 `json:"total_volume"`
	AvgOrderSize         float64 `json:"avg_order_size"`
	StdOrderSize         float64 `json:"std_order_size"`
	AvgMonthlyDemand     float64 `json:"avg_monthly_demand"`
	CurrentMonthlyVolume float64 `json:"current_monthly_volume"`
	OrderFrequency       float64 `json:"order_frequency"`
	ContainerUtilization float64 `json:"container_utilization"`
	TotalCost            float64 `json:"total_cost"`
	AvgCostPerOrder      float64 `json:"avg_cost_per_order"`
	TimeSpanDays         float64 `json:"time_span_days"`
}

// PolicyResult holds the inventory policy derived from a KPI snapshot and
// the cost parameters. Quantities are in kg, costs in the configured currency.
type PolicyResult struct {
	EOQ            float64 `json:"eoq"`
	SafetyStock    float64 `json:"safety_stock"`
	ReorderPoint   float64 `json:"reorder_point"`
	CurrentCost    float64 `json:"current_cost"`
	EOQCost        float64 `json:"eoq_cost"`
	Savings        float64 `json:"savings"`
	PercentSavings float64 `json:"percent_savings"`
}

// Transaction is one entry in the stock ledger's append-only log.
type Transaction struct {
	ID        string          `json:"id" db:"id"`
	Timestamp time.Time       `json:"timestamp" db:"ts"`
	Quantity  float64         `json:"quantity" db:"quantity"`
	Type      TransactionType `json:"type" db:"tx_type"`
	Balance   float64         `json:"balance" db:"balance"`
	Reason    string          `json:"reason" db:"reason"`
}

// StockState is the ledger's externally visible state: the running balance,
// its classification, and the live thresholds it was classified against.
type StockState struct {
	CurrentStock float64     `json:"current_stock"`
	Status       StockStatus `json:"status"`
	SafetyStock  float64     `json:"safety_stock"`
	ReorderPoint float64     `json:"reorder_point"`
}

// Alert is a notification record. Delivery over the listed channels is
// handled by external collaborators; the record itself is the source of truth.
type Alert struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Type      AlertType     `json:"type"`
	Message   string        `json:"message"`
	Priority  AlertPriority `json:"priority"`
	Channels  []string      `json:"channels"`
	Status    AlertStatus   `json:"status"`
}

// ForecastPoint is a single horizon step of a demand forecast.
type ForecastPoint struct {
	Date    time.Time `json:"date"`
	Value   float64   `json:"value"`
	Lower80 float64   `json:"lower_80"`
	Upper80 float64   `json:"upper_80"`
	Lower95 float64   `json:"lower_95"`
	Upper95 float64   `json:"upper_95"`
}

// ForecastResult wraps a forecast so callers can distinguish "no forecast
// available" from an empty one. Forecasting failures never propagate.
type ForecastResult struct {
	Available bool            `json:"available"`
	Model     string          `json:"model,omitempty"`
	Points    []ForecastPoint `json:"points,omitempty"`
}

// DashboardSnapshot is the full payload the dashboard endpoint serves.
type DashboardSnapshot struct {
	KPIs         KPISnapshot  `json:"kpis"`
	Policy       PolicyResult `json:"policy"`
	Stock        StockState   `json:"stock"`
	ActiveAlerts []Alert      `json:"active_alerts"`
	GeneratedAt  time.Time    `json:"generated_at"`
}

// ContainerReading carries the health indicator values reported for one
// reusable dry ice container.
type ContainerReading struct {
	ContainerID string             `json:"container_id"`
	Indicators  map[string]float64 `json:"indicators"`
}

// MaintenanceReport is the scored outcome for a container reading.
type MaintenanceReport struct {
	ContainerID        string   `json:"container_id"`
	RiskScore          float64  `json:"risk_score"`
	FailureProbability float64  `json:"failure_probability"`
	RemainingLifeDays  int      `json:"estimated_life_remaining_days"`
	Recommendations    []string `json:"maintenance_recommendations"`
}

// IngestResult summarizes one ingested order file.
type IngestResult struct {
	Filename    string    `json:"filename"`
	RowsRead    int       `json:"rows_read"`
	RowsKept    int       `json:"rows_kept"`
	ProcessedAt time.Time `json:"processed_at"`
}
