// internal/domain/status.go
package domain

import "strings"

// StockStatus classifies the ledger balance against the policy thresholds.
type StockStatus string

const (
	StockNormal   StockStatus = "NORMAL"
	StockLow      StockStatus = "LOW"
	StockCritical StockStatus = "CRITICAL"
)

// TransactionType tags a ledger entry.
type TransactionType string

const (
	TxConsumption TransactionType = "Consumption"
	TxReceipt     TransactionType = "Receipt"
	TxAdjustment  TransactionType = "Adjustment"
)

// AlertType identifies which dispatcher rule fired.
type AlertType string

const (
	AlertLowStock      AlertType = "LOW_STOCK"
	AlertReorderDue    AlertType = "REORDER_DUE"
	AlertUnusualDemand AlertType = "UNUSUAL_DEMAND"
	AlertCostSpike     AlertType = "COST_SPIKE"
)

// AlertPriority orders alerts for delivery.
type AlertPriority string

const (
	PriorityHigh   AlertPriority = "HIGH"
	PriorityMedium AlertPriority = "MEDIUM"
	PriorityLow    AlertPriority = "LOW"
)

// AlertStatus tracks acknowledgment. Alerts never auto-expire; the only
// transition is PENDING -> PROCESSED via an explicit ack.
type AlertStatus string

const (
	AlertPending   AlertStatus = "PENDING"
	AlertProcessed AlertStatus = "PROCESSED"
)

var statusColors = map[StockStatus]string{
	StockNormal:   "green",
	StockLow:      "orange",
	StockCritical: "red",
}

// Color returns the dashboard color code for a stock status.
func (s StockStatus) Color() string {
	if color, ok := statusColors[s]; ok {
		return color
	}

	return "gray"
}

// ParseTransactionType returns the transaction type for a label
// (case-insensitive). Unknown labels fall back to Adjustment.
func ParseTransactionType(label string) (TransactionType, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "consumption":
		return TxConsumption, true
	case "receipt":
		return TxReceipt, true
	case "adjustment":
		return TxAdjustment, true
	}

	return TxAdjustment, false
}
