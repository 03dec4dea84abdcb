package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coldfront-analytics/dryice-backend/internal/config"
	"github.com/coldfront-analytics/dryice-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData() Data {
	generated, _ := time.Parse("2006-01-02", "2025-07-01")
	return Data{
		Period:      "2024-07-01 to 2025-06-30",
		GeneratedAt: generated,
		Params: config.InventoryConfig{
			PricePerKg:      146.55,
			ContainerSizeKg: 150,
			TransportCost:   1741.94,
			HoldingRate:     0.03,
			ServiceLevel:    0.95,
		},
		KPIs: domain.KPISnapshot{
			TotalOrders:          12,
			TotalVolume:          1440,
			AvgOrderSize:         120,
			AvgMonthlyDemand:     3600,
			CurrentMonthlyVolume: 3600,
			ContainerUtilization: 0.8,
			TotalCost:            211032,
			AvgCostPerOrder:      17586,
		},
		Policy: domain.PolicyResult{
			EOQ:            1891.9,
			SafetyStock:    94.3,
			ReorderPoint:   1986.2,
			CurrentCost:    52522.36,
			EOQCost:        8317.04,
			Savings:        44205.32,
			PercentSavings: 84.2,
		},
		Stock: domain.StockState{
			CurrentStock: 1150,
			Status:       domain.StockLow,
			SafetyStock:  94.3,
			ReorderPoint: 1986.2,
		},
	}
}

func TestGenerateWritesReport(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGenerator(dir, nil)
	require.NoError(t, err)

	path, err := g.Generate(context.Background(), testData())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "dry_ice_analysis_report_2025-07-01.md"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "# Dry Ice Inventory Analysis Report")
	assert.Contains(t, text, "**Period:** 2024-07-01 to 2025-06-30")
	assert.Contains(t, text, "| Economic order quantity | 1891.9 |")
	assert.Contains(t, text, "KSh 44205.32 (84.2%)")
	assert.Contains(t, text, "Current stock: 1150.0 kg (LOW)")
	assert.Contains(t, text, "No forecast available for this period.")
}

func TestGenerateVersionsDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGenerator(dir, nil)
	require.NoError(t, err)

	first, err := g.Generate(context.Background(), testData())
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), testData())
	require.NoError(t, err)
	third, err := g.Generate(context.Background(), testData())
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(first, "dry_ice_analysis_report_2025-07-01.md"))
	assert.True(t, strings.HasSuffix(second, "dry_ice_analysis_report_2025-07-01_1.md"))
	assert.True(t, strings.HasSuffix(third, "dry_ice_analysis_report_2025-07-01_2.md"))
}

func TestGenerateLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGenerator(dir, nil)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), testData())
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".report-"), "leftover temp file %s", e.Name())
	}
}

func TestGenerateIncludesForecastTable(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGenerator(dir, nil)
	require.NoError(t, err)

	data := testData()
	day, _ := time.Parse("2006-01-02", "2025-07-02")
	data.Forecast = domain.ForecastResult{
		Available: true,
		Model:     "ensemble",
		Points: []domain.ForecastPoint{
			{Date: day, Value: 118.2, Lower80: 106.4, Upper80: 130.0, Lower95: 100.5, Upper95: 135.9},
		},
	}

	path, err := g.Generate(context.Background(), data)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "Model: ensemble")
	assert.Contains(t, text, "| 2025-07-02 | 118.2 | 106.4 - 130.0 | 100.5 - 135.9 |")
	assert.NotContains(t, text, "No forecast available")
}

func TestGenerateListsActiveAlerts(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGenerator(dir, nil)
	require.NoError(t, err)

	data := testData()
	data.ActiveAlerts = []domain.Alert{{
		Type:     domain.AlertReorderDue,
		Message:  "REORDER REQUIRED - Current stock: 1150.0 kg",
		Priority: domain.PriorityMedium,
	}}

	path, err := g.Generate(context.Background(), data)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "- [MEDIUM] REORDER_DUE: REORDER REQUIRED - Current stock: 1150.0 kg")
}

func TestRecommendations(t *testing.T) {
	t.Run("savings and low stock", func(t *testing.T) {
		d := testData()
		d.Recommendations()

		advice := d.Advice()
		require.Len(t, advice, 2)
		assert.Contains(t, advice[0], "Order in batches of 1892 kg")
		assert.Contains(t, advice[1], "Stock is LOW at 1150.0 kg")
	})

	t.Run("critical stock", func(t *testing.T) {
		d := testData()
		d.Stock.Status = domain.StockCritical
		d.Recommendations()

		assert.Contains(t, strings.Join(d.Advice(), "\n"), "emergency order")
	})

	t.Run("poor utilization", func(t *testing.T) {
		d := testData()
		d.KPIs.ContainerUtilization = 0.5
		d.Recommendations()

		assert.Contains(t, strings.Join(d.Advice(), "\n"), "Container utilization is 50%")
	})

	t.Run("nothing to improve", func(t *testing.T) {
		d := testData()
		d.Policy.Savings = 0
		d.Stock.Status = domain.StockNormal
		d.KPIs.ContainerUtilization = 0.9
		d.Recommendations()

		advice := d.Advice()
		require.Len(t, advice, 1)
		assert.Contains(t, advice[0], "close to optimal")
	})
}
