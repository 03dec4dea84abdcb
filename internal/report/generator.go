// internal/report/generator.go
package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/coldfront-analytics/dryice-backend/internal/config"
	"github.com/coldfront-analytics/dryice-backend/internal/domain"
	"github.com/coldfront-analytics/dryice-backend/internal/storage"
	"github.com/rs/zerolog/log"
)

// Data is everything the analysis document renders.
type Data struct {
	Period       string
	GeneratedAt  time.Time
	Params       config.InventoryConfig
	KPIs         domain.KPISnapshot
	Policy       domain.PolicyResult
	Stock        domain.StockState
	ActiveAlerts []domain.Alert
	Forecast     domain.ForecastResult

	advice []string
}

// Generator writes the analysis report to a versioned file path and
// optionally archives it to object storage.
type Generator struct {
	dir   string
	store storage.ObjectStorage
	tmpl  *template.Template
}

// NewGenerator builds a report generator writing into dir. store may be nil
// when object storage is not configured.
func NewGenerator(dir string, store storage.ObjectStorage) (*Generator, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"mulf": func(a, b float64) float64 { return a * b },
	}).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("report: parse template: %w", err)
	}
	return &Generator{dir: dir, store: store, tmpl: tmpl}, nil
}

// Generate renders the report and moves it into place atomically: the
// document is written to a temp file in the target directory first, so a
// failure never leaves a partial report behind. The returned path carries a
// numeric suffix when the date-stamped name is already taken.
func (g *Generator) Generate(ctx context.Context, data Data) (string, error) {
	data.Recommendations()

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, &data); err != nil {
		log.Error().Err(err).Str("period", data.Period).Msg("report: template execution failed")
		return "", fmt.Errorf("report: render failed: %w", err)
	}

	path := versionedPath(g.dir, fmt.Sprintf("dry_ice_analysis_report_%s", data.GeneratedAt.Format("2006-01-02")), ".md")

	tmp, err := os.CreateTemp(g.dir, ".report-*")
	if err != nil {
		return "", fmt.Errorf("report: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		log.Error().Err(err).Str("path", path).Msg("report: write failed")
		return "", fmt.Errorf("report: write failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("report: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		log.Error().Err(err).Str("path", path).Msg("report: rename failed")
		return "", fmt.Errorf("report: rename into place: %w", err)
	}

	log.Info().Str("path", path).Msg("report generated")

	if g.store != nil {
		if err := g.store.UploadObject(ctx, filepath.Base(path), buf.Bytes()); err != nil {
			// The local report exists; archiving is best effort.
			log.Warn().Err(err).Str("path", path).Msg("report: object storage upload failed")
		}
	}

	return path, nil
}

// versionedPath returns dir/base+ext, appending _1, _2, ... until the name
// is free.
func versionedPath(dir, base, ext string) string {
	path := filepath.Join(dir, base+ext)
	for i := 1; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, i, ext))
	}
}

// Recommendations fills the derived advice lines rendered at the end of the
// document.
func (d *Data) Recommendations() {
	d.advice = d.advice[:0]
	if d.Policy.Savings > 0 {
		d.advice = append(d.advice, fmt.Sprintf(
			"Order in batches of %.0f kg (EOQ) instead of the current average %.0f kg to save KSh %.2f per month (%.1f%%).",
			d.Policy.EOQ, d.KPIs.AvgOrderSize, d.Policy.Savings, d.Policy.PercentSavings))
	}
	switch d.Stock.Status {
	case domain.StockCritical:
		d.advice = append(d.advice, fmt.Sprintf(
			"Stock is CRITICAL at %.1f kg, below the %.1f kg safety stock. Place an emergency order now.",
			d.Stock.CurrentStock, d.Stock.SafetyStock))
	case domain.StockLow:
		d.advice = append(d.advice, fmt.Sprintf(
			"Stock is LOW at %.1f kg, below the %.1f kg reorder point. Schedule the next order.",
			d.Stock.CurrentStock, d.Stock.ReorderPoint))
	}
	if d.KPIs.ContainerUtilization < 0.7 {
		d.advice = append(d.advice, fmt.Sprintf(
			"Container utilization is %.0f%%. Consolidating orders toward full %.0f kg containers reduces transport spend.",
			d.KPIs.ContainerUtilization*100, d.Params.ContainerSizeKg))
	}
	if len(d.advice) == 0 {
		d.advice = append(d.advice, "Current ordering pattern is close to optimal; no changes recommended.")
	}
}

// Advice exposes the derived recommendation lines to the template.
func (d *Data) Advice() []string { return d.advice }
