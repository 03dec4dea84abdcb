// internal/dataset/loader.go
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/coldfront-analytics/dryice-backend/internal/config"
	"github.com/coldfront-analytics/dryice-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	colDate     = "Date"
	colQuantity = "Order_Quantity_kg"

	windowLayout = "2006-01-02"
)

// Order dates arrive day-first (European format). ISO dates are accepted as
// well since the ingest endpoint re-exports them that way.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02",
}

// Loader turns raw order CSVs into the cleaned, time-ordered dataset the
// analysis layer consumes. Rows outside the analysis window are dropped
// silently; rows with a non-positive quantity are rejected.
type Loader struct {
	params      config.InventoryConfig
	windowStart time.Time
	windowEnd   time.Time
}

func NewLoader(params config.InventoryConfig, windowStart, windowEnd string) (*Loader, error) {
	start, err := time.Parse(windowLayout, windowStart)
	if err != nil {
		return nil, fmt.Errorf("invalid analysis window start %q: %w", windowStart, err)
	}
	end, err := time.Parse(windowLayout, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid analysis window end %q: %w", windowEnd, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("analysis window end %s precedes start %s", windowEnd, windowStart)
	}

	return &Loader{params: params, windowStart: start, windowEnd: end}, nil
}

// Window reports the configured analysis window.
func (l *Loader) Window() (time.Time, time.Time) {
	return l.windowStart, l.windowEnd
}

// LoadFile reads and processes an order CSV from disk.
func (l *Loader) LoadFile(path string) ([]domain.Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open orders file: %w", err)
	}
	defer f.Close()

	orders, err := l.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return orders, nil
}

// Parse reads order rows from r, applies the window filter, and fills in the
// derived fields. The result is sorted by date.
func (l *Loader) Parse(r io.Reader) ([]domain.Order, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.TrimSpace(col)] = i
	}
	for _, col := range []string{colDate, colQuantity} {
		if _, ok := colMap[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	var (
		orders  []domain.Order
		dropped int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		date, err := parseOrderDate(record[colMap[colDate]])
		if err != nil {
			return nil, err
		}

		rawQty := strings.TrimSpace(record[colMap[colQuantity]])
		qty, err := strconv.ParseFloat(rawQty, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid order quantity %q: %w", rawQty, err)
		}
		if qty <= 0 {
			return nil, fmt.Errorf("order quantity must be positive, got %v on %s", qty, date.Format(windowLayout))
		}

		if date.Before(l.windowStart) || date.After(l.windowEnd) {
			dropped++
			continue
		}

		orders = append(orders, l.derive(date, qty))
	}

	if dropped > 0 {
		log.Debug().Int("rows", dropped).Msg("dropped orders outside analysis window")
	}

	sort.Slice(orders, func(i, j int) bool { return orders[i].Date.Before(orders[j].Date) })
	return orders, nil
}

func (l *Loader) derive(date time.Time, qty float64) domain.Order {
	return domain.Order{
		Date:              date,
		QuantityKg:        qty,
		ContainersUsed:    math.Ceil(qty / l.params.ContainerSizeKg),
		EffectiveQuantity: qty * (1 - l.params.MeanSubLossFraction()),
		TotalCost:         qty * l.params.PricePerKg,
	}
}

func parseOrderDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable order date %q", raw)
}
