// internal/ingest/service.go
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/coldfront-analytics/dryice-backend/internal/dataset"
	"github.com/coldfront-analytics/dryice-backend/internal/domain"
	"github.com/coldfront-analytics/dryice-backend/internal/repository"
	"github.com/rs/zerolog/log"
)

// Service accepts uploaded order CSV files, validates them through the
// dataset loader, stores the raw file, and archives the parsed rows to
// Postgres.
type Service struct {
	loader  *dataset.Loader
	repo    repository.OrderRepository
	dataDir string
}

// NewService builds an ingest service. repo may be nil when the archive
// database is not configured; uploads are then file-only.
func NewService(loader *dataset.Loader, repo repository.OrderRepository, dataDir string) *Service {
	return &Service{loader: loader, repo: repo, dataDir: dataDir}
}

// IngestFile validates and stores one uploaded CSV. The raw file is kept
// only when every row parses; a rejected upload leaves no trace on disk.
func (s *Service) IngestFile(ctx context.Context, filename string, r io.Reader) (domain.IngestResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return domain.IngestResult{}, fmt.Errorf("read upload: %w", err)
	}

	orders, err := s.loader.Parse(bytes.NewReader(raw))
	if err != nil {
		return domain.IngestResult{}, fmt.Errorf("parse %s: %w", filename, err)
	}

	dest := filepath.Join(s.dataDir, filepath.Base(filename))
	if err := os.WriteFile(dest, raw, 0o644); err != nil {
		return domain.IngestResult{}, fmt.Errorf("store %s: %w", dest, err)
	}

	if s.repo != nil {
		inserted, err := s.repo.InsertOrders(ctx, orders)
		if err != nil {
			// The file is stored; archiving can be retried from it.
			log.Warn().Err(err).Str("file", filename).Msg("order archive insert failed")
		} else {
			log.Info().Int("rows", inserted).Str("file", filename).Msg("orders archived")
		}
	}

	return domain.IngestResult{
		Filename:    filepath.Base(filename),
		RowsRead:    dataRows(raw),
		RowsKept:    len(orders),
		ProcessedAt: time.Now(),
	}, nil
}

// dataRows counts the non-empty lines after the header.
func dataRows(raw []byte) int {
	n := 0
	for _, line := range bytes.Split(raw, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	if n > 0 {
		n--
	}
	return n
}

// ArchivedCount reports how many orders the archive database holds.
func (s *Service) ArchivedCount(ctx context.Context) (int, error) {
	if s.repo == nil {
		return 0, fmt.Errorf("order archive is not configured")
	}
	return s.repo.CountOrders(ctx)
}
