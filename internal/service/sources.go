// internal/service/sources.go
package service

import (
	"context"
	"sync"
	"time"

	"github.com/coldfront-analytics/dryice-backend/internal/dataset"
	"github.com/coldfront-analytics/dryice-backend/internal/domain"
	"github.com/coldfront-analytics/dryice-backend/internal/repository"
	"github.com/rs/zerolog/log"
)

// CSVSource serves the order dataset from a CSV file on disk. The file is
// parsed once and held in memory; Reload re-reads it after an ingest.
type CSVSource struct {
	mu     sync.RWMutex
	loader *dataset.Loader
	path   string
	orders []domain.Order
	loaded bool
}

func NewCSVSource(loader *dataset.Loader, path string) *CSVSource {
	return &CSVSource{loader: loader, path: path}
}

func (s *CSVSource) Orders(ctx context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.orders, nil
	}
	s.mu.RUnlock()

	return s.Reload(ctx)
}

// Reload re-parses the file and swaps the in-memory dataset.
func (s *CSVSource) Reload(ctx context.Context) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.loader.LoadFile(s.path)
	if err != nil {
		return nil, err
	}

	s.orders = orders
	s.loaded = true
	log.Info().Str("path", s.path).Int("orders", len(orders)).Msg("order dataset loaded")
	return orders, nil
}

// RepositorySource serves the order dataset from the Postgres archive.
type RepositorySource struct {
	repo        repository.OrderRepository
	windowStart time.Time
	windowEnd   time.Time
}

func NewRepositorySource(repo repository.OrderRepository, windowStart, windowEnd time.Time) *RepositorySource {
	return &RepositorySource{repo: repo, windowStart: windowStart, windowEnd: windowEnd}
}

func (s *RepositorySource) Orders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.GetOrders(ctx, s.windowStart, s.windowEnd)
}

var (
	_ DatasetSource = (*CSVSource)(nil)
	_ DatasetSource = (*RepositorySource)(nil)
)
