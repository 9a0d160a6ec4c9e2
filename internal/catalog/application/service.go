package application

import (
	"context"
	"strings"

	"github.com/farmafacil/ordering/internal/catalog/domain"
)

type Service struct {
	repo  ProductRepository
	stats StatsRecorder
}

func NewService(repo ProductRepository, stats StatsRecorder) *Service {
	return &Service{repo: repo, stats: stats}
}

func (s *Service) Get(ctx context.Context, id int) (domain.Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, category string) ([]domain.Product, error) {
	return s.repo.List(ctx, category)
}

// Search matches products by name or description and records the term for
// the search statistics view, including terms that matched nothing.
func (s *Service) Search(ctx context.Context, term string) ([]domain.Product, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, nil
	}

	all, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var matched []domain.Product
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(strings.ToLower(p.Category), term) {
			matched = append(matched, p)
		}
	}
	s.stats.Record(term, len(matched) > 0)
	return matched, nil
}

// CheckStock reports whether the requested quantity is coverable by the
// fixture stock. An unknown product surfaces ErrNotFound.
func (s *Service) CheckStock(ctx context.Context, productID, quantity int) (bool, error) {
	p, err := s.repo.Get(ctx, productID)
	if err != nil {
		return false, err
	}
	return quantity <= p.Stock, nil
}

func (s *Service) TopSearches(n int) []domain.SearchCount {
	return s.stats.Top(n)
}

func (s *Service) NotFoundSearches(n int) []domain.SearchCount {
	return s.stats.NotFound(n)
}
