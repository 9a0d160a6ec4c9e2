package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/farmafacil/ordering/internal/catalog/domain"
)

// Repository serves the demo catalog from fixtures. Read-only.
type Repository struct {
	products []domain.Product
}

func NewRepository(products []domain.Product) *Repository {
	return &Repository{products: products}
}

func (r *Repository) Get(ctx context.Context, id int) (domain.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
}

func (r *Repository) List(ctx context.Context, category string) ([]domain.Product, error) {
	if category == "" {
		out := make([]domain.Product, len(r.products))
		copy(out, r.products)
		return out, nil
	}
	var out []domain.Product
	for _, p := range r.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// StatsStore keeps the search counters behind a mutex; the HTTP surface makes
// them concurrently reachable.
type StatsStore struct {
	mu       sync.Mutex
	counts   map[string]int
	notFound map[string]int
}

func NewStatsStore() *StatsStore {
	return &StatsStore{
		counts:   make(map[string]int),
		notFound: make(map[string]int),
	}
}

func (s *StatsStore) Record(term string, found bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[term]++
	if !found {
		s.notFound[term]++
	}
}

func (s *StatsStore) Top(n int) []domain.SearchCount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return topN(s.counts, n)
}

func (s *StatsStore) NotFound(n int) []domain.SearchCount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return topN(s.notFound, n)
}

func topN(counts map[string]int, n int) []domain.SearchCount {
	out := make([]domain.SearchCount, 0, len(counts))
	for term, count := range counts {
		out = append(out, domain.SearchCount{Term: term, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
