package application

import (
	"context"

	"github.com/farmafacil/ordering/internal/catalog/domain"
)

type ProductRepository interface {
	Get(ctx context.Context, id int) (domain.Product, error)
	List(ctx context.Context, category string) ([]domain.Product, error)
}

// StatsRecorder accumulates the search statistics shown to the pharmacy.
type StatsRecorder interface {
	Record(term string, found bool)
	Top(n int) []domain.SearchCount
	NotFound(n int) []domain.SearchCount
}
