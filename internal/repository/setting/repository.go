package setting

import (
	"context"
	"sort"

	"github.com/kedaya2025/FastNav/internal/domain"
)

// Repository is the durable Settings store, keyed by setting key.
type Repository interface {
	// GetAll returns every setting ordered by key.
	GetAll(ctx context.Context) ([]domain.Setting, error)
	Create(ctx context.Context, key, value string) (*domain.Setting, error)
	Update(ctx context.Context, key, value string) (*domain.Setting, error)
	// GetMultiple returns only the keys that exist.
	GetMultiple(ctx context.Context, keys []string) (map[string]string, error)
	// SetMultiple upserts every pair in one transaction.
	SetMultiple(ctx context.Context, values map[string]string) error
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
