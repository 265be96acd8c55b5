package category

import (
	"context"

	"github.com/kedaya2025/FastNav/internal/domain"
)

// Repository is the durable Category store. Every method reports failures in
// the domain error taxonomy and never swallows them.
type Repository interface {
	// GetAll returns every category ordered by name.
	GetAll(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	// Create fails with domain.ErrDuplicateKey when the id exists.
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
	// Update applies only the patched fields and fails with domain.ErrNotFound when no row matches.
	Update(ctx context.Context, id string, p domain.CategoryPatch) (*domain.Category, error)
	// Delete removes the category and, by cascade, its websites. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
	// UpsertMany inserts or fully overwrites every record in one transaction.
	UpsertMany(ctx context.Context, cs []domain.Category) error
}
