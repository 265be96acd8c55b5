package website

import (
	"context"

	"github.com/kedaya2025/FastNav/internal/domain"
)

// Repository is the durable Website store. The category column references
// categories.id, so inserting a website under an unknown category fails
// with a constraint-violation BackendError.
type Repository interface {
	GetAll(ctx context.Context) ([]domain.Website, error)
	Get(ctx context.Context, id string) (*domain.Website, error)
	Create(ctx context.Context, w domain.Website) (*domain.Website, error)
	Update(ctx context.Context, id string, p domain.WebsitePatch) (*domain.Website, error)
	Delete(ctx context.Context, id string) error
	UpsertMany(ctx context.Context, ws []domain.Website) error
}
