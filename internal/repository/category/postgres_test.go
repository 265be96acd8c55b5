package category

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/pgtest"
)

func TestPostgres_CreateGetAllOrdered(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(pgtest.Pool(t), nil)

	_, err := repo.Create(ctx, domain.Category{ID: "social", Name: "Social", Icon: "Users"})
	require.NoError(t, err)
	created, err := repo.Create(ctx, domain.Category{ID: "dev", Name: "Dev", Icon: "Code"})
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = repo.Create(ctx, domain.Category{ID: "dev", Name: "Again", Icon: "Code"})
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)

	list, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "dev", list[0].ID)
	assert.Equal(t, "social", list[1].ID)
}

func TestPostgres_UpdateAppliesPatch(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(pgtest.Pool(t), nil)

	orig, err := repo.Create(ctx, domain.Category{ID: "dev", Name: "Dev", Icon: "Code"})
	require.NoError(t, err)

	name := "Development"
	updated, err := repo.Update(ctx, "dev", domain.CategoryPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Development", updated.Name)
	assert.Equal(t, "Code", updated.Icon)
	assert.False(t, updated.UpdatedAt.Before(orig.UpdatedAt))

	_, err = repo.Update(ctx, "missing", domain.CategoryPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_UpsertManyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(pgtest.Pool(t), nil)

	batch := []domain.Category{
		{ID: "dev", Name: "Dev", Icon: "Code"},
		{ID: "news", Name: "News", Icon: "Newspaper"},
	}
	require.NoError(t, repo.UpsertMany(ctx, batch))
	batch[0].Name = "Developers"
	require.NoError(t, repo.UpsertMany(ctx, batch))

	list, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Developers", list[0].Name)
}

func TestPostgres_UpsertManyIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(pgtest.Pool(t), nil)

	err := repo.UpsertMany(ctx, []domain.Category{
		{ID: "dev", Name: "Dev", Icon: "Code"},
		{ID: "dev", Name: "Dev again", Icon: "Code"},
		{ID: "bad", Name: "Bad", Icon: string([]byte{0})},
	})
	require.Error(t, err)

	list, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPostgres_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(pgtest.Pool(t), nil)

	_, err := repo.Create(ctx, domain.Category{ID: "dev", Name: "Dev", Icon: "Code"})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, "dev"))
	require.NoError(t, repo.Delete(ctx, "dev"))

	_, err = repo.Get(ctx, "dev")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_GetAllEmptyIsNonNil(t *testing.T) {
	list, err := NewPostgres(pgtest.Pool(t), nil).GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
