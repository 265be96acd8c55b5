package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kedaya2025/FastNav/internal/backend"
	"github.com/kedaya2025/FastNav/internal/domain"
)

func TestNewWithAbsentConnector(t *testing.T) {
	ctx := context.Background()
	stores := New(backend.Absent{}, nil)

	_, err := stores.Categories.GetAll(ctx)
	assert.ErrorIs(t, err, domain.ErrConnection)
	_, err = stores.Websites.GetAll(ctx)
	assert.ErrorIs(t, err, domain.ErrConnection)
	_, err = stores.Settings.GetMultiple(ctx, []string{domain.SettingSiteTitle})
	assert.ErrorIs(t, err, domain.ErrConnection)
}
