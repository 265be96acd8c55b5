package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kedaya2025/FastNav/internal/backend"
	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/repository/repotest"
)

func missingRelation() error {
	return &domain.BackendError{Cause: domain.CauseMissingRelation, Code: "42P01", Hint: domain.HintInitialize}
}

func TestInitDatabaseSeeds(t *testing.T) {
	fakes := repotest.New()
	svc := New(backend.Absent{}, fakes.Repository(), nil, nil)

	res, err := svc.InitDatabase(context.Background())
	require.NoError(t, err)
	assert.False(t, res.SchemaCreated)
	assert.Equal(t, 10, res.Seeded.Categories)
	assert.Equal(t, 20, res.Seeded.Websites)
	assert.Equal(t, 3, res.Seeded.Settings)
}

func TestInitDatabaseCreatesSchemaForPool(t *testing.T) {
	fakes := repotest.New()
	fakes.FailAll(missingRelation())

	svc := New(&backend.Pool{}, fakes.Repository(), nil, nil)
	applied := 0
	svc.applySchema = func(context.Context, *backend.Pool) error {
		applied++
		fakes.FailAll(nil)
		return nil
	}

	res, err := svc.InitDatabase(context.Background())
	require.NoError(t, err)
	assert.True(t, res.SchemaCreated)
	assert.Equal(t, 1, applied)
	assert.Equal(t, 10, res.Seeded.Categories)
}

func TestInitDatabaseSchemaFailureCarriesHint(t *testing.T) {
	fakes := repotest.New()
	fakes.FailAll(missingRelation())

	svc := New(&backend.Pool{}, fakes.Repository(), nil, nil)
	svc.applySchema = func(context.Context, *backend.Pool) error { return errors.New("permission denied") }

	_, err := svc.InitDatabase(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingRelation)
	assert.Equal(t, domain.HintInitialize, domain.HintOf(err))
}

func TestInitDatabaseRESTReturnsHint(t *testing.T) {
	fakes := repotest.New()
	fakes.FailAll(missingRelation())
	rest, err := backend.NewREST("https://example.supabase.co", "k", 0, nil)
	require.NoError(t, err)

	svc := New(rest, fakes.Repository(), nil, nil)
	svc.applySchema = func(context.Context, *backend.Pool) error {
		t.Fatal("schema must not be applied through the REST proxy")
		return nil
	}

	_, err = svc.InitDatabase(context.Background())
	assert.ErrorIs(t, err, domain.ErrMissingRelation)
	assert.Equal(t, domain.HintInitialize, domain.HintOf(err))
}

func TestInitDatabaseOtherErrorsPassThrough(t *testing.T) {
	fakes := repotest.New()
	fakes.FailAll(backend.ErrNotConfigured)

	_, err := New(backend.Absent{}, fakes.Repository(), nil, nil).InitDatabase(context.Background())
	assert.Equal(t, domain.KindConnection, domain.KindOf(err))
}

func TestDiagnoseAbsent(t *testing.T) {
	presence := map[string]bool{"POSTGRES_URL": false, "SUPABASE_URL": true}
	d := New(backend.Absent{}, repotest.New().Repository(), presence, nil).Diagnose(context.Background())

	assert.Equal(t, backend.KindNone, d.Connector)
	assert.False(t, d.Healthy)
	assert.Equal(t, presence, d.Configured)
	assert.Nil(t, d.SchemaVersion)
}
