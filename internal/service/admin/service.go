package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/kedaya2025/FastNav/internal/backend"
	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/logger"
	"github.com/kedaya2025/FastNav/internal/migrate"
	"github.com/kedaya2025/FastNav/internal/repository"
	"github.com/kedaya2025/FastNav/internal/seed"
)

// SchemaApplier creates the relational schema on a pooled connection.
type SchemaApplier func(ctx context.Context, pool *backend.Pool) error

// Service runs database initialization and diagnostics.
type Service struct {
	conn        backend.Connector
	stores      repository.Stores
	presence    map[string]bool
	applySchema SchemaApplier
	log         *logger.Logger
}

func New(conn backend.Connector, stores repository.Stores, presence map[string]bool, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		conn:        conn,
		stores:      stores,
		presence:    presence,
		applySchema: migrate.Apply,
		log:         log.Named("admin"),
	}
}

// InitResult reports what initialization did.
type InitResult struct {
	Seeded        seed.Summary `json:"seeded"`
	SchemaCreated bool         `json:"schemaCreated"`
}

// InitDatabase upserts the default dataset. When the tables are missing and
// the connector is a pool, the schema is applied and seeding retried once.
// The REST proxy cannot run DDL, so its missing-relation error is returned
// with the initialization hint.
func (s *Service) InitDatabase(ctx context.Context) (InitResult, error) {
	summary, err := seed.Apply(ctx, s.stores)
	if err == nil {
		s.log.Info().Int("categories", summary.Categories).Int("websites", summary.Websites).Msg("database initialized")
		return InitResult{Seeded: summary}, nil
	}
	if !errors.Is(err, domain.ErrMissingRelation) {
		return InitResult{}, err
	}

	pool, ok := s.conn.(*backend.Pool)
	if !ok {
		return InitResult{}, err
	}

	s.log.Warn().Err(err).Msg("tables missing; applying schema")
	if err := s.applySchema(ctx, pool); err != nil {
		return InitResult{}, &domain.BackendError{
			Cause:   domain.CauseMissingRelation,
			Message: fmt.Sprintf("create tables: %v", err),
			Hint:    domain.HintInitialize,
			Err:     err,
		}
	}

	summary, err = seed.Apply(ctx, s.stores)
	if err != nil {
		return InitResult{}, err
	}
	s.log.Info().Int("categories", summary.Categories).Int("websites", summary.Websites).Msg("schema created and database initialized")
	return InitResult{Seeded: summary, SchemaCreated: true}, nil
}

// Diagnosis describes the durable backend without exposing secrets.
type Diagnosis struct {
	Connector     backend.Kind    `json:"connector"`
	Healthy       bool            `json:"healthy"`
	Configured    map[string]bool `json:"configured"`
	SchemaVersion *uint           `json:"schemaVersion,omitempty"`
	SchemaDirty   bool            `json:"schemaDirty,omitempty"`
}

func (s *Service) Diagnose(ctx context.Context) Diagnosis {
	d := Diagnosis{
		Connector:  s.conn.Kind(),
		Healthy:    s.conn.HealthCheck(ctx),
		Configured: s.presence,
	}
	if pool, ok := s.conn.(*backend.Pool); ok && d.Healthy {
		version, dirty, applied, err := migrate.Version(ctx, pool)
		if err != nil {
			s.log.Warn().Err(err).Msg("read schema version failed")
		} else if applied {
			d.SchemaVersion = &version
			d.SchemaDirty = dirty
		}
	}
	return d
}
