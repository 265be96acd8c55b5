package migration

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kedaya2025/FastNav/internal/cache"
	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/logger"
	"github.com/kedaya2025/FastNav/internal/repository/category"
	"github.com/kedaya2025/FastNav/internal/repository/website"
)

// State is the reconciler's position in the migration flow.
type State string

const (
	StateIdle     State = "idle"
	StateOffered  State = "offered"
	StateInFlight State = "in_flight"
	StateCleared  State = "cleared"
)

// MessageNothingToMigrate is returned when both cached collections are empty.
const MessageNothingToMigrate = "nothing to migrate"

// Result summarizes a completed migration.
type Result struct {
	Categories       int    `json:"categories"`
	Websites         int    `json:"websites"`
	Message          string `json:"message"`
	NothingToMigrate bool   `json:"nothingToMigrate"`
}

// Reconciler moves cached records into the durable store. The cache is
// cleared only after every durable upsert has returned without error.
type Reconciler struct {
	categories category.Repository
	websites   website.Repository
	cache      *cache.Adapter
	log        *logger.Logger

	mu    sync.Mutex
	state State
}

func New(categories category.Repository, websites website.Repository, c *cache.Adapter, log *logger.Logger) *Reconciler {
	if log == nil {
		log = logger.Nop()
	}
	return &Reconciler{
		categories: categories,
		websites:   websites,
		cache:      c,
		log:        log.Named("migration"),
		state:      StateIdle,
	}
}

func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Reconciler) transition(to State) {
	from := r.state
	r.state = to
	if from != to {
		r.log.Info().Str("from", string(from)).Str("to", string(to)).Msg("migration state changed")
	}
}

// CheckPending offers the migration when the cache holds records. It
// reports whether there is pending data.
func (r *Reconciler) CheckPending(ctx context.Context) bool {
	pending := r.cache.HasPendingData(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if pending && r.state != StateInFlight {
		r.transition(StateOffered)
	}
	return pending
}

// Migrate upserts cached categories, then cached websites, and clears the
// cache once both succeed. On any failure the cache is left untouched and
// the migration is offered again. A call while another is in flight is
// rejected.
func (r *Reconciler) Migrate(ctx context.Context) (Result, error) {
	r.mu.Lock()
	if r.state == StateInFlight {
		r.mu.Unlock()
		return Result{}, domain.NewValidationError("a migration is already in progress")
	}
	r.transition(StateInFlight)
	r.mu.Unlock()

	res, err := r.run(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.transition(StateOffered)
		r.log.Warn().Err(err).Str("kind", string(domain.KindOf(err))).Msg("migration failed; cache kept")
		return Result{}, err
	}
	r.transition(StateCleared)
	return res, nil
}

func (r *Reconciler) run(ctx context.Context) (Result, error) {
	cs, _ := r.cache.Categories(ctx)
	ws, _ := r.cache.Websites(ctx)
	if len(cs) == 0 && len(ws) == 0 {
		return Result{Message: MessageNothingToMigrate, NothingToMigrate: true}, nil
	}

	if err := r.categories.UpsertMany(ctx, cs); err != nil {
		return Result{}, fmt.Errorf("migrate categories: %w", err)
	}
	if err := r.websites.UpsertMany(ctx, ws); err != nil {
		return Result{}, fmt.Errorf("migrate websites: %w", err)
	}

	var clearErrs []error
	for _, c := range cache.Collections() {
		if err := r.cache.Clear(ctx, c); err != nil {
			r.log.Warn().Err(err).Str("collection", string(c)).Msg("cache collection not cleared after migration")
			clearErrs = append(clearErrs, fmt.Errorf("clear %s after migration: %w", c, err))
		}
	}
	if err := errors.Join(clearErrs...); err != nil {
		return Result{}, err
	}

	r.log.Info().Int("categories", len(cs)).Int("websites", len(ws)).Msg("cache migrated to durable store")
	return Result{
		Categories: len(cs),
		Websites:   len(ws),
		Message:    fmt.Sprintf("migrated %d categories and %d websites", len(cs), len(ws)),
	}, nil
}
