package navigation

import (
	"context"

	"github.com/google/uuid"

	"github.com/kedaya2025/FastNav/internal/cache"
	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/logger"
	"github.com/kedaya2025/FastNav/internal/repository"
	"github.com/kedaya2025/FastNav/internal/seed"
	"github.com/kedaya2025/FastNav/internal/validator"
)

// Service resolves reads across the durable store, the client cache and
// the built-in defaults, and mirrors every write into the cache.
type Service struct {
	stores   repository.Stores
	cache    *cache.Adapter
	validate *validator.Validator
	log      *logger.Logger
	newID    func() string
}

func New(stores repository.Stores, c *cache.Adapter, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		stores:   stores,
		cache:    c,
		validate: validator.New(),
		log:      log.Named("resolver"),
		newID:    uuid.NewString,
	}
}

// Initialize seeds the durable store with the defaults when it holds no
// categories. seeded is false when data already exists.
func (s *Service) Initialize(ctx context.Context) (seeded bool, err error) {
	cs, err := s.stores.Categories.GetAll(ctx)
	if err != nil {
		return false, err
	}
	if len(cs) > 0 {
		return false, nil
	}
	summary, err := seed.Apply(ctx, s.stores)
	if err != nil {
		return false, err
	}
	s.log.Info().
		Int("categories", summary.Categories).
		Int("websites", summary.Websites).
		Int("settings", summary.Settings).
		Msg("durable store seeded with defaults")
	return true, nil
}

// Export is the resolved view of both collections.
type Export struct {
	Categories Listing[domain.Category]
	Websites   Listing[domain.Website]
}

func (s *Service) Export(ctx context.Context) Export {
	return Export{
		Categories: s.ListCategories(ctx),
		Websites:   s.ListWebsites(ctx),
	}
}

// tier binds one collection's durable, cache and default sources.
type tier[T any] struct {
	collection cache.Collection
	id         func(T) string
	getAll     func(context.Context) ([]T, error)
	cached     func(context.Context) ([]T, bool)
	mirror     func(context.Context, []T) error
	defaults   func() []T
}

func (s *Service) categoryTier() tier[domain.Category] {
	return tier[domain.Category]{
		collection: cache.Categories,
		id:         func(c domain.Category) string { return c.ID },
		getAll:     s.stores.Categories.GetAll,
		cached:     s.cache.Categories,
		mirror:     s.cache.WriteCategories,
		defaults:   seed.DefaultCategories,
	}
}

func (s *Service) websiteTier() tier[domain.Website] {
	return tier[domain.Website]{
		collection: cache.Websites,
		id:         func(w domain.Website) string { return w.ID },
		getAll:     s.stores.Websites.GetAll,
		cached:     s.cache.Websites,
		mirror:     s.cache.WriteWebsites,
		defaults:   seed.DefaultWebsites,
	}
}

func resolve[T any](ctx context.Context, log *logger.Logger, t tier[T]) Listing[T] {
	items, err := t.getAll(ctx)
	if err == nil && len(items) > 0 {
		return Listing[T]{Items: items, Source: SourceDurable}
	}
	if err != nil {
		log.Warn().Err(err).Str("collection", string(t.collection)).Str("kind", string(domain.KindOf(err))).
			Msg("durable read failed; falling back")
	}
	if cached, ok := t.cached(ctx); ok && len(cached) > 0 {
		return Listing[T]{Items: cached, Source: SourceCache, DurableErr: err}
	}
	return Listing[T]{Items: t.defaults(), Source: SourceDefaults, DurableErr: err}
}

// view is the non-durable picture of a collection: the cache when it holds
// records, otherwise the defaults.
func view[T any](ctx context.Context, t tier[T]) []T {
	if cached, ok := t.cached(ctx); ok && len(cached) > 0 {
		return cached
	}
	return t.defaults()
}

// rejected reports whether a reachable durable tier refused the write for a
// data reason. Rejected writes are not mirrored.
func rejected(err error) bool {
	return err != nil && !domain.Unavailable(err)
}

// mirror overwrites the cache snapshot after a durable write. When the
// durable write succeeded the snapshot is re-read from it; otherwise apply
// mutates the cached view.
func mirror[T any](ctx context.Context, log *logger.Logger, t tier[T], durableErr error, apply func([]T) ([]T, error)) error {
	var (
		snapshot []T
		reread   bool
	)
	if durableErr == nil {
		fresh, err := t.getAll(ctx)
		if err == nil {
			snapshot, reread = fresh, true
		} else {
			log.Warn().Err(err).Str("collection", string(t.collection)).Msg("durable re-read after write failed; mirroring local view")
		}
	} else {
		log.Warn().Err(durableErr).Str("collection", string(t.collection)).Str("kind", string(domain.KindOf(durableErr))).
			Msg("durable write failed; mirroring to cache")
	}

	if !reread {
		var err error
		snapshot, err = apply(view(ctx, t))
		if err != nil {
			return err
		}
	}
	return t.mirror(ctx, snapshot)
}

// write issues durable first, then mirrors the resulting collection.
func write[T any](ctx context.Context, log *logger.Logger, t tier[T], durable func(context.Context) error, apply func([]T) ([]T, error)) WriteResult {
	durableErr := durable(ctx)
	if rejected(durableErr) {
		return WriteResult{Outcome: OutcomeFailed, DurableErr: durableErr}
	}
	return outcome(durableErr, mirror(ctx, log, t, durableErr, apply))
}

func upsert[T any](id func(T) string, items ...T) func([]T) ([]T, error) {
	return func(current []T) ([]T, error) {
		out := append([]T(nil), current...)
		index := make(map[string]int, len(out))
		for i, r := range out {
			index[id(r)] = i
		}
		for _, r := range items {
			if i, ok := index[id(r)]; ok {
				out[i] = r
				continue
			}
			index[id(r)] = len(out)
			out = append(out, r)
		}
		return out, nil
	}
}

func remove[T any](keep func(T) bool) func([]T) ([]T, error) {
	return func(current []T) ([]T, error) {
		out := make([]T, 0, len(current))
		for _, r := range current {
			if keep(r) {
				out = append(out, r)
			}
		}
		return out, nil
	}
}

func duplicateIDs[T any](label string, id func(T) string, items []T) error {
	seen := make(map[string]bool, len(items))
	for _, r := range items {
		if seen[id(r)] {
			return &domain.ValidationError{
				Message: "duplicate id " + id(r) + " in " + label,
				Fields:  []domain.FieldError{{Field: label, Message: "duplicate id " + id(r)}},
			}
		}
		seen[id(r)] = true
	}
	return nil
}
