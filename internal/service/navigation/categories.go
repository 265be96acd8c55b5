package navigation

import (
	"context"
	"errors"
	"fmt"

	"github.com/kedaya2025/FastNav/internal/cache"
	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/validator"
)

// ListCategories returns durable categories when present, else the cached
// snapshot, else the defaults. It never fails.
func (s *Service) ListCategories(ctx context.Context) Listing[domain.Category] {
	return resolve(ctx, s.log, s.categoryTier())
}

// SaveCategories upserts the list. The error is non-nil only for invalid
// input, in which case no storage call is made.
func (s *Service) SaveCategories(ctx context.Context, cs []domain.Category) (WriteResult, error) {
	t := s.categoryTier()
	if err := validator.ValidateAll(s.validate, "categories", cs); err != nil {
		return WriteResult{}, err
	}
	if err := duplicateIDs("categories", t.id, cs); err != nil {
		return WriteResult{}, err
	}

	res := write(ctx, s.log, t,
		func(ctx context.Context) error { return s.stores.Categories.UpsertMany(ctx, cs) },
		upsert(t.id, cs...),
	)
	s.logWrite("save_categories", t.collection, res, len(cs))
	return res, nil
}

func (s *Service) CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, WriteResult, error) {
	if err := s.validate.Validate(&c); err != nil {
		return nil, WriteResult{}, err
	}
	t := s.categoryTier()

	created := c
	res := write(ctx, s.log, t,
		func(ctx context.Context) error {
			out, err := s.stores.Categories.Create(ctx, c)
			if err == nil {
				created = *out
			}
			return err
		},
		upsert(t.id, c),
	)
	s.logWrite("create_category", t.collection, res, 1)
	if !res.OK() {
		return nil, res, nil
	}
	return &created, res, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, p domain.CategoryPatch) (*domain.Category, WriteResult, error) {
	if err := s.validate.Validate(&p); err != nil {
		return nil, WriteResult{}, err
	}
	if p.Empty() {
		return nil, WriteResult{}, domain.NewValidationError("no category fields to update")
	}
	t := s.categoryTier()

	var updated domain.Category
	res := write(ctx, s.log, t,
		func(ctx context.Context) error {
			out, err := s.stores.Categories.Update(ctx, id, p)
			if err == nil {
				updated = *out
			}
			return err
		},
		func(current []domain.Category) ([]domain.Category, error) {
			out := append([]domain.Category(nil), current...)
			for i := range out {
				if out[i].ID == id {
					out[i] = p.Apply(out[i])
					updated = out[i]
					return out, nil
				}
			}
			return nil, fmt.Errorf("%w: category %q", domain.ErrNotFound, id)
		},
	)
	s.logWrite("update_category", t.collection, res, 1)
	if !res.OK() {
		return nil, res, nil
	}
	return &updated, res, nil
}

// DeleteCategory removes the category and its websites from both tiers.
func (s *Service) DeleteCategory(ctx context.Context, id string) WriteResult {
	ct, wt := s.categoryTier(), s.websiteTier()

	durableErr := s.stores.Categories.Delete(ctx, id)
	if rejected(durableErr) {
		return WriteResult{Outcome: OutcomeFailed, DurableErr: durableErr}
	}

	categoriesErr := mirror(ctx, s.log, ct, durableErr, remove(func(c domain.Category) bool { return c.ID != id }))
	websitesErr := mirror(ctx, s.log, wt, durableErr, remove(func(w domain.Website) bool { return w.Category != id }))

	res := outcome(durableErr, errors.Join(categoriesErr, websitesErr))
	s.logWrite("delete_category", ct.collection, res, 1)
	return res
}

func (s *Service) logWrite(op string, c cache.Collection, res WriteResult, records int) {
	ev := s.log.Info()
	if !res.OK() {
		ev = s.log.Warn().AnErr("durable_err", res.DurableErr).AnErr("cache_err", res.CacheErr)
	} else if res.CacheErr != nil {
		ev = s.log.Warn().AnErr("cache_err", res.CacheErr)
	}
	ev.Str("op", op).Str("collection", string(c)).Str("outcome", string(res.Outcome)).Int("records", records).Msg("write resolved")
}
