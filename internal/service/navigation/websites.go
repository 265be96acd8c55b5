package navigation

import (
	"context"
	"errors"

	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/validator"
)

// ListWebsites returns durable websites when present, else the cached
// snapshot, else the defaults. It never fails.
func (s *Service) ListWebsites(ctx context.Context) Listing[domain.Website] {
	return resolve(ctx, s.log, s.websiteTier())
}

// SaveWebsites upserts the list in one batch.
func (s *Service) SaveWebsites(ctx context.Context, ws []domain.Website) (WriteResult, error) {
	t := s.websiteTier()
	if err := validator.ValidateAll(s.validate, "websites", ws); err != nil {
		return WriteResult{}, err
	}
	if err := duplicateIDs("websites", t.id, ws); err != nil {
		return WriteResult{}, err
	}

	res := write(ctx, s.log, t,
		func(ctx context.Context) error { return s.stores.Websites.UpsertMany(ctx, ws) },
		upsert(t.id, ws...),
	)
	s.logWrite("save_websites", t.collection, res, len(ws))
	return res, nil
}

// SaveWebsite updates the website named by p.ID, or creates it when the id
// is empty or unknown. Creation requires every mandatory field; an empty id
// is replaced by a generated one.
func (s *Service) SaveWebsite(ctx context.Context, p domain.WebsitePatch) (*domain.Website, WriteResult, error) {
	if err := s.validate.Validate(&p); err != nil {
		return nil, WriteResult{}, err
	}
	t := s.websiteTier()

	if p.ID == "" {
		p.ID = s.newID()
		return s.createWebsite(ctx, p)
	}

	var saved domain.Website
	durableErr := func() error {
		out, err := s.stores.Websites.Update(ctx, p.ID, p)
		if err == nil {
			saved = *out
		}
		return err
	}()

	switch {
	case errors.Is(durableErr, domain.ErrNotFound):
		return s.createWebsite(ctx, p)
	case rejected(durableErr):
		res := WriteResult{Outcome: OutcomeFailed, DurableErr: durableErr}
		s.logWrite("save_website", t.collection, res, 1)
		return nil, res, nil
	case durableErr != nil && !s.inView(ctx, p.ID):
		// The durable tier cannot tell create from update; the local view decides.
		return s.createWebsite(ctx, p)
	}

	cacheErr := mirror(ctx, s.log, t, durableErr, func(current []domain.Website) ([]domain.Website, error) {
		out := append([]domain.Website(nil), current...)
		for i := range out {
			if out[i].ID == p.ID {
				out[i] = p.Apply(out[i])
				if durableErr != nil {
					saved = out[i]
				}
			}
		}
		return out, nil
	})
	res := outcome(durableErr, cacheErr)
	s.logWrite("save_website", t.collection, res, 1)
	if !res.OK() {
		return nil, res, nil
	}
	return &saved, res, nil
}

func (s *Service) inView(ctx context.Context, id string) bool {
	for _, w := range view(ctx, s.websiteTier()) {
		if w.ID == id {
			return true
		}
	}
	return false
}

func (s *Service) createWebsite(ctx context.Context, p domain.WebsitePatch) (*domain.Website, WriteResult, error) {
	w := p.Website()
	if err := s.validate.Validate(&w); err != nil {
		return nil, WriteResult{}, err
	}
	t := s.websiteTier()

	created := w
	res := write(ctx, s.log, t,
		func(ctx context.Context) error {
			out, err := s.stores.Websites.Create(ctx, w)
			if err == nil {
				created = *out
			}
			return err
		},
		upsert(t.id, w),
	)
	s.logWrite("create_website", t.collection, res, 1)
	if !res.OK() {
		return nil, res, nil
	}
	return &created, res, nil
}

func (s *Service) DeleteWebsite(ctx context.Context, id string) WriteResult {
	t := s.websiteTier()
	res := write(ctx, s.log, t,
		func(ctx context.Context) error { return s.stores.Websites.Delete(ctx, id) },
		remove(func(w domain.Website) bool { return w.ID != id }),
	)
	s.logWrite("delete_website", t.collection, res, 1)
	return res
}
