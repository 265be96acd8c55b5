package category

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kedaya2025/FastNav/internal/backend"
	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/logger"
)

const table = "categories"

type restRepo struct {
	c   *backend.REST
	log *logger.Logger
}

// NewREST returns the store backed by the REST proxy.
func NewREST(c *backend.REST, log *logger.Logger) Repository {
	if log == nil {
		log = logger.Nop()
	}
	return &restRepo{c: c, log: log.Named("category_store")}
}

type row struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Icon      string     `json:"icon"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func (r row) category() domain.Category {
	c := domain.Category{ID: r.ID, Name: r.Name, Icon: r.Icon}
	if r.CreatedAt != nil {
		c.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		c.UpdatedAt = *r.UpdatedAt
	}
	return c
}

func byID(id string) url.Values {
	return url.Values{"id": {"eq." + id}}
}

func (r *restRepo) GetAll(ctx context.Context) ([]domain.Category, error) {
	var rows []row
	err := r.c.Do(ctx, backend.Request{
		Method: http.MethodGet,
		Table:  table,
		Query:  url.Values{"select": {"*"}, "order": {"name.asc,id.asc"}},
	}, &rows)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.category())
	}
	return out, nil
}

func (r *restRepo) Get(ctx context.Context, id string) (*domain.Category, error) {
	q := byID(id)
	q.Set("select", "*")
	var rows []row
	if err := r.c.Do(ctx, backend.Request{Method: http.MethodGet, Table: table, Query: q}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: category %q", domain.ErrNotFound, id)
	}
	c := rows[0].category()
	return &c, nil
}

func (r *restRepo) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	var rows []row
	err := r.c.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Table:  table,
		Body:   row{ID: c.ID, Name: c.Name, Icon: c.Icon},
		Prefer: []string{"return=representation"},
	}, &rows)
	if backend.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: category %q", domain.ErrDuplicateKey, c.ID)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &c, nil
	}
	out := rows[0].category()
	return &out, nil
}

func (r *restRepo) Update(ctx context.Context, id string, p domain.CategoryPatch) (*domain.Category, error) {
	body := map[string]any{"updated_at": time.Now().UTC()}
	if p.Name != nil {
		body["name"] = *p.Name
	}
	if p.Icon != nil {
		body["icon"] = *p.Icon
	}

	var rows []row
	err := r.c.Do(ctx, backend.Request{
		Method: http.MethodPatch,
		Table:  table,
		Query:  byID(id),
		Body:   body,
		Prefer: []string{"return=representation"},
	}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: category %q", domain.ErrNotFound, id)
	}
	out := rows[0].category()
	return &out, nil
}

func (r *restRepo) Delete(ctx context.Context, id string) error {
	return r.c.Do(ctx, backend.Request{
		Method: http.MethodDelete,
		Table:  table,
		Query:  byID(id),
		Prefer: []string{"return=minimal"},
	}, nil)
}

// UpsertMany sends one bulk request; the proxy runs it as a single statement,
// so a failing record rejects the whole batch.
func (r *restRepo) UpsertMany(ctx context.Context, cs []domain.Category) error {
	if len(cs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	body := make([]row, 0, len(cs))
	for _, c := range cs {
		body = append(body, row{ID: c.ID, Name: c.Name, Icon: c.Icon, UpdatedAt: &now})
	}
	return r.c.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Table:  table,
		Query:  url.Values{"on_conflict": {"id"}},
		Body:   body,
		Prefer: []string{"resolution=merge-duplicates", "return=minimal"},
	}, nil)
}
