package website

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

const table = "websites"

type restRepo struct {
	c   *backend.REST
	log *logger.Logger
}

func NewREST(c *backend.REST, log *logger.Logger) Repository {
	if log == nil {
		log = logger.Nop()
	}
	return &restRepo{c: c, log: log.Named("website_store")}
}

// row mirrors the table. Icon and Color are always sent so an upsert
// clears them when absent.
type row struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Icon        *string    `json:"icon"`
	Color       *string    `json:"color"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toRow(w domain.Website) row {
	return row{
		ID:          w.ID,
		Name:        w.Name,
		URL:         w.URL,
		Description: w.Description,
		Category:    w.Category,
		Icon:        nullable(w.Icon),
		Color:       nullable(w.Color),
	}
}

func (r row) website() domain.Website {
	w := domain.Website{ID: r.ID, Name: r.Name, URL: r.URL, Description: r.Description, Category: r.Category}
	if r.Icon != nil {
		w.Icon = *r.Icon
	}
	if r.Color != nil {
		w.Color = *r.Color
	}
	if r.CreatedAt != nil {
		w.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		w.UpdatedAt = *r.UpdatedAt
	}
	return w
}

func byID(id string) url.Values {
	return url.Values{"id": {"eq." + id}}
}

func (r *restRepo) GetAll(ctx context.Context) ([]domain.Website, error) {
	var rows []row
	err := r.c.Do(ctx, backend.Request{
		Method: http.MethodGet,
		Table:  table,
		Query:  url.Values{"select": {"*"}, "order": {"name.asc,id.asc"}},
	}, &rows)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Website, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.website())
	}
	return out, nil
}

func (r *restRepo) Get(ctx context.Context, id string) (*domain.Website, error) {
	q := byID(id)
	q.Set("select", "*")
	var rows []row
	if err := r.c.Do(ctx, backend.Request{Method: http.MethodGet, Table: table, Query: q}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: website %q", domain.ErrNotFound, id)
	}
	w := rows[0].website()
	return &w, nil
}

func (r *restRepo) Create(ctx context.Context, w domain.Website) (*domain.Website, error) {
	var rows []row
	err := r.c.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Table:  table,
		Body:   toRow(w),
		Prefer: []string{"return=representation"},
	}, &rows)
	if backend.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: website %q", domain.ErrDuplicateKey, w.ID)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &w, nil
	}
	out := rows[0].website()
	return &out, nil
}

func (r *restRepo) Update(ctx context.Context, id string, p domain.WebsitePatch) (*domain.Website, error) {
	body := map[string]any{"updated_at": time.Now().UTC()}
	for column, v := range map[string]*string{
		"name":        p.Name,
		"url":         p.URL,
		"description": p.Description,
		"category":    p.Category,
	} {
		if v != nil {
			body[column] = *v
		}
	}
	if p.Icon != nil {
		body["icon"] = nullable(*p.Icon)
	}
	if p.Color != nil {
		body["color"] = nullable(*p.Color)
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
		return nil, fmt.Errorf("%w: website %q", domain.ErrNotFound, id)
	}
	out := rows[0].website()
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

func (r *restRepo) UpsertMany(ctx context.Context, ws []domain.Website) error {
	if len(ws) == 0 {
		return nil
	}
	now := time.Now().UTC()
	body := make([]row, 0, len(ws))
	for _, w := range ws {
		rw := toRow(w)
		rw.UpdatedAt = &now
		body = append(body, rw)
	}
	return r.c.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Table:  table,
		Query:  url.Values{"on_conflict": {"id"}},
		Body:   body,
		Prefer: []string{"resolution=merge-duplicates", "return=minimal"},
	}, nil)
}
