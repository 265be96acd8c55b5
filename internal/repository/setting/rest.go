package setting

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kedaya2025/FastNav/internal/backend"
	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/logger"
)

const table = "settings"

type restRepo struct {
	c   *backend.REST
	log *logger.Logger
}

func NewREST(c *backend.REST, log *logger.Logger) Repository {
	if log == nil {
		log = logger.Nop()
	}
	return &restRepo{c: c, log: log.Named("settings_store")}
}

type row struct {
	Key       string     `json:"key"`
	Value     string     `json:"value"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func (r row) setting() domain.Setting {
	s := domain.Setting{Key: r.Key, Value: r.Value}
	if r.CreatedAt != nil {
		s.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		s.UpdatedAt = *r.UpdatedAt
	}
	return s
}

func (r *restRepo) GetAll(ctx context.Context) ([]domain.Setting, error) {
	var rows []row
	err := r.c.Do(ctx, backend.Request{
		Method: http.MethodGet,
		Table:  table,
		Query:  url.Values{"select": {"key,value,created_at,updated_at"}, "order": {"key.asc"}},
	}, &rows)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Setting, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.setting())
	}
	return out, nil
}

func (r *restRepo) Create(ctx context.Context, key, value string) (*domain.Setting, error) {
	var rows []row
	err := r.c.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Table:  table,
		Body:   row{Key: key, Value: value},
		Prefer: []string{"return=representation"},
	}, &rows)
	if backend.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: setting %q", domain.ErrDuplicateKey, key)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &domain.Setting{Key: key, Value: value}, nil
	}
	out := rows[0].setting()
	return &out, nil
}

func (r *restRepo) Update(ctx context.Context, key, value string) (*domain.Setting, error) {
	var rows []row
	err := r.c.Do(ctx, backend.Request{
		Method: http.MethodPatch,
		Table:  table,
		Query:  url.Values{"key": {"eq." + key}},
		Body:   map[string]any{"value": value, "updated_at": time.Now().UTC()},
		Prefer: []string{"return=representation"},
	}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: setting %q", domain.ErrNotFound, key)
	}
	out := rows[0].setting()
	return &out, nil
}

// inFilter renders a PostgREST in.(...) filter with quoted values.
func inFilter(keys []string) string {
	quoted := make([]string, 0, len(keys))
	for _, k := range keys {
		quoted = append(quoted, strconv.Quote(k))
	}
	return "in.(" + strings.Join(quoted, ",") + ")"
}

func (r *restRepo) GetMultiple(ctx context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	var rows []row
	err := r.c.Do(ctx, backend.Request{
		Method: http.MethodGet,
		Table:  table,
		Query:  url.Values{"select": {"key,value"}, "key": {inFilter(keys)}},
	}, &rows)
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		out[rw.Key] = rw.Value
	}
	return out, nil
}

func (r *restRepo) SetMultiple(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	now := time.Now().UTC()
	body := make([]row, 0, len(values))
	for _, k := range sortedKeys(values) {
		body = append(body, row{Key: k, Value: values[k], UpdatedAt: &now})
	}
	return r.c.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Table:  table,
		Query:  url.Values{"on_conflict": {"key"}},
		Body:   body,
		Prefer: []string{"resolution=merge-duplicates", "return=minimal"},
	}, nil)
}
