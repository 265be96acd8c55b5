// Package repotest provides in-memory record stores for service tests. They
// follow the durable stores' contracts: ordering, duplicate and missing-row
// errors, cascade delete and all-or-nothing batches.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/repository"
)

// Stores bundles fakes sharing one dataset.
type Stores struct {
	Categories *Categories
	Websites   *Websites
	Settings   *Settings
}

// New returns empty, healthy fakes.
func New() *Stores {
	s := &Stores{
		Categories: &Categories{base: base{calls: map[string]int{}}, rows: map[string]domain.Category{}},
		Websites:   &Websites{base: base{calls: map[string]int{}}, rows: map[string]domain.Website{}},
		Settings:   &Settings{base: base{calls: map[string]int{}}, rows: map[string]string{}},
	}
	s.Categories.websites = s.Websites
	s.Websites.categories = s.Categories
	return s
}

// Repository exposes the fakes as a store set.
func (s *Stores) Repository() repository.Stores {
	return repository.Stores{Categories: s.Categories, Websites: s.Websites, Settings: s.Settings}
}

// FailAll makes every store return err until cleared with nil.
func (s *Stores) FailAll(err error) {
	s.Categories.Fail(err)
	s.Websites.Fail(err)
	s.Settings.Fail(err)
}

type base struct {
	mu    sync.Mutex
	err   error
	calls map[string]int
}

// Fail makes every method return err; nil restores normal behavior.
func (b *base) Fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}

// Calls reports how many times method was invoked.
func (b *base) Calls(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method]
}

// TotalCalls reports invocations across all methods.
func (b *base) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

func (b *base) enter(method string) error {
	b.calls[method]++
	return b.err
}

// Categories is an in-memory category store.
type Categories struct {
	base
	rows     map[string]domain.Category
	websites *Websites
}

func (c *Categories) GetAll(context.Context) ([]domain.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetAll"); err != nil {
		return nil, err
	}
	return c.sorted(), nil
}

func (c *Categories) sorted() []domain.Category {
	out := make([]domain.Category, 0, len(c.rows))
	for _, r := range c.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (c *Categories) has(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.rows[id]
	return ok
}

func (c *Categories) Get(_ context.Context, id string) (*domain.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("Get"); err != nil {
		return nil, err
	}
	r, ok := c.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: category %q", domain.ErrNotFound, id)
	}
	return &r, nil
}

func (c *Categories) Create(_ context.Context, in domain.Category) (*domain.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("Create"); err != nil {
		return nil, err
	}
	if _, ok := c.rows[in.ID]; ok {
		return nil, fmt.Errorf("%w: category %q", domain.ErrDuplicateKey, in.ID)
	}
	now := time.Now().UTC()
	in.CreatedAt, in.UpdatedAt = now, now
	c.rows[in.ID] = in
	return &in, nil
}

func (c *Categories) Update(_ context.Context, id string, p domain.CategoryPatch) (*domain.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("Update"); err != nil {
		return nil, err
	}
	r, ok := c.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: category %q", domain.ErrNotFound, id)
	}
	r = p.Apply(r)
	r.UpdatedAt = time.Now().UTC()
	c.rows[id] = r
	return &r, nil
}

func (c *Categories) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	if err := c.enter("Delete"); err != nil {
		c.mu.Unlock()
		return err
	}
	delete(c.rows, id)
	c.mu.Unlock()

	if c.websites != nil {
		c.websites.cascade(id)
	}
	return nil
}

func (c *Categories) UpsertMany(_ context.Context, cs []domain.Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("UpsertMany"); err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, in := range cs {
		if prev, ok := c.rows[in.ID]; ok {
			in.CreatedAt = prev.CreatedAt
		} else {
			in.CreatedAt = now
		}
		in.UpdatedAt = now
		c.rows[in.ID] = in
	}
	return nil
}

// Websites is an in-memory website store enforcing the category reference.
type Websites struct {
	base
	rows       map[string]domain.Website
	categories *Categories
}

func (w *Websites) cascade(category string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, r := range w.rows {
		if r.Category == category {
			delete(w.rows, id)
		}
	}
}

func (w *Websites) checkCategory(id string) error {
	if w.categories == nil || w.categories.has(id) {
		return nil
	}
	return &domain.BackendError{Cause: domain.CauseConstraint, Code: "23503", Message: fmt.Sprintf("category %q does not exist", id)}
}

func (w *Websites) GetAll(context.Context) ([]domain.Website, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enter("GetAll"); err != nil {
		return nil, err
	}
	out := make([]domain.Website, 0, len(w.rows))
	for _, r := range w.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (w *Websites) Get(_ context.Context, id string) (*domain.Website, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enter("Get"); err != nil {
		return nil, err
	}
	r, ok := w.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: website %q", domain.ErrNotFound, id)
	}
	return &r, nil
}

func (w *Websites) Create(_ context.Context, in domain.Website) (*domain.Website, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enter("Create"); err != nil {
		return nil, err
	}
	if _, ok := w.rows[in.ID]; ok {
		return nil, fmt.Errorf("%w: website %q", domain.ErrDuplicateKey, in.ID)
	}
	if err := w.checkCategory(in.Category); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	in.CreatedAt, in.UpdatedAt = now, now
	w.rows[in.ID] = in
	return &in, nil
}

func (w *Websites) Update(_ context.Context, id string, p domain.WebsitePatch) (*domain.Website, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enter("Update"); err != nil {
		return nil, err
	}
	r, ok := w.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: website %q", domain.ErrNotFound, id)
	}
	r = p.Apply(r)
	if err := w.checkCategory(r.Category); err != nil {
		return nil, err
	}
	r.UpdatedAt = time.Now().UTC()
	w.rows[id] = r
	return &r, nil
}

func (w *Websites) Delete(_ context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enter("Delete"); err != nil {
		return err
	}
	delete(w.rows, id)
	return nil
}

func (w *Websites) UpsertMany(_ context.Context, ws []domain.Website) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enter("UpsertMany"); err != nil {
		return err
	}
	for _, in := range ws {
		if err := w.checkCategory(in.Category); err != nil {
			return err
		}
	}
	now := time.Now().UTC()
	for _, in := range ws {
		if prev, ok := w.rows[in.ID]; ok {
			in.CreatedAt = prev.CreatedAt
		} else {
			in.CreatedAt = now
		}
		in.UpdatedAt = now
		w.rows[in.ID] = in
	}
	return nil
}

// Settings is an in-memory settings store.
type Settings struct {
	base
	rows map[string]string
}

func (s *Settings) GetAll(context.Context) ([]domain.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetAll"); err != nil {
		return nil, err
	}
	out := make([]domain.Setting, 0, len(s.rows))
	for k, v := range s.rows {
		out = append(out, domain.Setting{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *Settings) Create(_ context.Context, key, value string) (*domain.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("Create"); err != nil {
		return nil, err
	}
	if _, ok := s.rows[key]; ok {
		return nil, fmt.Errorf("%w: setting %q", domain.ErrDuplicateKey, key)
	}
	s.rows[key] = value
	return &domain.Setting{Key: key, Value: value}, nil
}

func (s *Settings) Update(_ context.Context, key, value string) (*domain.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("Update"); err != nil {
		return nil, err
	}
	if _, ok := s.rows[key]; !ok {
		return nil, fmt.Errorf("%w: setting %q", domain.ErrNotFound, key)
	}
	s.rows[key] = value
	return &domain.Setting{Key: key, Value: value}, nil
}

func (s *Settings) GetMultiple(_ context.Context, keys []string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetMultiple"); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := s.rows[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *Settings) SetMultiple(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SetMultiple"); err != nil {
		return err
	}
	for k, v := range values {
		s.rows[k] = v
	}
	return nil
}
