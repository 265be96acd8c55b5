package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/logger"
)

// Collection names a cached snapshot. Values match the keys the admin UI
// has always used for its local copies.
type Collection string

const (
	Categories Collection = "fastnav_admin_categories"
	Websites   Collection = "fastnav_admin_websites"
)

// Collections lists every cached collection.
func Collections() []Collection {
	return []Collection{Categories, Websites}
}

// DefaultMaxBytes caps one snapshot when no quota is configured.
const DefaultMaxBytes = 5 << 20

// ErrQuotaExceeded is reported when a snapshot is larger than the quota.
var ErrQuotaExceeded = errors.New("cache quota exceeded")

// Adapter stores whole-collection snapshots. Writes are best-effort: a
// failure is logged and returned for outcome reporting, and callers treat
// it as non-fatal.
type Adapter struct {
	kv       KV
	maxBytes int
	log      *logger.Logger
}

func New(kv KV, maxBytes int, log *logger.Logger) *Adapter {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Adapter{kv: kv, maxBytes: maxBytes, log: log.Named("cache")}
}

// Categories returns the cached categories. ok is false when the snapshot
// was never written or cannot be decoded.
func (a *Adapter) Categories(ctx context.Context) ([]domain.Category, bool) {
	return read[domain.Category](ctx, a, Categories)
}

// Websites returns the cached websites. ok is false when the snapshot was
// never written or cannot be decoded.
func (a *Adapter) Websites(ctx context.Context) ([]domain.Website, bool) {
	return read[domain.Website](ctx, a, Websites)
}

func (a *Adapter) WriteCategories(ctx context.Context, cs []domain.Category) error {
	return write(ctx, a, Categories, cs)
}

func (a *Adapter) WriteWebsites(ctx context.Context, ws []domain.Website) error {
	return write(ctx, a, Websites, ws)
}

// HasPendingData reports whether any cached collection holds at least one record.
func (a *Adapter) HasPendingData(ctx context.Context) bool {
	if cs, ok := a.Categories(ctx); ok && len(cs) > 0 {
		return true
	}
	ws, ok := a.Websites(ctx)
	return ok && len(ws) > 0
}

// Clear removes a snapshot so it reads as never written.
func (a *Adapter) Clear(ctx context.Context, c Collection) error {
	if err := a.kv.Delete(ctx, string(c)); err != nil {
		a.log.Warn().Err(err).Str("collection", string(c)).Msg("cache clear failed")
		return err
	}
	return nil
}

func read[T any](ctx context.Context, a *Adapter, c Collection) ([]T, bool) {
	raw, found, err := a.kv.Get(ctx, string(c))
	if err != nil {
		a.log.Warn().Err(err).Str("collection", string(c)).Msg("cache read failed")
		return nil, false
	}
	if !found {
		return nil, false
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		a.log.Warn().Err(err).Str("collection", string(c)).Msg("cache snapshot unreadable")
		return nil, false
	}
	if out == nil {
		out = []T{}
	}
	return out, true
}

func write[T any](ctx context.Context, a *Adapter, c Collection, records []T) error {
	if records == nil {
		records = []T{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		a.log.Warn().Err(err).Str("collection", string(c)).Msg("cache snapshot encode failed")
		return err
	}
	if len(raw) > a.maxBytes {
		err := fmt.Errorf("%w: %s is %d bytes, limit %d", ErrQuotaExceeded, c, len(raw), a.maxBytes)
		a.log.Warn().Err(err).Str("collection", string(c)).Msg("cache mirror skipped")
		return err
	}
	if err := a.kv.Put(ctx, string(c), raw); err != nil {
		a.log.Warn().Err(err).Str("collection", string(c)).Msg("cache mirror failed")
		return err
	}
	a.log.Debug().Str("collection", string(c)).Int("records", len(records)).Msg("cache snapshot written")
	return nil
}
