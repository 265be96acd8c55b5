package navigation

import (
	"errors"
	"fmt"

	"github.com/kedaya2025/FastNav/internal/domain"
)

// Source names the tier a listing was served from.
type Source string

const (
	SourceDurable  Source = "durable"
	SourceCache    Source = "cache"
	SourceDefaults Source = "defaults"
)

// Listing is a resolved collection. DurableErr keeps the swallowed durable
// failure, if any, for diagnostics.
type Listing[T any] struct {
	Items      []T
	Source     Source
	DurableErr error
}

// Outcome tells which tiers accepted a write.
type Outcome string

const (
	OutcomeDurable   Outcome = "durable"
	OutcomeCacheOnly Outcome = "cache_only"
	OutcomeFailed    Outcome = "failed"
)

// WriteResult reports a mutation across both tiers. A write succeeds when
// either tier accepted it; a cache-only success is degraded.
type WriteResult struct {
	Outcome    Outcome
	DurableErr error
	CacheErr   error
}

func outcome(durableErr, cacheErr error) WriteResult {
	r := WriteResult{DurableErr: durableErr, CacheErr: cacheErr}
	switch {
	case durableErr == nil:
		r.Outcome = OutcomeDurable
	case cacheErr == nil:
		r.Outcome = OutcomeCacheOnly
	default:
		r.Outcome = OutcomeFailed
	}
	return r
}

func (r WriteResult) OK() bool { return r.Outcome != OutcomeFailed }

func (r WriteResult) Degraded() bool { return r.Outcome == OutcomeCacheOnly }

// Err returns the error to report for a failed write, nil otherwise. A
// target missing from the cached view is reported as not found even when
// the durable tier was unreachable.
func (r WriteResult) Err() error {
	if r.OK() {
		return nil
	}
	if r.DurableErr != nil && !errors.Is(r.CacheErr, domain.ErrNotFound) {
		return r.DurableErr
	}
	return r.CacheErr
}

// Warning describes a degraded write for the caller.
func (r WriteResult) Warning() string {
	if !r.Degraded() {
		return ""
	}
	return fmt.Sprintf("saved to the local cache only; the durable store is unavailable (%v). Run the migration once it is back", r.DurableErr)
}
