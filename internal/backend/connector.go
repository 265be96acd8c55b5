package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/logger"
)

// Kind names the connector strategy chosen at startup.
type Kind string

const (
	KindPostgres Kind = "postgres"
	KindREST     Kind = "rest"
	KindNone     Kind = "none"
)

// DefaultTimeout bounds every backend call when Options.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// ErrNotConfigured is returned by every durable operation when no backend is configured.
var ErrNotConfigured = fmt.Errorf("%w: no durable backend configured", domain.ErrConnection)

// Connector is the durable backend, selected once at process start and
// shared by every store. Implementations are safe for concurrent use.
type Connector interface {
	Kind() Kind
	// HealthCheck issues a trivial read. It never panics or returns an error.
	HealthCheck(ctx context.Context) bool
	Close()
}

// Options carries the configuration inspected by Open.
type Options struct {
	PostgresDSN string
	RESTURL     string
	RESTKey     string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Open picks the connector: a pgx pool when a connection descriptor is
// present, otherwise the REST proxy when endpoint and key are present,
// otherwise an absent connector that fails every call with ErrNotConfigured.
func Open(ctx context.Context, opts Options, log *logger.Logger) (Connector, error) {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	switch {
	case opts.PostgresDSN != "":
		pool, err := NewPool(ctx, opts.PostgresDSN, opts.Timeout)
		if err != nil {
			return nil, err
		}
		log.Info().Str("connector", string(KindPostgres)).Dur("timeout", opts.Timeout).Msg("backend connector selected")
		return pool, nil
	case opts.RESTURL != "" && opts.RESTKey != "":
		client, err := NewREST(opts.RESTURL, opts.RESTKey, opts.Timeout, opts.HTTPClient)
		if err != nil {
			return nil, err
		}
		log.Info().Str("connector", string(KindREST)).Dur("timeout", opts.Timeout).Msg("backend connector selected")
		return client, nil
	default:
		log.Warn().Str("connector", string(KindNone)).Msg("no durable backend configured; reads fall back to cache and defaults")
		return Absent{}, nil
	}
}

// Absent is the connector used when nothing is configured.
type Absent struct{}

func (Absent) Kind() Kind { return KindNone }

func (Absent) HealthCheck(context.Context) bool { return false }

func (Absent) Close() {}

// scope bounds a backend call by timeout. The caller's cancellation is not
// propagated: an abandoned call still finishes and its effect stands.
func scope(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}
