package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kedaya2025/FastNav/internal/domain"
)

func newTestREST(t *testing.T, h http.HandlerFunc) *REST {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewREST(srv.URL, "service-key", time.Second, srv.Client())
	require.NoError(t, err)
	return c
}

func TestRESTDoSendsHeadersAndDecodes(t *testing.T) {
	c := newTestREST(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/categories", r.URL.Path)
		assert.Equal(t, "name.asc", r.URL.Query().Get("order"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		_ = json.NewEncoder(w).Encode([]map[string]string{{"id": "dev"}})
	})

	var out []struct {
		ID string `json:"id"`
	}
	err := c.Do(context.Background(), Request{
		Method: http.MethodGet,
		Table:  "categories",
		Query:  url.Values{"order": {"name.asc"}},
		Prefer: []string{"return=representation"},
	}, &out)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "dev", out[0].ID)
}

func TestRESTDoClassifiesFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   domain.Kind
		cause  error
	}{
		{name: "missing table", status: 404, body: `{"code":"42P01","message":"relation does not exist"}`, kind: domain.KindBackend, cause: domain.ErrMissingRelation},
		{name: "schema cache", status: 404, body: `{"code":"PGRST205","message":"Could not find the table"}`, kind: domain.KindBackend, cause: domain.ErrMissingRelation},
		{name: "unique", status: 409, body: `{"code":"23505","message":"duplicate key"}`, kind: domain.KindBackend, cause: domain.ErrConstraint},
		{name: "no row", status: 406, body: `{"code":"PGRST116","message":"0 rows"}`, kind: domain.KindNotFound},
		{name: "unavailable", status: 503, body: ``, kind: domain.KindConnection},
		{name: "unauthorized", status: 401, body: `{"message":"invalid key"}`, kind: domain.KindConnection},
		{name: "server", status: 500, body: `oops`, kind: domain.KindBackend},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestREST(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			err := c.Do(context.Background(), Request{Method: http.MethodGet, Table: "categories"}, nil)
			require.Error(t, err)
			assert.Equal(t, tc.kind, domain.KindOf(err))
			if tc.cause != nil {
				assert.ErrorIs(t, err, tc.cause)
			}
		})
	}
}

func TestRESTDoTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c, err := NewREST(srv.URL, "k", 50*time.Millisecond, srv.Client())
	require.NoError(t, err)

	err = c.Do(context.Background(), Request{Method: http.MethodGet, Table: "websites"}, nil)
	assert.ErrorIs(t, err, domain.ErrConnection)
}

func TestRESTHealthCheck(t *testing.T) {
	ok := newTestREST(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	assert.True(t, ok.HealthCheck(context.Background()))

	down := newTestREST(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	assert.False(t, down.HealthCheck(context.Background()))

	var nilREST *REST
	assert.False(t, nilREST.HealthCheck(context.Background()))
}

func TestNewRESTRejectsBadScheme(t *testing.T) {
	_, err := NewREST("ftp://example.com", "k", time.Second, nil)
	assert.Error(t, err)
}
