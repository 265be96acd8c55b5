package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kedaya2025/FastNav/internal/backend"
	"github.com/kedaya2025/FastNav/internal/cache"
	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/logger"
	"github.com/kedaya2025/FastNav/internal/repository/repotest"
	"github.com/kedaya2025/FastNav/internal/seed"
	"github.com/kedaya2025/FastNav/internal/service/admin"
	"github.com/kedaya2025/FastNav/internal/service/migration"
	"github.com/kedaya2025/FastNav/internal/service/navigation"
)

type stubConnector struct {
	kind    backend.Kind
	healthy bool
}

func (s stubConnector) Kind() backend.Kind { return s.kind }

func (s stubConnector) HealthCheck(context.Context) bool { return s.healthy }

func (s stubConnector) Close() {}

type testServer struct {
	router *gin.Engine
	fakes  *repotest.Stores
	cache  *cache.Adapter
}

func newTestServer(t *testing.T, conn backend.Connector) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fakes := repotest.New()
	c := cache.New(cache.NewMemory(), 0, nil)
	stores := fakes.Repository()
	router := buildRouter(logger.Nop(), Deps{
		Navigation: navigation.New(stores, c, nil),
		Migration:  migration.New(stores.Categories, stores.Websites, c, nil),
		Admin:      admin.New(conn, stores, map[string]bool{"POSTGRES_URL": false}, nil),
		Connector:  conn,
	})
	return testServer{router: router, fakes: fakes, cache: c}
}

type response struct {
	OK       bool                `json:"ok"`
	Data     json.RawMessage     `json:"data"`
	Kind     domain.Kind         `json:"kind"`
	Message  string              `json:"message"`
	Hint     string              `json:"hint"`
	Fields   []domain.FieldError `json:"fields"`
	Source   navigation.Source   `json:"source"`
	Degraded bool                `json:"degraded"`
	Warning  string              `json:"warning"`
}

func (s testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var out response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealthAndReadiness(t *testing.T) {
	s := newTestServer(t, backend.Absent{})
	rec, _ := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec, _ = s.do(t, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s = newTestServer(t, stubConnector{kind: backend.KindPostgres, healthy: true})
	rec, _ = s.do(t, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	s = newTestServer(t, stubConnector{kind: backend.KindREST})
	rec, _ = s.do(t, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListCategoriesServesDefaultsWhenEmpty(t *testing.T) {
	s := newTestServer(t, backend.Absent{})
	rec, body := s.do(t, http.MethodGet, "/api/categories", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.OK)
	assert.Equal(t, navigation.SourceDefaults, body.Source)
	assert.Len(t, decode[[]domain.Category](t, body.Data), len(seed.DefaultCategories()))
}

func TestCreateCategoryThenList(t *testing.T) {
	s := newTestServer(t, backend.Absent{})
	in := domain.Category{ID: "c1", Name: "Dev", Icon: "Code"}

	rec, body := s.do(t, http.MethodPost, "/api/categories", in)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.False(t, body.Degraded)
	assert.Equal(t, "Dev", decode[domain.Category](t, body.Data).Name)

	_, body = s.do(t, http.MethodGet, "/api/categories", nil)
	assert.Equal(t, navigation.SourceDurable, body.Source)
	got := decode[[]domain.Category](t, body.Data)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)

	rec, body = s.do(t, http.MethodPost, "/api/categories", in)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, body.OK)
	assert.Equal(t, domain.KindDuplicateKey, body.Kind)
}

func TestCreateCategoryDegradesToCache(t *testing.T) {
	s := newTestServer(t, backend.Absent{})
	s.fakes.FailAll(backend.ErrNotConfigured)

	rec, body := s.do(t, http.MethodPost, "/api/categories", domain.Category{ID: "c1", Name: "Dev", Icon: "Code"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, body.OK)
	assert.True(t, body.Degraded)
	assert.NotEmpty(t, body.Warning)

	cached, ok := s.cache.Categories(context.Background())
	require.True(t, ok)
	assert.Contains(t, cached, domain.Category{ID: "c1", Name: "Dev", Icon: "Code"})
}

func TestSaveCategoriesRejectsInvalidInput(t *testing.T) {
	s := newTestServer(t, backend.Absent{})

	rec, body := s.do(t, http.MethodPut, "/api/categories", gin.H{
		"categories": []domain.Category{{ID: "c1", Name: "", Icon: "Code"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.KindValidation, body.Kind)
	require.NotEmpty(t, body.Fields)
	assert.Equal(t, "categories[0].name", body.Fields[0].Field)
	assert.Zero(t, s.fakes.Categories.TotalCalls())

	rec, body = s.do(t, http.MethodPut, "/api/categories", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.KindValidation, body.Kind)
}

func TestUpdateUnknownCategoryIsNotFound(t *testing.T) {
	s := newTestServer(t, backend.Absent{})
	rec, body := s.do(t, http.MethodPatch, "/api/categories/missing", gin.H{"name": "X"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, domain.KindNotFound, body.Kind)
}

func TestDeleteCategoryCascades(t *testing.T) {
	s := newTestServer(t, backend.Absent{})
	ctx := context.Background()
	require.NoError(t, s.fakes.Categories.UpsertMany(ctx, []domain.Category{{ID: "c1", Name: "Dev", Icon: "Code"}}))
	require.NoError(t, s.fakes.Websites.UpsertMany(ctx, []domain.Website{{ID: "w1", Name: "A", URL: "https://a.example", Description: "d", Category: "c1"}}))

	rec, _ := s.do(t, http.MethodDelete, "/api/categories/c1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	ws, err := s.fakes.Websites.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, ws)
}

func TestSaveWebsiteByPathCreatesThenUpdates(t *testing.T) {
	s := newTestServer(t, backend.Absent{})
	require.NoError(t, s.fakes.Categories.UpsertMany(context.Background(), []domain.Category{{ID: "c1", Name: "Dev", Icon: "Code"}}))

	rec, body := s.do(t, http.MethodPut, "/api/websites/w1", gin.H{
		"name": "GitHub", "url": "https://github.com", "description": "Code hosting", "category": "c1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "w1", decode[domain.Website](t, body.Data).ID)

	rec, body = s.do(t, http.MethodPut, "/api/websites/w1", gin.H{"description": "Where code lives"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[domain.Website](t, body.Data)
	assert.Equal(t, "GitHub", got.Name)
	assert.Equal(t, "Where code lives", got.Description)

	rec, body = s.do(t, http.MethodPost, "/api/websites", gin.H{
		"name": "Go", "url": "https://go.dev", "description": "Go", "category": "c1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decode[domain.Website](t, body.Data).ID)
}

func TestSaveWebsiteUnknownCategoryIsConflict(t *testing.T) {
	s := newTestServer(t, backend.Absent{})
	rec, body := s.do(t, http.MethodPost, "/api/websites", gin.H{
		"id": "w1", "name": "A", "url": "https://a.example", "description": "d", "category": "nope",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, domain.KindBackend, body.Kind)
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestServer(t, backend.Absent{})

	rec, body := s.do(t, http.MethodPost, "/api/settings", gin.H{"settings": gin.H{"site_title": "Mine", "bogus": "x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.KindValidation, body.Kind)

	rec, _ = s.do(t, http.MethodPost, "/api/settings", gin.H{"settings": gin.H{"site_title": "Mine"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = s.do(t, http.MethodGet, "/api/settings?keys=site_title", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"site_title": "Mine"}, decode[map[string]string](t, body.Data))
}

func TestSettingsSurfaceDurableFailure(t *testing.T) {
	s := newTestServer(t, backend.Absent{})
	s.fakes.FailAll(backend.ErrNotConfigured)

	rec, body := s.do(t, http.MethodGet, "/api/settings", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, domain.KindConnection, body.Kind)
}

func TestExportReportsSources(t *testing.T) {
	s := newTestServer(t, backend.Absent{})
	require.NoError(t, s.cache.WriteWebsites(context.Background(), []domain.Website{{ID: "w1", Name: "A"}}))

	rec, body := s.do(t, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ex := decode[struct {
		Categories []domain.Category `json:"categories"`
		Websites   []domain.Website  `json:"websites"`
		Sources    map[string]string `json:"sources"`
	}](t, body.Data)
	assert.Len(t, ex.Websites, 1)
	assert.Equal(t, "cache", ex.Sources["websites"])
	assert.Equal(t, "defaults", ex.Sources["categories"])
}

func TestMigrateFlow(t *testing.T) {
	s := newTestServer(t, backend.Absent{})
	ctx := context.Background()
	require.NoError(t, s.cache.WriteCategories(ctx, []domain.Category{{ID: "c1", Name: "Dev", Icon: "Code"}}))

	rec, body := s.do(t, http.MethodGet, "/api/migrate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[struct {
		State   migration.State `json:"state"`
		Pending bool            `json:"pending"`
	}](t, body.Data)
	assert.True(t, status.Pending)
	assert.Equal(t, migration.StateOffered, status.State)

	rec, body = s.do(t, http.MethodPost, "/api/migrate", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decode[migration.Result](t, body.Data).Categories)
	assert.False(t, s.cache.HasPendingData(ctx))
}

func TestInitDBMissingTablesCarriesHint(t *testing.T) {
	s := newTestServer(t, stubConnector{kind: backend.KindREST, healthy: true})
	s.fakes.FailAll(&domain.BackendError{Cause: domain.CauseMissingRelation, Code: "42P01", Hint: domain.HintInitialize})

	rec, body := s.do(t, http.MethodPost, "/api/admin/init-db", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, domain.KindBackend, body.Kind)
	assert.Equal(t, domain.HintInitialize, body.Hint)

	s.fakes.FailAll(nil)
	rec, body = s.do(t, http.MethodPost, "/api/admin/init-db", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, len(seed.DefaultCategories()), decode[admin.InitResult](t, body.Data).Seeded.Categories)
}

func TestTestDBReportsConnector(t *testing.T) {
	s := newTestServer(t, backend.Absent{})
	rec, body := s.do(t, http.MethodGet, "/api/admin/test-db", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[admin.Diagnosis](t, body.Data)
	assert.Equal(t, backend.KindNone, d.Connector)
	assert.False(t, d.Healthy)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.NewValidationError("bad"), http.StatusBadRequest},
		{fmt.Errorf("get: %w", domain.ErrNotFound), http.StatusNotFound},
		{domain.ErrDuplicateKey, http.StatusConflict},
		{&domain.BackendError{Cause: domain.CauseConstraint}, http.StatusConflict},
		{backend.ErrNotConfigured, http.StatusServiceUnavailable},
		{&domain.BackendError{Cause: domain.CauseMissingRelation}, http.StatusServiceUnavailable},
		{&domain.BackendError{Cause: domain.CauseUnknown, Err: errors.New("x")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := buildRouter(logger.Nop(), Deps{Connector: backend.Absent{}, CORSOrigins: []string{"https://nav.example"}})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://nav.example")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "https://nav.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
