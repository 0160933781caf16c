package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estates/internal/catalog"
	"estates/internal/models"
	"estates/internal/query"
)

type listResponse struct {
	Projects []models.Project `json:"projects"`
	Matched  int              `json:"matched"`
	Total    int              `json:"total"`
}

type groupedResponse struct {
	Groups  query.Groups `json:"groups"`
	Matched int          `json:"matched"`
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]models.Project{
		{ID: "1", Title: "Luxury Waterfront Condos", Location: "Miami, FL", Category: "Luxury", Status: "Completed", Price: 2500000, Featured: true},
		{ID: "2", Title: "Urban Loft Apartments", Location: "Brooklyn, NY", Category: "Affordable", Status: "Ongoing", Price: 1800000},
		{ID: "3", Title: "Hillside Family Homes", Location: "Austin, TX", Category: "Affordable", Status: "Planning", Price: 650000},
		{ID: "4", Title: "Skyline Penthouse Residences", Location: "Chicago, IL", Category: "Luxury", Status: "Ongoing", Price: 4200000, Featured: true},
	})
	require.NoError(t, err)
	return c
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(testCatalog(t), query.NewEngine(), logger, opts)
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func projectIDs(projects []models.Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.ID.String()
	}
	return out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Options{})
	rr := get(t, srv, "/api/healthz")

	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[map[string]any](t, rr)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, 4.0, body["projects"])
	assert.NotEmpty(t, rr.Header().Get(requestIDHeader))
}

func TestListProjects(t *testing.T) {
	srv := newTestServer(t, Options{})

	tests := []struct {
		name    string
		target  string
		want    []string
		matched int
	}{
		{"all", "/api/projects", []string{"1", "2", "3", "4"}, 4},
		{"search", "/api/projects?q=loft", []string{"2"}, 1},
		{"typo", "/api/projects?q=brooklin", []string{"2"}, 1},
		{"category", "/api/projects?category=Luxury", []string{"1", "4"}, 2},
		{"chip", "/api/projects?chip=ongoing", []string{"2", "4"}, 2},
		{"explicit param wins over chip", "/api/projects?chip=luxury&category=Affordable", []string{"2", "3"}, 2},
		{"limit", "/api/projects?limit=1", []string{"1"}, 4},
		{"no match", "/api/projects?q=zzzzzz", []string{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := get(t, srv, tt.target)
			require.Equal(t, http.StatusOK, rr.Code)
			body := decode[listResponse](t, rr)
			assert.Equal(t, tt.want, projectIDs(body.Projects))
			assert.Equal(t, tt.matched, body.Matched)
			assert.Equal(t, 4, body.Total)
		})
	}
}

func TestListProjectsRejectsBadParams(t *testing.T) {
	srv := newTestServer(t, Options{})

	for _, target := range []string{"/api/projects?chip=planning", "/api/projects?limit=-1", "/api/projects?limit=abc"} {
		rr := get(t, srv, target)
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
		assert.NotEmpty(t, decode[map[string]string](t, rr)["error"])
	}
}

func TestGroupedProjects(t *testing.T) {
	srv := newTestServer(t, Options{})
	rr := get(t, srv, "/api/projects/grouped")

	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[groupedResponse](t, rr)
	assert.Equal(t, []string{"Luxury", "Affordable"}, body.Groups.Categories())

	bucket, ok := body.Groups.Lookup("Affordable", "Planning")
	require.True(t, ok)
	assert.Equal(t, []string{"3"}, projectIDs(bucket))

	rr = get(t, srv, "/api/projects/grouped?q=zzzzzz")
	body = decode[groupedResponse](t, rr)
	assert.Empty(t, body.Groups)
	assert.Contains(t, rr.Body.String(), `"groups":[]`)
}

func TestFeaturedAndSuggestions(t *testing.T) {
	srv := newTestServer(t, Options{})

	body := decode[listResponse](t, get(t, srv, "/api/projects/featured"))
	assert.Equal(t, []string{"1", "4"}, projectIDs(body.Projects))

	rr := get(t, srv, "/api/projects/suggestions")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"projects":[]`)

	body = decode[listResponse](t, get(t, srv, "/api/projects/suggestions?q=o"))
	assert.Len(t, body.Projects, query.DefaultSuggestionLimit)
}

func TestGetProject(t *testing.T) {
	srv := newTestServer(t, Options{})

	rr := get(t, srv, "/api/projects/1")
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[struct {
		Project models.Project `json:"project"`
		Price   string         `json:"price"`
	}](t, rr)
	assert.Equal(t, "Luxury Waterfront Condos", body.Project.Title)
	assert.Equal(t, "$2,500,000", body.Price)

	rr = get(t, srv, "/api/projects/999")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "project not found", decode[map[string]string](t, rr)["error"])
}

func TestFilters(t *testing.T) {
	srv := newTestServer(t, Options{})
	rr := get(t, srv, "/api/filters")

	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[struct {
		Categories []catalog.Facet `json:"categories"`
		Statuses   []catalog.Facet `json:"statuses"`
		Chips      []query.Chip    `json:"chips"`
	}](t, rr)
	assert.Equal(t, []catalog.Facet{{Label: "Luxury", Count: 2}, {Label: "Affordable", Count: 2}}, body.Categories)
	assert.Len(t, body.Statuses, 3)
	assert.Len(t, body.Chips, len(query.Chips))
}

func TestUnknownAPIRoute(t *testing.T) {
	srv := newTestServer(t, Options{})
	rr := get(t, srv, "/api/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "endpoint not found", decode[map[string]string](t, rr)["error"])
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, Options{RateLimit: 0.001, RateBurst: 1})

	assert.Equal(t, http.StatusOK, get(t, srv, "/api/healthz").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, srv, "/api/healthz").Code)
}

func TestCORSAndRequestID(t *testing.T) {
	srv := newTestServer(t, Options{CORSOrigins: []string{"https://app.example"}})

	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set(requestIDHeader, "req-123")
	rr := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rr, req)

	assert.Equal(t, "https://app.example", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "req-123", rr.Header().Get(requestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, Options{})
	get(t, srv, "/api/projects/999")

	rr := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "estates_lookup_misses_total 1")
	assert.Contains(t, rr.Body.String(), "estates_catalog_projects 4")
}

func TestStaticFrontend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>estates</html>"), 0o644))
	srv := newTestServer(t, Options{StaticDir: dir})

	rr := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "estates")

	rr = get(t, srv, "/projects/1")
	assert.Equal(t, http.StatusOK, rr.Code, "client-side routes fall back to index.html")

	rr = get(t, srv, "/api/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
