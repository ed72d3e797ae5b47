package querysafe_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querysafe/querysafe"
	"github.com/querysafe/querysafe/pkg/scrub"
)

func TestMiddlewareSanitizesQuery(t *testing.T) {
	var gotQuery map[string][]string

	r := chi.NewRouter()
	r.Use(querysafe.Middleware())
	r.Get("/users", func(w http.ResponseWriter, req *http.Request) {
		gotQuery = req.URL.Query()
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/users?%24where=1&name=%24admin", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"1"}, gotQuery["where"])
	assert.Equal(t, []string{"admin"}, gotQuery["name"])
	assert.NotContains(t, gotQuery, "$where")
}

func TestMiddlewareSanitizesRouteParams(t *testing.T) {
	var gotID string

	// Route params are captured by the parent router, so the middleware
	// must sit inside the route group to observe them.
	r := chi.NewRouter()
	r.Route("/items/{id}", func(sub chi.Router) {
		sub.Use(querysafe.Middleware())
		sub.Get("/", func(w http.ResponseWriter, req *http.Request) {
			gotID = chi.URLParam(req, "id")
			w.WriteHeader(http.StatusOK)
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/items/$oid.123", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "oid123", gotID)
}

func TestMiddlewareSanitizesJSONBody(t *testing.T) {
	var gotBody map[string]any

	r := chi.NewRouter()
	r.Use(querysafe.Middleware())
	r.Post("/login", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	body := `{"username": {"$ne": ""}, "password": {"$gt": ""}}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"username": map[string]any{"ne": ""},
		"password": map[string]any{"gt": ""},
	}, gotBody)
}

func TestMiddlewareContentTypeGate(t *testing.T) {
	var gotBody string

	r := chi.NewRouter()
	r.Use(querysafe.Middleware(
		scrub.WithAllowedContentTypes("application/json"),
	))
	r.Post("/upload", func(w http.ResponseWriter, req *http.Request) {
		data, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		gotBody = string(data)
		w.WriteHeader(http.StatusOK)
	})

	body := `{"$ne": ""}`
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// The body field is gated on the declared content type.
	assert.Equal(t, body, gotBody)
}

func TestMiddlewareSkipRoutes(t *testing.T) {
	var gotQuery map[string][]string

	r := chi.NewRouter()
	r.Use(querysafe.Middleware(
		scrub.WithSkipRoutes("/health"),
	))
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		gotQuery = req.URL.Query()
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health?%24probe=1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"1"}, gotQuery["$probe"])
}

func TestMiddlewareManualMode(t *testing.T) {
	cfg, err := scrub.Resolve(scrub.WithMode(scrub.ModeManual))
	require.NoError(t, err)

	var beforeKeys, afterKeys []string

	r := chi.NewRouter()
	r.Use(querysafe.MiddlewareWithConfig(cfg))
	r.Get("/search", func(w http.ResponseWriter, req *http.Request) {
		for k := range req.URL.Query() {
			beforeKeys = append(beforeKeys, k)
		}

		require.NoError(t, querysafe.SanitizeRequest(req, cfg))

		for k := range req.URL.Query() {
			afterKeys = append(afterKeys, k)
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/search?%24where=1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"$where"}, beforeKeys)
	assert.Equal(t, []string{"where"}, afterKeys)
}

func TestMiddlewareInvalidBodyLeftReadable(t *testing.T) {
	var gotBody string

	r := chi.NewRouter()
	r.Use(querysafe.Middleware())
	r.Post("/raw", func(w http.ResponseWriter, req *http.Request) {
		data, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		gotBody = string(data)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/raw", strings.NewReader("not json $ne"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "not json $ne", gotBody)
}

func TestMiddlewarePanicsOnInvalidOptions(t *testing.T) {
	assert.Panics(t, func() {
		querysafe.Middleware(scrub.WithMaxDepth(-1))
	})
}

func TestMiddlewareAuditHookThroughTheStack(t *testing.T) {
	var events []scrub.Event

	r := chi.NewRouter()
	r.Use(querysafe.Middleware(
		scrub.WithAuditHook(func(ev scrub.Event) {
			events = append(events, ev)
		}),
	))
	r.Get("/q", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/q?filter=%24gt", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, events, 1)
	assert.Equal(t, "filter", events[0].Key)
	assert.Equal(t, "$gt", events[0].OriginalValue)
	assert.Equal(t, "gt", events[0].SanitizedValue)
}
