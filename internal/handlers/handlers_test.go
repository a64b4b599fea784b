package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"taxdesk-backend/internal/cache"
	"taxdesk-backend/internal/ctxkeys"
	"taxdesk-backend/internal/history"
	"taxdesk-backend/internal/storage"
)

var fixedNow = time.Date(2025, 3, 31, 10, 30, 0, 0, time.UTC)

type testEnv struct {
	router  *chi.Mux
	cache   *countingCache
	history *history.MemoryStore
	store   *storage.LocalStore
}

// countingCache records hits so tests can tell cached responses apart.
type countingCache struct {
	*cache.MemoryCache
	hits int
	sets int
}

func (c *countingCache) Get(ctx context.Context, key string) (string, bool) {
	v, ok := c.MemoryCache.Get(ctx, key)
	if ok {
		c.hits++
	}
	return v, ok
}

func (c *countingCache) Set(ctx context.Context, key, value string) error {
	c.sets++
	return c.MemoryCache.Set(ctx, key, value)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := storage.NewLocalStore(t.TempDir(), "http://localhost:8080/api/files")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	env := &testEnv{
		cache:   &countingCache{MemoryCache: cache.NewMemoryCache(time.Minute)},
		history: history.NewMemoryStore(),
		store:   store,
	}

	calc := NewCalculatorHandler(env.cache, env.history)
	calc.now = func() time.Time { return fixedNow }
	reports := NewReportHandler(calc, store)
	hist := NewHistoryHandler(env.history)
	files := NewFileHandler(store, store.Root())

	r := chi.NewRouter()
	r.Post("/api/gst/penalty", calc.GSTPenalty)
	r.Post("/api/tds/penalty", calc.TDSPenalty)
	r.Post("/api/gst/penalty/report", reports.GSTReport)
	r.Post("/api/tds/penalty/report", reports.TDSReport)
	r.Get("/api/rules/{domain}", calc.Rules)
	r.Get("/api/calculations", hist.List)
	r.Get("/api/calculations/{id}", hist.GetByID)
	r.Get("/api/files/*", files.ServeFile)
	env.router = r
	return env
}

// do sends a request, optionally as userID, and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req = req.WithContext(ctxkeys.WithUserID(req.Context(), userID))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
}
