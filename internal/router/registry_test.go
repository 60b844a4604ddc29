package router

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pam-ai/pamgate/internal/logger"
)

func newTestRegistry() (*RouteRegistry, *bytes.Buffer) {
	r := NewRouteRegistry(logger.NewPlainStyledLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	buf := &bytes.Buffer{}
	r.out = buf
	return r, buf
}

func tagging(tag string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", tag)
			next.ServeHTTP(w, r)
		})
	}
}

func okWith(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}
}

func TestRouteRegistry_WireUp(t *testing.T) {
	r, table := newTestRegistry()
	r.Register("/version", okWith("v"), "Version information")
	r.RegisterGuarded("/pam/admit", okWith("admit"), "Safety check then route", http.MethodPost)

	mux := http.NewServeMux()
	r.WireUp(mux, []Middleware{tagging("common")}, []Middleware{tagging("size"), tagging("rate")})

	t.Run("plain route gets common chain only", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "v", rec.Body.String())
		assert.Equal(t, []string{"common"}, rec.Header().Values("X-Chain"))
	})

	t.Run("guarded route runs chains in order", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/pam/admit", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"common", "size", "rate"}, rec.Header().Values("X-Chain"))
	})

	t.Run("method is enforced", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pam/admit", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	assert.Contains(t, table.String(), "/pam/admit")
	assert.Contains(t, table.String(), "Version information")
}

func TestRouteRegistry_Order(t *testing.T) {
	r, _ := newTestRegistry()
	r.Register("/b", okWith(""), "second")
	r.Register("/a", okWith(""), "first")
	r.Register("/c", okWith(""), "third")

	entries := r.ordered()
	require.Len(t, entries, 3)
	assert.Equal(t, "/b", entries[0].path)
	assert.Equal(t, "/a", entries[1].path)
	assert.Equal(t, "/c", entries[2].path)
	assert.Len(t, r.GetRoutes(), 3)
}

func TestChain_SkipsNil(t *testing.T) {
	h := chain(okWith("ok"), []Middleware{nil, tagging("only")})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"only"}, rec.Header().Values("X-Chain"))
}
