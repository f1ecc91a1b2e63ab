package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:   baseURL,
		Model:     "sentence-transformers/all-MiniLM-L6-v2",
		Timeout:   2 * time.Second,
		Dimension: 384,
	}
}

func TestNewService(t *testing.T) {
	t.Run("creates service with valid config", func(t *testing.T) {
		svc, err := NewService(testConfig("http://localhost:9999"), nil)
		require.NoError(t, err)
		assert.Equal(t, 384, svc.Dimension())
	})

	t.Run("rejects missing base URL", func(t *testing.T) {
		cfg := testConfig("")
		_, err := NewService(cfg, nil)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("rejects non-positive dimension", func(t *testing.T) {
		cfg := testConfig("http://localhost:9999")
		cfg.Dimension = 0
		_, err := NewService(cfg, nil)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestFallbackVector(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		a := FallbackVector("red running shoes", 384)
		b := FallbackVector("red running shoes", 384)
		assert.Equal(t, a, b)
	})

	t.Run("always has requested length", func(t *testing.T) {
		for _, text := range []string{"", "a", "some longer product query text"} {
			assert.Len(t, FallbackVector(text, 384), 384)
		}
	})

	t.Run("is case insensitive", func(t *testing.T) {
		assert.Equal(t, FallbackVector("Laptop", 384), FallbackVector("laptop", 384))
	})

	t.Run("differs for different inputs", func(t *testing.T) {
		assert.NotEqual(t, FallbackVector("shoes", 384), FallbackVector("laptops", 384))
	})

	t.Run("values are normalized", func(t *testing.T) {
		for _, v := range FallbackVector("coffee maker", 384) {
			assert.GreaterOrEqual(t, v, float32(0))
			assert.LessOrEqual(t, v, float32(1))
		}
	})
}

func TestEmbedQuery(t *testing.T) {
	longVector := func(n int) []float32 {
		v := make([]float32, n)
		for i := range v {
			v[i] = float32(i) / float32(n)
		}
		return v
	}

	t.Run("accepts flat response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			writeJSON(t, w, longVector(384))
		}))
		defer srv.Close()

		svc, err := NewService(testConfig(srv.URL), nil)
		require.NoError(t, err)

		result := svc.EmbedQuery(context.Background(), "gaming laptop")
		assert.Equal(t, SourceRemote, result.Source)
		assert.Len(t, result.Vector, 384)
	})

	t.Run("accepts nested response and takes first row", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, [][]float32{longVector(384), longVector(400)})
		}))
		defer srv.Close()

		svc, err := NewService(testConfig(srv.URL), nil)
		require.NoError(t, err)

		result := svc.EmbedQuery(context.Background(), "gaming laptop")
		assert.Equal(t, SourceRemote, result.Source)
		assert.Len(t, result.Vector, 384)
	})

	t.Run("truncates oversized response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, longVector(768))
		}))
		defer srv.Close()

		svc, err := NewService(testConfig(srv.URL), nil)
		require.NoError(t, err)

		result := svc.EmbedQuery(context.Background(), "gaming laptop")
		assert.Equal(t, SourceRemote, result.Source)
		assert.Len(t, result.Vector, 384)
	})

	t.Run("falls back on error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		svc, err := NewService(testConfig(srv.URL), nil)
		require.NoError(t, err)

		result := svc.EmbedQuery(context.Background(), "gaming laptop")
		assert.Equal(t, SourceFallback, result.Source)
		assert.Len(t, result.Vector, 384)
	})

	t.Run("falls back on malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": "loading"}`))
		}))
		defer srv.Close()

		svc, err := NewService(testConfig(srv.URL), nil)
		require.NoError(t, err)

		result := svc.EmbedQuery(context.Background(), "gaming laptop")
		assert.Equal(t, SourceFallback, result.Source)
	})

	t.Run("falls back on undersized vector", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, longVector(100))
		}))
		defer srv.Close()

		svc, err := NewService(testConfig(srv.URL), nil)
		require.NoError(t, err)

		result := svc.EmbedQuery(context.Background(), "gaming laptop")
		assert.Equal(t, SourceFallback, result.Source)
		assert.Len(t, result.Vector, 384)
	})

	t.Run("falls back on unreachable endpoint", func(t *testing.T) {
		svc, err := NewService(testConfig("http://127.0.0.1:1"), nil)
		require.NoError(t, err)

		result := svc.EmbedQuery(context.Background(), "gaming laptop")
		assert.Equal(t, SourceFallback, result.Source)
		assert.Len(t, result.Vector, 384)
	})

	t.Run("fallback result is reproducible across calls", func(t *testing.T) {
		svc, err := NewService(testConfig("http://127.0.0.1:1"), nil)
		require.NoError(t, err)

		a := svc.EmbedQuery(context.Background(), "espresso machine")
		b := svc.EmbedQuery(context.Background(), "espresso machine")
		assert.Equal(t, a.Vector, b.Vector)
	})
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}
