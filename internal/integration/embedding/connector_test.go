package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futig/tutor-backend/internal/config"
	"github.com/futig/tutor-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type embeddingsRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

func newTestConnector(url string, env map[string]string) *Connector {
	c := NewConnector(config.EmbeddingConfig{
		Model:     "togethercomputer/m2-bert-80M-8k-retrieval",
		BaseURL:   url,
		APIKeyEnv: "TOGETHER_API_KEY",
		BatchSize: 2,
		Timeout:   5 * time.Second,
	}, config.HTTPClientConfig{ConnTimeout: time.Second, ResponseHeaderTimeout: 5 * time.Second})
	c.lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	return c
}

func TestEmbedBatch_MissingCredential(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()

	_, err := newTestConnector(srv.URL, nil).EmbedBatch(context.Background(), []string{"a"})

	var provErr *entity.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, entity.ProviderErrorConfiguration, provErr.Kind)
	var confErr *entity.ConfigurationError
	assert.True(t, errors.As(err, &confErr))
	assert.Zero(t, calls)
}

func TestEmbedBatch_BatchesAndOrders(t *testing.T) {
	var batches [][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req embeddingsRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		batches = append(batches, req.Input)

		// Reply in reverse order to exercise index placement.
		data := make([]map[string]any, 0, len(req.Input))
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": []float32{float32(len(req.Input[i])), 1},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data, "model": req.Model})
	}))
	defer srv.Close()

	c := newTestConnector(srv.URL, map[string]string{"TOGETHER_API_KEY": "secret"})
	vectors, err := c.EmbedBatch(context.Background(), []string{"a", "bb", "ccc"})

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "bb"}, {"ccc"}}, batches)
	assert.Equal(t, [][]float32{{1, 1}, {2, 1}, {3, 1}}, vectors)
}

func TestEmbedBatch_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	c := newTestConnector(srv.URL, map[string]string{"TOGETHER_API_KEY": "secret"})
	_, err := c.Embed(context.Background(), "hello")

	var provErr *entity.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, entity.ProviderErrorRateLimit, provErr.Kind)
}

func TestEmbedBatch_CountMismatchIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer srv.Close()

	c := newTestConnector(srv.URL, map[string]string{"TOGETHER_API_KEY": "secret"})
	_, err := c.Embed(context.Background(), "hello")

	var provErr *entity.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, entity.ProviderErrorMalformed, provErr.Kind)
}

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder(16)
	a, err := m.Embed(context.Background(), "Gravity pulls planets")
	require.NoError(t, err)
	b, err := m.Embed(context.Background(), "gravity, pulls planets!")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}
