package embedding

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/futig/tutor-backend/internal/config"
	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/integration/common"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const providerName = "embedding"

// LookupEnv resolves credentials. Replaced in tests.
type LookupEnv func(key string) (string, bool)

// Connector calls an OpenAI-compatible embeddings endpoint (TogetherAI by default).
// The API key is read on every call so a rotated key is picked up without restart.
type Connector struct {
	cfg        config.EmbeddingConfig
	httpClient *http.Client
	lookupEnv  LookupEnv
}

func NewConnector(cfg config.EmbeddingConfig, httpCfg config.HTTPClientConfig) *Connector {
	httpCfg.RequestTimeout = cfg.Timeout
	return &Connector{
		cfg:        cfg,
		httpClient: common.NewHTTPClient(httpCfg),
		lookupEnv:  os.LookupEnv,
	}
}

func (c *Connector) client() (*openai.Client, error) {
	apiKey, ok := c.lookupEnv(c.cfg.APIKeyEnv)
	if !ok || strings.TrimSpace(apiKey) == "" {
		return nil, common.MissingCredential(providerName)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = c.cfg.BaseURL
	clientCfg.HTTPClient = c.httpClient

	return openai.NewClientWithConfig(clientCfg), nil
}

func (c *Connector) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in sequential requests of at most BatchSize inputs.
// The result has one vector per input, in input order.
func (c *Connector) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	client, err := c.client()
	if err != nil {
		return nil, err
	}

	ctxzap.Debug(ctx, "embedding texts", zap.Int("count", len(texts)), zap.String("model", c.cfg.Model))

	result := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.cfg.BatchSize {
		end := min(start+c.cfg.BatchSize, len(texts))

		resp, err := client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(c.cfg.Model),
			Input: texts[start:end],
		})
		if err != nil {
			ctxzap.Error(ctx, "embedding request failed", zap.Error(err))
			return nil, common.NewProviderError(providerName, err)
		}

		batch, err := orderedVectors(resp.Data, end-start)
		if err != nil {
			return nil, &entity.ProviderError{Provider: providerName, Kind: entity.ProviderErrorMalformed, Err: err}
		}
		result = append(result, batch...)
	}

	return result, nil
}

// orderedVectors places each embedding at its reported index.
func orderedVectors(data []openai.Embedding, want int) ([][]float32, error) {
	if len(data) != want {
		return nil, fmt.Errorf("expected %d embeddings, got %d", want, len(data))
	}

	out := make([][]float32, want)
	for _, d := range data {
		if d.Index < 0 || d.Index >= want || out[d.Index] != nil {
			return nil, fmt.Errorf("unexpected embedding index %d", d.Index)
		}
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("empty embedding at index %d", d.Index)
		}
		out[d.Index] = d.Embedding
	}

	return out, nil
}
