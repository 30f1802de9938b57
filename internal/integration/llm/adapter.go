package llm

import (
	"context"
	"errors"

	"github.com/futig/tutor-backend/internal/config"
	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/integration/common"
	"go.uber.org/zap"
)

// ErrEmptyResponse is returned by adapters when the provider answered without any text.
var ErrEmptyResponse = errors.New("provider returned no content")

// Adapter completes a composed prompt using one provider's calling convention.
type Adapter interface {
	Complete(ctx context.Context, prompt *entity.ComposedPrompt) (string, error)
}

// Factory builds an adapter for a resolved credential and model.
type Factory func(apiKey, model string) Adapter

// Registration binds a provider id to its model, credential variable and adapter.
// An empty CredentialEnv means the adapter needs no credential.
type Registration struct {
	Provider      entity.ProviderID
	Model         string
	CredentialEnv string
	New           Factory
}

// DefaultRegistrations returns the supported hosted providers.
func DefaultRegistrations(cfg config.LLMConfig, logger *zap.Logger) []Registration {
	httpClient := common.NewHTTPClient(cfg.HTTPClientConfig)
	googleConnector := common.NewBaseConnector(cfg.HTTPClientConfig, cfg.GoogleBaseURL, logger)

	return []Registration{
		{
			Provider:      entity.ProviderTogetherAI,
			Model:         cfg.TogetherModel,
			CredentialEnv: "TOGETHER_API_KEY",
			New:           NewOpenAICompatible(cfg.TogetherBaseURL, httpClient),
		},
		{
			Provider:      entity.ProviderOpenAI,
			Model:         cfg.OpenAIModel,
			CredentialEnv: "OPENAI_API_KEY",
			New:           NewOpenAICompatible(cfg.OpenAIBaseURL, httpClient),
		},
		{
			Provider:      entity.ProviderGoogle,
			Model:         cfg.GoogleModel,
			CredentialEnv: "GOOGLE_API_KEY",
			New:           NewGoogle(googleConnector),
		},
	}
}

// MockRegistrations mirrors DefaultRegistrations with canned adapters and no credentials.
func MockRegistrations(cfg config.LLMConfig) []Registration {
	return []Registration{
		{Provider: entity.ProviderTogetherAI, Model: cfg.TogetherModel, New: NewMock(entity.ProviderTogetherAI)},
		{Provider: entity.ProviderOpenAI, Model: cfg.OpenAIModel, New: NewMock(entity.ProviderOpenAI)},
		{Provider: entity.ProviderGoogle, Model: cfg.GoogleModel, New: NewMock(entity.ProviderGoogle)},
	}
}
