package llm

import (
	"context"
	"net/http"

	"github.com/futig/tutor-backend/internal/entity"
	openai "github.com/sashabaranov/go-openai"
)

// openAIAdapter sends the system instruction as a leading "system" message
// followed by the full conversation.
type openAIAdapter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompatible returns a factory for OpenAI and OpenAI-compatible APIs such as TogetherAI.
func NewOpenAICompatible(baseURL string, httpClient *http.Client) Factory {
	return func(apiKey, model string) Adapter {
		cfg := openai.DefaultConfig(apiKey)
		cfg.BaseURL = baseURL
		if httpClient != nil {
			cfg.HTTPClient = httpClient
		}

		return &openAIAdapter{
			client: openai.NewClientWithConfig(cfg),
			model:  model,
		}
	}
}

func (a *openAIAdapter) Complete(ctx context.Context, prompt *entity.ComposedPrompt) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(prompt.Messages)+1)
	if prompt.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: prompt.SystemInstruction,
		})
	}
	for _, m := range prompt.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}
