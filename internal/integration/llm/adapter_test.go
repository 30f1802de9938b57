package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futig/tutor-backend/internal/config"
	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/integration/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
		},
		TogetherModel: "meta-llama/Llama-3.3-70B-Instruct-Turbo-Free",
		OpenAIModel:   "gpt-4-turbo",
		GoogleModel:   "gemini-1.5-pro-latest",
	}
}

func conversation() *entity.ComposedPrompt {
	return &entity.ComposedPrompt{
		SystemInstruction: "You are a tutor. You are teaching at a beginner level.",
		Messages: []entity.ChatMessage{
			{Role: entity.ChatRoleUser, Content: "Hi"},
			{Role: entity.ChatRoleAssistant, Content: "Hello!"},
			{Role: entity.ChatRoleUser, Content: "What is gravity?"},
		},
	}
}

func TestOpenAICompatible_SendsLeadingSystemMessage(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"A force."},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	adapter := NewOpenAICompatible(srv.URL, srv.Client())("key", "gpt-4-turbo")
	content, err := adapter.Complete(context.Background(), conversation())

	require.NoError(t, err)
	assert.Equal(t, "A force.", content)
	assert.Equal(t, "gpt-4-turbo", got.Model)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "You are a tutor. You are teaching at a beginner level.", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "assistant", got.Messages[2].Role)
	assert.Equal(t, "What is gravity?", got.Messages[3].Content)
}

func TestOpenAICompatible_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAICompatible(srv.URL, nil)("key", "m").Complete(context.Background(), conversation())

	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGoogle_SendsSystemInstructionAndLatestContentOnly(t *testing.T) {
	var got googleGenerateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-pro-latest:generateContent", r.URL.Path)
		assert.Equal(t, "gkey", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Gravity "},{"text":"attracts."}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	connector := common.NewBaseConnector(testLLMConfig().HTTPClientConfig, srv.URL, zap.NewNop())
	content, err := NewGoogle(connector)("gkey", "gemini-1.5-pro-latest").Complete(context.Background(), conversation())

	require.NoError(t, err)
	assert.Equal(t, "Gravity attracts.", content)
	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "You are a tutor. You are teaching at a beginner level.", got.SystemInstruction.Parts[0].Text)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "What is gravity?", got.Contents[0].Parts[0].Text)
}

func TestGoogle_BlockedPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	connector := common.NewBaseConnector(testLLMConfig().HTTPClientConfig, srv.URL, zap.NewNop())
	_, err := NewGoogle(connector)("gkey", "gemini").Complete(context.Background(), conversation())

	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestMock_GradingPromptReturnsJSON(t *testing.T) {
	prompt := &entity.ComposedPrompt{
		SystemInstruction: `Respond with a JSON object {"grade": <int>, "feedback": <string>}.`,
		Messages:          []entity.ChatMessage{{Role: entity.ChatRoleUser, Content: "essay"}},
	}

	content, err := NewMock(entity.ProviderOpenAI)("", "").Complete(context.Background(), prompt)

	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(content), &parsed))
	assert.Contains(t, parsed, "grade")
}
