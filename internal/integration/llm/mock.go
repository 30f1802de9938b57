package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockAdapter answers without calling any provider.
type MockAdapter struct {
	provider entity.ProviderID
}

func NewMock(provider entity.ProviderID) Factory {
	return func(string, string) Adapter {
		return &MockAdapter{provider: provider}
	}
}

func (m *MockAdapter) Complete(ctx context.Context, prompt *entity.ComposedPrompt) (string, error) {
	ctxzap.Info(ctx, "[MOCK] completing prompt",
		zap.String("provider", string(m.provider)),
		zap.Int("message_count", len(prompt.Messages)),
	)

	// Grading prompts ask for a JSON object with a grade.
	if strings.Contains(prompt.SystemInstruction, `"grade"`) {
		return `{"grade": 85, "feedback": "Solid answer. Add a worked example to strengthen it."}`, nil
	}

	return fmt.Sprintf("[%s mock] You asked: %s", m.provider, firstLine(prompt.LatestContent())), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
