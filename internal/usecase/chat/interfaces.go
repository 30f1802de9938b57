package chat

import (
	"context"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/rag/index"
)

type ScopeResolver interface {
	Resolve(ctx context.Context, ownerID string, scope *entity.RetrievalScope) (*index.Index, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, provider entity.ProviderID, prompt *entity.ComposedPrompt) (*entity.Completion, error)
	Providers() []entity.ProviderInfo
}
