package chat

import (
	"context"

	"github.com/futig/tutor-backend/internal/entity"
)

type ChatUsecase interface {
	Complete(ctx context.Context, turn *entity.ChatTurn) (*entity.ChatReply, error)
	SendMessage(ctx context.Context, sc *entity.SessionContext, content string) (*entity.TurnResult, error)
	Providers() []entity.ProviderInfo
	CreateSession(ctx context.Context, ownerID string, req *entity.CreateChatSessionRequest) (*entity.ChatSession, error)
	ListSessions(ctx context.Context, ownerID string) ([]*entity.ChatSession, error)
	GetSession(ctx context.Context, ownerID, sessionID string) (*entity.ChatSessionWithMessages, error)
	DeleteSession(ctx context.Context, ownerID, sessionID string) error
	Transcript(ctx context.Context, ownerID, sessionID string) (string, string, error)
}
