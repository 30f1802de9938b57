package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const defaultSessionTitle = "New chat"

func (uc *ChatUsecase) CreateSession(ctx context.Context, ownerID string, req *entity.CreateChatSessionRequest) (*entity.ChatSession, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = defaultSessionTitle
	}

	session, err := uc.chatRepo.CreateSession(ctx, &entity.ChatSession{
		ID:      uuid.New().String(),
		OwnerID: ownerID,
		Title:   title,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	ctxzap.Info(ctx, "chat session created", zap.String("session_id", session.ID))
	return session, nil
}

func (uc *ChatUsecase) ListSessions(ctx context.Context, ownerID string) ([]*entity.ChatSession, error) {
	sessions, err := uc.chatRepo.ListSessions(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// GetSession returns the session with its messages in order.
// Sessions of other users are reported as not found.
func (uc *ChatUsecase) GetSession(ctx context.Context, ownerID, sessionID string) (*entity.ChatSessionWithMessages, error) {
	session, err := uc.chatRepo.GetSession(ctx, ownerID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	messages, err := uc.chatRepo.ListMessages(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return &entity.ChatSessionWithMessages{
		ChatSession: *session,
		Messages:    messages,
	}, nil
}

func (uc *ChatUsecase) DeleteSession(ctx context.Context, ownerID, sessionID string) error {
	if err := uc.chatRepo.DeleteSession(ctx, ownerID, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	ctxzap.Info(ctx, "chat session deleted", zap.String("session_id", sessionID))
	return nil
}

// Transcript renders the session as plain text for export. It returns the title and the body.
func (uc *ChatUsecase) Transcript(ctx context.Context, ownerID, sessionID string) (string, string, error) {
	session, err := uc.GetSession(ctx, ownerID, sessionID)
	if err != nil {
		return "", "", err
	}

	var b strings.Builder
	for i, m := range session.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%s:\n%s", speaker(m.Role), m.Content)
	}

	return session.Title, b.String(), nil
}

func speaker(role entity.ChatRole) string {
	switch role {
	case entity.ChatRoleUser:
		return "Student"
	case entity.ChatRoleAssistant:
		return "Tutor"
	default:
		return "System"
	}
}
