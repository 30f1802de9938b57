package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ChatUsecase answers chat turns, optionally grounded in uploaded documents,
// and keeps the history of persisted sessions.
type ChatUsecase struct {
	chatRepo   repository.ChatRepository
	resolver   ScopeResolver
	dispatcher Dispatcher
	topK       int
	logger     *zap.Logger
}

// NewUsecase creates a new chat use case
func NewUsecase(
	chatRepo repository.ChatRepository,
	resolver ScopeResolver,
	dispatcher Dispatcher,
	topK int,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		chatRepo:   chatRepo,
		resolver:   resolver,
		dispatcher: dispatcher,
		topK:       topK,
		logger:     logger,
	}
}

// Providers lists the LLM providers a client may pick.
func (uc *ChatUsecase) Providers() []entity.ProviderInfo {
	return uc.dispatcher.Providers()
}

// Complete answers one stateless turn: retrieve, compose, dispatch.
// Retrieval problems never fail the turn; an invalid scope does.
func (uc *ChatUsecase) Complete(ctx context.Context, turn *entity.ChatTurn) (*entity.ChatReply, error) {
	if err := validateMessages(turn.Messages); err != nil {
		return nil, err
	}

	chunks, err := uc.retrieve(ctx, turn)
	if err != nil {
		return nil, err
	}

	prompt, err := Compose(turn.Persona, turn.Level, turn.Messages, chunks)
	if err != nil {
		return nil, err
	}

	completion, err := uc.dispatcher.Dispatch(ctx, turn.Provider, prompt)
	if err != nil {
		return nil, fmt.Errorf("dispatch prompt: %w", err)
	}

	return &entity.ChatReply{
		Completion:      *completion,
		RetrievedChunks: len(chunks),
	}, nil
}

func (uc *ChatUsecase) retrieve(ctx context.Context, turn *entity.ChatTurn) ([]entity.ScoredChunk, error) {
	if turn.Scope == nil {
		return nil, nil
	}

	idx, err := uc.resolver.Resolve(ctx, turn.OwnerID, turn.Scope)
	if err != nil {
		return nil, fmt.Errorf("resolve scope: %w", err)
	}
	if idx == nil {
		ctxzap.Debug(ctx, "no index for scope, answering without context",
			zap.String("scope_type", string(turn.Scope.Type)),
			zap.String("scope_id", turn.Scope.ID),
		)
		return nil, nil
	}

	query := turn.Messages[len(turn.Messages)-1].Content
	chunks, err := idx.Nearest(ctx, query, uc.topK)
	if err != nil {
		ctxzap.Warn(ctx, "similarity search failed, answering without context", zap.Error(err))
		return nil, nil
	}

	ctxzap.Debug(ctx, "retrieved context", zap.Int("chunks", len(chunks)))
	return chunks, nil
}

// SendMessage appends a user turn to a persisted session. The user message and
// the answer are stored together only after the provider succeeds.
func (uc *ChatUsecase) SendMessage(ctx context.Context, sc *entity.SessionContext, content string) (*entity.TurnResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content", entity.ErrMissingField)
	}

	session, err := uc.chatRepo.GetSession(ctx, sc.OwnerID, sc.SessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	history, err := uc.chatRepo.ListMessages(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	userMessage := entity.ChatMessage{Role: entity.ChatRoleUser, Content: content}
	messages := make([]entity.ChatMessage, 0, len(history)+1)
	for _, m := range history {
		messages = append(messages, entity.ChatMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, userMessage)

	reply, err := uc.Complete(ctx, &entity.ChatTurn{
		OwnerID:  sc.OwnerID,
		Persona:  sc.Persona,
		Level:    sc.Level,
		Provider: sc.Provider,
		Scope:    sc.Scope,
		Messages: messages,
	})
	if err != nil {
		return nil, err
	}

	stored, err := uc.chatRepo.AppendTurn(ctx, session.ID, userMessage, entity.ChatMessage{
		Role:    entity.ChatRoleAssistant,
		Content: reply.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("append turn: %w", err)
	}
	if len(stored) != 2 {
		return nil, fmt.Errorf("append turn: expected 2 stored messages, got %d", len(stored))
	}

	ctxzap.Info(ctx, "chat turn stored",
		zap.String("session_id", session.ID),
		zap.Int("position", stored[1].Position),
	)

	return &entity.TurnResult{
		UserMessage:      stored[0],
		AssistantMessage: stored[1],
		Provider:         reply.Provider,
		Model:            reply.Model,
		RetrievedChunks:  reply.RetrievedChunks,
	}, nil
}
