package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ChatRepository defines the interface for chat session and message persistence
type ChatRepository interface {
	CreateSession(ctx context.Context, session *entity.ChatSession) (*entity.ChatSession, error)
	GetSession(ctx context.Context, ownerID, id string) (*entity.ChatSession, error)
	ListSessions(ctx context.Context, ownerID string) ([]*entity.ChatSession, error)
	ListMessages(ctx context.Context, sessionID string) ([]*entity.StoredChatMessage, error)
	// AppendTurn stores a user message and its answer atomically, after any existing messages.
	AppendTurn(ctx context.Context, sessionID string, user, assistant entity.ChatMessage) ([]*entity.StoredChatMessage, error)
	DeleteSession(ctx context.Context, ownerID, id string) error
}

var _ ChatRepository = &ChatPostgres{}

type ChatPostgres struct {
	db *pgxpool.Pool
}

func NewChatPostgres(db *pgxpool.Pool) *ChatPostgres {
	return &ChatPostgres{db: db}
}

const (
	chatSessionColumns = `id, owner_id, title, created_at, updated_at`
	chatMessageColumns = `id, session_id, position, role, content, created_at`
)

func (r *ChatPostgres) CreateSession(ctx context.Context, session *entity.ChatSession) (*entity.ChatSession, error) {
	id, err := parseUUID(session.ID, entity.ErrInvalidParameter)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO chat_sessions (id, owner_id, title)
		VALUES ($1, $2, $3)
		RETURNING `+chatSessionColumns,
		id, session.OwnerID, session.Title,
	)

	created, err := scanChatSession(row)
	if err != nil {
		return nil, fmt.Errorf("create chat session: %w", err)
	}

	return created, nil
}

func (r *ChatPostgres) GetSession(ctx context.Context, ownerID, id string) (*entity.ChatSession, error) {
	sessionID, err := parseUUID(id, entity.ErrSessionNotFound)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `SELECT `+chatSessionColumns+` FROM chat_sessions WHERE id = $1 AND owner_id = $2`, sessionID, ownerID)

	session, err := scanChatSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get chat session: %w", err)
	}

	return session, nil
}

func (r *ChatPostgres) ListSessions(ctx context.Context, ownerID string) ([]*entity.ChatSession, error) {
	rows, err := r.db.Query(ctx, `SELECT `+chatSessionColumns+` FROM chat_sessions WHERE owner_id = $1 ORDER BY updated_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*entity.ChatSession
	for rows.Next() {
		session, err := scanChatSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

func (r *ChatPostgres) ListMessages(ctx context.Context, sessionID string) ([]*entity.StoredChatMessage, error) {
	id, err := parseUUID(sessionID, entity.ErrSessionNotFound)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT `+chatMessageColumns+` FROM chat_messages WHERE session_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []*entity.StoredChatMessage
	for rows.Next() {
		msg, err := scanChatMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

func (r *ChatPostgres) AppendTurn(
	ctx context.Context,
	sessionID string,
	user, assistant entity.ChatMessage,
) ([]*entity.StoredChatMessage, error) {
	id, err := parseUUID(sessionID, entity.ErrSessionNotFound)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			ctxzap.Warn(ctx, "rollback append turn", zap.Error(rbErr))
		}
	}()

	// Row lock serializes concurrent turns of the same session.
	var locked pgtype.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM chat_sessions WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrSessionNotFound
		}
		return nil, fmt.Errorf("lock chat session: %w", err)
	}

	var next int
	err = tx.QueryRow(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM chat_messages WHERE session_id = $1`, id).Scan(&next)
	if err != nil {
		return nil, fmt.Errorf("next message position: %w", err)
	}

	stored := make([]*entity.StoredChatMessage, 0, 2)
	for i, msg := range []entity.ChatMessage{user, assistant} {
		row := tx.QueryRow(ctx, `
			INSERT INTO chat_messages (id, session_id, position, role, content)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+chatMessageColumns,
			pgtype.UUID{Bytes: uuid.New(), Valid: true}, id, next+i, string(msg.Role), msg.Content,
		)
		saved, err := scanChatMessage(row)
		if err != nil {
			return nil, fmt.Errorf("insert chat message: %w", err)
		}
		stored = append(stored, saved)
	}

	if _, err := tx.Exec(ctx, `UPDATE chat_sessions SET updated_at = now() WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("touch chat session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit append turn: %w", err)
	}

	return stored, nil
}

func (r *ChatPostgres) DeleteSession(ctx context.Context, ownerID, id string) error {
	sessionID, err := parseUUID(id, entity.ErrSessionNotFound)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM chat_sessions WHERE id = $1 AND owner_id = $2`, sessionID, ownerID)
	if err != nil {
		return fmt.Errorf("delete chat session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrSessionNotFound
	}

	return nil
}
