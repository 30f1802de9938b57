package repository

import (
	"errors"
	"time"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	dateLayout = "2006-01-02"

	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func parseUUID(id string, notFound error) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		// Malformed ids cannot match any row.
		return pgtype.UUID{}, notFound
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

func uuidString(id pgtype.UUID) string {
	return uuid.UUID(id.Bytes).String()
}

func toPgDate(value *string) (pgtype.Date, error) {
	if value == nil || *value == "" {
		return pgtype.Date{}, nil
	}
	t, err := time.Parse(dateLayout, *value)
	if err != nil {
		return pgtype.Date{}, entity.ErrInvalidFormat
	}
	return pgtype.Date{Time: t, Valid: true}, nil
}

func fromPgDate(d pgtype.Date) *string {
	if !d.Valid {
		return nil
	}
	s := d.Time.Format(dateLayout)
	return &s
}

func fromPgText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func toPgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var (
		doc entity.Document
		id  pgtype.UUID
	)
	err := row.Scan(&id, &doc.OwnerID, &doc.Category, &doc.Filename, &doc.StoragePath, &doc.SizeBytes, &doc.ChunkCount, &doc.CreatedAt)
	if err != nil {
		return nil, err
	}
	doc.ID = uuidString(id)
	return &doc, nil
}

func scanChatSession(row pgx.Row) (*entity.ChatSession, error) {
	var (
		session entity.ChatSession
		id      pgtype.UUID
	)
	if err := row.Scan(&id, &session.OwnerID, &session.Title, &session.CreatedAt, &session.UpdatedAt); err != nil {
		return nil, err
	}
	session.ID = uuidString(id)
	return &session, nil
}

func scanChatMessage(row pgx.Row) (*entity.StoredChatMessage, error) {
	var (
		msg       entity.StoredChatMessage
		id        pgtype.UUID
		sessionID pgtype.UUID
		role      string
	)
	if err := row.Scan(&id, &sessionID, &msg.Position, &role, &msg.Content, &msg.CreatedAt); err != nil {
		return nil, err
	}
	msg.ID = uuidString(id)
	msg.SessionID = uuidString(sessionID)
	msg.Role = entity.ChatRole(role)
	return &msg, nil
}

func scanAssignment(row pgx.Row) (*entity.Assignment, error) {
	var (
		a       entity.Assignment
		id      pgtype.UUID
		dueDate pgtype.Date
	)
	if err := row.Scan(&id, &a.EducatorID, &a.Title, &a.Description, &dueDate, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.ID = uuidString(id)
	a.DueDate = fromPgDate(dueDate)
	return &a, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u        entity.User
		email    pgtype.Text
		fullName pgtype.Text
		role     string
	)
	if err := row.Scan(&u.Username, &email, &fullName, &role, &u.HashedPassword, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Email = fromPgText(email)
	u.FullName = fromPgText(fullName)
	u.Role = entity.UserRole(role)
	return &u, nil
}
