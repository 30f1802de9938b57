package entity

import (
	"fmt"
	"time"
)

type UserRole string

const (
	RoleStudent  UserRole = "student"
	RoleEducator UserRole = "educator"
)

func (r UserRole) Validate() error {
	switch r {
	case RoleStudent, RoleEducator:
		return nil
	default:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidParameter, r)
	}
}

type User struct {
	Username       string    `json:"username"`
	Email          *string   `json:"email,omitempty"`
	FullName       *string   `json:"full_name,omitempty"`
	Role           UserRole  `json:"role"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Document is an uploaded file whose index lives in blob storage under StoragePath.
type Document struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Category    string    `json:"category"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	SizeBytes   int64     `json:"size_bytes"`
	ChunkCount  int       `json:"chunk_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleSystem    ChatRole = "system"
)

func (r ChatRole) Validate() error {
	switch r {
	case ChatRoleUser, ChatRoleAssistant, ChatRoleSystem:
		return nil
	default:
		return fmt.Errorf("%w: unknown chat role %q", ErrInvalidParameter, r)
	}
}

type ChatMessage struct {
	Role    ChatRole `json:"role" validate:"required,oneof=user assistant system"`
	Content string   `json:"content" validate:"required"`
}

// StoredChatMessage is a chat message persisted as part of a session.
type StoredChatMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Position  int       `json:"position"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatSession struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatSessionWithMessages struct {
	ChatSession
	Messages []*StoredChatMessage `json:"messages"`
}

type Assignment struct {
	ID          string    `json:"id"`
	EducatorID  string    `json:"educator_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     *string   `json:"due_date,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Submission struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignment_id"`
	StudentID    string    `json:"student_id"`
	Content      string    `json:"content"`
	Grade        int       `json:"grade"`
	Feedback     string    `json:"feedback"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type AttendanceRecord struct {
	EducatorID      string    `json:"educator_id"`
	Date            string    `json:"date"`
	PresentStudents []string  `json:"present_students"`
	RecordedAt      time.Time `json:"recorded_at"`
}
