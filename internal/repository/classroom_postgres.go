package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClassroomRepository defines the interface for assignments, graded submissions and attendance
type ClassroomRepository interface {
	CreateAssignment(ctx context.Context, a *entity.Assignment) (*entity.Assignment, error)
	GetAssignment(ctx context.Context, id string) (*entity.Assignment, error)
	ListAssignmentsByEducator(ctx context.Context, educatorID string) ([]*entity.Assignment, error)
	CreateSubmission(ctx context.Context, s *entity.Submission) (*entity.Submission, error)
	SaveAttendance(ctx context.Context, record *entity.AttendanceRecord) (*entity.AttendanceRecord, error)
}

var _ ClassroomRepository = &ClassroomPostgres{}

type ClassroomPostgres struct {
	db *pgxpool.Pool
}

func NewClassroomPostgres(db *pgxpool.Pool) *ClassroomPostgres {
	return &ClassroomPostgres{db: db}
}

const assignmentColumns = `id, educator_id, title, description, due_date, created_at`

func (r *ClassroomPostgres) CreateAssignment(ctx context.Context, a *entity.Assignment) (*entity.Assignment, error) {
	id, err := parseUUID(a.ID, entity.ErrInvalidParameter)
	if err != nil {
		return nil, fmt.Errorf("invalid assignment ID: %w", err)
	}
	dueDate, err := toPgDate(a.DueDate)
	if err != nil {
		return nil, fmt.Errorf("due_date: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO assignments (id, educator_id, title, description, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+assignmentColumns,
		id, a.EducatorID, a.Title, a.Description, dueDate,
	)

	created, err := scanAssignment(row)
	if err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	return created, nil
}

func (r *ClassroomPostgres) GetAssignment(ctx context.Context, id string) (*entity.Assignment, error) {
	assignmentID, err := parseUUID(id, entity.ErrAssignmentNotFound)
	if err != nil {
		return nil, err
	}

	a, err := scanAssignment(r.db.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, assignmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}

	return a, nil
}

func (r *ClassroomPostgres) ListAssignmentsByEducator(ctx context.Context, educatorID string) ([]*entity.Assignment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+assignmentColumns+` FROM assignments WHERE educator_id = $1 ORDER BY created_at DESC`, educatorID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*entity.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

func (r *ClassroomPostgres) CreateSubmission(ctx context.Context, s *entity.Submission) (*entity.Submission, error) {
	id, err := parseUUID(s.ID, entity.ErrInvalidParameter)
	if err != nil {
		return nil, fmt.Errorf("invalid submission ID: %w", err)
	}
	assignmentID, err := parseUUID(s.AssignmentID, entity.ErrAssignmentNotFound)
	if err != nil {
		return nil, err
	}

	var submittedAt pgtype.Timestamptz
	err = r.db.QueryRow(ctx, `
		INSERT INTO submissions (id, assignment_id, student_id, content, grade, feedback)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING submitted_at`,
		id, assignmentID, s.StudentID, s.Content, s.Grade, s.Feedback,
	).Scan(&submittedAt)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return nil, entity.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("create submission: %w", err)
	}

	created := *s
	created.SubmittedAt = submittedAt.Time
	return &created, nil
}

// SaveAttendance records who was present; a second record for the same day replaces the first.
func (r *ClassroomPostgres) SaveAttendance(ctx context.Context, record *entity.AttendanceRecord) (*entity.AttendanceRecord, error) {
	date, err := toPgDate(&record.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	present := record.PresentStudents
	if present == nil {
		present = []string{}
	}

	var recordedAt pgtype.Timestamptz
	err = r.db.QueryRow(ctx, `
		INSERT INTO attendance (educator_id, date, present_students)
		VALUES ($1, $2, $3)
		ON CONFLICT (educator_id, date)
		DO UPDATE SET present_students = EXCLUDED.present_students, recorded_at = now()
		RETURNING recorded_at`,
		record.EducatorID, date, present,
	).Scan(&recordedAt)
	if err != nil {
		return nil, fmt.Errorf("save attendance: %w", err)
	}

	saved := *record
	saved.PresentStudents = present
	saved.RecordedAt = recordedAt.Time
	return &saved, nil
}
