package classroom

import (
	"context"

	"github.com/futig/tutor-backend/internal/entity"
)

type ClassroomUsecase interface {
	CreateAssignment(ctx context.Context, educatorID string, req *entity.AssignmentRequest) (*entity.Assignment, error)
	GetAssignment(ctx context.Context, id string) (*entity.Assignment, error)
	ListEducatorAssignments(ctx context.Context, educatorID string) ([]*entity.Assignment, error)
	RecordAttendance(ctx context.Context, educatorID string, req *entity.AttendanceRequest) (*entity.AttendanceRecord, error)
}

type GradingUsecase interface {
	Grade(ctx context.Context, studentID string, req *entity.SubmissionRequest) (*entity.GradeResponse, error)
}
