package classroom

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ClassroomUsecase manages educators' assignments and attendance
type ClassroomUsecase struct {
	classroomRepo repository.ClassroomRepository
	logger        *zap.Logger
}

func NewUsecase(classroomRepo repository.ClassroomRepository, logger *zap.Logger) *ClassroomUsecase {
	return &ClassroomUsecase{
		classroomRepo: classroomRepo,
		logger:        logger,
	}
}

func (uc *ClassroomUsecase) CreateAssignment(ctx context.Context, educatorID string, req *entity.AssignmentRequest) (*entity.Assignment, error) {
	assignment, err := uc.classroomRepo.CreateAssignment(ctx, &entity.Assignment{
		ID:          uuid.New().String(),
		EducatorID:  educatorID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	ctxzap.Info(ctx, "assignment created", zap.String("assignment_id", assignment.ID))
	return assignment, nil
}

func (uc *ClassroomUsecase) GetAssignment(ctx context.Context, id string) (*entity.Assignment, error) {
	assignment, err := uc.classroomRepo.GetAssignment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return assignment, nil
}

func (uc *ClassroomUsecase) ListEducatorAssignments(ctx context.Context, educatorID string) ([]*entity.Assignment, error) {
	assignments, err := uc.classroomRepo.ListAssignmentsByEducator(ctx, educatorID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// RecordAttendance replaces the attendance of one date. Duplicate names are dropped.
func (uc *ClassroomUsecase) RecordAttendance(ctx context.Context, educatorID string, req *entity.AttendanceRequest) (*entity.AttendanceRecord, error) {
	seen := make(map[string]struct{}, len(req.PresentStudents))
	present := make([]string, 0, len(req.PresentStudents))
	for _, s := range req.PresentStudents {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		present = append(present, s)
	}

	record, err := uc.classroomRepo.SaveAttendance(ctx, &entity.AttendanceRecord{
		EducatorID:      educatorID,
		Date:            req.Date,
		PresentStudents: present,
	})
	if err != nil {
		return nil, fmt.Errorf("save attendance: %w", err)
	}

	ctxzap.Info(ctx, "attendance recorded",
		zap.String("date", record.Date),
		zap.Int("present", len(record.PresentStudents)),
	)
	return record, nil
}
