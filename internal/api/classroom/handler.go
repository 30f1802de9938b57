package classroom

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/futig/tutor-backend/internal/api/middleware"
	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/pkg/logger"
	"github.com/futig/tutor-backend/internal/pkg/response"
	"github.com/futig/tutor-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	classroom ClassroomUsecase
	grading   GradingUsecase
	validator *validator.Validator
}

func NewHandler(classroom ClassroomUsecase, grading GradingUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		classroom: classroom,
		grading:   grading,
		validator: validator,
	}
}

// CreateAssignment handles POST /assignments
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateAssignment")

	caller, err := middleware.Caller(ctx)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	var req entity.AssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	assignment, err := h.classroom.CreateAssignment(ctx, caller.Username, &req)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, toAssignmentResponse(assignment))
}

// ListEducatorAssignments handles GET /assignments/educator
func (h *Handler) ListEducatorAssignments(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListEducatorAssignments")

	caller, err := middleware.Caller(ctx)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	assignments, err := h.classroom.ListEducatorAssignments(ctx, caller.Username)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toAssignmentResponses(assignments))
}

// GetAssignment handles GET /assignments/{id}
func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("assignment_id", assignmentID),
		zap.String("action", "GetAssignment"),
	)

	assignment, err := h.classroom.GetAssignment(ctx, assignmentID)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toAssignmentResponse(assignment))
}

// GradeSubmission handles POST /submissions/grade
func (h *Handler) GradeSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GradeSubmission")

	caller, err := middleware.Caller(ctx)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	var req entity.SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	ctx = logger.AddFields(ctx, zap.String("assignment_id", req.AssignmentID))

	grade, err := h.grading.Grade(ctx, caller.Username, &req)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, grade)
}

// RecordAttendance handles POST /attendance
func (h *Handler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "RecordAttendance")

	caller, err := middleware.Caller(ctx)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	var req entity.AttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	record, err := h.classroom.RecordAttendance(ctx, caller.Username, &req)
	if err != nil {
		response.HandleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, map[string]string{
		"message": fmt.Sprintf("Attendance for %s recorded successfully.", record.Date),
	})
}
