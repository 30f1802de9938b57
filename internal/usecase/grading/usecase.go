package grading

import (
	"context"
	"fmt"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const systemInstruction = `You are a fair and helpful grading assistant who provides clear, actionable feedback. ` +
	`You always respond in JSON format: {"grade": <integer from 0 to 100>, "feedback": <string>}.`

const promptTemplate = `You are an expert teaching assistant. Your task is to grade a student's submission.
Provide a numerical score out of 100 and constructive feedback.
Return your response as a JSON object with two keys: "grade" (an integer) and "feedback" (a string).

Original Assignment Description:
---
%s
---

Student's Submission:
---
%s
---`

type Dispatcher interface {
	Dispatch(ctx context.Context, provider entity.ProviderID, prompt *entity.ComposedPrompt) (*entity.Completion, error)
}

// GradingUsecase grades submissions with an LLM and stores the result
type GradingUsecase struct {
	classroomRepo repository.ClassroomRepository
	dispatcher    Dispatcher
	provider      entity.ProviderID
	logger        *zap.Logger
}

func NewUsecase(
	classroomRepo repository.ClassroomRepository,
	dispatcher Dispatcher,
	provider entity.ProviderID,
	logger *zap.Logger,
) *GradingUsecase {
	return &GradingUsecase{
		classroomRepo: classroomRepo,
		dispatcher:    dispatcher,
		provider:      provider,
		logger:        logger,
	}
}

// Grade asks the grading provider to score the submission and stores it.
// Nothing is stored when the answer cannot be parsed.
func (uc *GradingUsecase) Grade(ctx context.Context, studentID string, req *entity.SubmissionRequest) (*entity.GradeResponse, error) {
	assignment, err := uc.classroomRepo.GetAssignment(ctx, req.AssignmentID)
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}

	completion, err := uc.dispatcher.Dispatch(ctx, uc.provider, &entity.ComposedPrompt{
		SystemInstruction: systemInstruction,
		Messages: []entity.ChatMessage{{
			Role:    entity.ChatRoleUser,
			Content: fmt.Sprintf(promptTemplate, assignment.Description, req.Content),
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("dispatch grading prompt: %w", err)
	}

	result, err := parseGrade(completion.Content)
	if err != nil {
		ctxzap.Warn(ctx, "grading response rejected",
			zap.String("provider", string(completion.Provider)),
			zap.Int("response_length", len(completion.Content)),
			zap.Error(err),
		)
		return nil, err
	}

	_, err = uc.classroomRepo.CreateSubmission(ctx, &entity.Submission{
		ID:           uuid.New().String(),
		AssignmentID: assignment.ID,
		StudentID:    studentID,
		Content:      req.Content,
		Grade:        result.Grade,
		Feedback:     result.Feedback,
	})
	if err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}

	ctxzap.Info(ctx, "submission graded",
		zap.String("assignment_id", assignment.ID),
		zap.Int("grade", result.Grade),
	)
	return result, nil
}
