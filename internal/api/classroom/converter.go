package classroom

import "github.com/futig/tutor-backend/internal/entity"

func toAssignmentResponse(a *entity.Assignment) *entity.AssignmentResponse {
	return &entity.AssignmentResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		DueDate:     a.DueDate,
	}
}

func toAssignmentResponses(assignments []*entity.Assignment) []*entity.AssignmentResponse {
	out := make([]*entity.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, toAssignmentResponse(a))
	}
	return out
}
