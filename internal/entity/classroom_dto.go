package entity

type AssignmentRequest struct {
	Title       string  `json:"title" validate:"required,max=300"`
	Description string  `json:"description" validate:"required"`
	DueDate     *string `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type AssignmentResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date,omitempty"`
}

type SubmissionRequest struct {
	AssignmentID string `json:"assignment_id" validate:"required,uuid"`
	Content      string `json:"content" validate:"required"`
}

type GradeResponse struct {
	Grade    int    `json:"grade"`
	Feedback string `json:"feedback"`
}

type AttendanceRequest struct {
	Date            string   `json:"date" validate:"required,datetime=2006-01-02"`
	PresentStudents []string `json:"present_students" validate:"dive,required"`
}
