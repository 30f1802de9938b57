package grading

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/futig/tutor-backend/internal/entity"
)

type gradePayload struct {
	Grade    json.RawMessage `json:"grade"`
	Feedback *string         `json:"feedback"`
}

// parseGrade accepts a JSON object with an integer grade in 0..100 and a
// feedback string, optionally wrapped in a markdown code fence.
func parseGrade(raw string) (*entity.GradeResponse, error) {
	body := stripFence(strings.TrimSpace(raw))

	dec := json.NewDecoder(strings.NewReader(body))

	var payload gradePayload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrMalformedGradingResponse, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON object", entity.ErrMalformedGradingResponse)
	}

	if len(payload.Grade) == 0 || string(payload.Grade) == "null" {
		return nil, fmt.Errorf("%w: missing grade", entity.ErrMalformedGradingResponse)
	}
	var grade int64
	if err := json.Unmarshal(payload.Grade, &grade); err != nil {
		return nil, fmt.Errorf("%w: grade %s is not an integer", entity.ErrMalformedGradingResponse, payload.Grade)
	}
	if grade < 0 || grade > 100 {
		return nil, fmt.Errorf("%w: grade %d out of range 0..100", entity.ErrMalformedGradingResponse, grade)
	}

	if payload.Feedback == nil {
		return nil, fmt.Errorf("%w: missing feedback", entity.ErrMalformedGradingResponse)
	}

	return &entity.GradeResponse{Grade: int(grade), Feedback: *payload.Feedback}, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag line, e.g. ```json
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
