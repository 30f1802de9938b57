package classroom

import (
	"context"
	"testing"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClassroomRepo struct {
	assignments []*entity.Assignment
	attendance  map[string]*entity.AttendanceRecord
}

func (f *fakeClassroomRepo) CreateAssignment(_ context.Context, a *entity.Assignment) (*entity.Assignment, error) {
	f.assignments = append(f.assignments, a)
	return a, nil
}

func (f *fakeClassroomRepo) GetAssignment(_ context.Context, id string) (*entity.Assignment, error) {
	for _, a := range f.assignments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, entity.ErrAssignmentNotFound
}

func (f *fakeClassroomRepo) ListAssignmentsByEducator(_ context.Context, educatorID string) ([]*entity.Assignment, error) {
	var out []*entity.Assignment
	for _, a := range f.assignments {
		if a.EducatorID == educatorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeClassroomRepo) CreateSubmission(_ context.Context, s *entity.Submission) (*entity.Submission, error) {
	return s, nil
}

func (f *fakeClassroomRepo) SaveAttendance(_ context.Context, r *entity.AttendanceRecord) (*entity.AttendanceRecord, error) {
	f.attendance[r.EducatorID+"/"+r.Date] = r
	return r, nil
}

func newTestUsecase() (*ClassroomUsecase, *fakeClassroomRepo) {
	repo := &fakeClassroomRepo{attendance: map[string]*entity.AttendanceRecord{}}
	return NewUsecase(repo, zap.NewNop()), repo
}

func TestAssignments(t *testing.T) {
	uc, _ := newTestUsecase()
	ctx := context.Background()

	due := "2026-11-01"
	created, err := uc.CreateAssignment(ctx, "mrs-lee", &entity.AssignmentRequest{
		Title:       " Fractions ",
		Description: "Add 1/2 and 1/3.",
		DueDate:     &due,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Fractions", created.Title)

	_, err = uc.CreateAssignment(ctx, "mr-kim", &entity.AssignmentRequest{Title: "Maps", Description: "Draw a map."})
	require.NoError(t, err)

	mine, err := uc.ListEducatorAssignments(ctx, "mrs-lee")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)

	got, err := uc.GetAssignment(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Add 1/2 and 1/3.", got.Description)

	_, err = uc.GetAssignment(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrAssignmentNotFound)
}

func TestRecordAttendance_DeduplicatesStudents(t *testing.T) {
	uc, repo := newTestUsecase()

	record, err := uc.RecordAttendance(context.Background(), "mrs-lee", &entity.AttendanceRequest{
		Date:            "2026-10-17",
		PresentStudents: []string{"alice", "bob", "alice", " ", "carol"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, record.PresentStudents)
	assert.Contains(t, repo.attendance, "mrs-lee/2026-10-17")
}
