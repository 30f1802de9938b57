package validator

import (
	"mime/multipart"
	"testing"

	"github.com/futig/tutor-backend/internal/config"
	"github.com/futig/tutor-backend/internal/entity"
	"github.com/stretchr/testify/assert"
)

func newTestValidator() *Validator {
	return New(config.FileUploadConfig{MaxFileSize: 1024, MaxUploadSize: 2048})
}

func TestStruct(t *testing.T) {
	v := newTestValidator()

	err := v.Struct(&entity.SendMessageRequest{Persona: "Tutor.", LLMProvider: entity.ProviderOpenAI})
	assert.ErrorIs(t, err, entity.ErrMissingField)
	assert.Contains(t, err.Error(), "Content")

	err = v.Struct(&entity.SendMessageRequest{
		Content:     "hi",
		Persona:     "Tutor.",
		LLMProvider: entity.ProviderOpenAI,
		RAGScope:    &entity.RetrievalScope{Type: "folder", ID: "x"},
	})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
	assert.Contains(t, err.Error(), "oneof")

	err = v.Struct(&entity.AttendanceRequest{Date: "17/10/2026"})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)

	assert.NoError(t, v.Struct(&entity.AttendanceRequest{Date: "2026-10-17", PresentStudents: []string{"alice"}}))
}

func TestValidateUpload(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidateUpload(&multipart.FileHeader{Filename: "Notes.PDF", Size: 100}))
	assert.ErrorIs(t, v.ValidateUpload(&multipart.FileHeader{Filename: "song.mp3", Size: 100}), entity.ErrInvalidExtension)
	assert.ErrorIs(t, v.ValidateUpload(&multipart.FileHeader{Filename: "big.txt", Size: 4096}), entity.ErrFileTooLarge)
	assert.ErrorIs(t, v.ValidateUpload(nil), entity.ErrMissingField)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my_notes_1.md", SanitizeFilename("../dir/my notes (1).md"))
}
