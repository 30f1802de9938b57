package formatter

import (
	"testing"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_Create(t *testing.T) {
	f := NewFactory()

	md, err := f.Create(entity.FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, ".md", md.FileExtension())

	pdf, err := f.Create(entity.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType())

	_, err = f.Create("odt")
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestMarkdownFormatter_Format(t *testing.T) {
	out, err := NewMarkdownFormatter().Format("Photosynthesis", "Student:\nWhat is it?\n\nTutor:\nStudent: read chapter 2.")
	require.NoError(t, err)
	assert.Equal(t, "# Photosynthesis\n\n**Student:**\nWhat is it?\n\n**Tutor:**\nStudent: read chapter 2.\n", string(out))

	out, err = NewMarkdownFormatter().Format("", "text")
	require.NoError(t, err)
	assert.Equal(t, "# Chat transcript\n\ntext\n", string(out))
}

func TestPDFFormatter_Format(t *testing.T) {
	out, err := NewPDFFormatter().Format("Notes", "Student:\nline one\n\nTutor:\nline two")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}
