package formatter

import (
	"fmt"

	"github.com/futig/tutor-backend/internal/entity"
)

const defaultTitle = "Chat transcript"

type Formatter interface {
	Format(title, plainText string) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidParameter, format)
	}
}

func titleOrDefault(title string) string {
	if title == "" {
		return defaultTitle
	}
	return title
}

var speakerLabels = map[string]struct{}{
	"Student:": {},
	"Tutor:":   {},
	"System:":  {},
}

// isSpeakerLine reports whether line opens a new turn in a transcript.
func isSpeakerLine(line string) bool {
	_, ok := speakerLabels[line]
	return ok
}
