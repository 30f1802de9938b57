package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/ledongthuc/pdf"
	"github.com/unidoc/unioffice/document"
)

// AllowedExtensions are the upload types whose text can be indexed.
var AllowedExtensions = []string{".txt", ".md", ".pdf", ".docx"}

// IsAllowed reports whether filename has an indexable extension.
func IsAllowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Text returns the plain text of an uploaded file, choosing the parser by extension.
func Text(filename string, content []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		text, err = plainText(content)
	case ".pdf":
		text, err = pdfText(content)
	case ".docx":
		text, err = docxText(content)
	default:
		return "", fmt.Errorf("%w: %s", entity.ErrInvalidExtension, filepath.Ext(filename))
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", entity.ErrEmptyDocument
	}

	return text, nil
}

func plainText(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: text is not valid UTF-8", entity.ErrInvalidFile)
	}
	return string(content), nil
}

func pdfText(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: read pdf: %v", entity.ErrInvalidFile, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: extract pdf text: %v", entity.ErrInvalidFile, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	return buf.String(), nil
}

func docxText(content []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: read docx: %v", entity.ErrInvalidFile, err)
	}
	defer doc.Close()

	var b strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			b.WriteString(run.Text())
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}
