package validator

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/futig/tutor-backend/internal/config"
	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/rag/extract"
	playground "github.com/go-playground/validator/v10"
)

// Validator validates request bodies and file uploads
type Validator struct {
	cfg      config.FileUploadConfig
	validate *playground.Validate
}

func New(cfg config.FileUploadConfig) *Validator {
	return &Validator{
		cfg:      cfg,
		validate: playground.New(playground.WithRequiredStructEnabled()),
	}
}

// Struct checks the validate tags of req. Missing required fields wrap
// entity.ErrMissingField, every other violation wraps entity.ErrInvalidParameter.
func (v *Validator) Struct(req any) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
	}

	fe := fieldErrs[0]
	field := jsonPath(fe.Namespace())
	if fe.Tag() == "required" {
		return fmt.Errorf("%w: %s", entity.ErrMissingField, field)
	}
	if fe.Param() != "" {
		return fmt.Errorf("%w: %s must satisfy %s=%s", entity.ErrInvalidParameter, field, fe.Tag(), fe.Param())
	}
	return fmt.Errorf("%w: %s must satisfy %s", entity.ErrInvalidParameter, field, fe.Tag())
}

// ValidateUpload checks extension and size of an uploaded document.
func (v *Validator) ValidateUpload(fh *multipart.FileHeader) error {
	if fh == nil {
		return fmt.Errorf("%w: file", entity.ErrMissingField)
	}

	if !extract.IsAllowed(fh.Filename) {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		return fmt.Errorf("%w: %q (allowed: txt, md, pdf, docx)", entity.ErrInvalidExtension, ext)
	}

	if fh.Size > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, fh.Filename, fh.Size, v.cfg.MaxFileSize)
	}

	return nil
}

// SanitizeFilename sanitizes a filename for safe storage
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}

// jsonPath turns "SendMessageRequest.RAGScope.ID" into "RAGScope.ID".
func jsonPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
