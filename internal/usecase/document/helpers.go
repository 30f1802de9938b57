package document

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// readFile reads an uploaded file into memory
func readFile(ctx context.Context, fh *multipart.FileHeader) (*entity.FileData, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", fh.Filename, err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", fh.Filename, err)
	}

	ctxzap.Debug(ctx, "file read for indexing",
		zap.String("filename", fh.Filename),
		zap.Int64("size", fh.Size),
	)

	return &entity.FileData{
		Filename:    validator.SanitizeFilename(fh.Filename),
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

func toDocumentResponses(docs []*entity.Document) []*entity.DocumentResponse {
	out := make([]*entity.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, &entity.DocumentResponse{
			ID:       d.ID,
			Filename: d.Filename,
			Category: d.Category,
		})
	}
	return out
}
