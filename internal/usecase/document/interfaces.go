package document

import (
	"context"
	"mime/multipart"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/rag/index"
)

type IndexStore interface {
	Save(ctx context.Context, key entity.IndexKey, idx *index.Index) (int64, error)
	Delete(ctx context.Context, key entity.IndexKey) error
}

type QuotaChecker interface {
	Check(ctx context.Context, ownerID string, incomingBytes int64) (*entity.StorageUsage, error)
	Usage(ctx context.Context, ownerID string) (*entity.StorageUsage, error)
}

type UploadValidator interface {
	ValidateUpload(fh *multipart.FileHeader) error
}
