package document

import (
	"context"

	"github.com/futig/tutor-backend/internal/entity"
)

type DocumentUsecase interface {
	Upload(ctx context.Context, req *entity.UploadDocumentRequest) (*entity.UploadResponse, error)
	List(ctx context.Context, ownerID string) ([]*entity.DocumentResponse, error)
	Delete(ctx context.Context, ownerID, docID string) error
	Usage(ctx context.Context, ownerID string) (*entity.StorageUsage, error)
}
