package document

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/pkg/metrics"
	"github.com/futig/tutor-backend/internal/rag/chunker"
	"github.com/futig/tutor-backend/internal/rag/extract"
	"github.com/futig/tutor-backend/internal/rag/index"
	"github.com/futig/tutor-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DocumentUsecase indexes uploaded documents and manages their lifecycle
type DocumentUsecase struct {
	documentRepo repository.DocumentRepository
	store        IndexStore
	quota        QuotaChecker
	chunker      chunker.Chunker
	embedder     index.Embedder
	validator    UploadValidator
	logger       *zap.Logger
}

// NewUsecase creates a new document use case
func NewUsecase(
	documentRepo repository.DocumentRepository,
	store IndexStore,
	quota QuotaChecker,
	chunker chunker.Chunker,
	embedder index.Embedder,
	validator UploadValidator,
	logger *zap.Logger,
) *DocumentUsecase {
	return &DocumentUsecase{
		documentRepo: documentRepo,
		store:        store,
		quota:        quota,
		chunker:      chunker,
		embedder:     embedder,
		validator:    validator,
		logger:       logger,
	}
}

// Upload checks the quota, builds the document's index, stores it and then
// saves the metadata. If the metadata cannot be saved the stored index is removed.
func (uc *DocumentUsecase) Upload(ctx context.Context, req *entity.UploadDocumentRequest) (*entity.UploadResponse, error) {
	if err := uc.validator.ValidateUpload(req.File); err != nil {
		metrics.UploadRejections.WithLabelValues("validation").Inc()
		return nil, err
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		metrics.UploadRejections.WithLabelValues("validation").Inc()
		return nil, fmt.Errorf("%w: category", entity.ErrMissingField)
	}

	if _, err := uc.quota.Check(ctx, req.OwnerID, req.File.Size); err != nil {
		return nil, fmt.Errorf("check storage quota: %w", err)
	}

	file, err := readFile(ctx, req.File)
	if err != nil {
		return nil, err
	}

	idx, err := uc.buildIndex(ctx, file)
	if err != nil {
		return nil, err
	}

	key := entity.IndexKey{OwnerID: req.OwnerID, DocumentID: uuid.New().String()}
	size, err := uc.store.Save(ctx, key, idx)
	if err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}

	doc, err := uc.documentRepo.Create(ctx, &entity.Document{
		ID:          key.DocumentID,
		OwnerID:     req.OwnerID,
		Category:    category,
		Filename:    file.Filename,
		StoragePath: key.Prefix(),
		SizeBytes:   size,
		ChunkCount:  idx.Len(),
	})
	if err != nil {
		if delErr := uc.store.Delete(ctx, key); delErr != nil {
			ctxzap.Error(ctx, "failed to remove index after metadata error",
				zap.String("doc_id", key.DocumentID),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("save document metadata: %w", err)
	}

	ctxzap.Info(ctx, "document indexed",
		zap.String("doc_id", doc.ID),
		zap.String("category", doc.Category),
		zap.Int("chunks", doc.ChunkCount),
		zap.Int64("index_bytes", doc.SizeBytes),
	)

	return &entity.UploadResponse{
		Message: "Document processed and saved.",
		DocID:   doc.ID,
	}, nil
}

func (uc *DocumentUsecase) buildIndex(ctx context.Context, file *entity.FileData) (*index.Index, error) {
	text, err := extract.Text(file.Filename, file.Content)
	if err != nil {
		metrics.UploadRejections.WithLabelValues("extraction").Inc()
		return nil, fmt.Errorf("extract text: %w", err)
	}

	chunks, err := uc.chunker.Split(text)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}

	idx, err := index.Build(ctx, chunks, uc.embedder)
	if err != nil {
		metrics.IndexBuilds.WithLabelValues("failure").Inc()
		if errors.Is(err, entity.ErrEmptyDocument) {
			metrics.UploadRejections.WithLabelValues("extraction").Inc()
		}
		return nil, fmt.Errorf("build index: %w", err)
	}

	metrics.IndexBuilds.WithLabelValues("success").Inc()
	metrics.IndexChunks.Observe(float64(idx.Len()))
	return idx, nil
}

func (uc *DocumentUsecase) List(ctx context.Context, ownerID string) ([]*entity.DocumentResponse, error) {
	docs, err := uc.documentRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return toDocumentResponses(docs), nil
}

// Delete removes the document's metadata and its index objects.
func (uc *DocumentUsecase) Delete(ctx context.Context, ownerID, docID string) error {
	doc, err := uc.documentRepo.Get(ctx, ownerID, docID)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}

	if err := uc.documentRepo.Delete(ctx, ownerID, doc.ID); err != nil {
		return fmt.Errorf("delete document metadata: %w", err)
	}

	// The metadata row is gone, so the document is deleted for the caller.
	// Leftover index objects are unreachable and only count toward usage.
	if err := uc.store.Delete(ctx, entity.IndexKey{OwnerID: ownerID, DocumentID: doc.ID}); err != nil {
		ctxzap.Warn(ctx, "failed to delete document index",
			zap.String("doc_id", doc.ID),
			zap.Error(err),
		)
	}

	ctxzap.Info(ctx, "document deleted", zap.String("doc_id", doc.ID))
	return nil
}

func (uc *DocumentUsecase) Usage(ctx context.Context, ownerID string) (*entity.StorageUsage, error) {
	usage, err := uc.quota.Usage(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("storage usage: %w", err)
	}
	return usage, nil
}
