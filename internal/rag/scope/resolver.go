package scope

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/pkg/metrics"
	"github.com/futig/tutor-backend/internal/rag/index"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type IndexLoader interface {
	Load(ctx context.Context, key entity.IndexKey, embedder index.Embedder) (*index.Index, error)
}

type DocumentReader interface {
	Get(ctx context.Context, ownerID, id string) (*entity.Document, error)
	ListByCategory(ctx context.Context, ownerID, category string) ([]*entity.Document, error)
}

// Resolver maps a retrieval scope to at most one loaded index.
type Resolver struct {
	loader    IndexLoader
	documents DocumentReader
	embedder  index.Embedder
	maxLoads  int
}

func NewResolver(loader IndexLoader, documents DocumentReader, embedder index.Embedder, maxLoads int) *Resolver {
	if maxLoads < 1 {
		maxLoads = 1
	}
	return &Resolver{
		loader:    loader,
		documents: documents,
		embedder:  embedder,
		maxLoads:  maxLoads,
	}
}

// Resolve returns the index for scope, or nil when chat should proceed without retrieval.
// Only an invalid scope is an error; storage problems degrade to nil and are logged.
func (r *Resolver) Resolve(ctx context.Context, ownerID string, scope *entity.RetrievalScope) (*index.Index, error) {
	if scope == nil {
		return nil, nil
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	var (
		idx *index.Index
		err error
	)
	switch scope.Type {
	case entity.ScopeTypeDocument:
		idx, err = r.loadDocument(ctx, ownerID, scope.ID)
	case entity.ScopeTypeCategory:
		idx, err = r.loadCategory(ctx, ownerID, scope.ID)
	}

	scopeLabel := string(scope.Type)
	switch {
	case errors.Is(err, entity.ErrIndexNotFound):
		metrics.Retrievals.WithLabelValues(scopeLabel, "not_found").Inc()
		ctxzap.Info(ctx, "no index for retrieval scope, continuing without context",
			zap.String("scope_type", scopeLabel),
			zap.String("scope_id", scope.ID),
		)
		return nil, nil
	case err != nil:
		metrics.Retrievals.WithLabelValues(scopeLabel, "degraded").Inc()
		ctxzap.Warn(ctx, "failed to load retrieval index, continuing without context",
			zap.String("scope_type", scopeLabel),
			zap.String("scope_id", scope.ID),
			zap.Error(err),
		)
		return nil, nil
	case idx == nil:
		metrics.Retrievals.WithLabelValues(scopeLabel, "not_found").Inc()
		return nil, nil
	}

	metrics.Retrievals.WithLabelValues(scopeLabel, "hit").Inc()
	return idx, nil
}

// loadDocument loads the index of one of the owner's documents.
// A document the owner does not have resolves to ErrIndexNotFound.
func (r *Resolver) loadDocument(ctx context.Context, ownerID, docID string) (*index.Index, error) {
	doc, err := r.documents.Get(ctx, ownerID, docID)
	if errors.Is(err, entity.ErrDocumentNotFound) {
		return nil, entity.ErrIndexNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	return r.loader.Load(ctx, entity.IndexKey{OwnerID: ownerID, DocumentID: doc.ID}, r.embedder)
}

// loadCategory merges the indexes of every owner document in category, in listing order.
// Documents whose index is missing are skipped.
func (r *Resolver) loadCategory(ctx context.Context, ownerID, category string) (*index.Index, error) {
	docs, err := r.documents.ListByCategory(ctx, ownerID, category)
	if err != nil {
		return nil, fmt.Errorf("list category documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, entity.ErrIndexNotFound
	}

	loaded := make([]*index.Index, len(docs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxLoads)

	for i, doc := range docs {
		g.Go(func() error {
			idx, err := r.loader.Load(gCtx, entity.IndexKey{OwnerID: ownerID, DocumentID: doc.ID}, r.embedder)
			if errors.Is(err, entity.ErrIndexNotFound) {
				ctxzap.Debug(ctx, "category document has no index", zap.String("document_id", doc.ID))
				return nil
			}
			if err != nil {
				return fmt.Errorf("load index of document %s: %w", doc.ID, err)
			}
			loaded[i] = idx
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged, err := index.Merge(r.embedder, loaded...)
	if err != nil {
		return nil, fmt.Errorf("merge category indexes: %w", err)
	}
	if merged == nil {
		return nil, entity.ErrIndexNotFound
	}

	ctxzap.Debug(ctx, "category index assembled",
		zap.String("category", category),
		zap.Int("document_count", len(docs)),
		zap.Int("chunk_count", merged.Len()),
	)

	return merged, nil
}
