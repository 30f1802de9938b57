package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/integration/objectstorage"
	"github.com/futig/tutor-backend/internal/pkg/retry"
	"github.com/futig/tutor-backend/internal/rag/index"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ObjectStorage is the blob backend holding serialized indexes.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]objectstorage.ObjectInfo, error)
	DeletePrefix(ctx context.Context, prefix string) error
}

// Store persists one similarity index per document.
type Store struct {
	objects  ObjectStorage
	retryCfg *retry.RetryConfig
}

func New(objects ObjectStorage, retryCfg *retry.RetryConfig) *Store {
	if retryCfg == nil {
		retryCfg = retry.DefaultRetryConfig()
	}
	return &Store{
		objects:  objects,
		retryCfg: retryCfg,
	}
}

// Save serializes idx under key, replacing any previous index.
func (s *Store) Save(ctx context.Context, key entity.IndexKey, idx *index.Index) (int64, error) {
	data, err := idx.MarshalBinary()
	if err != nil {
		return 0, fmt.Errorf("serialize index: %w", err)
	}

	if err := s.objects.Put(ctx, key.ObjectPath(), data); err != nil {
		return 0, fmt.Errorf("save index: %w", err)
	}

	ctxzap.Info(ctx, "index saved",
		zap.String("path", key.ObjectPath()),
		zap.Int("chunk_count", idx.Len()),
		zap.Int("size_bytes", len(data)),
	)

	return int64(len(data)), nil
}

// Load reconstructs the index saved under key.
// It returns entity.ErrIndexNotFound when nothing was saved there.
func (s *Store) Load(ctx context.Context, key entity.IndexKey, embedder index.Embedder) (*index.Index, error) {
	data, err := retry.Do(ctx, s.retryCfg, isTransient, func() ([]byte, error) {
		return s.objects.Get(ctx, key.ObjectPath())
	})
	if err != nil {
		if errors.Is(err, objectstorage.ErrObjectNotFound) {
			return nil, fmt.Errorf("%s: %w", key.ObjectPath(), entity.ErrIndexNotFound)
		}
		return nil, fmt.Errorf("load index: %w", err)
	}

	idx, err := index.Unmarshal(data, embedder)
	if err != nil {
		return nil, fmt.Errorf("restore index %s: %w", key.ObjectPath(), err)
	}

	return idx, nil
}

// Delete removes every object of the document's index.
func (s *Store) Delete(ctx context.Context, key entity.IndexKey) error {
	if err := s.objects.DeletePrefix(ctx, key.Prefix()); err != nil {
		return fmt.Errorf("delete index: %w", err)
	}

	ctxzap.Info(ctx, "index deleted", zap.String("prefix", key.Prefix()))
	return nil
}

// UsageBytes sums the sizes of all objects stored for owner.
func (s *Store) UsageBytes(ctx context.Context, ownerID string) (int64, error) {
	objects, err := retry.Do(ctx, s.retryCfg, isTransient, func() ([]objectstorage.ObjectInfo, error) {
		return s.objects.List(ctx, entity.OwnerPrefix(ownerID))
	})
	if err != nil {
		return 0, fmt.Errorf("list owner objects: %w", err)
	}

	var total int64
	for _, obj := range objects {
		total += obj.Size
	}

	return total, nil
}

func isTransient(err error) bool {
	return !errors.Is(err, objectstorage.ErrObjectNotFound) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}
