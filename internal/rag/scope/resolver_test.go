package scope

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/integration/embedding"
	"github.com/futig/tutor-backend/internal/integration/objectstorage"
	"github.com/futig/tutor-backend/internal/pkg/retry"
	"github.com/futig/tutor-backend/internal/rag/index"
	"github.com/futig/tutor-backend/internal/rag/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	mu      sync.Mutex
	indexes map[string]*index.Index
	errs    map[string]error
	loads   []string
}

func (f *fakeLoader) Load(_ context.Context, key entity.IndexKey, _ index.Embedder) (*index.Index, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loads = append(f.loads, key.ObjectPath())
	if err, ok := f.errs[key.DocumentID]; ok {
		return nil, err
	}
	idx, ok := f.indexes[key.DocumentID]
	if !ok {
		return nil, entity.ErrIndexNotFound
	}
	return idx, nil
}

type fakeLister struct {
	docs []*entity.Document
	err  error
}

func (f *fakeLister) Get(_ context.Context, ownerID, id string) (*entity.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, d := range f.docs {
		if d.OwnerID == ownerID && d.ID == id {
			return d, nil
		}
	}
	return nil, entity.ErrDocumentNotFound
}

func (f *fakeLister) ListByCategory(_ context.Context, ownerID, category string) ([]*entity.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.Document
	for _, d := range f.docs {
		if d.OwnerID == ownerID && d.Category == category {
			out = append(out, d)
		}
	}
	return out, nil
}

func build(t *testing.T, emb index.Embedder, chunks ...string) *index.Index {
	t.Helper()
	idx, err := index.Build(context.Background(), chunks, emb)
	require.NoError(t, err)
	return idx
}

func TestResolve_NoScope(t *testing.T) {
	loader := &fakeLoader{}
	r := NewResolver(loader, &fakeLister{}, embedding.NewMockEmbedder(8), 2)

	idx, err := r.Resolve(context.Background(), "alice", nil)

	require.NoError(t, err)
	assert.Nil(t, idx)
	assert.Empty(t, loader.loads)
}

func TestResolve_InvalidScope(t *testing.T) {
	r := NewResolver(&fakeLoader{}, &fakeLister{}, embedding.NewMockEmbedder(8), 2)

	_, err := r.Resolve(context.Background(), "alice", &entity.RetrievalScope{Type: "course", ID: "x"})

	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestResolve_Document(t *testing.T) {
	emb := embedding.NewMockEmbedder(8)
	loader := &fakeLoader{indexes: map[string]*index.Index{"doc-1": build(t, emb, "gravity")}}
	lister := &fakeLister{docs: []*entity.Document{{ID: "doc-1", OwnerID: "alice", Category: "physics"}}}
	r := NewResolver(loader, lister, emb, 2)

	idx, err := r.Resolve(context.Background(), "alice", &entity.RetrievalScope{Type: entity.ScopeTypeDocument, ID: "doc-1"})

	require.NoError(t, err)
	require.NotNil(t, idx)
	assert.Equal(t, []string{"vector_stores/alice/doc-1/index.json"}, loader.loads)
}

func TestResolve_MissingIndexMeansNoRetrieval(t *testing.T) {
	lister := &fakeLister{docs: []*entity.Document{{ID: "doc-1", OwnerID: "alice", Category: "physics"}}}
	r := NewResolver(&fakeLoader{}, lister, embedding.NewMockEmbedder(8), 2)

	idx, err := r.Resolve(context.Background(), "alice", &entity.RetrievalScope{Type: entity.ScopeTypeDocument, ID: "doc-1"})

	require.NoError(t, err)
	assert.Nil(t, idx)
}

func TestResolve_StorageErrorDegrades(t *testing.T) {
	loader := &fakeLoader{errs: map[string]error{"doc-1": errors.New("minio unavailable")}}
	lister := &fakeLister{docs: []*entity.Document{{ID: "doc-1", OwnerID: "alice", Category: "physics"}}}
	r := NewResolver(loader, lister, embedding.NewMockEmbedder(8), 2)

	idx, err := r.Resolve(context.Background(), "alice", &entity.RetrievalScope{Type: entity.ScopeTypeDocument, ID: "doc-1"})

	require.NoError(t, err)
	assert.Nil(t, idx)
}

func TestResolve_DocumentOfAnotherOwnerIsNotLoaded(t *testing.T) {
	ctx := context.Background()
	emb := embedding.NewMockEmbedder(8)
	st := store.New(objectstorage.NewMemoryStorage(), &retry.RetryConfig{Attempts: 1, Delay: time.Millisecond, MaxDelay: time.Millisecond})

	_, err := st.Save(ctx, entity.IndexKey{OwnerID: "bob", DocumentID: "doc-1"}, build(t, emb, "bob exam answers"))
	require.NoError(t, err)

	lister := &fakeLister{docs: []*entity.Document{{ID: "doc-1", OwnerID: "bob", Category: "physics"}}}
	r := NewResolver(st, lister, emb, 2)

	idx, err := r.Resolve(ctx, "alice", &entity.RetrievalScope{Type: entity.ScopeTypeDocument, ID: "doc-1"})
	require.NoError(t, err)
	assert.Nil(t, idx)

	idx, err = r.Resolve(ctx, "bob", &entity.RetrievalScope{Type: entity.ScopeTypeDocument, ID: "doc-1"})
	require.NoError(t, err)
	assert.NotNil(t, idx)
}

func TestResolve_DocumentIDPathTraversalRejected(t *testing.T) {
	ctx := context.Background()
	emb := embedding.NewMockEmbedder(8)
	st := store.New(objectstorage.NewMemoryStorage(), &retry.RetryConfig{Attempts: 1, Delay: time.Millisecond, MaxDelay: time.Millisecond})

	_, err := st.Save(ctx, entity.IndexKey{OwnerID: "bob", DocumentID: "doc-1"}, build(t, emb, "bob exam answers"))
	require.NoError(t, err)

	lister := &fakeLister{docs: []*entity.Document{{ID: "doc-1", OwnerID: "bob", Category: "physics"}}}
	r := NewResolver(st, lister, emb, 2)

	for _, id := range []string{"../bob/doc-1", "doc-1/..", `..\bob\doc-1`, ".."} {
		idx, err := r.Resolve(ctx, "alice", &entity.RetrievalScope{Type: entity.ScopeTypeDocument, ID: id})
		assert.ErrorIs(t, err, entity.ErrInvalidParameter, id)
		assert.Nil(t, idx, id)
	}
}

func TestResolve_CategoryNameMayContainSlash(t *testing.T) {
	r := NewResolver(&fakeLoader{}, &fakeLister{}, embedding.NewMockEmbedder(8), 2)

	idx, err := r.Resolve(context.Background(), "alice", &entity.RetrievalScope{Type: entity.ScopeTypeCategory, ID: "math/algebra"})

	require.NoError(t, err)
	assert.Nil(t, idx)
}

func TestResolve_CategoryAggregatesDocuments(t *testing.T) {
	emb := embedding.NewMockEmbedder(16)
	loader := &fakeLoader{indexes: map[string]*index.Index{
		"doc-1": build(t, emb, "newton laws", "inertia"),
		"doc-3": build(t, emb, "orbits"),
	}}
	lister := &fakeLister{docs: []*entity.Document{
		{ID: "doc-1", OwnerID: "alice", Category: "physics"},
		{ID: "doc-2", OwnerID: "alice", Category: "physics"}, // never indexed
		{ID: "doc-3", OwnerID: "alice", Category: "physics"},
		{ID: "doc-4", OwnerID: "alice", Category: "biology"},
		{ID: "doc-5", OwnerID: "bob", Category: "physics"},
	}}
	r := NewResolver(loader, lister, emb, 2)

	idx, err := r.Resolve(context.Background(), "alice", &entity.RetrievalScope{Type: entity.ScopeTypeCategory, ID: "physics"})

	require.NoError(t, err)
	require.NotNil(t, idx)
	assert.Equal(t, 3, idx.Len())
	assert.Len(t, loader.loads, 3)
}

func TestResolve_EmptyCategory(t *testing.T) {
	r := NewResolver(&fakeLoader{}, &fakeLister{}, embedding.NewMockEmbedder(8), 2)

	idx, err := r.Resolve(context.Background(), "alice", &entity.RetrievalScope{Type: entity.ScopeTypeCategory, ID: "history"})

	require.NoError(t, err)
	assert.Nil(t, idx)
}

func TestResolve_CategoryListingErrorDegrades(t *testing.T) {
	r := NewResolver(&fakeLoader{}, &fakeLister{err: errors.New("db down")}, embedding.NewMockEmbedder(8), 2)

	idx, err := r.Resolve(context.Background(), "alice", &entity.RetrievalScope{Type: entity.ScopeTypeCategory, ID: "physics"})

	require.NoError(t, err)
	assert.Nil(t, idx)
}
