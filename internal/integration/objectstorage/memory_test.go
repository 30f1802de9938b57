package objectstorage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	_, err := s.Get(ctx, "vector_stores/alice/doc/index.json")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	require.NoError(t, s.Put(ctx, "vector_stores/alice/doc1/index.json", []byte("12345")))
	require.NoError(t, s.Put(ctx, "vector_stores/alice/doc2/index.json", []byte("123")))
	require.NoError(t, s.Put(ctx, "vector_stores/bob/doc3/index.json", []byte("1")))

	data, err := s.Get(ctx, "vector_stores/alice/doc1/index.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("12345"), data)

	objects, err := s.List(ctx, "vector_stores/alice/")
	require.NoError(t, err)
	assert.Equal(t, []ObjectInfo{
		{Key: "vector_stores/alice/doc1/index.json", Size: 5},
		{Key: "vector_stores/alice/doc2/index.json", Size: 3},
	}, objects)

	require.NoError(t, s.DeletePrefix(ctx, "vector_stores/alice/doc1/"))
	objects, err = s.List(ctx, "vector_stores/alice/")
	require.NoError(t, err)
	assert.Len(t, objects, 1)
}
