package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/futig/tutor-backend/internal/entity"
)

const snapshotVersion = 1

var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Embedder turns text into vectors. Implementations live in integration/embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

type entry struct {
	Chunk  string    `json:"chunk"`
	Vector []float32 `json:"vector"`
	norm   float64
}

// Index is an exact nearest-neighbour index over chunk embeddings.
// It is immutable after construction and safe for concurrent reads.
type Index struct {
	dimension int
	entries   []entry
	embedder  Embedder
}

// Build embeds every chunk and returns the resulting index.
// It fails if there are no chunks or the embedder fails.
func Build(ctx context.Context, chunks []string, embedder Embedder) (*Index, error) {
	if len(chunks) == 0 {
		return nil, entity.ErrEmptyDocument
	}

	vectors, err := embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	idx := &Index{embedder: embedder}
	for i, chunk := range chunks {
		if err := idx.add(chunk, vectors[i]); err != nil {
			return nil, err
		}
	}

	return idx, nil
}

// Merge returns an index holding the entries of all given indexes in order.
// Nil indexes are skipped; the result is nil when nothing remains.
func Merge(embedder Embedder, indexes ...*Index) (*Index, error) {
	merged := &Index{embedder: embedder}
	for _, idx := range indexes {
		if idx == nil {
			continue
		}
		for _, e := range idx.entries {
			if err := merged.add(e.Chunk, e.Vector); err != nil {
				return nil, err
			}
		}
	}

	if len(merged.entries) == 0 {
		return nil, nil
	}

	return merged, nil
}

func (i *Index) add(chunk string, vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("%w: empty vector", ErrDimensionMismatch)
	}
	if i.dimension == 0 {
		i.dimension = len(vector)
	}
	if len(vector) != i.dimension {
		return fmt.Errorf("%w: want %d, got %d", ErrDimensionMismatch, i.dimension, len(vector))
	}

	i.entries = append(i.entries, entry{Chunk: chunk, Vector: vector, norm: norm(vector)})
	return nil
}

func (i *Index) Len() int {
	return len(i.entries)
}

func (i *Index) Dimension() int {
	return i.dimension
}

// Nearest returns up to k chunks ordered by ascending cosine distance to query.
// Equal distances keep insertion order.
func (i *Index) Nearest(ctx context.Context, query string, k int) ([]entity.ScoredChunk, error) {
	if k <= 0 || len(i.entries) == 0 {
		return nil, nil
	}

	q, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(q) != i.dimension {
		return nil, fmt.Errorf("%w: index %d, query %d", ErrDimensionMismatch, i.dimension, len(q))
	}

	qNorm := norm(q)
	scored := make([]entity.ScoredChunk, len(i.entries))
	for n, e := range i.entries {
		scored[n] = entity.ScoredChunk{
			Text:     e.Chunk,
			Distance: cosineDistance(q, qNorm, e.Vector, e.norm),
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Distance < scored[b].Distance
	})

	if k < len(scored) {
		scored = scored[:k]
	}

	return scored, nil
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// cosineDistance is 1 - cosine similarity. Zero vectors are treated as orthogonal.
func cosineDistance(a []float32, normA float64, b []float32, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 1
	}

	var dot float64
	for n := range a {
		dot += float64(a[n]) * float64(b[n])
	}

	return 1 - dot/(normA*normB)
}

type snapshot struct {
	Version   int     `json:"version"`
	Dimension int     `json:"dimension"`
	Entries   []entry `json:"entries"`
}

// MarshalBinary encodes the index as a versioned JSON snapshot.
func (i *Index) MarshalBinary() ([]byte, error) {
	return json.Marshal(snapshot{
		Version:   snapshotVersion,
		Dimension: i.dimension,
		Entries:   i.entries,
	})
}

// Unmarshal restores an index saved by MarshalBinary. Queries are embedded with embedder.
func Unmarshal(data []byte, embedder Embedder) (*Index, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode index snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported index snapshot version %d", snap.Version)
	}

	idx := &Index{embedder: embedder}
	for _, e := range snap.Entries {
		if err := idx.add(e.Chunk, e.Vector); err != nil {
			return nil, err
		}
	}
	if snap.Dimension != 0 && idx.dimension != 0 && snap.Dimension != idx.dimension {
		return nil, fmt.Errorf("%w: header %d, entries %d", ErrDimensionMismatch, snap.Dimension, idx.dimension)
	}

	return idx, nil
}
