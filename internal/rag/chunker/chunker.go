package chunker

import (
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"
)

type Strategy string

const (
	// StrategyFixed cuts rune windows of Size with Overlap shared between neighbours.
	StrategyFixed Strategy = "fixed"
	// StrategyRecursive prefers paragraph, line and word boundaries.
	StrategyRecursive Strategy = "recursive"
)

type Config struct {
	Size     int
	Overlap  int
	Strategy Strategy
}

// Chunker splits document text into retrieval units.
type Chunker interface {
	Split(text string) ([]string, error)
}

func New(cfg Config) (Chunker, error) {
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", cfg.Size)
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.Size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", cfg.Size, cfg.Overlap)
	}

	switch cfg.Strategy {
	case StrategyFixed, "":
		return &fixedChunker{size: cfg.Size, overlap: cfg.Overlap}, nil
	case StrategyRecursive:
		return &recursiveChunker{
			splitter: textsplitter.NewRecursiveCharacter(
				textsplitter.WithChunkSize(cfg.Size),
				textsplitter.WithChunkOverlap(cfg.Overlap),
			),
		}, nil
	default:
		return nil, fmt.Errorf("unknown chunk strategy %q", cfg.Strategy)
	}
}

type fixedChunker struct {
	size    int
	overlap int
}

func (c *fixedChunker) Split(text string) ([]string, error) {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	step := c.size - c.overlap
	chunks := make([]string, 0, len(runes)/step+1)

	for start := 0; ; start += step {
		end := min(start+c.size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}

	return chunks, nil
}

type recursiveChunker struct {
	splitter textsplitter.RecursiveCharacter
}

func (c *recursiveChunker) Split(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}

	chunks, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("recursive split: %w", err)
	}

	return chunks, nil
}
