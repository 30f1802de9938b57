package entity

import (
	"fmt"
	"path"
	"strings"
)

type ScopeType string

const (
	ScopeTypeDocument ScopeType = "document"
	ScopeTypeCategory ScopeType = "category"
)

// RetrievalScope selects which similarity index(es) a chat turn consults.
type RetrievalScope struct {
	Type ScopeType `json:"scope_type" validate:"required,oneof=document category"`
	ID   string    `json:"scope_id" validate:"required"`
}

func (s *RetrievalScope) Validate() error {
	switch s.Type {
	case ScopeTypeDocument, ScopeTypeCategory:
	default:
		return fmt.Errorf("%w: unknown scope type %q", ErrInvalidParameter, s.Type)
	}
	if s.ID == "" {
		return fmt.Errorf("%w: scope_id", ErrMissingField)
	}
	// Document ids become object path segments.
	if s.Type == ScopeTypeDocument && (strings.ContainsAny(s.ID, `/\`) || strings.Contains(s.ID, "..")) {
		return fmt.Errorf("%w: scope_id %q", ErrInvalidParameter, s.ID)
	}
	return nil
}

// ScoredChunk is a retrieved chunk with its distance to the query (lower is closer).
type ScoredChunk struct {
	Text     string  `json:"text"`
	Distance float64 `json:"distance"`
}

const indexRootPrefix = "vector_stores"

// IndexKey identifies the persisted index of one document.
type IndexKey struct {
	OwnerID    string
	DocumentID string
}

// Prefix is the object prefix holding every object of this document's index.
func (k IndexKey) Prefix() string {
	return path.Join(indexRootPrefix, k.OwnerID, k.DocumentID) + "/"
}

// ObjectPath is the path of the serialized index object.
func (k IndexKey) ObjectPath() string {
	return k.Prefix() + "index.json"
}

// OwnerPrefix is the prefix under which all of a user's indexes are stored.
func OwnerPrefix(ownerID string) string {
	return path.Join(indexRootPrefix, ownerID) + "/"
}

type FileData struct {
	Filename    string
	ContentType string
	Content     []byte
}

// StorageUsage describes a user's blob storage consumption in MiB.
type StorageUsage struct {
	UsageMB     float64 `json:"usage_mb"`
	LimitMB     float64 `json:"limit_mb"`
	RemainingMB float64 `json:"remaining_mb"`
}
