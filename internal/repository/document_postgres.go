package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository defines the interface for uploaded document metadata
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) (*entity.Document, error)
	Get(ctx context.Context, ownerID, id string) (*entity.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Document, error)
	ListByCategory(ctx context.Context, ownerID, category string) ([]*entity.Document, error)
	Delete(ctx context.Context, ownerID, id string) error
}

var _ DocumentRepository = &DocumentPostgres{}

type DocumentPostgres struct {
	db *pgxpool.Pool
}

func NewDocumentPostgres(db *pgxpool.Pool) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

const documentColumns = `id, owner_id, category, filename, storage_path, size_bytes, chunk_count, created_at`

func (r *DocumentPostgres) Create(ctx context.Context, doc *entity.Document) (*entity.Document, error) {
	id, err := parseUUID(doc.ID, entity.ErrInvalidParameter)
	if err != nil {
		return nil, fmt.Errorf("invalid document ID: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO documents (id, owner_id, category, filename, storage_path, size_bytes, chunk_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+documentColumns,
		id, doc.OwnerID, doc.Category, doc.Filename, doc.StoragePath, doc.SizeBytes, doc.ChunkCount,
	)

	created, err := scanDocument(row)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	return created, nil
}

func (r *DocumentPostgres) Get(ctx context.Context, ownerID, id string) (*entity.Document, error) {
	docID, err := parseUUID(id, entity.ErrDocumentNotFound)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1 AND owner_id = $2`, docID, ownerID)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

func (r *DocumentPostgres) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Document, error) {
	return r.list(ctx, `SELECT `+documentColumns+` FROM documents WHERE owner_id = $1 ORDER BY created_at, id`, ownerID)
}

// ListByCategory returns the owner's documents in category, oldest first.
func (r *DocumentPostgres) ListByCategory(ctx context.Context, ownerID, category string) ([]*entity.Document, error) {
	return r.list(ctx, `SELECT `+documentColumns+` FROM documents WHERE owner_id = $1 AND category = $2 ORDER BY created_at, id`, ownerID, category)
}

func (r *DocumentPostgres) list(ctx context.Context, query string, args ...any) ([]*entity.Document, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return docs, nil
}

func (r *DocumentPostgres) Delete(ctx context.Context, ownerID, id string) error {
	docID, err := parseUUID(id, entity.ErrDocumentNotFound)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1 AND owner_id = $2`, docID, ownerID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrDocumentNotFound
	}

	return nil
}
