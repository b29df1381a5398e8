package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/prefkeeper/internal/crdt"
	"github.com/iudanet/prefkeeper/internal/server/storage"
)

// SaveDocument creates or replaces a document
func (s *Storage) SaveDocument(ctx context.Context, doc *storage.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	vclock, err := json.Marshal(doc.VectorClock)
	if err != nil {
		return fmt.Errorf("failed to marshal vector clock: %w", err)
	}

	updatedAt := doc.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	query := `
		INSERT INTO documents (name, type, state, vector_clock, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			type = excluded.type,
			state = excluded.state,
			vector_clock = excluded.vector_clock,
			updated_at = excluded.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		doc.Name,
		string(doc.Type),
		[]byte(doc.State),
		string(vclock),
		updatedAt.UnixMilli(),
		updatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	return nil
}

// GetDocument retrieves a document by name
func (s *Storage) GetDocument(ctx context.Context, name string) (*storage.Document, error) {
	query := `
		SELECT name, type, state, vector_clock, updated_at
		FROM documents
		WHERE name = ?
	`

	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return doc, nil
}

// ListDocuments returns all documents sorted by name
func (s *Storage) ListDocuments(ctx context.Context) ([]*storage.Document, error) {
	query := `
		SELECT name, type, state, vector_clock, updated_at
		FROM documents
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = fmt.Errorf("failed to close rows: %w", cerr)
		}
	}()

	docs := []*storage.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return docs, nil
}

// scanner is implemented by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*storage.Document, error) {
	doc := &storage.Document{}
	var docType, vclock string
	var state []byte
	var updatedAt int64

	if err := row.Scan(&doc.Name, &docType, &state, &vclock, &updatedAt); err != nil {
		return nil, err
	}

	doc.Type = crdt.Type(docType)
	doc.State = json.RawMessage(state)
	doc.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	if err := json.Unmarshal([]byte(vclock), &doc.VectorClock); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vector clock: %w", err)
	}

	return doc, nil
}
