// Package vectorstore persists chunks in Postgres with pgvector and serves
// filtered nearest-neighbour retrieval.
package vectorstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/studypal-app/studypal/internal/core"
	"github.com/studypal-app/studypal/internal/models"
)

// Store implements core.ChunkStore on a pgvector-enabled Postgres database.
// It shares the *sql.DB pool with the relational client.
type Store struct {
	db *sql.DB
}

var _ core.ChunkStore = (*Store)(nil)

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Add writes one document's chunks in a single transaction: every row lands
// or none do. Re-uploading a file produces the same deterministic ids, so
// conflicting rows are overwritten (last write wins).
func (s *Store) Add(ctx context.Context, texts []string, metadatas []models.ChunkMetadata, ids []string, embeddings [][]float32) error {
	if len(texts) == 0 {
		return nil
	}
	if len(metadatas) != len(texts) || len(ids) != len(texts) || len(embeddings) != len(texts) {
		return errors.New("add: texts, metadatas, ids and embeddings must have equal length")
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO document_chunks
			(id, user_id, semester, subject, title, content, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (id) DO UPDATE SET
			user_id   = EXCLUDED.user_id,
			semester  = EXCLUDED.semester,
			subject   = EXCLUDED.subject,
			title     = EXCLUDED.title,
			content   = EXCLUDED.content,
			embedding = EXCLUDED.embedding
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range texts {
		m := metadatas[i]
		vec := pgvector.NewVector(embeddings[i])
		if _, err := stmt.ExecContext(ctx, ids[i], m.UserID, m.Semester, m.Subject, m.Title, texts[i], vec); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Retrieve returns the k chunks nearest to queryVec among those whose
// metadata exactly matches scope. The owner predicate is always applied;
// semester and subject only when the scope sets them.
func (s *Store) Retrieve(ctx context.Context, queryVec []float32, scope models.QueryScope, k int) ([]models.RetrievedChunk, error) {
	if scope.UserID == "" {
		return nil, errors.New("retrieve: scope user id is required")
	}

	where, args := scopeFilter(scope)
	args = append(args, pgvector.NewVector(queryVec), k)

	q := fmt.Sprintf(`
		SELECT id, user_id, semester, subject, title, content, embedding <-> $%d AS distance
		FROM document_chunks
		WHERE %s
		ORDER BY distance
		LIMIT $%d
	`, len(args)-1, where, len(args))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RetrievedChunk
	for rows.Next() {
		var ch models.RetrievedChunk
		if err := rows.Scan(&ch.ID, &ch.Metadata.UserID, &ch.Metadata.Semester, &ch.Metadata.Subject, &ch.Metadata.Title, &ch.Content, &ch.Distance); err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

// scopeFilter builds the exact-match WHERE clause for a scope. Placeholders
// start at $1; the caller appends its own parameters after the returned args.
func scopeFilter(scope models.QueryScope) (string, []any) {
	where := "user_id = $1"
	args := []any{scope.UserID}

	if scope.Semester != nil {
		args = append(args, *scope.Semester)
		where += fmt.Sprintf(" AND semester = $%d", len(args))
	}
	if scope.Subject != "" {
		args = append(args, scope.Subject)
		where += fmt.Sprintf(" AND subject = $%d", len(args))
	}
	return where, args
}
