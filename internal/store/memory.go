package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/maternalab/gravida/internal/domain"
)

type MemoryStore struct {
	db *pgxpool.Pool
}

func NewMemoryStore(db *pgxpool.Pool) *MemoryStore {
	return &MemoryStore{db: db}
}

const memoryColumns = `id, user_id, kind, content, enriched_content, importance, metadata, embedding, created_at, last_accessed_at`

func (s *MemoryStore) Insert(ctx context.Context, m *domain.Memory) error {
	var embedding *pgvector.Vector
	if len(m.Embedding) > 0 {
		v := pgvector.NewVector(m.Embedding)
		embedding = &v
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO memories (user_id, kind, content, enriched_content, importance, metadata, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, last_accessed_at`,
		m.UserID, m.Kind, m.Content, m.EnrichedContent, m.Importance, m.Metadata, embedding,
	).Scan(&m.ID, &m.CreatedAt, &m.LastAccessedAt)
}

func (s *MemoryStore) ListRecent(ctx context.Context, userID string, limit int) ([]domain.Memory, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+memoryColumns+`
		 FROM memories WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent memories: %w", err)
	}
	defer rows.Close()

	return scanMemories(rows)
}

// ListCandidates returns every memory for the user in the retriever fallback
// order: last-accessed descending, then importance descending.
func (s *MemoryStore) ListCandidates(ctx context.Context, userID string) ([]domain.Memory, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+memoryColumns+`
		 FROM memories WHERE user_id = $1
		 ORDER BY last_accessed_at DESC, importance DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list candidate memories: %w", err)
	}
	defer rows.Close()

	return scanMemories(rows)
}

func (s *MemoryStore) ListByKind(ctx context.Context, userID string, kind domain.MemoryKind, limit int) ([]domain.Memory, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+memoryColumns+`
		 FROM memories WHERE user_id = $1 AND kind = $2
		 ORDER BY last_accessed_at DESC, importance DESC
		 LIMIT $3`,
		userID, kind, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list memories by kind: %w", err)
	}
	defer rows.Close()

	return scanMemories(rows)
}

// Touch updates last-accessed to now. An id that no longer exists is a no-op:
// callers must tolerate stale ids after external deletion.
func (s *MemoryStore) Touch(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		`UPDATE memories SET last_accessed_at = NOW() WHERE id = $1`,
		id,
	)
	return err
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanMemories(rows rowScanner) ([]domain.Memory, error) {
	memories := []domain.Memory{}
	for rows.Next() {
		var m domain.Memory
		var embedding *pgvector.Vector
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.Kind, &m.Content, &m.EnrichedContent,
			&m.Importance, &m.Metadata, &embedding, &m.CreatedAt, &m.LastAccessedAt,
		); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		if embedding != nil {
			m.Embedding = embedding.Slice()
		}
		memories = append(memories, m)
	}
	return memories, rows.Err()
}
