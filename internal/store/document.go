package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maternalab/gravida/internal/domain"
)

type DocumentStore struct {
	db *pgxpool.Pool
}

func NewDocumentStore(db *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) Add(ctx context.Context, d *domain.MedicalDocument) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO medical_documents (user_id, type, file_name, summary, metadata)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, uploaded_at`,
		d.UserID, d.Type, d.FileName, d.Summary, d.Metadata,
	).Scan(&d.ID, &d.UploadedAt)
}

func (s *DocumentStore) List(ctx context.Context, userID string) ([]domain.MedicalDocument, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, type, file_name, summary, metadata, uploaded_at
		 FROM medical_documents WHERE user_id = $1
		 ORDER BY uploaded_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list medical documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.MedicalDocument{}
	for rows.Next() {
		var d domain.MedicalDocument
		if err := rows.Scan(&d.ID, &d.UserID, &d.Type, &d.FileName, &d.Summary, &d.Metadata, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan medical document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
