package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hakwon-labs/academy-insight-api/internal/models"
)

// EnrollmentRepository manages persistence for shareable enrollment documents.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs a new repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts a new enrollment document.
func (r *EnrollmentRepository) Create(ctx context.Context, doc *models.EnrollmentDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO enrollment_documents (id, student_name, title, body, file_path, created_by, created_at)
VALUES (:id, :student_name, :title, :body, :file_path, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, doc); err != nil {
		return fmt.Errorf("create enrollment document: %w", err)
	}
	return nil
}

// FindByID loads one enrollment document.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.EnrollmentDocument, error) {
	query := `SELECT id, student_name, title, body, file_path, created_by, created_at
FROM enrollment_documents WHERE id = $1`
	var doc models.EnrollmentDocument
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		return nil, fmt.Errorf("find enrollment document: %w", err)
	}
	return &doc, nil
}
