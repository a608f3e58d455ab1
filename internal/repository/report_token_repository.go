package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hakwon-labs/academy-insight-api/internal/models"
)

// ReportTokenRepository manages persistence for share tokens. Expired tokens
// are kept for audit; resolution logic decides whether they still grant access.
type ReportTokenRepository struct {
	db *sqlx.DB
}

// NewReportTokenRepository constructs a new repository.
func NewReportTokenRepository(db *sqlx.DB) *ReportTokenRepository {
	return &ReportTokenRepository{db: db}
}

// Create inserts a new share token record.
func (r *ReportTokenRepository) Create(ctx context.Context, token *models.ReportToken) error {
	if token.IssuedAt.IsZero() {
		token.IssuedAt = time.Now().UTC()
	}
	query := `INSERT INTO report_tokens (token, target_type, target_id, issued_at, issued_by)
VALUES (:token, :target_type, :target_id, :issued_at, :issued_by)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create report token: %w", err)
	}
	return nil
}

// FindByToken loads a token record by its opaque value.
func (r *ReportTokenRepository) FindByToken(ctx context.Context, token string) (*models.ReportToken, error) {
	query := `SELECT token, target_type, target_id, issued_at, issued_by FROM report_tokens WHERE token = $1`
	var record models.ReportToken
	if err := r.db.GetContext(ctx, &record, query, token); err != nil {
		return nil, fmt.Errorf("find report token: %w", err)
	}
	return &record, nil
}

// DeleteIssuedBefore removes tokens issued before the cutoff. Expired tokens
// never resolve regardless, so this is purely a storage hygiene operation.
func (r *ReportTokenRepository) DeleteIssuedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM report_tokens WHERE issued_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired report tokens: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted report tokens: %w", err)
	}
	return affected, nil
}
