package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hakwon-labs/academy-insight-api/internal/models"
)

const assessmentColumns = `id, survey_id, student_type,
attitude_score, attitude_comment, self_directed_score, self_directed_comment,
assignment_score, assignment_comment, willingness_score, willingness_comment,
sociability_score, sociability_comment, management_score, management_comment,
emotional_score, emotional_comment,
strengths, weaknesses, paradoxes, interventions,
overall, final_assessment, report_path, created_by, created_at`

// AssessmentRepository manages persistence for generated assessments.
type AssessmentRepository struct {
	db *sqlx.DB
}

// NewAssessmentRepository constructs a new repository.
func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Create inserts a new assessment. A single insert keeps assessment creation
// atomic without a surrounding transaction.
func (r *AssessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	if assessment.ID == "" {
		assessment.ID = uuid.NewString()
	}
	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO assessments (` + assessmentColumns + `)
VALUES (:id, :survey_id, :student_type,
:attitude_score, :attitude_comment, :self_directed_score, :self_directed_comment,
:assignment_score, :assignment_comment, :willingness_score, :willingness_comment,
:sociability_score, :sociability_comment, :management_score, :management_comment,
:emotional_score, :emotional_comment,
:strengths, :weaknesses, :paradoxes, :interventions,
:overall, :final_assessment, :report_path, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assessment); err != nil {
		return fmt.Errorf("create assessment: %w", err)
	}
	return nil
}

// FindByID loads one assessment.
func (r *AssessmentRepository) FindByID(ctx context.Context, id string) (*models.Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments WHERE id = $1`
	var assessment models.Assessment
	if err := r.db.GetContext(ctx, &assessment, query, id); err != nil {
		return nil, fmt.Errorf("find assessment: %w", err)
	}
	return &assessment, nil
}

// ListBySurvey returns all assessments generated for a survey, newest first.
// Re-analysis produces additional rows rather than mutating earlier ones.
func (r *AssessmentRepository) ListBySurvey(ctx context.Context, surveyID string) ([]models.Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments WHERE survey_id = $1 ORDER BY created_at DESC`
	var assessments []models.Assessment
	if err := r.db.SelectContext(ctx, &assessments, query, surveyID); err != nil {
		return nil, fmt.Errorf("list assessments by survey: %w", err)
	}
	return assessments, nil
}

// AttachReport stores the rendered report document path. This is the only
// permitted mutation after creation.
func (r *AssessmentRepository) AttachReport(ctx context.Context, id, reportPath string) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE assessments SET report_path = $1 WHERE id = $2", reportPath, id); err != nil {
		return fmt.Errorf("attach assessment report: %w", err)
	}
	return nil
}
