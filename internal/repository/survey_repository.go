package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hakwon-labs/academy-insight-api/internal/models"
)

const surveyColumns = `id, student_name, school_name, grade, phone, parent_phone, referral_source, prior_complaint, concern_text, goal_text,
item_1, item_2, item_3, item_4, item_5, item_6, item_7, item_8, item_9, item_10,
item_11, item_12, item_13, item_14, item_15, item_16, item_17, item_18, item_19, item_20,
item_21, item_22, item_23, item_24, item_25, item_26, item_27, item_28, item_29, item_30,
factor_attitude, factor_self_directed, factor_assignment, factor_willingness, factor_sociability, factor_management, factor_emotional_confidence,
assessment_id, created_at`

// SurveyRepository manages persistence for intake survey responses.
type SurveyRepository struct {
	db *sqlx.DB
}

// NewSurveyRepository constructs a new repository.
func NewSurveyRepository(db *sqlx.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

// Create inserts a new survey response.
func (r *SurveyRepository) Create(ctx context.Context, survey *models.SurveyResponse) error {
	if survey.ID == "" {
		survey.ID = uuid.NewString()
	}
	if survey.CreatedAt.IsZero() {
		survey.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO survey_responses (` + surveyColumns + `)
VALUES (:id, :student_name, :school_name, :grade, :phone, :parent_phone, :referral_source, :prior_complaint, :concern_text, :goal_text,
:item_1, :item_2, :item_3, :item_4, :item_5, :item_6, :item_7, :item_8, :item_9, :item_10,
:item_11, :item_12, :item_13, :item_14, :item_15, :item_16, :item_17, :item_18, :item_19, :item_20,
:item_21, :item_22, :item_23, :item_24, :item_25, :item_26, :item_27, :item_28, :item_29, :item_30,
:factor_attitude, :factor_self_directed, :factor_assignment, :factor_willingness, :factor_sociability, :factor_management, :factor_emotional_confidence,
:assessment_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, survey); err != nil {
		return fmt.Errorf("create survey response: %w", err)
	}
	return nil
}

// FindByID loads one survey response.
func (r *SurveyRepository) FindByID(ctx context.Context, id string) (*models.SurveyResponse, error) {
	query := `SELECT ` + surveyColumns + ` FROM survey_responses WHERE id = $1`
	var survey models.SurveyResponse
	if err := r.db.GetContext(ctx, &survey, query, id); err != nil {
		return nil, fmt.Errorf("find survey response: %w", err)
	}
	return &survey, nil
}

// List returns survey responses per provided filter.
func (r *SurveyRepository) List(ctx context.Context, filter models.SurveyFilter) ([]models.SurveyResponse, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(student_name ILIKE $%d OR school_name ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Analyzed != nil {
		if *filter.Analyzed {
			where = append(where, "assessment_id IS NOT NULL")
		} else {
			where = append(where, "assessment_id IS NULL")
		}
	}
	whereClause := strings.Join(where, " AND ")
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 20
	}
	offset := (page - 1) * size
	query := fmt.Sprintf(`SELECT `+surveyColumns+` FROM survey_responses WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`, whereClause, size, offset)
	var surveys []models.SurveyResponse
	if err := r.db.SelectContext(ctx, &surveys, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list survey responses: %w", err)
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM survey_responses WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count survey responses: %w", err)
	}
	return surveys, total, nil
}

// LinkAssessment attaches the latest assessment reference to a survey. This is
// the only permitted mutation after submission.
func (r *SurveyRepository) LinkAssessment(ctx context.Context, surveyID, assessmentID string) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE survey_responses SET assessment_id = $1 WHERE id = $2", assessmentID, surveyID); err != nil {
		return fmt.Errorf("link assessment: %w", err)
	}
	return nil
}
