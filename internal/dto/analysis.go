package dto

import (
	"time"

	"github.com/hakwon-labs/academy-insight-api/internal/models"
)

// AnalysisResponse reports the assessment produced by a generator run.
type AnalysisResponse struct {
	AssessmentID string    `json:"assessment_id"`
	SurveyID     string    `json:"survey_id"`
	StudentType  string    `json:"student_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// AssessmentSummary is one row in a survey's analysis history.
type AssessmentSummary struct {
	ID          string    `json:"id"`
	StudentType string    `json:"student_type"`
	ReportReady bool      `json:"report_ready"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// AssessmentDetail is the full staff view of a stored assessment.
type AssessmentDetail struct {
	ID         string                   `json:"id"`
	SurveyID   string                   `json:"survey_id"`
	Content    models.AssessmentContent `json:"content"`
	ReportPath *string                  `json:"report_path,omitempty"`
	CreatedBy  string                   `json:"created_by"`
	CreatedAt  time.Time                `json:"created_at"`
}
