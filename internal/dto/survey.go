package dto

import "time"

// SubmitSurveyRequest is the public intake payload. Items carries the 30
// survey answers in question order; an entry may be null when the student
// skipped a question.
type SubmitSurveyRequest struct {
	StudentName    string `json:"student_name" binding:"required,max=100"`
	SchoolName     string `json:"school_name" binding:"omitempty,max=150"`
	Grade          string `json:"grade" binding:"omitempty,max=30"`
	Phone          string `json:"phone" binding:"omitempty,max=30"`
	ParentPhone    string `json:"parent_phone" binding:"omitempty,max=30"`
	ReferralSource string `json:"referral_source" binding:"omitempty,max=100"`
	PriorComplaint string `json:"prior_complaint" binding:"omitempty,max=2000"`
	ConcernText    string `json:"concern_text" binding:"omitempty,max=2000"`
	GoalText       string `json:"goal_text" binding:"omitempty,max=2000"`
	Items          []*int `json:"items" binding:"required"`
}

// SubmitSurveyResponse acknowledges a stored submission.
type SubmitSurveyResponse struct {
	SurveyID  string    `json:"survey_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SurveySummary is the staff list view of a submission.
type SurveySummary struct {
	ID           string    `json:"id"`
	StudentName  string    `json:"student_name"`
	SchoolName   string    `json:"school_name,omitempty"`
	Grade        string    `json:"grade,omitempty"`
	Analyzed     bool      `json:"analyzed"`
	AssessmentID *string   `json:"assessment_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SurveyDetail is the staff detail view: metadata, raw answers keyed by
// question number, and the derived factor scores (null when a factor had
// too few answers to score).
type SurveyDetail struct {
	ID             string              `json:"id"`
	StudentName    string              `json:"student_name"`
	SchoolName     string              `json:"school_name,omitempty"`
	Grade          string              `json:"grade,omitempty"`
	Phone          string              `json:"phone,omitempty"`
	ParentPhone    string              `json:"parent_phone,omitempty"`
	ReferralSource string              `json:"referral_source,omitempty"`
	PriorComplaint string              `json:"prior_complaint,omitempty"`
	ConcernText    string              `json:"concern_text,omitempty"`
	GoalText       string              `json:"goal_text,omitempty"`
	Items          map[string]*int     `json:"items"`
	Factors        map[string]*float64 `json:"factors"`
	AssessmentID   *string             `json:"assessment_id,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// ListSurveysQuery captures the staff list filters.
type ListSurveysQuery struct {
	Search   string `form:"search" binding:"omitempty,max=100"`
	Analyzed *bool  `form:"analyzed"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}
