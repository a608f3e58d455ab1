package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// FactorEvaluation pairs a numeric factor score with generator commentary.
type FactorEvaluation struct {
	Score   float64 `json:"score"`
	Comment string  `json:"comment"`
}

// LabeledValue is one side of a paradox comparison.
type LabeledValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Paradox is a titled contradiction between two observed values, e.g. high
// willingness against low assignment completion.
type Paradox struct {
	Title  string       `json:"title"`
	First  LabeledValue `json:"first"`
	Second LabeledValue `json:"second"`
}

// AssessmentContent is the validated structure recovered from generator
// output. Pointer factor fields distinguish absent from zero; only
// EmotionalConfidence may legitimately be absent.
type AssessmentContent struct {
	StudentType string `json:"student_type"`

	Attitude            *FactorEvaluation `json:"attitude"`
	SelfDirected        *FactorEvaluation `json:"self_directed"`
	Assignment          *FactorEvaluation `json:"assignment"`
	Willingness         *FactorEvaluation `json:"willingness"`
	Sociability         *FactorEvaluation `json:"sociability"`
	Management          *FactorEvaluation `json:"management"`
	EmotionalConfidence *FactorEvaluation `json:"emotional_confidence,omitempty"`

	Strengths     []string  `json:"strengths"`
	Weaknesses    []string  `json:"weaknesses"`
	Paradoxes     []Paradox `json:"paradoxes"`
	Interventions []string  `json:"interventions"`

	Overall         string `json:"overall"`
	FinalAssessment string `json:"final_assessment"`
}

// FactorEvaluations returns the factor pairs keyed by factor, nil entries included.
func (c *AssessmentContent) FactorEvaluations() map[FactorKey]*FactorEvaluation {
	return map[FactorKey]*FactorEvaluation{
		FactorAttitude:            c.Attitude,
		FactorSelfDirected:        c.SelfDirected,
		FactorAssignment:          c.Assignment,
		FactorWillingness:         c.Willingness,
		FactorSociability:         c.Sociability,
		FactorManagement:          c.Management,
		FactorEmotionalConfidence: c.EmotionalConfidence,
	}
}

// StringList stores a string slice as JSONB.
type StringList []string

// Value marshals the list for persistence.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal string list: %w", err)
	}
	return data, nil
}

// Scan unmarshals the list from its stored representation.
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("scan string list: unexpected type %T", src)
	}
	return json.Unmarshal(data, l)
}

// ParadoxList stores paradox findings as JSONB.
type ParadoxList []Paradox

// Value marshals the list for persistence.
func (l ParadoxList) Value() (driver.Value, error) {
	if l == nil {
		l = ParadoxList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal paradox list: %w", err)
	}
	return data, nil
}

// Scan unmarshals the list from its stored representation.
func (l *ParadoxList) Scan(src interface{}) error {
	if src == nil {
		*l = ParadoxList{}
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("scan paradox list: unexpected type %T", src)
	}
	return json.Unmarshal(data, l)
}

// Assessment is one persisted generator result for a survey. Records are
// created once per successful generation and never mutated afterwards, except
// to attach the rendered report document.
type Assessment struct {
	ID          string `db:"id" json:"id"`
	SurveyID    string `db:"survey_id" json:"survey_id"`
	StudentType string `db:"student_type" json:"student_type"`

	AttitudeScore       float64  `db:"attitude_score" json:"attitude_score"`
	AttitudeComment     string   `db:"attitude_comment" json:"attitude_comment"`
	SelfDirectedScore   float64  `db:"self_directed_score" json:"self_directed_score"`
	SelfDirectedComment string   `db:"self_directed_comment" json:"self_directed_comment"`
	AssignmentScore     float64  `db:"assignment_score" json:"assignment_score"`
	AssignmentComment   string   `db:"assignment_comment" json:"assignment_comment"`
	WillingnessScore    float64  `db:"willingness_score" json:"willingness_score"`
	WillingnessComment  string   `db:"willingness_comment" json:"willingness_comment"`
	SociabilityScore    float64  `db:"sociability_score" json:"sociability_score"`
	SociabilityComment  string   `db:"sociability_comment" json:"sociability_comment"`
	ManagementScore     float64  `db:"management_score" json:"management_score"`
	ManagementComment   string   `db:"management_comment" json:"management_comment"`
	EmotionalScore      *float64 `db:"emotional_score" json:"emotional_score,omitempty"`
	EmotionalComment    *string  `db:"emotional_comment" json:"emotional_comment,omitempty"`

	Strengths     StringList  `db:"strengths" json:"strengths"`
	Weaknesses    StringList  `db:"weaknesses" json:"weaknesses"`
	Paradoxes     ParadoxList `db:"paradoxes" json:"paradoxes"`
	Interventions StringList  `db:"interventions" json:"interventions"`

	Overall         string  `db:"overall" json:"overall"`
	FinalAssessment string  `db:"final_assessment" json:"final_assessment"`
	ReportPath      *string `db:"report_path" json:"report_path,omitempty"`

	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Content rebuilds the extracted content view from the persisted columns.
func (a *Assessment) Content() AssessmentContent {
	content := AssessmentContent{
		StudentType:     a.StudentType,
		Attitude:        &FactorEvaluation{Score: a.AttitudeScore, Comment: a.AttitudeComment},
		SelfDirected:    &FactorEvaluation{Score: a.SelfDirectedScore, Comment: a.SelfDirectedComment},
		Assignment:      &FactorEvaluation{Score: a.AssignmentScore, Comment: a.AssignmentComment},
		Willingness:     &FactorEvaluation{Score: a.WillingnessScore, Comment: a.WillingnessComment},
		Sociability:     &FactorEvaluation{Score: a.SociabilityScore, Comment: a.SociabilityComment},
		Management:      &FactorEvaluation{Score: a.ManagementScore, Comment: a.ManagementComment},
		Strengths:       a.Strengths,
		Weaknesses:      a.Weaknesses,
		Paradoxes:       a.Paradoxes,
		Interventions:   a.Interventions,
		Overall:         a.Overall,
		FinalAssessment: a.FinalAssessment,
	}
	if a.EmotionalScore != nil {
		comment := ""
		if a.EmotionalComment != nil {
			comment = *a.EmotionalComment
		}
		content.EmotionalConfidence = &FactorEvaluation{Score: *a.EmotionalScore, Comment: comment}
	}
	return content
}

// ApplyContent fills the persisted columns from extracted content.
func (a *Assessment) ApplyContent(content AssessmentContent) {
	a.StudentType = content.StudentType
	if content.Attitude != nil {
		a.AttitudeScore, a.AttitudeComment = content.Attitude.Score, content.Attitude.Comment
	}
	if content.SelfDirected != nil {
		a.SelfDirectedScore, a.SelfDirectedComment = content.SelfDirected.Score, content.SelfDirected.Comment
	}
	if content.Assignment != nil {
		a.AssignmentScore, a.AssignmentComment = content.Assignment.Score, content.Assignment.Comment
	}
	if content.Willingness != nil {
		a.WillingnessScore, a.WillingnessComment = content.Willingness.Score, content.Willingness.Comment
	}
	if content.Sociability != nil {
		a.SociabilityScore, a.SociabilityComment = content.Sociability.Score, content.Sociability.Comment
	}
	if content.Management != nil {
		a.ManagementScore, a.ManagementComment = content.Management.Score, content.Management.Comment
	}
	if content.EmotionalConfidence != nil {
		score := content.EmotionalConfidence.Score
		comment := content.EmotionalConfidence.Comment
		a.EmotionalScore, a.EmotionalComment = &score, &comment
	}
	a.Strengths = content.Strengths
	a.Weaknesses = content.Weaknesses
	a.Paradoxes = content.Paradoxes
	a.Interventions = content.Interventions
	a.Overall = content.Overall
	a.FinalAssessment = content.FinalAssessment
}
