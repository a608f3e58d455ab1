package models

import "time"

// SurveyResponse is one public intake submission. The record is write-once:
// after creation only the assessment link may be attached.
type SurveyResponse struct {
	ID             string `db:"id" json:"id"`
	StudentName    string `db:"student_name" json:"student_name"`
	SchoolName     string `db:"school_name" json:"school_name"`
	Grade          string `db:"grade" json:"grade"`
	Phone          string `db:"phone" json:"phone"`
	ParentPhone    string `db:"parent_phone" json:"parent_phone"`
	ReferralSource string `db:"referral_source" json:"referral_source"`
	PriorComplaint string `db:"prior_complaint" json:"prior_complaint"`
	ConcernText    string `db:"concern_text" json:"concern_text"`
	GoalText       string `db:"goal_text" json:"goal_text"`

	// Likert item scores, 1..5 each, nil when the respondent skipped the item.
	Item1  *int `db:"item_1" json:"item_1"`
	Item2  *int `db:"item_2" json:"item_2"`
	Item3  *int `db:"item_3" json:"item_3"`
	Item4  *int `db:"item_4" json:"item_4"`
	Item5  *int `db:"item_5" json:"item_5"`
	Item6  *int `db:"item_6" json:"item_6"`
	Item7  *int `db:"item_7" json:"item_7"`
	Item8  *int `db:"item_8" json:"item_8"`
	Item9  *int `db:"item_9" json:"item_9"`
	Item10 *int `db:"item_10" json:"item_10"`
	Item11 *int `db:"item_11" json:"item_11"`
	Item12 *int `db:"item_12" json:"item_12"`
	Item13 *int `db:"item_13" json:"item_13"`
	Item14 *int `db:"item_14" json:"item_14"`
	Item15 *int `db:"item_15" json:"item_15"`
	Item16 *int `db:"item_16" json:"item_16"`
	Item17 *int `db:"item_17" json:"item_17"`
	Item18 *int `db:"item_18" json:"item_18"`
	Item19 *int `db:"item_19" json:"item_19"`
	Item20 *int `db:"item_20" json:"item_20"`
	Item21 *int `db:"item_21" json:"item_21"`
	Item22 *int `db:"item_22" json:"item_22"`
	Item23 *int `db:"item_23" json:"item_23"`
	Item24 *int `db:"item_24" json:"item_24"`
	Item25 *int `db:"item_25" json:"item_25"`
	Item26 *int `db:"item_26" json:"item_26"`
	Item27 *int `db:"item_27" json:"item_27"`
	Item28 *int `db:"item_28" json:"item_28"`
	Item29 *int `db:"item_29" json:"item_29"`
	Item30 *int `db:"item_30" json:"item_30"`

	// Derived composite factors; nil when fewer than 60% of the mapped items
	// were answered, which must stay distinguishable from a true low score.
	FactorAttitudeScore     *float64 `db:"factor_attitude" json:"factor_attitude"`
	FactorSelfDirectedScore *float64 `db:"factor_self_directed" json:"factor_self_directed"`
	FactorAssignmentScore   *float64 `db:"factor_assignment" json:"factor_assignment"`
	FactorWillingnessScore  *float64 `db:"factor_willingness" json:"factor_willingness"`
	FactorSociabilityScore  *float64 `db:"factor_sociability" json:"factor_sociability"`
	FactorManagementScore   *float64 `db:"factor_management" json:"factor_management"`
	FactorEmotionalScore    *float64 `db:"factor_emotional_confidence" json:"factor_emotional_confidence"`

	AssessmentID *string   `db:"assessment_id" json:"assessment_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ItemScores returns the 1-based item index to optional score mapping.
func (s *SurveyResponse) ItemScores() map[int]*int {
	items := []*int{
		s.Item1, s.Item2, s.Item3, s.Item4, s.Item5,
		s.Item6, s.Item7, s.Item8, s.Item9, s.Item10,
		s.Item11, s.Item12, s.Item13, s.Item14, s.Item15,
		s.Item16, s.Item17, s.Item18, s.Item19, s.Item20,
		s.Item21, s.Item22, s.Item23, s.Item24, s.Item25,
		s.Item26, s.Item27, s.Item28, s.Item29, s.Item30,
	}
	scores := make(map[int]*int, SurveyItemCount)
	for i, v := range items {
		scores[i+1] = v
	}
	return scores
}

// SetItemScores assigns item columns from a 1-based index mapping.
func (s *SurveyResponse) SetItemScores(scores map[int]*int) {
	fields := []**int{
		&s.Item1, &s.Item2, &s.Item3, &s.Item4, &s.Item5,
		&s.Item6, &s.Item7, &s.Item8, &s.Item9, &s.Item10,
		&s.Item11, &s.Item12, &s.Item13, &s.Item14, &s.Item15,
		&s.Item16, &s.Item17, &s.Item18, &s.Item19, &s.Item20,
		&s.Item21, &s.Item22, &s.Item23, &s.Item24, &s.Item25,
		&s.Item26, &s.Item27, &s.Item28, &s.Item29, &s.Item30,
	}
	for i, field := range fields {
		*field = scores[i+1]
	}
}

// FactorScores returns the derived composite values keyed by factor.
func (s *SurveyResponse) FactorScores() map[FactorKey]*float64 {
	return map[FactorKey]*float64{
		FactorAttitude:            s.FactorAttitudeScore,
		FactorSelfDirected:        s.FactorSelfDirectedScore,
		FactorAssignment:          s.FactorAssignmentScore,
		FactorWillingness:         s.FactorWillingnessScore,
		FactorSociability:         s.FactorSociabilityScore,
		FactorManagement:          s.FactorManagementScore,
		FactorEmotionalConfidence: s.FactorEmotionalScore,
	}
}

// SetFactorScores assigns the derived factor columns.
func (s *SurveyResponse) SetFactorScores(scores map[FactorKey]*float64) {
	s.FactorAttitudeScore = scores[FactorAttitude]
	s.FactorSelfDirectedScore = scores[FactorSelfDirected]
	s.FactorAssignmentScore = scores[FactorAssignment]
	s.FactorWillingnessScore = scores[FactorWillingness]
	s.FactorSociabilityScore = scores[FactorSociability]
	s.FactorManagementScore = scores[FactorManagement]
	s.FactorEmotionalScore = scores[FactorEmotionalConfidence]
}

// SurveyFilter captures listing criteria for staff views.
type SurveyFilter struct {
	Search   string
	Analyzed *bool
	Page     int
	PageSize int
}
