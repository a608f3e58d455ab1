package models

import "time"

// ShareTargetType discriminates what a report token resolves to.
type ShareTargetType string

const (
	ShareTargetAssessment ShareTargetType = "assessment"
	ShareTargetEnrollment ShareTargetType = "enrollment"
)

// ReportToken grants time-boxed public read access to exactly one record.
// Tokens are never extended or renewed; expired rows stay stored for audit.
type ReportToken struct {
	Token      string          `db:"token" json:"token"`
	TargetType ShareTargetType `db:"target_type" json:"target_type"`
	TargetID   string          `db:"target_id" json:"target_id"`
	IssuedAt   time.Time       `db:"issued_at" json:"issued_at"`
	IssuedBy   string          `db:"issued_by" json:"issued_by"`
}
