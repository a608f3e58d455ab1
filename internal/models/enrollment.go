package models

import "time"

// EnrollmentDocument is a piece of enrollment paperwork that can be shared
// through a report token alongside assessments.
type EnrollmentDocument struct {
	ID          string    `db:"id" json:"id"`
	StudentName string    `db:"student_name" json:"student_name"`
	Title       string    `db:"title" json:"title"`
	Body        string    `db:"body" json:"body"`
	FilePath    *string   `db:"file_path" json:"file_path,omitempty"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
