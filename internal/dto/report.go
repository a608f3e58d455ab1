package dto

import (
	"time"

	"github.com/hakwon-labs/academy-insight-api/internal/models"
)

// ShareRequest selects what a share link should point at.
type ShareRequest struct {
	TargetType string `json:"target_type" binding:"required,oneof=assessment enrollment"`
}

// ShareResponse carries a freshly issued share token.
type ShareResponse struct {
	Token      string    `json:"token"`
	TargetType string    `json:"target_type"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ReportView is the public resolution of a share token. Exactly one of
// Assessment or Enrollment is set, discriminated by Type.
type ReportView struct {
	Type        string                     `json:"type"`
	Assessment  *models.AssessmentContent  `json:"assessment,omitempty"`
	Enrollment  *models.EnrollmentDocument `json:"enrollment,omitempty"`
	StudentName string                     `json:"student_name,omitempty"`
	DownloadURL string                     `json:"download_url,omitempty"`
	IssuedAt    time.Time                  `json:"issued_at"`
	ExpiresAt   time.Time                  `json:"expires_at"`
}
