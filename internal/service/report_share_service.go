package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hakwon-labs/academy-insight-api/internal/dto"
	"github.com/hakwon-labs/academy-insight-api/internal/models"
	appErrors "github.com/hakwon-labs/academy-insight-api/pkg/errors"
)

// shareTokenBytes sizes the random token; 32 bytes gives a 43-character
// URL-safe value.
const shareTokenBytes = 32

type reportTokenStore interface {
	Create(ctx context.Context, token *models.ReportToken) error
	FindByToken(ctx context.Context, token string) (*models.ReportToken, error)
}

type assessmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Assessment, error)
}

type enrollmentReader interface {
	FindByID(ctx context.Context, id string) (*models.EnrollmentDocument, error)
}

type surveyReader interface {
	FindByID(ctx context.Context, id string) (*models.SurveyResponse, error)
}

type downloadSigner interface {
	Generate(targetID, relPath string) (string, time.Time, error)
}

// ReportShareService issues and resolves public share tokens for assessments
// and enrollment documents. A token is an opaque random value stored server
// side; nothing about the target is recoverable from the token itself.
type ReportShareService struct {
	tokens      reportTokenStore
	assessments assessmentReader
	enrollments enrollmentReader
	surveys     surveyReader
	signer      downloadSigner
	ttl         time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

// NewReportShareService constructs ReportShareService. signer may be nil when
// no document storage is configured; resolved views then omit download links.
func NewReportShareService(tokens reportTokenStore, assessments assessmentReader, enrollments enrollmentReader, surveys surveyReader, signer downloadSigner, ttl time.Duration, logger *zap.Logger) *ReportShareService {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportShareService{
		tokens:      tokens,
		assessments: assessments,
		enrollments: enrollments,
		surveys:     surveys,
		signer:      signer,
		ttl:         ttl,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger,
	}
}

// Issue creates a share token for the given target after verifying it exists.
func (s *ReportShareService) Issue(ctx context.Context, targetType models.ShareTargetType, targetID, issuerID string) (*dto.ShareResponse, error) {
	switch targetType {
	case models.ShareTargetAssessment:
		if _, err := s.assessments.FindByID(ctx, targetID); err != nil {
			return nil, s.targetLoadError(err, "assessment")
		}
	case models.ShareTargetEnrollment:
		if _, err := s.enrollments.FindByID(ctx, targetID); err != nil {
			return nil, s.targetLoadError(err, "enrollment document")
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported share target %q", targetType))
	}

	value, err := randomToken()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate share token")
	}
	record := &models.ReportToken{
		Token:      value,
		TargetType: targetType,
		TargetID:   targetID,
		IssuedAt:   s.now(),
		IssuedBy:   issuerID,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to store share token")
	}

	s.logger.Info("share token issued",
		zap.String("target_type", string(targetType)),
		zap.String("target_id", targetID),
		zap.String("issued_by", issuerID),
	)
	return &dto.ShareResponse{
		Token:      value,
		TargetType: string(targetType),
		ExpiresAt:  record.IssuedAt.Add(s.ttl),
	}, nil
}

// Resolve returns the shared content for a token. Unknown tokens report not
// found; known tokens past the share window report expired. The two cases are
// deliberately distinct so recipients learn whether to request a fresh link.
func (s *ReportShareService) Resolve(ctx context.Context, token string) (*dto.ReportView, error) {
	record, err := s.tokens.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "share link not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load share token")
	}

	expiresAt := record.IssuedAt.Add(s.ttl)
	if s.now().After(expiresAt) {
		return nil, appErrors.ErrShareExpired
	}

	view := &dto.ReportView{
		Type:      string(record.TargetType),
		IssuedAt:  record.IssuedAt,
		ExpiresAt: expiresAt,
	}
	switch record.TargetType {
	case models.ShareTargetAssessment:
		if err := s.fillAssessment(ctx, record.TargetID, view); err != nil {
			return nil, err
		}
	case models.ShareTargetEnrollment:
		document, err := s.enrollments.FindByID(ctx, record.TargetID)
		if err != nil {
			return nil, s.targetLoadError(err, "enrollment document")
		}
		view.Enrollment = document
		view.StudentName = document.StudentName
	default:
		return nil, appErrors.Clone(appErrors.ErrInternal, "share token has unknown target type")
	}
	return view, nil
}

func (s *ReportShareService) fillAssessment(ctx context.Context, assessmentID string, view *dto.ReportView) error {
	assessment, err := s.assessments.FindByID(ctx, assessmentID)
	if err != nil {
		return s.targetLoadError(err, "assessment")
	}
	content := assessment.Content()
	view.Assessment = &content

	if survey, err := s.surveys.FindByID(ctx, assessment.SurveyID); err == nil {
		view.StudentName = survey.StudentName
	}

	if s.signer != nil && assessment.ReportPath != nil {
		signed, _, err := s.signer.Generate(assessment.ID, *assessment.ReportPath)
		if err != nil {
			s.logger.Warn("failed to sign report download", zap.String("assessment_id", assessment.ID), zap.Error(err))
		} else {
			view.DownloadURL = "/api/v1/reports/download?token=" + signed
		}
	}
	return nil
}

func (s *ReportShareService) targetLoadError(err error, noun string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, noun+" not found")
	}
	return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load "+noun)
}

func randomToken() (string, error) {
	buf := make([]byte, shareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
