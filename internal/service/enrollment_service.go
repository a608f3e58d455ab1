package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hakwon-labs/academy-insight-api/internal/models"
	appErrors "github.com/hakwon-labs/academy-insight-api/pkg/errors"
)

type enrollmentRepository interface {
	Create(ctx context.Context, doc *models.EnrollmentDocument) error
	FindByID(ctx context.Context, id string) (*models.EnrollmentDocument, error)
}

// CreateEnrollmentRequest describes a new enrollment document.
type CreateEnrollmentRequest struct {
	StudentName string `json:"student_name" validate:"required,max=100"`
	Title       string `json:"title" validate:"required,max=200"`
	Body        string `json:"body" validate:"required"`
}

// EnrollmentService manages enrollment paperwork that staff can share through
// report tokens.
type EnrollmentService struct {
	repo      enrollmentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, validator: validate, logger: logger}
}

// Create stores a new enrollment document.
func (s *EnrollmentService) Create(ctx context.Context, req CreateEnrollmentRequest, actorID string) (*models.EnrollmentDocument, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	doc := &models.EnrollmentDocument{
		StudentName: req.StudentName,
		Title:       req.Title,
		Body:        req.Body,
		CreatedBy:   actorID,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to store enrollment document")
	}
	s.logger.Info("enrollment document created", zap.String("id", doc.ID))
	return doc, nil
}

// Get loads one enrollment document.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.EnrollmentDocument, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load enrollment document")
	}
	return doc, nil
}
