package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hakwon-labs/academy-insight-api/internal/dto"
	"github.com/hakwon-labs/academy-insight-api/internal/models"
	appErrors "github.com/hakwon-labs/academy-insight-api/pkg/errors"
	"github.com/hakwon-labs/academy-insight-api/pkg/jobs"
)

// rawExcerptLimit bounds how much generator output is echoed back to staff
// when extraction fails.
const rawExcerptLimit = 1500

type analysisSurveyStore interface {
	FindByID(ctx context.Context, id string) (*models.SurveyResponse, error)
	LinkAssessment(ctx context.Context, surveyID, assessmentID string) error
}

type assessmentStore interface {
	Create(ctx context.Context, assessment *models.Assessment) error
	FindByID(ctx context.Context, id string) (*models.Assessment, error)
	ListBySurvey(ctx context.Context, surveyID string) ([]models.Assessment, error)
}

type cacheInvalidator interface {
	Delete(ctx context.Context, key string) error
}

type textGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type renderDispatcher interface {
	Enqueue(job jobs.Job) error
}

type generationObserver interface {
	ObserveGeneration(outcome string, duration time.Duration)
}

// AnalysisService runs the survey-to-assessment pipeline: load the stored
// submission, build the prompt, call the generator once, extract the
// structured result, and persist it. Every successful run creates a new
// assessment record; reruns are intentional and never deduplicated.
type AnalysisService struct {
	surveys     analysisSurveyStore
	assessments assessmentStore
	generator   textGenerator
	renderQueue renderDispatcher
	metrics     generationObserver
	cache       cacheInvalidator
	logger      *zap.Logger
}

// NewAnalysisService constructs AnalysisService. renderQueue, metrics and
// cache may be nil; report rendering, instrumentation and cache invalidation
// are then skipped.
func NewAnalysisService(surveys analysisSurveyStore, assessments assessmentStore, generator textGenerator, renderQueue renderDispatcher, metrics generationObserver, cache cacheInvalidator, logger *zap.Logger) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		surveys:     surveys,
		assessments: assessments,
		generator:   generator,
		renderQueue: renderQueue,
		metrics:     metrics,
		cache:       cache,
		logger:      logger,
	}
}

// Analyze generates and persists an assessment for one survey. Nothing is
// written unless the full generate-extract-validate chain succeeds.
func (s *AnalysisService) Analyze(ctx context.Context, surveyID, actorID string) (*dto.AnalysisResponse, error) {
	survey, err := s.surveys.FindByID(ctx, surveyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "survey not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load survey")
	}

	prompt := BuildAnalysisPrompt(survey)

	started := time.Now()
	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.observe("upstream_error", started)
		s.logger.Error("generator call failed", zap.String("survey_id", surveyID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, appErrors.ErrUpstreamUnavailable.Message)
	}

	content, err := ExtractAssessment(raw)
	if err != nil {
		return nil, s.extractionError(surveyID, raw, started, err)
	}
	assessment := &models.Assessment{SurveyID: surveyID, CreatedBy: actorID}
	assessment.ApplyContent(*content)
	if err := s.assessments.Create(ctx, assessment); err != nil {
		s.observe("persist_error", started)
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to store assessment")
	}
	// A run only counts as a success once the assessment is on disk.
	s.observe("success", started)

	// The survey link and the report render are conveniences layered on the
	// stored assessment; their failure does not undo a committed result.
	if err := s.surveys.LinkAssessment(ctx, surveyID, assessment.ID); err != nil {
		s.logger.Warn("failed to link assessment to survey", zap.String("survey_id", surveyID), zap.String("assessment_id", assessment.ID), zap.Error(err))
	}
	if s.cache != nil {
		// The cached detail still carries the pre-analysis state.
		if err := s.cache.Delete(ctx, surveyDetailCacheKey(surveyID)); err != nil {
			s.logger.Warn("failed to invalidate cached survey detail", zap.String("survey_id", surveyID), zap.Error(err))
		}
	}
	if s.renderQueue != nil {
		job := jobs.Job{ID: assessment.ID, Type: jobs.TypeRenderReport, Payload: assessment.ID}
		if err := s.renderQueue.Enqueue(job); err != nil {
			s.logger.Warn("failed to enqueue report render", zap.String("assessment_id", assessment.ID), zap.Error(err))
		}
	}

	s.logger.Info("assessment created",
		zap.String("survey_id", surveyID),
		zap.String("assessment_id", assessment.ID),
		zap.String("student_type", assessment.StudentType),
	)
	return &dto.AnalysisResponse{
		AssessmentID: assessment.ID,
		SurveyID:     surveyID,
		StudentType:  assessment.StudentType,
		CreatedAt:    assessment.CreatedAt,
	}, nil
}

// GetAssessment loads one stored assessment for the staff detail view.
func (s *AnalysisService) GetAssessment(ctx context.Context, id string) (*dto.AssessmentDetail, error) {
	assessment, err := s.assessments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assessment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load assessment")
	}
	return &dto.AssessmentDetail{
		ID:         assessment.ID,
		SurveyID:   assessment.SurveyID,
		Content:    assessment.Content(),
		ReportPath: assessment.ReportPath,
		CreatedBy:  assessment.CreatedBy,
		CreatedAt:  assessment.CreatedAt,
	}, nil
}

// ListForSurvey returns every assessment generated for a survey, newest
// first. Reruns keep their history, so the list can hold several entries.
func (s *AnalysisService) ListForSurvey(ctx context.Context, surveyID string) ([]dto.AssessmentSummary, error) {
	if _, err := s.surveys.FindByID(ctx, surveyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "survey not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load survey")
	}

	assessments, err := s.assessments.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list assessments")
	}

	summaries := make([]dto.AssessmentSummary, 0, len(assessments))
	for _, assessment := range assessments {
		summaries = append(summaries, dto.AssessmentSummary{
			ID:          assessment.ID,
			StudentType: assessment.StudentType,
			ReportReady: assessment.ReportPath != nil,
			CreatedBy:   assessment.CreatedBy,
			CreatedAt:   assessment.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *AnalysisService) extractionError(surveyID, raw string, started time.Time, err error) error {
	excerpt := raw
	if len(excerpt) > rawExcerptLimit {
		excerpt = excerpt[:rawExcerptLimit] + "..."
	}

	var noStructure *NoStructureFoundError
	if errors.As(err, &noStructure) {
		s.observe("no_structure", started)
		s.logger.Warn("generator output had no structured data", zap.String("survey_id", surveyID), zap.String("raw", excerpt))
		return appErrors.Wrap(err, appErrors.ErrNoStructureFound.Code, appErrors.ErrNoStructureFound.Status, appErrors.ErrNoStructureFound.Message)
	}

	var malformed *MalformedStructureError
	if errors.As(err, &malformed) {
		s.observe("malformed", started)
		s.logger.Warn("generator output could not be parsed",
			zap.String("survey_id", surveyID),
			zap.String("reason", malformed.Reason),
			zap.String("raw", excerpt),
		)
		return appErrors.Wrap(err, appErrors.ErrMalformedStructure.Code, appErrors.ErrMalformedStructure.Status,
			fmt.Sprintf("%s: %s", appErrors.ErrMalformedStructure.Message, malformed.Reason))
	}

	s.observe("malformed", started)
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to extract assessment")
}

func (s *AnalysisService) observe(outcome string, started time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveGeneration(outcome, time.Since(started))
	}
}
