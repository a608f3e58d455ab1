package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/hakwon-labs/academy-insight-api/internal/dto"
	"github.com/hakwon-labs/academy-insight-api/internal/models"
	appErrors "github.com/hakwon-labs/academy-insight-api/pkg/errors"
)

const surveyDetailCacheTTL = 5 * time.Minute

func surveyDetailCacheKey(id string) string {
	return "survey:detail:" + id
}

type surveyRepository interface {
	Create(ctx context.Context, survey *models.SurveyResponse) error
	FindByID(ctx context.Context, id string) (*models.SurveyResponse, error)
	List(ctx context.Context, filter models.SurveyFilter) ([]models.SurveyResponse, int, error)
}

type submissionLimiter interface {
	Allow(key string, max int, window time.Duration) bool
}

type surveyCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// SurveyService handles the public intake flow and the staff read views.
type SurveyService struct {
	repo      surveyRepository
	limiter   submissionLimiter
	cache     surveyCache
	maxPerKey int
	window    time.Duration
	logger    *zap.Logger
}

// NewSurveyService constructs SurveyService. cache may be nil when Redis is
// not configured; detail reads then always hit the database.
func NewSurveyService(repo surveyRepository, limiter submissionLimiter, cache surveyCache, maxPerKey int, window time.Duration, logger *zap.Logger) *SurveyService {
	if maxPerKey <= 0 {
		maxPerKey = 3
	}
	if window <= 0 {
		window = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SurveyService{
		repo:      repo,
		limiter:   limiter,
		cache:     cache,
		maxPerKey: maxPerKey,
		window:    window,
		logger:    logger,
	}
}

// Submit validates and stores a public survey submission. Throttling is keyed
// by the submitted student name: the limit holds even when requests arrive
// from different addresses.
func (s *SurveyService) Submit(ctx context.Context, req dto.SubmitSurveyRequest) (*dto.SubmitSurveyResponse, error) {
	scores, err := normalizeItems(req.Items)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	if s.limiter != nil && !s.limiter.Allow(req.StudentName, s.maxPerKey, s.window) {
		s.logger.Warn("submission throttled", zap.String("student_name", req.StudentName))
		return nil, appErrors.ErrRateLimited
	}

	survey := &models.SurveyResponse{
		StudentName:    req.StudentName,
		SchoolName:     req.SchoolName,
		Grade:          req.Grade,
		Phone:          req.Phone,
		ParentPhone:    req.ParentPhone,
		ReferralSource: req.ReferralSource,
		PriorComplaint: req.PriorComplaint,
		ConcernText:    req.ConcernText,
		GoalText:       req.GoalText,
	}
	survey.SetItemScores(scores)
	survey.SetFactorScores(ComputeFactorScores(scores))

	if err := s.repo.Create(ctx, survey); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to store submission")
	}

	s.logger.Info("survey submitted", zap.String("survey_id", survey.ID))
	return &dto.SubmitSurveyResponse{SurveyID: survey.ID, CreatedAt: survey.CreatedAt}, nil
}

// List returns the staff list view with pagination metadata.
func (s *SurveyService) List(ctx context.Context, query dto.ListSurveysQuery) ([]dto.SurveySummary, *models.Pagination, error) {
	filter := models.SurveyFilter{
		Search:   query.Search,
		Analyzed: query.Analyzed,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	surveys, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list surveys")
	}

	summaries := make([]dto.SurveySummary, 0, len(surveys))
	for _, survey := range surveys {
		summaries = append(summaries, dto.SurveySummary{
			ID:           survey.ID,
			StudentName:  survey.StudentName,
			SchoolName:   survey.SchoolName,
			Grade:        survey.Grade,
			Analyzed:     survey.AssessmentID != nil,
			AssessmentID: survey.AssessmentID,
			CreatedAt:    survey.CreatedAt,
		})
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return summaries, pagination, nil
}

// Get returns one submission with answers and derived factor scores. The
// second return reports whether the detail was served from cache.
func (s *SurveyService) Get(ctx context.Context, id string) (*dto.SurveyDetail, bool, error) {
	cacheKey := surveyDetailCacheKey(id)
	if s.cache != nil {
		var cached dto.SurveyDetail
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, true, nil
		}
	}

	survey, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "survey not found")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load survey")
	}

	detail := surveyDetail(survey)
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, detail, surveyDetailCacheTTL); err != nil {
			s.logger.Warn("failed to cache survey detail", zap.String("survey_id", id), zap.Error(err))
		}
	}
	return detail, false, nil
}

func surveyDetail(survey *models.SurveyResponse) *dto.SurveyDetail {
	items := make(map[string]*int, models.SurveyItemCount)
	for idx, score := range survey.ItemScores() {
		items[strconv.Itoa(idx)] = score
	}
	factors := make(map[string]*float64, len(models.FactorOrder))
	for key, value := range survey.FactorScores() {
		factors[string(key)] = value
	}
	return &dto.SurveyDetail{
		ID:             survey.ID,
		StudentName:    survey.StudentName,
		SchoolName:     survey.SchoolName,
		Grade:          survey.Grade,
		Phone:          survey.Phone,
		ParentPhone:    survey.ParentPhone,
		ReferralSource: survey.ReferralSource,
		PriorComplaint: survey.PriorComplaint,
		ConcernText:    survey.ConcernText,
		GoalText:       survey.GoalText,
		Items:          items,
		Factors:        factors,
		AssessmentID:   survey.AssessmentID,
		CreatedAt:      survey.CreatedAt,
	}
}

// normalizeItems checks the submitted answers: exactly 30 entries, each one
// either null or an integer 1 through 5.
func normalizeItems(items []*int) (map[int]*int, error) {
	if len(items) != models.SurveyItemCount {
		return nil, fmt.Errorf("expected %d item scores, got %d", models.SurveyItemCount, len(items))
	}
	scores := make(map[int]*int, models.SurveyItemCount)
	for i, item := range items {
		if item != nil && (*item < 1 || *item > 5) {
			return nil, fmt.Errorf("item %d score %d out of range 1-5", i+1, *item)
		}
		scores[i+1] = item
	}
	return scores, nil
}
