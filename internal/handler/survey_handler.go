package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hakwon-labs/academy-insight-api/internal/dto"
	"github.com/hakwon-labs/academy-insight-api/internal/middleware"
	"github.com/hakwon-labs/academy-insight-api/internal/service"
	appErrors "github.com/hakwon-labs/academy-insight-api/pkg/errors"
	"github.com/hakwon-labs/academy-insight-api/pkg/response"
)

// SurveyHandler exposes the public intake endpoint and staff survey views.
type SurveyHandler struct {
	surveys *service.SurveyService
	exports *service.ExportService
	metrics *service.MetricsService
}

// NewSurveyHandler constructs SurveyHandler.
func NewSurveyHandler(surveys *service.SurveyService, exports *service.ExportService, metrics *service.MetricsService) *SurveyHandler {
	return &SurveyHandler{surveys: surveys, exports: exports, metrics: metrics}
}

// Submit godoc
// @Summary Submit a public intake survey
// @Tags Surveys
// @Accept json
// @Produce json
// @Param payload body dto.SubmitSurveyRequest true "Survey payload"
// @Success 201 {object} response.Envelope
// @Router /surveys [post]
func (h *SurveyHandler) Submit(c *gin.Context) {
	var req dto.SubmitSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.ObserveSubmission("rejected")
		response.Error(c, bindError(err))
		return
	}
	resp, err := h.surveys.Submit(c.Request.Context(), req)
	if err != nil {
		h.metrics.ObserveSubmission(submissionOutcome(err))
		response.Error(c, err)
		return
	}
	h.metrics.ObserveSubmission("accepted")
	response.Created(c, resp)
}

// List godoc
// @Summary List survey submissions
// @Tags Surveys
// @Produce json
// @Param search query string false "Match student or school name"
// @Param analyzed query bool false "Filter by analysis state"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /surveys [get]
func (h *SurveyHandler) List(c *gin.Context) {
	var query dto.ListSurveysQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err))
		return
	}
	rows, pagination, err := h.surveys.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}

// Get godoc
// @Summary Get one survey with derived factor scores
// @Tags Surveys
// @Produce json
// @Param id path string true "Survey ID"
// @Success 200 {object} response.Envelope
// @Router /surveys/{id} [get]
func (h *SurveyHandler) Get(c *gin.Context) {
	detail, cached, err := h.surveys.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordCacheOperation(cached)
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, detail, nil, middleware.ExtractMeta(c))
}

// ExportCSV godoc
// @Summary Download the filtered submission list as CSV
// @Tags Surveys
// @Produce text/csv
// @Success 200 {file} file
// @Router /surveys/export [get]
func (h *SurveyHandler) ExportCSV(c *gin.Context) {
	var query dto.ListSurveysQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err))
		return
	}
	payload, filename, err := h.exports.SurveysCSV(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", payload)
}

func submissionOutcome(err error) string {
	appErr := appErrors.FromError(err)
	switch appErr.Code {
	case appErrors.ErrRateLimited.Code:
		return "throttled"
	case appErrors.ErrValidation.Code:
		return "rejected"
	default:
		return "failed"
	}
}
