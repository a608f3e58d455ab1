package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hakwon-labs/academy-insight-api/internal/dto"
	"github.com/hakwon-labs/academy-insight-api/internal/models"
	"github.com/hakwon-labs/academy-insight-api/internal/service"
	"github.com/hakwon-labs/academy-insight-api/pkg/response"
)

// AnalysisHandler exposes the staff analysis and assessment endpoints.
type AnalysisHandler struct {
	analysis *service.AnalysisService
	shares   *service.ReportShareService
}

// NewAnalysisHandler constructs AnalysisHandler.
func NewAnalysisHandler(analysis *service.AnalysisService, shares *service.ReportShareService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis, shares: shares}
}

// Analyze godoc
// @Summary Run generator analysis for a survey
// @Tags Assessments
// @Produce json
// @Param id path string true "Survey ID"
// @Success 201 {object} response.Envelope
// @Router /surveys/{id}/analysis [post]
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	actorID := ""
	if claims := claimsFromContext(c); claims != nil {
		actorID = claims.UserID
	}
	resp, err := h.analysis.Analyze(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// History godoc
// @Summary List all assessments generated for a survey
// @Tags Assessments
// @Produce json
// @Param id path string true "Survey ID"
// @Success 200 {object} response.Envelope
// @Router /surveys/{id}/assessments [get]
func (h *AnalysisHandler) History(c *gin.Context) {
	summaries, err := h.analysis.ListForSurvey(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, nil)
}

// GetAssessment godoc
// @Summary Get one stored assessment
// @Tags Assessments
// @Produce json
// @Param id path string true "Assessment ID"
// @Success 200 {object} response.Envelope
// @Router /assessments/{id} [get]
func (h *AnalysisHandler) GetAssessment(c *gin.Context) {
	detail, err := h.analysis.GetAssessment(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Share godoc
// @Summary Issue a public share link for an assessment or enrollment document
// @Tags Assessments
// @Accept json
// @Produce json
// @Param id path string true "Target ID"
// @Param payload body dto.ShareRequest true "Share payload"
// @Success 201 {object} response.Envelope
// @Router /assessments/{id}/share [post]
func (h *AnalysisHandler) Share(c *gin.Context) {
	var req dto.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	issuerID := ""
	if claims := claimsFromContext(c); claims != nil {
		issuerID = claims.UserID
	}
	resp, err := h.shares.Issue(c.Request.Context(), models.ShareTargetType(req.TargetType), c.Param("id"), issuerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}
