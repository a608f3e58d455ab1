package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakwon-labs/academy-insight-api/internal/models"
	"github.com/hakwon-labs/academy-insight-api/internal/service"
	"github.com/hakwon-labs/academy-insight-api/pkg/response"
)

type stubTokenStore struct {
	records map[string]models.ReportToken
}

func (s *stubTokenStore) Create(ctx context.Context, token *models.ReportToken) error {
	if s.records == nil {
		s.records = make(map[string]models.ReportToken)
	}
	s.records[token.Token] = *token
	return nil
}

func (s *stubTokenStore) FindByToken(ctx context.Context, token string) (*models.ReportToken, error) {
	if r, ok := s.records[token]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

type stubAssessmentReader struct {
	byID map[string]models.Assessment
}

func (s *stubAssessmentReader) FindByID(ctx context.Context, id string) (*models.Assessment, error) {
	if a, ok := s.byID[id]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

type stubEnrollmentReader struct{}

func (stubEnrollmentReader) FindByID(ctx context.Context, id string) (*models.EnrollmentDocument, error) {
	return nil, sql.ErrNoRows
}

func reportRouter(t *testing.T) (*gin.Engine, *service.ReportShareService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	assessment := models.Assessment{
		ID:              "assessment-1",
		SurveyID:        "survey-1",
		StudentType:     "steady improver",
		Overall:         "motivated, needs structure",
		FinalAssessment: "guided-study track",
		CreatedAt:       time.Now().UTC(),
	}
	assessments := &stubAssessmentReader{byID: map[string]models.Assessment{"assessment-1": assessment}}
	surveys := &stubSurveyRepo{surveys: map[string]models.SurveyResponse{
		"survey-1": {ID: "survey-1", StudentName: "Jihoon Park"},
	}}

	shares := service.NewReportShareService(&stubTokenStore{}, assessments, stubEnrollmentReader{}, surveys, nil, 30*24*time.Hour, nil)
	h := NewReportHandler(shares, nil, nil)

	router := gin.New()
	router.GET("/api/v1/reports/:token", h.Resolve)
	router.GET("/api/v1/reports/download", h.Download)
	return router, shares
}

func TestResolveShareEndpoint(t *testing.T) {
	router, shares := reportRouter(t)

	issued, err := shares.Issue(context.Background(), models.ShareTargetAssessment, "assessment-1", "staff-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+issued.Token, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data struct {
			Type        string `json:"type"`
			StudentName string `json:"student_name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "assessment", envelope.Data.Type)
	assert.Equal(t, "Jihoon Park", envelope.Data.StudentName)
}

func TestResolveShareEndpointUnknownToken(t *testing.T) {
	router, _ := reportRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/never-issued", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestDownloadWithoutStorage(t *testing.T) {
	router, _ := reportRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/download?token=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
