package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakwon-labs/academy-insight-api/internal/models"
	appErrors "github.com/hakwon-labs/academy-insight-api/pkg/errors"
	"github.com/hakwon-labs/academy-insight-api/pkg/storage"
)

type mockTokenStore struct {
	records map[string]models.ReportToken
}

func (m *mockTokenStore) Create(ctx context.Context, token *models.ReportToken) error {
	if m.records == nil {
		m.records = make(map[string]models.ReportToken)
	}
	m.records[token.Token] = *token
	return nil
}

func (m *mockTokenStore) FindByToken(ctx context.Context, token string) (*models.ReportToken, error) {
	if r, ok := m.records[token]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

type mockEnrollmentStore struct {
	documents map[string]models.EnrollmentDocument
}

func (m *mockEnrollmentStore) FindByID(ctx context.Context, id string) (*models.EnrollmentDocument, error) {
	if d, ok := m.documents[id]; ok {
		return &d, nil
	}
	return nil, sql.ErrNoRows
}

func shareFixture(t *testing.T) (*ReportShareService, *mockTokenStore, *mockAssessmentStore) {
	t.Helper()
	content, err := ExtractAssessment(validAssessmentJSON)
	require.NoError(t, err)

	reportPath := "assessment-1/report.pdf"
	assessment := models.Assessment{ID: "assessment-1", SurveyID: "survey-1", ReportPath: &reportPath, CreatedAt: time.Now().UTC()}
	assessment.ApplyContent(*content)

	tokens := &mockTokenStore{}
	assessments := &mockAssessmentStore{byID: map[string]models.Assessment{"assessment-1": assessment}}
	enrollments := &mockEnrollmentStore{documents: map[string]models.EnrollmentDocument{
		"enroll-1": {ID: "enroll-1", StudentName: "Jihoon Park", Title: "Enrollment agreement"},
	}}
	surveys := &mockAnalysisSurveyStore{surveys: map[string]models.SurveyResponse{
		"survey-1": {ID: "survey-1", StudentName: "Jihoon Park"},
	}}
	signer := storage.NewSignedURLSigner("test-secret", 30*time.Minute)

	svc := NewReportShareService(tokens, assessments, enrollments, surveys, signer, 30*24*time.Hour, nil)
	return svc, tokens, assessments
}

func TestIssueAndResolveAssessmentShare(t *testing.T) {
	svc, tokens, _ := shareFixture(t)

	issued, err := svc.Issue(context.Background(), models.ShareTargetAssessment, "assessment-1", "staff-1")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.Equal(t, "assessment", issued.TargetType)
	require.Contains(t, tokens.records, issued.Token)

	view, err := svc.Resolve(context.Background(), issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "assessment", view.Type)
	require.NotNil(t, view.Assessment)
	assert.Equal(t, "steady improver", view.Assessment.StudentType)
	assert.Nil(t, view.Enrollment)
	assert.Equal(t, "Jihoon Park", view.StudentName)
	assert.True(t, strings.HasPrefix(view.DownloadURL, "/api/v1/reports/download?token="))
}

func TestIssueAndResolveEnrollmentShare(t *testing.T) {
	svc, _, _ := shareFixture(t)

	issued, err := svc.Issue(context.Background(), models.ShareTargetEnrollment, "enroll-1", "staff-1")
	require.NoError(t, err)

	view, err := svc.Resolve(context.Background(), issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "enrollment", view.Type)
	require.NotNil(t, view.Enrollment)
	assert.Equal(t, "Enrollment agreement", view.Enrollment.Title)
	assert.Nil(t, view.Assessment)
}

func TestIssueUnknownTarget(t *testing.T) {
	svc, _, _ := shareFixture(t)

	_, err := svc.Issue(context.Background(), models.ShareTargetAssessment, "missing", "staff-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Issue(context.Background(), models.ShareTargetType("invoice"), "x", "staff-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestResolveUnknownToken(t *testing.T) {
	svc, _, _ := shareFixture(t)

	_, err := svc.Resolve(context.Background(), "never-issued")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestResolveExpiredToken(t *testing.T) {
	svc, _, _ := shareFixture(t)

	issued, err := svc.Issue(context.Background(), models.ShareTargetAssessment, "assessment-1", "staff-1")
	require.NoError(t, err)

	// Just inside the window still resolves.
	svc.now = func() time.Time { return time.Now().UTC().Add(30*24*time.Hour - time.Minute) }
	_, err = svc.Resolve(context.Background(), issued.Token)
	require.NoError(t, err)

	// Past the window reports expired, not missing.
	svc.now = func() time.Time { return time.Now().UTC().Add(30*24*time.Hour + time.Minute) }
	_, err = svc.Resolve(context.Background(), issued.Token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrShareExpired.Code, appErrors.FromError(err).Code)
}

func TestResolveTokensAreUnique(t *testing.T) {
	svc, _, _ := shareFixture(t)

	first, err := svc.Issue(context.Background(), models.ShareTargetAssessment, "assessment-1", "staff-1")
	require.NoError(t, err)
	second, err := svc.Issue(context.Background(), models.ShareTargetAssessment, "assessment-1", "staff-1")
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)
}
