package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakwon-labs/academy-insight-api/internal/models"
	"github.com/hakwon-labs/academy-insight-api/pkg/export"
	"github.com/hakwon-labs/academy-insight-api/pkg/jobs"
)

type mockRenderAssessmentStore struct {
	byID     map[string]models.Assessment
	attached map[string]string
}

func (m *mockRenderAssessmentStore) FindByID(ctx context.Context, id string) (*models.Assessment, error) {
	if a, ok := m.byID[id]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockRenderAssessmentStore) AttachReport(ctx context.Context, id, reportPath string) error {
	if m.attached == nil {
		m.attached = make(map[string]string)
	}
	m.attached[id] = reportPath
	return nil
}

type mockRenderer struct {
	doc export.ReportDocument
	err error
}

func (m *mockRenderer) Render(doc export.ReportDocument) ([]byte, error) {
	m.doc = doc
	if m.err != nil {
		return nil, m.err
	}
	return []byte("%PDF-1.4"), nil
}

type mockDocumentStore struct {
	saved map[string][]byte
}

func (m *mockDocumentStore) Save(filename string, data []byte) (string, error) {
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[filename] = data
	return filename, nil
}

func renderFixture(t *testing.T) (*ReportRenderService, *mockRenderAssessmentStore, *mockRenderer, *mockDocumentStore) {
	t.Helper()
	content, err := ExtractAssessment(validAssessmentJSON)
	require.NoError(t, err)
	assessment := models.Assessment{ID: "assessment-1", SurveyID: "survey-1", CreatedAt: time.Now().UTC()}
	assessment.ApplyContent(*content)

	assessments := &mockRenderAssessmentStore{byID: map[string]models.Assessment{"assessment-1": assessment}}
	surveys := &mockAnalysisSurveyStore{surveys: map[string]models.SurveyResponse{
		"survey-1": {ID: "survey-1", StudentName: "Jihoon Park"},
	}}
	renderer := &mockRenderer{}
	store := &mockDocumentStore{}
	svc := NewReportRenderService(assessments, surveys, renderer, store, nil)
	return svc, assessments, renderer, store
}

func TestRenderReport(t *testing.T) {
	svc, assessments, renderer, store := renderFixture(t)

	err := svc.Render(context.Background(), "assessment-1")
	require.NoError(t, err)

	assert.Equal(t, "Jihoon Park", renderer.doc.StudentName)
	assert.Equal(t, "steady improver", renderer.doc.StudentType)
	// Six mandatory factors scored; emotional confidence was absent.
	assert.Len(t, renderer.doc.Factors, 6)
	assert.Contains(t, store.saved, "assessment-1/report.pdf")
	assert.Equal(t, "assessment-1/report.pdf", assessments.attached["assessment-1"])
}

func TestRenderReportViaJob(t *testing.T) {
	svc, assessments, _, _ := renderFixture(t)

	err := svc.HandleJob(context.Background(), jobs.Job{ID: "assessment-1", Type: jobs.TypeRenderReport, Payload: "assessment-1"})
	require.NoError(t, err)
	assert.Contains(t, assessments.attached, "assessment-1")

	err = svc.HandleJob(context.Background(), jobs.Job{ID: "bad", Type: jobs.TypeRenderReport, Payload: 42})
	require.Error(t, err)
}

func TestRenderReportFailuresDoNotAttach(t *testing.T) {
	svc, assessments, renderer, _ := renderFixture(t)
	renderer.err = errors.New("font missing")

	err := svc.Render(context.Background(), "assessment-1")
	require.Error(t, err)
	assert.Empty(t, assessments.attached)

	err = svc.Render(context.Background(), "missing")
	require.Error(t, err)
}
