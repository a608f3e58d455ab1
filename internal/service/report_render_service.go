package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/hakwon-labs/academy-insight-api/internal/models"
	"github.com/hakwon-labs/academy-insight-api/pkg/export"
	"github.com/hakwon-labs/academy-insight-api/pkg/jobs"
)

type renderAssessmentStore interface {
	FindByID(ctx context.Context, id string) (*models.Assessment, error)
	AttachReport(ctx context.Context, id, reportPath string) error
}

type reportRenderer interface {
	Render(doc export.ReportDocument) ([]byte, error)
}

type documentStore interface {
	Save(filename string, data []byte) (string, error)
}

// ReportRenderService turns stored assessments into PDF report documents. It
// runs as the handler of the render job queue, off the request path.
type ReportRenderService struct {
	assessments renderAssessmentStore
	surveys     surveyReader
	renderer    reportRenderer
	store       documentStore
	logger      *zap.Logger
}

// NewReportRenderService constructs ReportRenderService.
func NewReportRenderService(assessments renderAssessmentStore, surveys surveyReader, renderer reportRenderer, store documentStore, logger *zap.Logger) *ReportRenderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportRenderService{
		assessments: assessments,
		surveys:     surveys,
		renderer:    renderer,
		store:       store,
		logger:      logger,
	}
}

// HandleJob satisfies the queue handler contract. The payload is the
// assessment ID to render.
func (s *ReportRenderService) HandleJob(ctx context.Context, job jobs.Job) error {
	assessmentID, ok := job.Payload.(string)
	if !ok || assessmentID == "" {
		return fmt.Errorf("render job %s carries no assessment id", job.ID)
	}
	return s.Render(ctx, assessmentID)
}

// Render builds, renders and stores the report for one assessment, then
// records the stored path on the assessment row.
func (s *ReportRenderService) Render(ctx context.Context, assessmentID string) error {
	assessment, err := s.assessments.FindByID(ctx, assessmentID)
	if err != nil {
		return fmt.Errorf("load assessment %s: %w", assessmentID, err)
	}

	studentName := ""
	if survey, err := s.surveys.FindByID(ctx, assessment.SurveyID); err == nil {
		studentName = survey.StudentName
	} else {
		s.logger.Warn("render without student name", zap.String("assessment_id", assessmentID), zap.Error(err))
	}

	data, err := s.renderer.Render(buildReportDocument(assessment, studentName))
	if err != nil {
		return fmt.Errorf("render report for assessment %s: %w", assessmentID, err)
	}

	relPath := assessmentID + "/report.pdf"
	stored, err := s.store.Save(relPath, data)
	if err != nil {
		return fmt.Errorf("store report for assessment %s: %w", assessmentID, err)
	}

	if err := s.assessments.AttachReport(ctx, assessmentID, stored); err != nil {
		return fmt.Errorf("attach report to assessment %s: %w", assessmentID, err)
	}

	s.logger.Info("report rendered", zap.String("assessment_id", assessmentID), zap.String("path", stored))
	return nil
}

func buildReportDocument(assessment *models.Assessment, studentName string) export.ReportDocument {
	content := assessment.Content()
	doc := export.ReportDocument{
		Title:       "Learning Habit Assessment",
		StudentName: studentName,
		StudentType: content.StudentType,
		GeneratedOn: assessment.CreatedAt.Format("2006-01-02"),
	}

	evaluations := content.FactorEvaluations()
	for _, key := range models.FactorOrder {
		evaluation := evaluations[key]
		if evaluation == nil {
			continue
		}
		doc.Factors = append(doc.Factors, export.ReportFactorRow{
			Label:   models.FactorLabels[key],
			Score:   strconv.FormatFloat(evaluation.Score, 'f', 1, 64),
			Comment: evaluation.Comment,
		})
	}

	if len(content.Strengths) > 0 {
		doc.Sections = append(doc.Sections, export.ReportSection{Title: "Strengths", Lines: content.Strengths})
	}
	if len(content.Weaknesses) > 0 {
		doc.Sections = append(doc.Sections, export.ReportSection{Title: "Areas to Improve", Lines: content.Weaknesses})
	}
	if len(content.Paradoxes) > 0 {
		lines := make([]string, 0, len(content.Paradoxes))
		for _, paradox := range content.Paradoxes {
			lines = append(lines, fmt.Sprintf("%s: %s (%s) vs %s (%s)",
				paradox.Title, paradox.First.Label, paradox.First.Value, paradox.Second.Label, paradox.Second.Value))
		}
		doc.Sections = append(doc.Sections, export.ReportSection{Title: "Observed Contradictions", Lines: lines})
	}
	if len(content.Interventions) > 0 {
		doc.Sections = append(doc.Sections, export.ReportSection{Title: "Recommended Interventions", Lines: content.Interventions})
	}
	if content.Overall != "" {
		doc.Sections = append(doc.Sections, export.ReportSection{Title: "Overall", Lines: []string{content.Overall}})
	}
	if content.FinalAssessment != "" {
		doc.Sections = append(doc.Sections, export.ReportSection{Title: "Final Assessment", Lines: []string{content.FinalAssessment}})
	}
	return doc
}
