package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/hakwon-labs/academy-insight-api/internal/dto"
	"github.com/hakwon-labs/academy-insight-api/internal/models"
	appErrors "github.com/hakwon-labs/academy-insight-api/pkg/errors"
	"github.com/hakwon-labs/academy-insight-api/pkg/export"
)

// exportPageSize caps how many submissions one export pulls per batch.
const exportPageSize = 200

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportService renders staff-facing survey exports.
type ExportService struct {
	surveys surveyRepository
	csv     csvRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(surveys surveyRepository, csv csvRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{surveys: surveys, csv: csv, logger: logger}
}

// SurveysCSV renders the filtered submission list as CSV. Returns the encoded
// bytes and a suggested filename.
func (s *ExportService) SurveysCSV(ctx context.Context, query dto.ListSurveysQuery) ([]byte, string, error) {
	headers := []string{"ID", "Student", "School", "Grade", "Analyzed", "Submitted"}
	for _, key := range models.FactorOrder {
		headers = append(headers, models.FactorLabels[key])
	}

	rows := make([]map[string]string, 0)
	page := 1
	for {
		surveys, total, err := s.surveys.List(ctx, models.SurveyFilter{
			Search:   query.Search,
			Analyzed: query.Analyzed,
			Page:     page,
			PageSize: exportPageSize,
		})
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list surveys for export")
		}
		for i := range surveys {
			rows = append(rows, surveyCSVRow(&surveys[i]))
		}
		if len(surveys) < exportPageSize || page*exportPageSize >= total {
			break
		}
		page++
	}

	payload, err := s.csv.Render(export.Dataset{Headers: headers, Rows: rows})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render survey export")
	}

	filename := fmt.Sprintf("surveys_%s.csv", time.Now().UTC().Format("20060102_150405"))
	s.logger.Info("survey export rendered", zap.Int("rows", len(rows)))
	return payload, filename, nil
}

func surveyCSVRow(survey *models.SurveyResponse) map[string]string {
	row := map[string]string{
		"ID":        survey.ID,
		"Student":   survey.StudentName,
		"School":    survey.SchoolName,
		"Grade":     survey.Grade,
		"Analyzed":  strconv.FormatBool(survey.AssessmentID != nil),
		"Submitted": survey.CreatedAt.UTC().Format(time.RFC3339),
	}
	factors := survey.FactorScores()
	for _, key := range models.FactorOrder {
		value := ""
		if score := factors[key]; score != nil {
			value = strconv.FormatFloat(*score, 'f', 1, 64)
		}
		row[models.FactorLabels[key]] = value
	}
	return row
}
