package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakwon-labs/academy-insight-api/internal/models"
)

func assessmentRows() *sqlmock.Rows {
	cols := []string{
		"id", "survey_id", "student_type",
		"attitude_score", "attitude_comment", "self_directed_score", "self_directed_comment",
		"assignment_score", "assignment_comment", "willingness_score", "willingness_comment",
		"sociability_score", "sociability_comment", "management_score", "management_comment",
		"emotional_score", "emotional_comment",
		"strengths", "weaknesses", "paradoxes", "interventions",
		"overall", "final_assessment", "report_path", "created_by", "created_at",
	}
	return sqlmock.NewRows(cols).AddRow(
		"as1", "sv1", "steady improver",
		4.2, "positive attitude", 3.8, "needs structure",
		3.5, "inconsistent", 4.5, "highly motivated",
		4.0, "works well with peers", 3.0, "prefers guided plans",
		nil, nil,
		[]byte(`["strong recall"]`), []byte(`["weak planning"]`), []byte(`[]`), []byte(`["weekly check-ins"]`),
		"overall narrative", "final paragraph", nil, "staff-1", time.Now(),
	)
}

func TestAssessmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssessmentRepository(db)

	mock.ExpectExec("INSERT INTO assessments").WillReturnResult(sqlmock.NewResult(1, 1))

	assessment := &models.Assessment{SurveyID: "sv1", CreatedBy: "staff-1"}
	assessment.ApplyContent(models.AssessmentContent{
		StudentType:     "steady improver",
		Attitude:        &models.FactorEvaluation{Score: 4.2, Comment: "positive attitude"},
		SelfDirected:    &models.FactorEvaluation{Score: 3.8, Comment: "needs structure"},
		Assignment:      &models.FactorEvaluation{Score: 3.5, Comment: "inconsistent"},
		Willingness:     &models.FactorEvaluation{Score: 4.5, Comment: "highly motivated"},
		Sociability:     &models.FactorEvaluation{Score: 4.0, Comment: "works well with peers"},
		Management:      &models.FactorEvaluation{Score: 3.0, Comment: "prefers guided plans"},
		Strengths:       []string{"strong recall"},
		Overall:         "overall narrative",
		FinalAssessment: "final paragraph",
	})

	err := repo.Create(context.Background(), assessment)
	require.NoError(t, err)
	assert.NotEmpty(t, assessment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssessmentRepository(db)

	mock.ExpectQuery("SELECT .* FROM assessments WHERE id =").
		WithArgs("as1").
		WillReturnRows(assessmentRows())

	assessment, err := repo.FindByID(context.Background(), "as1")
	require.NoError(t, err)
	assert.Equal(t, "steady improver", assessment.StudentType)
	assert.Equal(t, models.StringList{"strong recall"}, assessment.Strengths)
	assert.Nil(t, assessment.EmotionalScore)

	content := assessment.Content()
	assert.Nil(t, content.EmotionalConfidence)
	require.NotNil(t, content.Attitude)
	assert.Equal(t, 4.2, content.Attitude.Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepositoryAttachReport(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssessmentRepository(db)

	mock.ExpectExec("UPDATE assessments SET report_path =").
		WithArgs("assessments/as1.pdf", "as1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AttachReport(context.Background(), "as1", "assessments/as1.pdf")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepositoryListBySurvey(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssessmentRepository(db)

	mock.ExpectQuery("SELECT .* FROM assessments WHERE survey_id =").
		WithArgs("sv1").
		WillReturnRows(assessmentRows())

	assessments, err := repo.ListBySurvey(context.Background(), "sv1")
	require.NoError(t, err)
	assert.Len(t, assessments, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
