package repository

import (
	"context"
	"database/sql/driver"
	"strconv"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakwon-labs/academy-insight-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func surveyRows() *sqlmock.Rows {
	cols := []string{
		"id", "student_name", "school_name", "grade", "phone", "parent_phone", "referral_source", "prior_complaint", "concern_text", "goal_text",
	}
	for i := 1; i <= 30; i++ {
		cols = append(cols, "item_"+strconv.Itoa(i))
	}
	cols = append(cols,
		"factor_attitude", "factor_self_directed", "factor_assignment", "factor_willingness", "factor_sociability", "factor_management", "factor_emotional_confidence",
		"assessment_id", "created_at",
	)
	values := []driver.Value{
		"sv1", "Kim Minjun", "Daehan Middle School", "8", "010-1234-5678", "010-8765-4321", "search", "", "hard to focus", "raise math grade",
	}
	for i := 0; i < 30; i++ {
		values = append(values, int64(4))
	}
	values = append(values, 4.0, 4.0, 4.0, 4.0, 4.0, 4.0, 4.0, nil, time.Now())
	return sqlmock.NewRows(cols).AddRow(values...)
}

func TestSurveyRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSurveyRepository(db)

	mock.ExpectExec("INSERT INTO survey_responses").WillReturnResult(sqlmock.NewResult(1, 1))

	score := 4
	survey := &models.SurveyResponse{StudentName: "Kim Minjun", SchoolName: "Daehan Middle School", Grade: "8"}
	items := make(map[int]*int, models.SurveyItemCount)
	for i := 1; i <= models.SurveyItemCount; i++ {
		v := score
		items[i] = &v
	}
	survey.SetItemScores(items)

	err := repo.Create(context.Background(), survey)
	require.NoError(t, err)
	assert.NotEmpty(t, survey.ID)
	assert.False(t, survey.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSurveyRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSurveyRepository(db)

	mock.ExpectQuery("SELECT .* FROM survey_responses WHERE id =").
		WithArgs("sv1").
		WillReturnRows(surveyRows())

	survey, err := repo.FindByID(context.Background(), "sv1")
	require.NoError(t, err)
	assert.Equal(t, "sv1", survey.ID)
	require.NotNil(t, survey.Item1)
	assert.Equal(t, 4, *survey.Item1)
	require.NotNil(t, survey.FactorAttitudeScore)
	assert.Equal(t, 4.0, *survey.FactorAttitudeScore)
	assert.Nil(t, survey.AssessmentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSurveyRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSurveyRepository(db)

	mock.ExpectQuery("SELECT .* FROM survey_responses WHERE 1=1 AND assessment_id IS NULL ORDER BY created_at DESC").
		WillReturnRows(surveyRows())
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM survey_responses").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	analyzed := false
	surveys, total, err := repo.List(context.Background(), models.SurveyFilter{Analyzed: &analyzed})
	require.NoError(t, err)
	assert.Len(t, surveys, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSurveyRepositoryLinkAssessment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSurveyRepository(db)

	mock.ExpectExec("UPDATE survey_responses SET assessment_id =").
		WithArgs("as1", "sv1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.LinkAssessment(context.Background(), "sv1", "as1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
