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

func TestReportTokenRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportTokenRepository(db)

	mock.ExpectExec("INSERT INTO report_tokens").
		WithArgs("tok-abc", string(models.ShareTargetAssessment), "as1", sqlmock.AnyArg(), "staff-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	token := &models.ReportToken{
		Token:      "tok-abc",
		TargetType: models.ShareTargetAssessment,
		TargetID:   "as1",
		IssuedBy:   "staff-1",
	}
	err := repo.Create(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, token.IssuedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportTokenRepositoryFindByToken(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportTokenRepository(db)

	issued := time.Now().UTC().Add(-24 * time.Hour)
	mock.ExpectQuery("SELECT .* FROM report_tokens WHERE token =").
		WithArgs("tok-abc").
		WillReturnRows(sqlmock.NewRows([]string{"token", "target_type", "target_id", "issued_at", "issued_by"}).
			AddRow("tok-abc", "assessment", "as1", issued, "staff-1"))

	record, err := repo.FindByToken(context.Background(), "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, models.ShareTargetAssessment, record.TargetType)
	assert.Equal(t, "as1", record.TargetID)
	assert.WithinDuration(t, issued, record.IssuedAt, time.Second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportTokenRepositoryDeleteIssuedBefore(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportTokenRepository(db)

	cutoff := time.Now().UTC().Add(-31 * 24 * time.Hour)
	mock.ExpectExec("DELETE FROM report_tokens WHERE issued_at <").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := repo.DeleteIssuedBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
