package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduplan/lesson-planner-api/internal/models"
)

func weekRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "week_number", "year", "start_date", "end_date", "is_active", "created_at", "updated_at"})
}

func TestWeekRepositoryListOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWeekRepository(db)

	rows := weekRows().
		AddRow("w2", 10, 2026, time.Now(), time.Now(), true, time.Now(), time.Now()).
		AddRow("w1", 9, 2026, time.Now(), time.Now(), false, time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, week_number, year, start_date, end_date, is_active, created_at, updated_at\\s+FROM planning_weeks ORDER BY year DESC, week_number DESC").
		WillReturnRows(rows)

	weeks, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, 10, weeks[0].WeekNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekRepositoryExistsByWeekAndYear(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWeekRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM planning_weeks WHERE week_number = $1 AND year = $2 LIMIT 1")).
		WithArgs(10, 2026).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByWeekAndYear(context.Background(), 10, 2026)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekRepositoryToggleActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWeekRepository(db)

	rows := weekRows().AddRow("w1", 10, 2026, time.Now(), time.Now(), false, time.Now(), time.Now())
	mock.ExpectQuery("UPDATE planning_weeks SET is_active = NOT is_active").
		WithArgs("w1", sqlmock.AnyArg()).
		WillReturnRows(rows)

	week, err := repo.ToggleActive(context.Background(), "w1")
	require.NoError(t, err)
	assert.False(t, week.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWeekRepository(db)

	mock.ExpectExec("INSERT INTO planning_weeks").
		WithArgs(sqlmock.AnyArg(), 10, 2026, sqlmock.AnyArg(), sqlmock.AnyArg(), true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	week := &models.PlanningWeek{WeekNumber: 10, Year: 2026, StartDate: time.Now(), EndDate: time.Now(), IsActive: true}
	require.NoError(t, repo.Create(context.Background(), week))
	assert.NotEmpty(t, week.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekRepositoryDeleteCascade(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWeekRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM daily_plans WHERE weekly_plan_id IN (SELECT id FROM weekly_plans WHERE week_id = $1)")).
		WithArgs("w1").WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM weekly_plans WHERE week_id = $1")).
		WithArgs("w1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM planning_weeks WHERE id = $1")).
		WithArgs("w1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteCascade(context.Background(), "w1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekRepositoryDeleteCascadeNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWeekRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM daily_plans").WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM weekly_plans").WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM planning_weeks").WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteCascade(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
