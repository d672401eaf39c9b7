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

func weeklyPlanRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "teacher_id", "grade_id", "subject_id", "week_id", "notes", "created_at", "updated_at"})
}

func TestPlanRepositoryListWeeklyFiltered(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	rows := weeklyPlanRows().AddRow("p1", "t1", "g1", "s1", "w1", nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM weekly_plans WHERE 1=1 AND teacher_id = $1 AND week_id = $2 ORDER BY created_at DESC")).
		WithArgs("t1", "w1").
		WillReturnRows(rows)

	plans, err := repo.ListWeekly(context.Background(), models.WeeklyPlanFilter{TeacherID: "t1", WeekID: "w1"})
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "p1", plans[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanRepositoryExistsWeekly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM weekly_plans WHERE teacher_id = $1 AND subject_id = $2 AND grade_id = $3 AND week_id = $4 LIMIT 1")).
		WithArgs("t1", "s1", "g1", "w1").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsWeekly(context.Background(), "t1", "s1", "g1", "w1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanRepositoryCreateWeekly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	mock.ExpectExec("INSERT INTO weekly_plans").
		WithArgs(sqlmock.AnyArg(), "t1", "g1", "s1", "w1", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	plan := &models.WeeklyPlan{TeacherID: "t1", GradeID: "g1", SubjectID: "s1", WeekID: "w1"}
	require.NoError(t, repo.CreateWeekly(context.Background(), plan))
	assert.NotEmpty(t, plan.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanRepositoryUpdateNotes(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	notes := "review fractions"
	rows := weeklyPlanRows().AddRow("p1", "t1", "g1", "s1", "w1", notes, time.Now(), time.Now())
	mock.ExpectQuery("UPDATE weekly_plans SET notes").
		WithArgs("p1", &notes, sqlmock.AnyArg()).
		WillReturnRows(rows)

	plan, err := repo.UpdateNotes(context.Background(), "p1", &notes)
	require.NoError(t, err)
	require.NotNil(t, plan.Notes)
	assert.Equal(t, notes, *plan.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanRepositoryDeleteWeeklyCascade(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM daily_plans WHERE weekly_plan_id = $1")).
		WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM weekly_plans WHERE id = $1")).
		WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteWeeklyCascade(context.Background(), "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanRepositoryExistsDayExcludesSelf(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM daily_plans WHERE weekly_plan_id = $1 AND day_of_week = $2 AND id <> $3 LIMIT 1")).
		WithArgs("p1", 2, "d1").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsDay(context.Background(), "p1", 2, "d1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanRepositoryListDailyOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	rows := sqlmock.NewRows([]string{"id", "weekly_plan_id", "day_of_week", "topic", "books_and_pages", "homework", "homework_due_date", "assignments", "required_items", "skill", "activity", "notes", "created_at", "updated_at"}).
		AddRow("d1", "p1", 1, "Fractions", nil, nil, nil, nil, nil, nil, nil, nil, time.Now(), time.Now()).
		AddRow("d2", "p1", 3, "Decimals", nil, nil, nil, nil, nil, nil, nil, nil, time.Now(), time.Now())
	mock.ExpectQuery("SELECT .+ FROM daily_plans WHERE weekly_plan_id = .+ ORDER BY day_of_week ASC").
		WithArgs("p1").
		WillReturnRows(rows)

	plans, err := repo.ListDailyByWeekly(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, 1, plans[0].DayOfWeek)
	assert.Equal(t, 3, plans[1].DayOfWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanRepositoryComplete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, teacher_id, grade_id, subject_id, week_id, notes, created_at, updated_at FROM weekly_plans WHERE id = $1")).
		WithArgs("p1").
		WillReturnRows(weeklyPlanRows().AddRow("p1", "t1", "g1", "s1", "w1", nil, time.Now(), time.Now()))

	mock.ExpectQuery("SELECT id, username, password_hash, full_name, email, is_admin, created_at, updated_at FROM users WHERE id = .+").
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "full_name", "email", "is_admin", "created_at", "updated_at"}).
			AddRow("t1", "amal", "hash", "Amal Haddad", nil, false, time.Now(), time.Now()))

	mock.ExpectQuery("SELECT id, name, created_at, updated_at FROM grades WHERE id = .+").
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow("g1", "Grade 3", time.Now(), time.Now()))

	mock.ExpectQuery("SELECT id, name, type, created_at, updated_at FROM subjects WHERE id = .+").
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "created_at", "updated_at"}).
			AddRow("s1", "Art", "art", time.Now(), time.Now()))

	mock.ExpectQuery("SELECT id, week_number, year, start_date, end_date, is_active, created_at, updated_at FROM planning_weeks WHERE id = .+").
		WithArgs("w1").
		WillReturnRows(weekRows().AddRow("w1", 10, 2026, time.Now(), time.Now(), true, time.Now(), time.Now()))

	mock.ExpectQuery("SELECT .+ FROM daily_plans WHERE weekly_plan_id = .+ ORDER BY day_of_week ASC").
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "weekly_plan_id", "day_of_week", "topic", "books_and_pages", "homework", "homework_due_date", "assignments", "required_items", "skill", "activity", "notes", "created_at", "updated_at"}).
			AddRow("d1", "p1", 1, "Color mixing", nil, nil, nil, nil, "Watercolors", nil, nil, nil, time.Now(), time.Now()))

	complete, err := repo.Complete(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Amal Haddad", complete.Teacher.FullName)
	assert.Equal(t, models.SubjectTypeArt, complete.Subject.Type)
	assert.Equal(t, 10, complete.Week.WeekNumber)
	require.Len(t, complete.DailyPlans, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
