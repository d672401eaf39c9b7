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
)

func TestAssignmentRepositoryUpsertTeacherGradeIdempotent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("INSERT INTO teacher_grades").
		WithArgs("t1", "g1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpsertTeacherGrade(context.Background(), "t1", "g1"))

	// conflict path affects zero rows and is still not an error
	mock.ExpectExec("INSERT INTO teacher_grades").
		WithArgs("t1", "g1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, repo.UpsertTeacherGrade(context.Background(), "t1", "g1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryDeleteTeacherGradeNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM teacher_grades WHERE teacher_id = $1 AND grade_id = $2")).
		WithArgs("t1", "g1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteTeacherGrade(context.Background(), "t1", "g1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryListSubjectsByTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	rows := sqlmock.NewRows([]string{"teacher_id", "grade_id", "subject_id", "grade_name", "subject_name", "subject_type", "created_at"}).
		AddRow("t1", "g1", "s1", "Grade 3", "Mathematics", "standard", time.Now()).
		AddRow("t1", "g1", "s2", "Grade 3", "Physical Education", "pe", time.Now())
	mock.ExpectQuery("SELECT ts.teacher_id, ts.grade_id, ts.subject_id").
		WithArgs("t1").
		WillReturnRows(rows)

	assignments, err := repo.ListSubjectsByTeacher(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, "Mathematics", assignments[0].SubjectName)
	assert.Equal(t, "pe", string(assignments[1].SubjectType))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryExistsTeacherSubject(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM teacher_subjects WHERE teacher_id = $1 AND grade_id = $2 AND subject_id = $3 LIMIT 1")).
		WithArgs("t1", "g1", "s1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsTeacherSubject(context.Background(), "t1", "g1", "s1")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM teacher_subjects WHERE teacher_id = $1 AND grade_id = $2 AND subject_id = $3 LIMIT 1")).
		WithArgs("t1", "g1", "s9").
		WillReturnError(sql.ErrNoRows)

	exists, err = repo.ExistsTeacherSubject(context.Background(), "t1", "g1", "s9")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
