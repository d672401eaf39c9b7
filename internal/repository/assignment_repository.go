package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eduplan/lesson-planner-api/internal/models"
)

// AssignmentRepository persists teacher-grade and teacher-subject
// assignments. Both relations are unique; inserts are idempotent via
// ON CONFLICT DO NOTHING.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListGradesByTeacher returns the teacher's grade assignments with names.
func (r *AssignmentRepository) ListGradesByTeacher(ctx context.Context, teacherID string) ([]models.TeacherGradeDetail, error) {
	const query = `
SELECT tg.teacher_id, tg.grade_id, g.name AS grade_name, tg.created_at
FROM teacher_grades tg
JOIN grades g ON g.id = tg.grade_id
WHERE tg.teacher_id = $1
ORDER BY g.name ASC`
	var assignments []models.TeacherGradeDetail
	if err := r.db.SelectContext(ctx, &assignments, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher grades: %w", err)
	}
	return assignments, nil
}

// UpsertTeacherGrade inserts the assignment if absent.
func (r *AssignmentRepository) UpsertTeacherGrade(ctx context.Context, teacherID, gradeID string) error {
	const query = `INSERT INTO teacher_grades (teacher_id, grade_id, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (teacher_id, grade_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, teacherID, gradeID, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert teacher grade: %w", err)
	}
	return nil
}

// DeleteTeacherGrade removes a grade assignment.
func (r *AssignmentRepository) DeleteTeacherGrade(ctx context.Context, teacherID, gradeID string) error {
	const query = `DELETE FROM teacher_grades WHERE teacher_id = $1 AND grade_id = $2`
	result, err := r.db.ExecContext(ctx, query, teacherID, gradeID)
	if err != nil {
		return fmt.Errorf("delete teacher grade: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted assignment rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListSubjectsByTeacher returns the teacher's subject assignments with names.
func (r *AssignmentRepository) ListSubjectsByTeacher(ctx context.Context, teacherID string) ([]models.TeacherSubjectDetail, error) {
	const query = `
SELECT ts.teacher_id, ts.grade_id, ts.subject_id, g.name AS grade_name, s.name AS subject_name, s.type AS subject_type, ts.created_at
FROM teacher_subjects ts
JOIN grades g ON g.id = ts.grade_id
JOIN subjects s ON s.id = ts.subject_id
WHERE ts.teacher_id = $1
ORDER BY g.name ASC, s.name ASC`
	var assignments []models.TeacherSubjectDetail
	if err := r.db.SelectContext(ctx, &assignments, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher subjects: %w", err)
	}
	return assignments, nil
}

// ExistsTeacherSubject checks for a subject competency on the triple.
func (r *AssignmentRepository) ExistsTeacherSubject(ctx context.Context, teacherID, gradeID, subjectID string) (bool, error) {
	const query = `SELECT 1 FROM teacher_subjects WHERE teacher_id = $1 AND grade_id = $2 AND subject_id = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, teacherID, gradeID, subjectID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check teacher subject: %w", err)
	}
	return true, nil
}

// UpsertTeacherSubject inserts the assignment if absent.
func (r *AssignmentRepository) UpsertTeacherSubject(ctx context.Context, teacherID, gradeID, subjectID string) error {
	const query = `INSERT INTO teacher_subjects (teacher_id, grade_id, subject_id, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (teacher_id, grade_id, subject_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, teacherID, gradeID, subjectID, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert teacher subject: %w", err)
	}
	return nil
}

// DeleteTeacherSubject removes a subject assignment.
func (r *AssignmentRepository) DeleteTeacherSubject(ctx context.Context, teacherID, gradeID, subjectID string) error {
	const query = `DELETE FROM teacher_subjects WHERE teacher_id = $1 AND grade_id = $2 AND subject_id = $3`
	result, err := r.db.ExecContext(ctx, query, teacherID, gradeID, subjectID)
	if err != nil {
		return fmt.Errorf("delete teacher subject: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted assignment rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
