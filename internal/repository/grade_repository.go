package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduplan/lesson-planner-api/internal/models"
)

// GradeRepository handles persistence for grades.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository creates a new repository instance.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// List returns all grades ordered by name.
func (r *GradeRepository) List(ctx context.Context) ([]models.Grade, error) {
	const query = `SELECT id, name, created_at, updated_at FROM grades ORDER BY name ASC`
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// FindByID returns a grade by id.
func (r *GradeRepository) FindByID(ctx context.Context, id string) (*models.Grade, error) {
	const query = `SELECT id, name, created_at, updated_at FROM grades WHERE id = $1`
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, id); err != nil {
		return nil, err
	}
	return &grade, nil
}

// ExistsByName checks uniqueness of a grade name.
func (r *GradeRepository) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM grades WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check grade name: %w", err)
	}
	return true, nil
}

// Create persists a new grade.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if grade.CreatedAt.IsZero() {
		grade.CreatedAt = now
	}
	grade.UpdatedAt = now

	const query = `INSERT INTO grades (id, name, created_at, updated_at) VALUES (:id, :name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("create grade: %w", err)
	}
	return nil
}

// Update modifies a grade.
func (r *GradeRepository) Update(ctx context.Context, grade *models.Grade) error {
	grade.UpdatedAt = time.Now().UTC()
	const query = `UPDATE grades SET name = :name, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("update grade: %w", err)
	}
	return nil
}

// DeleteCascade removes a grade and all dependent rows inside one
// transaction: daily plans of weekly plans in the grade, the weekly
// plans themselves, then subject and grade assignments.
func (r *GradeRepository) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete grade tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	steps := []struct {
		label string
		query string
	}{
		{"delete daily plans", `DELETE FROM daily_plans WHERE weekly_plan_id IN (SELECT id FROM weekly_plans WHERE grade_id = $1)`},
		{"delete weekly plans", `DELETE FROM weekly_plans WHERE grade_id = $1`},
		{"delete subject assignments", `DELETE FROM teacher_subjects WHERE grade_id = $1`},
		{"delete grade assignments", `DELETE FROM teacher_grades WHERE grade_id = $1`},
	}
	for _, step := range steps {
		if _, err = tx.ExecContext(ctx, step.query, id); err != nil {
			return fmt.Errorf("%s: %w", step.label, err)
		}
	}

	var result sql.Result
	if result, err = tx.ExecContext(ctx, `DELETE FROM grades WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete grade: %w", err)
	}
	var affected int64
	if affected, err = result.RowsAffected(); err != nil {
		return fmt.Errorf("check deleted grade rows: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete grade tx: %w", err)
	}
	return nil
}
