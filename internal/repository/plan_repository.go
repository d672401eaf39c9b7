package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduplan/lesson-planner-api/internal/models"
)

// PlanRepository persists weekly plans and their daily breakdowns.
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository constructs the repository.
func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

const weeklyPlanColumns = "id, teacher_id, grade_id, subject_id, week_id, notes, created_at, updated_at"

// ListWeekly returns weekly plans matching the filter, newest first.
func (r *PlanRepository) ListWeekly(ctx context.Context, filter models.WeeklyPlanFilter) ([]models.WeeklyPlan, error) {
	base := "FROM weekly_plans WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.GradeID != "" {
		conditions = append(conditions, fmt.Sprintf("grade_id = $%d", len(args)+1))
		args = append(args, filter.GradeID)
	}
	if filter.WeekID != "" {
		conditions = append(conditions, fmt.Sprintf("week_id = $%d", len(args)+1))
		args = append(args, filter.WeekID)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC", weeklyPlanColumns, base)
	var plans []models.WeeklyPlan
	if err := r.db.SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, fmt.Errorf("list weekly plans: %w", err)
	}
	return plans, nil
}

// FindWeeklyByID loads a weekly plan.
func (r *PlanRepository) FindWeeklyByID(ctx context.Context, id string) (*models.WeeklyPlan, error) {
	query := fmt.Sprintf("SELECT %s FROM weekly_plans WHERE id = $1", weeklyPlanColumns)
	var plan models.WeeklyPlan
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ExistsWeekly checks for a plan on the (teacher, subject, grade, week) tuple.
func (r *PlanRepository) ExistsWeekly(ctx context.Context, teacherID, subjectID, gradeID, weekID string) (bool, error) {
	const query = `SELECT 1 FROM weekly_plans WHERE teacher_id = $1 AND subject_id = $2 AND grade_id = $3 AND week_id = $4 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, teacherID, subjectID, gradeID, weekID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check weekly plan: %w", err)
	}
	return true, nil
}

// CreateWeekly inserts a new weekly plan. A unique index on the plan
// tuple backs the application-level existence check; callers detect the
// race through IsUniqueViolation.
func (r *PlanRepository) CreateWeekly(ctx context.Context, plan *models.WeeklyPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	const query = `INSERT INTO weekly_plans (id, teacher_id, grade_id, subject_id, week_id, notes, created_at, updated_at)
		VALUES (:id, :teacher_id, :grade_id, :subject_id, :week_id, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("create weekly plan: %w", err)
	}
	return nil
}

// UpdateNotes replaces the notes of a weekly plan and refreshes updated_at.
func (r *PlanRepository) UpdateNotes(ctx context.Context, id string, notes *string) (*models.WeeklyPlan, error) {
	query := fmt.Sprintf(`UPDATE weekly_plans SET notes = $2, updated_at = $3 WHERE id = $1 RETURNING %s`, weeklyPlanColumns)
	var plan models.WeeklyPlan
	if err := r.db.GetContext(ctx, &plan, query, id, notes, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &plan, nil
}

// DeleteWeeklyCascade removes a weekly plan and its daily plans in one
// transaction.
func (r *PlanRepository) DeleteWeeklyCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete plan tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM daily_plans WHERE weekly_plan_id = $1`, id); err != nil {
		return fmt.Errorf("delete daily plans: %w", err)
	}

	var result sql.Result
	if result, err = tx.ExecContext(ctx, `DELETE FROM weekly_plans WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete weekly plan: %w", err)
	}
	var affected int64
	if affected, err = result.RowsAffected(); err != nil {
		return fmt.Errorf("check deleted plan rows: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete plan tx: %w", err)
	}
	return nil
}

const dailyPlanColumns = "id, weekly_plan_id, day_of_week, topic, books_and_pages, homework, homework_due_date, assignments, required_items, skill, activity, notes, created_at, updated_at"

// ListDailyByWeekly returns the daily plans of a weekly plan ordered by day.
func (r *PlanRepository) ListDailyByWeekly(ctx context.Context, weeklyPlanID string) ([]models.DailyPlan, error) {
	query := fmt.Sprintf("SELECT %s FROM daily_plans WHERE weekly_plan_id = $1 ORDER BY day_of_week ASC", dailyPlanColumns)
	var plans []models.DailyPlan
	if err := r.db.SelectContext(ctx, &plans, query, weeklyPlanID); err != nil {
		return nil, fmt.Errorf("list daily plans: %w", err)
	}
	return plans, nil
}

// FindDailyByID loads a daily plan.
func (r *PlanRepository) FindDailyByID(ctx context.Context, id string) (*models.DailyPlan, error) {
	query := fmt.Sprintf("SELECT %s FROM daily_plans WHERE id = $1", dailyPlanColumns)
	var plan models.DailyPlan
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ExistsDay checks whether a sibling daily plan occupies the weekday.
func (r *PlanRepository) ExistsDay(ctx context.Context, weeklyPlanID string, dayOfWeek int, excludeID string) (bool, error) {
	query := "SELECT 1 FROM daily_plans WHERE weekly_plan_id = $1 AND day_of_week = $2"
	args := []interface{}{weeklyPlanID, dayOfWeek}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check daily plan day: %w", err)
	}
	return true, nil
}

// CreateDaily inserts a new daily plan. The (weekly_plan_id, day_of_week)
// unique index backs the sibling-day check.
func (r *PlanRepository) CreateDaily(ctx context.Context, plan *models.DailyPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	const query = `INSERT INTO daily_plans (id, weekly_plan_id, day_of_week, topic, books_and_pages, homework, homework_due_date, assignments, required_items, skill, activity, notes, created_at, updated_at)
		VALUES (:id, :weekly_plan_id, :day_of_week, :topic, :books_and_pages, :homework, :homework_due_date, :assignments, :required_items, :skill, :activity, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("create daily plan: %w", err)
	}
	return nil
}

// UpdateDaily modifies a daily plan.
func (r *PlanRepository) UpdateDaily(ctx context.Context, plan *models.DailyPlan) error {
	plan.UpdatedAt = time.Now().UTC()
	const query = `UPDATE daily_plans SET day_of_week = :day_of_week, topic = :topic, books_and_pages = :books_and_pages, homework = :homework, homework_due_date = :homework_due_date, assignments = :assignments, required_items = :required_items, skill = :skill, activity = :activity, notes = :notes, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("update daily plan: %w", err)
	}
	return nil
}

// DeleteDaily removes a daily plan.
func (r *PlanRepository) DeleteDaily(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM daily_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete daily plan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted daily rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Complete assembles the derived read-only view of a weekly plan joined
// with its teacher, grade, subject, planning week and ordered daily plans.
func (r *PlanRepository) Complete(ctx context.Context, id string) (*models.WeeklyPlanComplete, error) {
	plan, err := r.FindWeeklyByID(ctx, id)
	if err != nil {
		return nil, err
	}

	complete := &models.WeeklyPlanComplete{WeeklyPlan: *plan}

	var teacher models.User
	if err := r.db.GetContext(ctx, &teacher, `SELECT id, username, password_hash, full_name, email, is_admin, created_at, updated_at FROM users WHERE id = $1`, plan.TeacherID); err != nil {
		return nil, fmt.Errorf("load plan teacher: %w", err)
	}
	complete.Teacher = teacher.Info()

	if err := r.db.GetContext(ctx, &complete.Grade, `SELECT id, name, created_at, updated_at FROM grades WHERE id = $1`, plan.GradeID); err != nil {
		return nil, fmt.Errorf("load plan grade: %w", err)
	}
	if err := r.db.GetContext(ctx, &complete.Subject, `SELECT id, name, type, created_at, updated_at FROM subjects WHERE id = $1`, plan.SubjectID); err != nil {
		return nil, fmt.Errorf("load plan subject: %w", err)
	}
	if err := r.db.GetContext(ctx, &complete.Week, `SELECT id, week_number, year, start_date, end_date, is_active, created_at, updated_at FROM planning_weeks WHERE id = $1`, plan.WeekID); err != nil {
		return nil, fmt.Errorf("load plan week: %w", err)
	}

	daily, err := r.ListDailyByWeekly(ctx, id)
	if err != nil {
		return nil, err
	}
	complete.DailyPlans = daily

	return complete, nil
}
