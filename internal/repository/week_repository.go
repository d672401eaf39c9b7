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

// WeekRepository handles persistence for planning weeks.
type WeekRepository struct {
	db *sqlx.DB
}

// NewWeekRepository creates a new repository instance.
func NewWeekRepository(db *sqlx.DB) *WeekRepository {
	return &WeekRepository{db: db}
}

// List returns all planning weeks, most recent first.
func (r *WeekRepository) List(ctx context.Context) ([]models.PlanningWeek, error) {
	const query = `SELECT id, week_number, year, start_date, end_date, is_active, created_at, updated_at
		FROM planning_weeks ORDER BY year DESC, week_number DESC`
	var weeks []models.PlanningWeek
	if err := r.db.SelectContext(ctx, &weeks, query); err != nil {
		return nil, fmt.Errorf("list planning weeks: %w", err)
	}
	return weeks, nil
}

// ListActive returns the active planning weeks, most recent first.
func (r *WeekRepository) ListActive(ctx context.Context) ([]models.PlanningWeek, error) {
	const query = `SELECT id, week_number, year, start_date, end_date, is_active, created_at, updated_at
		FROM planning_weeks WHERE is_active = TRUE ORDER BY year DESC, week_number DESC`
	var weeks []models.PlanningWeek
	if err := r.db.SelectContext(ctx, &weeks, query); err != nil {
		return nil, fmt.Errorf("list active planning weeks: %w", err)
	}
	return weeks, nil
}

// FindByID loads a planning week by identifier.
func (r *WeekRepository) FindByID(ctx context.Context, id string) (*models.PlanningWeek, error) {
	const query = `SELECT id, week_number, year, start_date, end_date, is_active, created_at, updated_at FROM planning_weeks WHERE id = $1`
	var week models.PlanningWeek
	if err := r.db.GetContext(ctx, &week, query, id); err != nil {
		return nil, err
	}
	return &week, nil
}

// ExistsByWeekAndYear checks uniqueness of the (week_number, year) pair.
func (r *WeekRepository) ExistsByWeekAndYear(ctx context.Context, weekNumber, year int) (bool, error) {
	const query = `SELECT 1 FROM planning_weeks WHERE week_number = $1 AND year = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, weekNumber, year); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check planning week: %w", err)
	}
	return true, nil
}

// Create inserts a new planning week.
func (r *WeekRepository) Create(ctx context.Context, week *models.PlanningWeek) error {
	if week.ID == "" {
		week.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if week.CreatedAt.IsZero() {
		week.CreatedAt = now
	}
	week.UpdatedAt = now

	const query = `INSERT INTO planning_weeks (id, week_number, year, start_date, end_date, is_active, created_at, updated_at)
		VALUES (:id, :week_number, :year, :start_date, :end_date, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, week); err != nil {
		return fmt.Errorf("create planning week: %w", err)
	}
	return nil
}

// ToggleActive flips the is_active flag and returns the stored week.
func (r *WeekRepository) ToggleActive(ctx context.Context, id string) (*models.PlanningWeek, error) {
	const query = `UPDATE planning_weeks SET is_active = NOT is_active, updated_at = $2 WHERE id = $1
		RETURNING id, week_number, year, start_date, end_date, is_active, created_at, updated_at`
	var week models.PlanningWeek
	if err := r.db.GetContext(ctx, &week, query, id, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &week, nil
}

// DeleteCascade removes a planning week and its weekly and daily plans
// inside one transaction.
func (r *WeekRepository) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete week tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM daily_plans WHERE weekly_plan_id IN (SELECT id FROM weekly_plans WHERE week_id = $1)`, id); err != nil {
		return fmt.Errorf("delete daily plans: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM weekly_plans WHERE week_id = $1`, id); err != nil {
		return fmt.Errorf("delete weekly plans: %w", err)
	}

	var result sql.Result
	if result, err = tx.ExecContext(ctx, `DELETE FROM planning_weeks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete planning week: %w", err)
	}
	var affected int64
	if affected, err = result.RowsAffected(); err != nil {
		return fmt.Errorf("check deleted week rows: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete week tx: %w", err)
	}
	return nil
}
