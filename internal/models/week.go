package models

import "time"

// PlanningWeek is an admin-defined date range during which teachers may
// author plans. Only active weeks accept new weekly plans.
type PlanningWeek struct {
	ID         string    `db:"id" json:"id"`
	WeekNumber int       `db:"week_number" json:"week_number"`
	Year       int       `db:"year" json:"year"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	EndDate    time.Time `db:"end_date" json:"end_date"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
