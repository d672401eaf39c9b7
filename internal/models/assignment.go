package models

import "time"

// TeacherGrade assigns a teacher to a grade. The pair is unique;
// repeated inserts are idempotent.
type TeacherGrade struct {
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	GradeID   string    `db:"grade_id" json:"grade_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TeacherGradeDetail joins the assignment with the grade name.
type TeacherGradeDetail struct {
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	GradeID   string    `db:"grade_id" json:"grade_id"`
	GradeName string    `db:"grade_name" json:"grade_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TeacherSubject records a teacher's subject competency scoped to a grade.
// The triple is unique; repeated inserts return the existing row.
type TeacherSubject struct {
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	GradeID   string    `db:"grade_id" json:"grade_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TeacherSubjectDetail joins the assignment with grade and subject names.
type TeacherSubjectDetail struct {
	TeacherID   string      `db:"teacher_id" json:"teacher_id"`
	GradeID     string      `db:"grade_id" json:"grade_id"`
	SubjectID   string      `db:"subject_id" json:"subject_id"`
	GradeName   string      `db:"grade_name" json:"grade_name"`
	SubjectName string      `db:"subject_name" json:"subject_name"`
	SubjectType SubjectType `db:"subject_type" json:"subject_type"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}
