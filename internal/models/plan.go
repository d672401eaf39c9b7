package models

import "time"

// WeeklyPlan is a teacher's lesson plan for one subject, in one grade,
// for one planning week. At most one plan exists per
// (teacher, subject, grade, week); the database unique index is the
// authoritative guard.
type WeeklyPlan struct {
	ID        string    `db:"id" json:"id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	GradeID   string    `db:"grade_id" json:"grade_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	WeekID    string    `db:"week_id" json:"week_id"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// WeeklyPlanFilter narrows weekly plan listings.
type WeeklyPlanFilter struct {
	TeacherID string
	GradeID   string
	WeekID    string
}

// DailyPlan is the per-weekday breakdown of a weekly plan. The struct
// carries the superset of subject-type fields; which ones are meaningful
// is decided by PlanFieldsFor on the linked subject's type.
type DailyPlan struct {
	ID              string     `db:"id" json:"id"`
	WeeklyPlanID    string     `db:"weekly_plan_id" json:"weekly_plan_id"`
	DayOfWeek       int        `db:"day_of_week" json:"day_of_week"`
	Topic           *string    `db:"topic" json:"topic,omitempty"`
	BooksAndPages   *string    `db:"books_and_pages" json:"books_and_pages,omitempty"`
	Homework        *string    `db:"homework" json:"homework,omitempty"`
	HomeworkDueDate *time.Time `db:"homework_due_date" json:"homework_due_date,omitempty"`
	Assignments     *string    `db:"assignments" json:"assignments,omitempty"`
	RequiredItems   *string    `db:"required_items" json:"required_items,omitempty"`
	Skill           *string    `db:"skill" json:"skill,omitempty"`
	Activity        *string    `db:"activity" json:"activity,omitempty"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// WeeklyPlanComplete is the derived read-only view of a weekly plan joined
// with its related records and its daily plans ordered by day of week.
// It is built on demand and never persisted.
type WeeklyPlanComplete struct {
	WeeklyPlan
	Teacher    UserInfo     `json:"teacher"`
	Grade      Grade        `json:"grade"`
	Subject    Subject      `json:"subject"`
	Week       PlanningWeek `json:"week"`
	DailyPlans []DailyPlan  `json:"daily_plans"`
}

// PlanField identifies one of the daily plan content fields.
type PlanField string

const (
	FieldTopic           PlanField = "topic"
	FieldBooksAndPages   PlanField = "books_and_pages"
	FieldHomework        PlanField = "homework"
	FieldHomeworkDueDate PlanField = "homework_due_date"
	FieldAssignments     PlanField = "assignments"
	FieldRequiredItems   PlanField = "required_items"
	FieldSkill           PlanField = "skill"
	FieldActivity        PlanField = "activity"
	FieldNotes           PlanField = "notes"
)

// PlanFieldsFor is the single dispatch point mapping a subject type to
// the daily plan fields that apply to it. The planning workflow uses it
// to clear non-applicable fields and the exporters use it to pick columns.
func PlanFieldsFor(t SubjectType) []PlanField {
	switch t {
	case SubjectTypeArt:
		return []PlanField{FieldTopic, FieldRequiredItems, FieldNotes}
	case SubjectTypePE:
		return []PlanField{FieldSkill, FieldActivity, FieldNotes}
	default:
		return []PlanField{FieldTopic, FieldBooksAndPages, FieldHomework, FieldHomeworkDueDate, FieldAssignments, FieldNotes}
	}
}

// FieldLabel returns the human heading used by the export adapters.
func FieldLabel(f PlanField) string {
	switch f {
	case FieldTopic:
		return "Topic"
	case FieldBooksAndPages:
		return "Books & Pages"
	case FieldHomework:
		return "Homework"
	case FieldHomeworkDueDate:
		return "Homework Due"
	case FieldAssignments:
		return "Assignments"
	case FieldRequiredItems:
		return "Required Items"
	case FieldSkill:
		return "Skill"
	case FieldActivity:
		return "Activity"
	case FieldNotes:
		return "Notes"
	}
	return string(f)
}

// FieldValue extracts the string value for the given field.
func (d *DailyPlan) FieldValue(f PlanField) string {
	str := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	switch f {
	case FieldTopic:
		return str(d.Topic)
	case FieldBooksAndPages:
		return str(d.BooksAndPages)
	case FieldHomework:
		return str(d.Homework)
	case FieldHomeworkDueDate:
		if d.HomeworkDueDate == nil {
			return ""
		}
		return d.HomeworkDueDate.Format("2006-01-02")
	case FieldAssignments:
		return str(d.Assignments)
	case FieldRequiredItems:
		return str(d.RequiredItems)
	case FieldSkill:
		return str(d.Skill)
	case FieldActivity:
		return str(d.Activity)
	case FieldNotes:
		return str(d.Notes)
	}
	return ""
}

// Restrict clears fields that do not apply to the subject type so stray
// payload values never reach storage.
func (d *DailyPlan) Restrict(t SubjectType) {
	applicable := make(map[PlanField]struct{})
	for _, f := range PlanFieldsFor(t) {
		applicable[f] = struct{}{}
	}
	if _, ok := applicable[FieldTopic]; !ok {
		d.Topic = nil
	}
	if _, ok := applicable[FieldBooksAndPages]; !ok {
		d.BooksAndPages = nil
	}
	if _, ok := applicable[FieldHomework]; !ok {
		d.Homework = nil
	}
	if _, ok := applicable[FieldHomeworkDueDate]; !ok {
		d.HomeworkDueDate = nil
	}
	if _, ok := applicable[FieldAssignments]; !ok {
		d.Assignments = nil
	}
	if _, ok := applicable[FieldRequiredItems]; !ok {
		d.RequiredItems = nil
	}
	if _, ok := applicable[FieldSkill]; !ok {
		d.Skill = nil
	}
	if _, ok := applicable[FieldActivity]; !ok {
		d.Activity = nil
	}
	if _, ok := applicable[FieldNotes]; !ok {
		d.Notes = nil
	}
}

var weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// WeekdayName maps dayOfWeek 1..5 to its English name.
func WeekdayName(day int) string {
	if day < 1 || day > len(weekdayNames) {
		return ""
	}
	return weekdayNames[day-1]
}
