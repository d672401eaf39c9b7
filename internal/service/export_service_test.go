package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduplan/lesson-planner-api/internal/models"
	appErrors "github.com/eduplan/lesson-planner-api/pkg/errors"
)

type stubCompleteLoader struct {
	plan  *models.WeeklyPlanComplete
	calls int
}

func (s *stubCompleteLoader) Complete(ctx context.Context, id string, actor *models.JWTClaims) (*models.WeeklyPlanComplete, error) {
	s.calls++
	if s.plan == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "weekly plan not found")
	}
	return s.plan, nil
}

func artPlanComplete() *models.WeeklyPlanComplete {
	items := "watercolors, brushes"
	topic := "Color mixing"
	return &models.WeeklyPlanComplete{
		WeeklyPlan: models.WeeklyPlan{ID: "p1", TeacherID: "t1"},
		Teacher:    models.UserInfo{ID: "t1", FullName: "Amal Haddad"},
		Grade:      models.Grade{ID: "g1", Name: "Grade 4"},
		Subject:    models.Subject{ID: "s1", Name: "Art", Type: models.SubjectTypeArt},
		Week: models.PlanningWeek{
			ID: "w1", WeekNumber: 10, Year: 2026,
			StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
		},
		DailyPlans: []models.DailyPlan{
			{ID: "d1", WeeklyPlanID: "p1", DayOfWeek: 1, Topic: &topic, RequiredItems: &items},
		},
	}
}

func TestExportServiceCSVUsesSubjectColumns(t *testing.T) {
	loader := &stubCompleteLoader{plan: artPlanComplete()}
	svc := NewExportService(loader, "Cedar Hill School", nil)

	result, err := svc.ExportWeeklyPlan(context.Background(), "p1", ExportFormatCSV, teacherClaims("t1"))
	require.NoError(t, err)
	assert.Equal(t, "weekly-plan-Grade 4-week-10-2026.csv", result.FileName)
	assert.Equal(t, "text/csv", result.ContentType)

	body := string(result.Content)
	assert.Contains(t, body, "Cedar Hill School")
	assert.Contains(t, body, "Day,Topic,Required Items,Notes")
	assert.Contains(t, body, "Monday,Color mixing")
	assert.NotContains(t, body, "Homework")
}

func TestExportServicePDF(t *testing.T) {
	loader := &stubCompleteLoader{plan: artPlanComplete()}
	svc := NewExportService(loader, "Cedar Hill School", nil)

	result, err := svc.ExportWeeklyPlan(context.Background(), "p1", ExportFormatPDF, teacherClaims("t1"))
	require.NoError(t, err)
	assert.Equal(t, "weekly-plan-Grade 4-week-10-2026.pdf", result.FileName)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	loader := &stubCompleteLoader{plan: artPlanComplete()}
	svc := NewExportService(loader, "Cedar Hill School", nil)

	_, err := svc.ExportWeeklyPlan(context.Background(), "p1", ExportFormat("xlsx"), teacherClaims("t1"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, 0, loader.calls)
}

func TestExportServicePropagatesLoadErrors(t *testing.T) {
	loader := &stubCompleteLoader{}
	svc := NewExportService(loader, "Cedar Hill School", nil)

	_, err := svc.ExportWeeklyPlan(context.Background(), "missing", ExportFormatCSV, teacherClaims("t1"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
