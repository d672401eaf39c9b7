package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/eduplan/lesson-planner-api/internal/models"
	appErrors "github.com/eduplan/lesson-planner-api/pkg/errors"
	"github.com/eduplan/lesson-planner-api/pkg/export"
)

// ExportFormat names a supported export encoding.
type ExportFormat string

const (
	ExportFormatPDF ExportFormat = "pdf"
	ExportFormatCSV ExportFormat = "csv"
)

type completePlanLoader interface {
	Complete(ctx context.Context, id string, actor *models.JWTClaims) (*models.WeeklyPlanComplete, error)
}

// ExportResult is a rendered export document.
type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportService renders weekly plans into downloadable documents. The
// column set follows the plan subject's type so PE and art plans only
// carry their own fields.
type ExportService struct {
	plans      completePlanLoader
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	schoolName string
	logger     *zap.Logger
}

// NewExportService creates a new export service.
func NewExportService(plans completePlanLoader, schoolName string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		plans:      plans,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		schoolName: schoolName,
		logger:     logger,
	}
}

// ExportWeeklyPlan renders the complete plan view in the requested format.
func (s *ExportService) ExportWeeklyPlan(ctx context.Context, planID string, format ExportFormat, actor *models.JWTClaims) (*ExportResult, error) {
	if format != ExportFormatPDF && format != ExportFormatCSV {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be pdf or csv")
	}

	complete, err := s.plans.Complete(ctx, planID, actor)
	if err != nil {
		return nil, err
	}

	data := buildPlanDataset(complete, s.schoolName)
	baseName := fmt.Sprintf("weekly-plan-%s-week-%d-%d", complete.Grade.Name, complete.Week.WeekNumber, complete.Week.Year)

	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{FileName: baseName + ".csv", ContentType: "text/csv", Content: content}, nil
	default:
		title := fmt.Sprintf("Weekly Lesson Plan - Week %d, %d", complete.Week.WeekNumber, complete.Week.Year)
		content, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{FileName: baseName + ".pdf", ContentType: "application/pdf", Content: content}, nil
	}
}

func buildPlanDataset(complete *models.WeeklyPlanComplete, schoolName string) export.Dataset {
	preamble := [][]string{
		{"School", schoolName},
		{"Teacher", complete.Teacher.FullName},
		{"Grade", complete.Grade.Name},
		{"Subject", complete.Subject.Name},
		{"Week", fmt.Sprintf("Week %d, %d (%s to %s)",
			complete.Week.WeekNumber, complete.Week.Year,
			complete.Week.StartDate.Format("2006-01-02"), complete.Week.EndDate.Format("2006-01-02"))},
	}
	if complete.Notes != nil && *complete.Notes != "" {
		preamble = append(preamble, []string{"Notes", *complete.Notes})
	}

	fields := models.PlanFieldsFor(complete.Subject.Type)
	headers := make([]string, 0, len(fields)+1)
	headers = append(headers, "Day")
	for _, f := range fields {
		headers = append(headers, models.FieldLabel(f))
	}

	rows := make([]map[string]string, 0, len(complete.DailyPlans))
	for i := range complete.DailyPlans {
		daily := &complete.DailyPlans[i]
		row := map[string]string{"Day": models.WeekdayName(daily.DayOfWeek)}
		for _, f := range fields {
			row[models.FieldLabel(f)] = daily.FieldValue(f)
		}
		rows = append(rows, row)
	}

	return export.Dataset{Preamble: preamble, Headers: headers, Rows: rows}
}
