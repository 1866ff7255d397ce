package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"canteen-bot/internal/model"
	"canteen-bot/internal/repository"
)

const reportSheet = "Заявки"

// ReportService renders accumulated requests into a timestamped xlsx
// file, one fresh artifact per invocation. Retention of old files is
// not its concern.
type ReportService struct {
	requestRepo     *repository.RequestRepository
	dir             string
	splitSubmission bool
}

// NewReportService writes reports into dir. With splitSubmission the
// submission date and time become two separate columns instead of one
// combined column.
func NewReportService(requestRepo *repository.RequestRepository, dir string, splitSubmission bool) *ReportService {
	return &ReportService{requestRepo: requestRepo, dir: dir, splitSubmission: splitSubmission}
}

// Report describes a generated artifact.
type Report struct {
	Path string
	Rows int
}

// Generate snapshots all requests joined with their owners and writes
// them to a new xlsx file. Returns model.ErrNoData, with no file
// written, when there is nothing to export.
func (s *ReportService) Generate(ctx context.Context, now time.Time) (*Report, error) {
	rows, err := s.requestRepo.JoinedWithOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("load report rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, model.ErrNoData
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := s.headers()
	if err := f.SetSheetRow(reportSheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("write headers: %w", err)
	}
	styleID, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(headers))
		_ = f.SetCellStyle(reportSheet, "A1", lastCol+"1", styleID)
	}

	for i, row := range rows {
		cells := s.renderRow(row)
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(reportSheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	// Widths are cosmetic.
	_ = f.SetColWidth(reportSheet, "A", "A", 30)
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetColWidth(reportSheet, "B", lastCol, 20)

	name := fmt.Sprintf("meal_requests_%s.xlsx", now.Format(model.FileTimestamp))
	path := filepath.Join(s.dir, name)
	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	log.Printf("[info] report saved: %s (%d rows)", path, len(rows))
	return &Report{Path: path, Rows: len(rows)}, nil
}

func (s *ReportService) headers() []interface{} {
	if s.splitSubmission {
		return []interface{}{"ФИО", "Дата питания", "Дата подачи", "Время подачи", "Столовая"}
	}
	return []interface{}{"ФИО", "Дата питания", "Дата и время подачи", "Столовая"}
}

func (s *ReportService) renderRow(row repository.ReportRow) []interface{} {
	mealDate := reformatDate(row.MealDate)
	subDate := reformatDate(row.SubmissionDate)
	if s.splitSubmission {
		return []interface{}{row.FullName, mealDate, subDate, row.SubmissionTime, row.Canteen}
	}
	return []interface{}{row.FullName, mealDate, subDate + " " + row.SubmissionTime, row.Canteen}
}

// reformatDate turns a stored ISO date into the display form, keeping
// the raw value if it does not parse.
func reformatDate(iso string) string {
	d, err := time.Parse(model.DateLayout, iso)
	if err != nil {
		return iso
	}
	return d.Format(model.DisplayDate)
}
