package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/classtrack/classtrack-back/internal/models"
)

const dateLayout = "2006-01-02"

// BuildReport renders marks and attendance into a two-sheet workbook.
// The caller owns closing the file.
func BuildReport(marks []models.Marks, attendance []models.Attendance) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", "Marks"); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet("Attendance"); err != nil {
		f.Close()
		return nil, err
	}

	if err := writeMarks(f, marks); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeAttendance(f, attendance); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func writeMarks(f *excelize.File, marks []models.Marks) error {
	headers := []string{"Student", "Email", "Subject", "Exam Type", "Marks", "Total Marks", "Date", "Uploaded By"}
	if err := writeRow(f, "Marks", 1, headers); err != nil {
		return err
	}
	for i, m := range marks {
		row := []interface{}{
			m.Student.Name,
			m.Student.Email,
			m.Subject,
			m.ExamType,
			m.Marks,
			m.TotalMarks,
			m.Date.Format(dateLayout),
			m.UploadedBy.Name,
		}
		if err := writeRowValues(f, "Marks", i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeAttendance(f *excelize.File, attendance []models.Attendance) error {
	headers := []string{"Student", "Email", "Date", "Status", "Subject", "Marked By"}
	if err := writeRow(f, "Attendance", 1, headers); err != nil {
		return err
	}
	for i, a := range attendance {
		row := []interface{}{
			a.Student.Name,
			a.Student.Email,
			a.Date.Format(dateLayout),
			a.Status,
			a.Subject,
			a.MarkedBy.Name,
		}
		if err := writeRowValues(f, "Attendance", i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return writeRowValues(f, sheet, row, cells)
}

func writeRowValues(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
