package export

import (
	"bytes"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"github.com/yukikurage/staff-management-api/internal/models"
)

const attendanceSheet = "Attendance"

var attendanceHeaders = []string{"Date", "Username", "Name", "Clock in", "Clock out", "Hours"}

// AttendanceXLSX renders records as a workbook, one row per record.
// Times are shown in loc.
func AttendanceXLSX(records []models.Attendance, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", attendanceSheet); err != nil {
		return nil, errors.Wrap(err, "rename sheet")
	}
	row, err := writeHeader(f, attendanceSheet, 0, attendanceHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "write header")
	}

	firstDataRow := row + 1
	for _, record := range records {
		row++
		values := []any{
			record.Date,
			record.User.Username,
			record.User.Name,
			record.ClockIn.In(loc).Format("15:04:05"),
			"",
			"",
		}
		if record.ClockOut != nil {
			values[4] = record.ClockOut.In(loc).Format("15:04:05")
			values[5] = workedHours(record.ClockIn, *record.ClockOut)
		}
		for col, value := range values {
			if err := writeColumn(f, attendanceSheet, col+1, row, value); err != nil {
				return nil, errors.Wrapf(err, "write row %d", row)
			}
		}
	}
	if row >= firstDataRow {
		if err := applyDataCellStyle(f, attendanceSheet, 1, firstDataRow, len(attendanceHeaders), row); err != nil {
			return nil, errors.Wrap(err, "style rows")
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, errors.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}

// workedHours rounds to two decimals.
func workedHours(in, out time.Time) float64 {
	d := out.Sub(in)
	if d < 0 {
		return 0
	}
	return float64(d.Round(36*time.Second)) / float64(time.Hour)
}

func writeColumn(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func writeHeader(f *excelize.File, sheet string, row int, headers []string) (int, error) {
	row++
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"E5E7EB"}, Pattern: 1},
	})
	if err != nil {
		return row, err
	}
	cellFirst, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return row, err
	}
	cellLast, err := excelize.CoordinatesToCellName(len(headers), row)
	if err != nil {
		return row, err
	}
	if err = f.SetCellStyle(sheet, cellFirst, cellLast, style); err != nil {
		return row, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return row, err
	}
	if err = f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return row, err
	}
	for idx, value := range headers {
		if err = writeColumn(f, sheet, idx+1, row, value); err != nil {
			return row, err
		}
	}
	return row, nil
}

func applyDataCellStyle(f *excelize.File, sheet string, colFrom, rowFrom, colTo, rowTo int) error {
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Font:      &excelize.Font{Size: 11},
	})
	if err != nil {
		return err
	}
	cellFirst, err := excelize.CoordinatesToCellName(colFrom, rowFrom)
	if err != nil {
		return err
	}
	cellLast, err := excelize.CoordinatesToCellName(colTo, rowTo)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cellFirst, cellLast, style)
}
