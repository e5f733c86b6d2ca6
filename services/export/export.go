// Package export renders rosters and finance reports as xlsx workbooks.
package export

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/tatame-app/tatame/core"
	"github.com/tatame-app/tatame/core/finance"
	"github.com/tatame-app/tatame/core/graduation"
	"github.com/tatame-app/tatame/core/student"
)

// ContentType of the generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Sheet struct {
	Title  string
	Header []string
	Rows   [][]string
}

// NewWorkbook builds one worksheet per sheet, with a bold filtered header row.
func NewWorkbook(sheets []Sheet) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, errors.New("no sheets to export")
	}
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.Wrap(err, "creating header style")
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Title); err != nil {
				return nil, errors.Wrap(err, "renaming sheet")
			}
		} else if _, err := f.NewSheet(s.Title); err != nil {
			return nil, errors.Wrap(err, "adding sheet")
		}

		for c, h := range s.Header {
			cell, _ := excelize.CoordinatesToCellName(c+1, 1)
			if err := f.SetCellStr(s.Title, cell, h); err != nil {
				return nil, errors.Wrapf(err, "setting cell %s", cell)
			}
		}
		if len(s.Header) > 0 {
			end, _ := excelize.CoordinatesToCellName(len(s.Header), 1)
			_ = f.SetCellStyle(s.Title, "A1", end, bold)
			_ = f.AutoFilter(s.Title, "A1:"+end, nil)
		}

		for r, row := range s.Rows {
			for c, val := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
				if err := f.SetCellStr(s.Title, cell, val); err != nil {
					return nil, errors.Wrapf(err, "setting cell %s", cell)
				}
			}
		}
		setWidths(f, s)
	}
	return f, nil
}

// setWidths approximates an auto-fit from the header and the first rows.
func setWidths(f *excelize.File, s Sheet) {
	for c := range s.Header {
		width := len(s.Header[c])
		for r := 0; r < len(s.Rows) && r < 50; r++ {
			if c < len(s.Rows[r]) && len(s.Rows[r][c]) > width {
				width = len(s.Rows[r][c])
			}
		}
		w := float64(width) * 1.1
		if w < 12 {
			w = 12
		}
		if w > 40 {
			w = 40
		}
		col, _ := excelize.ColumnNumberToName(c + 1)
		_ = f.SetColWidth(s.Title, col, col, w)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// RosterSheet lists students with their belt and academy names resolved.
func RosterSheet(students []student.Student, grads graduation.Index, academies map[int]string) Sheet {
	s := Sheet{
		Title: "Students",
		Header: []string{
			"ID", "Name", "Email", "CPF", "Phone", "Academy", "Belt", "Stripes",
			"Payment status", "Due day", "Competitor", "Gold", "Silver", "Bronze",
		},
		Rows: make([][]string, 0, len(students)),
	}
	for _, stu := range students {
		var belt, acad string
		if stu.BeltID.Valid {
			belt = grads[stu.BeltID.Int].Name
		}
		if stu.AcademyID.Valid {
			acad = academies[stu.AcademyID.Int]
		}
		s.Rows = append(s.Rows, []string{
			strconv.Itoa(stu.ID), stu.Name, stu.Email, stu.CPF, stu.Phone, acad, belt,
			strconv.Itoa(stu.Stripes), stu.PaymentStatus, strconv.Itoa(stu.PaymentDueDateDay),
			yesNo(stu.Competitor), strconv.Itoa(stu.Gold), strconv.Itoa(stu.Silver), strconv.Itoa(stu.Bronze),
		})
	}
	return s
}

// FinanceSheets splits a finance status into a reminders and an overdue sheet.
func FinanceSheets(status finance.Status) []Sheet {
	build := func(title, daysHeader string, entries []finance.Entry) Sheet {
		s := Sheet{
			Title:  title,
			Header: []string{"Student ID", "Name", "Email", "Phone", "Due date", daysHeader},
			Rows:   make([][]string, 0, len(entries)),
		}
		for _, e := range entries {
			s.Rows = append(s.Rows, []string{
				strconv.Itoa(e.Student.ID), e.Student.Name, e.Student.Email, e.Student.Phone,
				e.DueDate.String(), strconv.Itoa(e.Days),
			})
		}
		return s
	}
	return []Sheet{
		build("Reminders", "Days until due", status.Reminders),
		build("Overdue", "Days overdue", status.Overdue),
	}
}

// Filename returns "<prefix>_<date>.xlsx".
func Filename(prefix string, d core.Date) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, d)
}
