// Package sheet converts student rows to and from xlsx workbooks.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Alarion239/studentrecords/models/records"
)

const SheetName = "Students"

var header = []interface{}{"ID", "Roll No", "Name", "Class/Section", "Mark"}

// ErrNoHeader is returned when the first row names none of the known columns.
var ErrNoHeader = errors.New("first row must name the roll no, name, class/section and mark columns")

type column int

const (
	colRollNo column = iota
	colName
	colClassSection
	colMark
)

// headerAliases maps a normalised header cell to its column.
var headerAliases = map[string]column{
	"roll no":       colRollNo,
	"roll_no":       colRollNo,
	"rollno":        colRollNo,
	"name":          colName,
	"class/section": colClassSection,
	"classsection":  colClassSection,
	"class section": colClassSection,
	"class":         colClassSection,
	"mark":          colMark,
}

// WriteStudents writes students as a single-sheet workbook to w.
func WriteStudents(w io.Writer, students []records.Student) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, s := range students {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{s.ID, s.RollNo, s.Name, s.ClassSection, s.Mark}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ReadStudents reads the first sheet of the workbook in r. Columns are found
// by header name, so an exported sheet (with its ID column) can be imported
// again. Rows whose cells are all empty are skipped.
func ReadStudents(r io.Reader) ([]records.StudentFields, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("workbook does not contain any sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	index := make(map[column]int)
	for i, cell := range rows[0] {
		if col, ok := headerAliases[strings.ToLower(strings.TrimSpace(cell))]; ok {
			if _, seen := index[col]; !seen {
				index[col] = i
			}
		}
	}
	if len(index) == 0 {
		return nil, ErrNoHeader
	}

	out := make([]records.StudentFields, 0, len(rows)-1)
	for _, row := range rows[1:] {
		get := func(c column) string {
			i, ok := index[c]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		fields := records.StudentFields{
			RollNo:       get(colRollNo),
			Name:         get(colName),
			ClassSection: get(colClassSection),
			Mark:         get(colMark),
		}
		if fields == (records.StudentFields{}) {
			continue
		}
		out = append(out, fields)
	}
	return out, nil
}
