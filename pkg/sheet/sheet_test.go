package sheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Alarion239/studentrecords/models/records"
)

func TestExportedSheetCanBeImported(t *testing.T) {
	students := []records.Student{
		{ID: 1, RollNo: "12345", Name: "John Doe", ClassSection: "10A", Mark: "85"},
		{ID: 2, RollNo: "12346", Name: "Jane Smith", ClassSection: "10B", Mark: ""},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStudents(&buf, students))

	got, err := ReadStudents(&buf)
	require.NoError(t, err)
	assert.Equal(t, []records.StudentFields{
		{RollNo: "12345", Name: "John Doe", ClassSection: "10A", Mark: "85"},
		{RollNo: "12346", Name: "Jane Smith", ClassSection: "10B"},
	}, got)
}

func TestReadStudentsByHeaderName(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Mark", "Name", "roll_no", "Notes"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"90", "Ada", "7", "ignored"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"", "", "", "only notes"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]interface{}{"", " Ben "}))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadStudents(&buf)
	require.NoError(t, err)
	assert.Equal(t, []records.StudentFields{
		{RollNo: "7", Name: "Ada", Mark: "90"},
		{Name: "Ben"},
	}, got)
}

func TestReadStudentsWithoutHeader(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow(f.GetSheetName(0), "A1", &[]interface{}{"foo", "bar"}))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	_, err = ReadStudents(&buf)
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestReadStudentsNotAWorkbook(t *testing.T) {
	_, err := ReadStudents(bytes.NewReader([]byte("roll_no,name\n1,Ada\n")))
	assert.Error(t, err)
}
