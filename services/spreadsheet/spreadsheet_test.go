package sheetsvc

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"github.com/talunzi/gradechain/core/grade"
)

func buildSheet(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		assert.NoError(t, err)
		assert.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	assert.NoError(t, err)
	return buf
}

func TestParseGrades(t *testing.T) {
	buf := buildSheet(t, [][]interface{}{
		{"student_id", "course", "score", "remark"},
		{"S001", "Algebra", 80, "good"},
		{"S002", "Physics", "abc", ""}, // non-numeric score
		{"", "", "", ""},               // blank row, ignored
		{"S003", "Biology", 59, ""},
	})

	rows, skipped, err := ParseGrades(buf)
	assert.NoError(t, err)

	if assert.Len(t, rows, 2) {
		assert.Equal(t, 2, rows[0].Line)
		assert.Equal(t, "S001", rows[0].Grade.StudentID)
		assert.Equal(t, 80, rows[0].Grade.Score)
		assert.Equal(t, "good", rows[0].Grade.Remark)
		assert.Equal(t, 5, rows[1].Line)
		assert.Equal(t, "Biology", rows[1].Grade.Course)
	}
	if assert.Len(t, skipped, 1) {
		assert.Equal(t, 3, skipped[0].Line)
		assert.Contains(t, skipped[0].Reason, "not a number")
	}
}

func TestParseGrades_headerVariants(t *testing.T) {
	// header casing and spacing are tolerated
	buf := buildSheet(t, [][]interface{}{
		{" Student_ID ", "COURSE", "Score"},
		{"S001", "Algebra", 80},
	})

	rows, skipped, err := ParseGrades(buf)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Empty(t, skipped)
}

func TestParseGrades_missingColumn(t *testing.T) {
	buf := buildSheet(t, [][]interface{}{
		{"student_id", "course"}, // no score column
		{"S001", "Algebra"},
	})

	_, _, err := ParseGrades(buf)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "score")
}

func TestParseGrades_notAWorkbook(t *testing.T) {
	_, _, err := ParseGrades(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}

func TestWriteGrades_roundTrip(t *testing.T) {
	grades := []grade.Grade{
		{ID: "g-1", StudentID: "S001", Course: "Algebra", Score: 80, Status: grade.StatusApproved, Active: true, Teacher: "0xaa", Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "g-2", StudentID: "S001", Course: "Physics", Score: 55, Status: grade.StatusPending, Active: true, Teacher: "0xaa"},
	}

	attachment, err := WriteGrades("S001", grades)
	assert.NoError(t, err)
	assert.Equal(t, "S001_grades.xlsx", attachment.Filename)

	f, err := excelize.OpenReader(attachment.Content)
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	assert.NoError(t, err)
	if assert.Len(t, rows, 3) {
		assert.Equal(t, "grade_id", rows[0][0])
		assert.Equal(t, "g-1", rows[1][0])
		assert.Equal(t, "Algebra", rows[1][2])
		assert.Equal(t, "80", rows[1][3])
		assert.Equal(t, "pending", rows[2][4])
	}
}

func TestWriteGrades_emptyStudentID(t *testing.T) {
	attachment, err := WriteGrades("", nil)
	assert.NoError(t, err)
	assert.Equal(t, "grades.xlsx", attachment.Filename)
}
