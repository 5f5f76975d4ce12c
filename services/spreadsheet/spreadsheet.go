// Package sheetsvc reads and writes the xlsx files the grade workflows exchange
// with teachers and students.
package sheetsvc

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/talunzi/gradechain/core"
	"github.com/talunzi/gradechain/core/grade"
)

// header columns of an import sheet, matched case-insensitively.
const (
	colStudentID = "student_id"
	colAccount   = "student_account"
	colCourse    = "course"
	colScore     = "score"
	colRemark    = "remark"
)

var exportHeader = []interface{}{"grade_id", "student_id", "course", "score", "status", "active", "remark", "teacher", "timestamp"}

// ParseGrades reads the first sheet of an xlsx workbook into batch rows.
// Malformed rows (missing cells, non-numeric score) become skips rather than
// errors; shape validation against the ledger's rules happens later in the
// batch import itself. Line numbers are 1-based and include the header.
func ParseGrades(r io.Reader) ([]grade.BatchRow, []grade.BatchSkip, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading sheet %s", sheets[0])
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("sheet is empty")
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, nil, err
	}

	var (
		parsed  []grade.BatchRow
		skipped []grade.BatchSkip
	)
	for i, row := range rows[1:] {
		line := i + 2 // header is line 1
		if blankRow(row) {
			continue
		}
		ng, err := rowToGrade(row, cols)
		if err != nil {
			skipped = append(skipped, grade.BatchSkip{Line: line, Reason: err.Error()})
			continue
		}
		parsed = append(parsed, grade.BatchRow{Line: line, Grade: ng})
	}
	return parsed, skipped, nil
}

// WriteGrades renders grades as a single-sheet workbook attachment named after
// the student id, e.g. "S001_grades.xlsx".
func WriteGrades(studentID string, grades []grade.Grade) (core.Attachment, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return core.Attachment{}, errors.Wrap(err, "writing header")
	}
	for i, g := range grades {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			g.ID, g.StudentID, g.Course, g.Score, string(g.Status), g.Active,
			g.Remark, g.Teacher, g.Timestamp.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return core.Attachment{}, errors.Wrapf(err, "writing row %d", i+2)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return core.Attachment{}, errors.Wrap(err, "serializing workbook")
	}
	name := core.CleanString(studentID)
	if name == "" {
		name = "grades"
	} else {
		name += "_grades"
	}
	return core.Attachment{
		Content:     buf,
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Filename:    name + ".xlsx",
	}, nil
}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(core.CleanString(name))] = i
	}
	for _, required := range []string{colStudentID, colCourse, colScore} {
		if _, ok := cols[required]; !ok {
			return nil, errors.Errorf("missing required column %q", required)
		}
	}
	return cols, nil
}

func rowToGrade(row []string, cols map[string]int) (grade.NewGrade, error) {
	cell := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return core.CleanString(row[idx])
	}

	rawScore := cell(colScore)
	if rawScore == "" {
		return grade.NewGrade{}, errors.New("missing score")
	}
	score, err := strconv.Atoi(rawScore)
	if err != nil {
		return grade.NewGrade{}, fmt.Errorf("score %q is not a number", rawScore)
	}

	return grade.NewGrade{
		StudentID:      cell(colStudentID),
		StudentAccount: strings.ToLower(cell(colAccount)),
		Course:         cell(colCourse),
		Score:          score,
		Remark:         cell(colRemark),
	}, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if core.CleanString(c) != "" {
			return false
		}
	}
	return true
}
