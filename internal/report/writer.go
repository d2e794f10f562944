package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quefill/quefill/pkg/models"
)

// SheetName is the worksheet match results are written to.
const SheetName = "Combined Questionnaire"

// UnmatchedRow is the row id written for records with no accepted match.
const UnmatchedRow = -1

// columns is the output header. One data row follows per match result, in
// source order.
var columns = []string{
	"Current Question",
	"Matched Question",
	"Matched Question Row",
	"Question Match Score",
	"Question Reliable",
	"Current Answer",
	"Matched Answer",
	"Answer Match Score",
	"Answer Reliable",
}

// Options carries the thresholds the workbook writer uses for low-score
// highlighting.
type Options struct {
	QuestionThreshold float64
	AnswerThreshold   float64
}

// Write renders the report to path, picking the format by extension: .xlsx
// writes a styled workbook, anything else plain CSV.
func Write(path string, rep *models.Report, opts Options) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return WriteWorkbook(path, rep, opts)
	}
	return WriteCSV(path, rep)
}

// WriteCSV renders the report as CSV. Scores print with two decimals; cells
// for a missing match or comparison stay empty, except the row id which
// carries the -1 sentinel.
func WriteCSV(path string, rep *models.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	for _, r := range rep.Results {
		if err := w.Write(resultRow(r)); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// WriteWorkbook renders the report as a styled xlsx workbook: wrapped text,
// readable column widths, and a pink fill on scores below the acceptance
// thresholds so weak matches stand out during review.
func WriteWorkbook(path string, rep *models.Report, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}
	lowScoreStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC0CB"}, Pattern: 1},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}

	for i, name := range columns {
		if err := setCell(f, i+1, 1, name); err != nil {
			return err
		}
	}
	for i, r := range rep.Results {
		if err := writeResult(f, i+2, r); err != nil {
			return err
		}
	}

	lastCell, err := excelize.CoordinatesToCellName(len(columns), len(rep.Results)+1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCell, bodyStyle); err != nil {
		return err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	// Flag weak scores after the base styles so the fill wins.
	for i, r := range rep.Results {
		row := i + 2
		if r.QuestionScore < opts.QuestionThreshold {
			if err := styleCell(f, 4, row, lowScoreStyle); err != nil {
				return err
			}
		}
		if r.Answer != nil && r.Answer.Score < opts.AnswerThreshold {
			if err := styleCell(f, 8, row, lowScoreStyle); err != nil {
				return err
			}
		}
	}

	// Wide columns for question and answer text, narrow for scores and flags.
	for _, col := range []string{"A", "B", "F", "G"} {
		if err := f.SetColWidth(SheetName, col, col, 30); err != nil {
			return err
		}
	}
	for _, col := range []string{"C", "D", "E", "H", "I"} {
		if err := f.SetColWidth(SheetName, col, col, 12); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func resultRow(r models.MatchResult) []string {
	row := make([]string, len(columns))
	row[0] = r.Unanswered.Question
	row[2] = strconv.Itoa(UnmatchedRow)
	if r.Matched != nil {
		row[1] = r.Matched.Question
		row[2] = strconv.Itoa(r.Matched.RowID)
		row[6] = r.Matched.Answer
	}
	row[3] = formatScore(r.QuestionScore)
	row[4] = strconv.FormatBool(r.QuestionReliable)
	row[5] = r.Unanswered.Answer
	if r.Answer != nil {
		row[7] = formatScore(r.Answer.Score)
		row[8] = strconv.FormatBool(r.Answer.Reliable)
	}
	return row
}

func writeResult(f *excelize.File, row int, r models.MatchResult) error {
	matchedQuestion, matchedAnswer := "", ""
	matchedRow := UnmatchedRow
	if r.Matched != nil {
		matchedQuestion = r.Matched.Question
		matchedAnswer = r.Matched.Answer
		matchedRow = r.Matched.RowID
	}

	values := []interface{}{
		r.Unanswered.Question,
		matchedQuestion,
		matchedRow,
		r.QuestionScore,
		r.QuestionReliable,
		r.Unanswered.Answer,
		matchedAnswer,
	}
	for i, v := range values {
		if err := setCell(f, i+1, row, v); err != nil {
			return err
		}
	}
	if r.Answer != nil {
		if err := setCell(f, 8, row, r.Answer.Score); err != nil {
			return err
		}
		if err := setCell(f, 9, row, r.Answer.Reliable); err != nil {
			return err
		}
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(SheetName, cell, value)
}

func styleCell(f *excelize.File, col, row, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(SheetName, cell, cell, style)
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}
