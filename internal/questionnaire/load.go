package questionnaire

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quefill/quefill/pkg/models"
)

// Default column headers assumed when the caller does not override them.
const (
	DefaultQuestionColumn = "Question"
	DefaultAnswerColumn   = "Answer"
)

// placeholders are cell values spreadsheet tools leave behind for missing
// data. They read as empty.
var placeholders = map[string]struct{}{
	"nan":  {},
	"none": {},
	"null": {},
}

// Load reads a questionnaire file into ordered records. The file extension
// selects the format (.csv or .xlsx; for workbooks the first sheet is read).
// The first row must be a header containing questionCol and answerCol, which
// default to "Question" and "Answer" when empty. RowID is the 1-based
// position of each data row; rows whose question or answer cell is missing
// load with the empty string, never dropped.
func Load(path, questionCol, answerCol string) ([]models.QuestionRecord, error) {
	if questionCol == "" {
		questionCol = DefaultQuestionColumn
	}
	if answerCol == "" {
		answerCol = DefaultAnswerColumn
	}

	var rows [][]string
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readWorkbook(path)
	default:
		return nil, fmt.Errorf("unsupported questionnaire format %q: want .csv or .xlsx", ext)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: file has no header row", path)
	}

	header := rows[0]
	questionIdx, err := columnIndex(header, questionCol, path)
	if err != nil {
		return nil, err
	}
	answerIdx, err := columnIndex(header, answerCol, path)
	if err != nil {
		return nil, err
	}

	records := make([]models.QuestionRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		records = append(records, models.QuestionRecord{
			RowID:    i + 1,
			Question: cellText(row, questionIdx),
			Answer:   cellText(row, answerIdx),
		})
	}
	return records, nil
}

func readCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

func columnIndex(header []string, name, path string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not found in %s (available: %s)",
		name, path, strings.Join(header, ", "))
}

func cellText(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	text := strings.TrimSpace(row[idx])
	if _, ok := placeholders[strings.ToLower(text)]; ok {
		return ""
	}
	return text
}
