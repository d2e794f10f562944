package models

// QuestionRecord is a single row of a questionnaire: the question text and
// whatever answer the source file carried for it. RowID is the 1-based position
// of the row within its source file and is unique per questionnaire. Records
// are immutable once loaded.
type QuestionRecord struct {
	RowID    int    `json:"row_id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
