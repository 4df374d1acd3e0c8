// Package importer reads question banks kept in spreadsheets.
package importer

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/stemsi/qpaper-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

// ErrMissingColumn is returned when the header row lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// Column headers, matched case-insensitively. "Difficulty" is accepted for Exam.
const (
	colSubject  = "subject"
	colStandard = "standard"
	colChapter  = "chapter"
	colExam     = "exam"
	colQuestion = "question"
	colA        = "a"
	colB        = "b"
	colC        = "c"
	colD        = "d"
	colAnswer   = "answer"
)

var requiredColumns = []string{colQuestion, colA, colB, colC, colD, colAnswer}

var headerAliases = map[string]string{
	"difficulty": colExam,
	"answer key": colAnswer,
	"option a":   colA,
	"option b":   colB,
	"option c":   colC,
	"option d":   colD,
}

// Row is one question read from the sheet. Line is the 1-based sheet row.
type Row struct {
	Line    int
	Request model.QuestionRequest
}

// ReadXLSX reads questions from the named sheet, or the first one when
// sheet is empty. Cell text is treated as plain text and escaped; a line
// break in the question cell starts a new paragraph. Blank rows are skipped.
func ReadXLSX(r io.Reader, sheet string) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	var out []Row
	for i, cells := range rows[1:] {
		get := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[idx])
		}
		if isBlank(cells) {
			continue
		}

		req := model.QuestionRequest{
			Question: paragraphs(get(colQuestion)),
			Options: []string{
				html.EscapeString(get(colA)),
				html.EscapeString(get(colB)),
				html.EscapeString(get(colC)),
				html.EscapeString(get(colD)),
			},
			Subject:    get(colSubject),
			Chapter:    get(colChapter),
			Difficulty: get(colExam),
			AnswerKey:  strings.ToLower(get(colAnswer)),
		}
		if std := get(colStandard); std != "" {
			req.Standard = &std
		}
		out = append(out, Row{Line: i + 2, Request: req})
	}
	return out, nil
}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if alias, ok := headerAliases[name]; ok {
			name = alias
		}
		if _, dup := cols[name]; !dup && name != "" {
			cols[name] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func paragraphs(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(line))
		b.WriteString("</p>")
	}
	return b.String()
}
