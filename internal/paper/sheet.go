package paper

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetChannel writes the selection as a workbook. Question markup is
// reduced to plain text since cells cannot carry HTML.
type SheetChannel struct{}

func (SheetChannel) Deliver(doc *Document) (*Artifact, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Questions"
	header := []any{"No.", "Question", "a", "b", "c", "d"}
	if doc.Variant == AnswerKey {
		sheet = "Answer Key"
		header = []any{"No.", "Answer"}
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, q := range doc.Questions {
		row := []any{i + 1, string(q.AnswerKey)}
		if doc.Variant == QuestionPaper {
			row = []any{i + 1, q.Question.PlainText()}
			for _, opt := range q.Options {
				row = append(row, opt.PlainText())
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if doc.Variant == QuestionPaper && doc.Options.Title != "" {
		if err := f.SetDocProps(&excelize.DocProperties{Title: doc.Options.Title}); err != nil {
			return nil, fmt.Errorf("set title: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &Artifact{
		FileName:    doc.Variant.FileStem() + ".xlsx",
		ContentType: xlsxContentType,
		Body:        buf.Bytes(),
	}, nil
}
