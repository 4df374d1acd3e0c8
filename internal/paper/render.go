package paper

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"slices"

	"github.com/stemsi/qpaper-backend/internal/model"
)

// Variant selects which document is rendered from a selection.
type Variant string

const (
	QuestionPaper Variant = "questions"
	AnswerKey     Variant = "answer_key"
)

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case QuestionPaper, AnswerKey:
		return v, nil
	}
	return "", fmt.Errorf("unknown variant %q", s)
}

// FileStem is the download name of v without extension.
func (v Variant) FileStem() string {
	if v == AnswerKey {
		return "Answer_Key"
	}
	return "Question_Paper"
}

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("paper").
		Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
		ParseFS(templateFS, "templates/*.html.tmpl"),
)

var (
	fontPattern     = regexp.MustCompile(`^[A-Za-z0-9 -]{1,64}$`)
	fontSizePattern = regexp.MustCompile(`^[0-9]{1,3}(\.[0-9]{1,2})?(px|pt|em|rem|%)$`)
)

// Document is a rendered paper. Body is an HTML fragment sharing one style
// scope; channels wrap it for printing or download.
type Document struct {
	Variant   Variant
	Title     string
	Options   model.PaperOptions
	Questions []model.Question
	Style     template.CSS
	Body      template.HTML
}

type paperData struct {
	Title            string
	MarksPerQuestion int
	TotalMarks       int
	TimeAllowed      string
	Questions        []model.Question
}

// Render lays out questions, in the given order, as v. Each question is
// checked before use and neither argument is modified.
func Render(questions []model.Question, opts model.PaperOptions, v Variant) (*Document, error) {
	if _, err := ParseVariant(string(v)); err != nil {
		return nil, err
	}
	style, err := styleScope(opts.Font, opts.FontSize)
	if err != nil {
		return nil, err
	}
	if opts.MarksPerQuestion < 0 {
		return nil, fmt.Errorf("marks per question must not be negative, got %d", opts.MarksPerQuestion)
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	qs := slices.Clone(questions)
	data := paperData{
		Title:            opts.Title,
		MarksPerQuestion: opts.MarksPerQuestion,
		TotalMarks:       len(qs) * opts.MarksPerQuestion,
		TimeAllowed:      opts.TimeAllowed,
		Questions:        qs,
	}

	name, title := "question_paper.html.tmpl", opts.Title
	if v == AnswerKey {
		name, title = "answer_key.html.tmpl", "Answer Key"
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}

	return &Document{
		Variant:   v,
		Title:     title,
		Options:   opts,
		Questions: qs,
		Style:     style,
		Body:      template.HTML(buf.String()),
	}, nil
}

// styleScope builds the single body rule applied to the whole document.
// Values are checked against a strict pattern since they land inside <style>.
func styleScope(font, size string) (template.CSS, error) {
	if !fontPattern.MatchString(font) {
		return "", fmt.Errorf("invalid font %q", font)
	}
	if !fontSizePattern.MatchString(size) {
		return "", fmt.Errorf("invalid font size %q", size)
	}
	return template.CSS(fmt.Sprintf("body { font-family: %s; font-size: %s; }", font, size)), nil
}

type envelopeData struct {
	HeadTitle string
	Style     template.CSS
	Body      template.HTML
	Print     bool
}

// Envelope wraps doc in a standalone HTML page titled after the document.
func Envelope(doc *Document) ([]byte, error) {
	return envelope(envelopeData{HeadTitle: doc.Title, Style: doc.Style, Body: doc.Body})
}

func envelope(data envelopeData) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "envelope.html.tmpl", data); err != nil {
		return nil, fmt.Errorf("execute envelope: %w", err)
	}
	return buf.Bytes(), nil
}
