package paper

import (
	"strings"
	"testing"

	"github.com/stemsi/qpaper-backend/internal/model"
	"github.com/stemsi/qpaper-backend/internal/richtext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paperOptions() model.PaperOptions {
	return model.PaperOptions{
		Title:            "Physics Unit Test",
		TimeAllowed:      "1 hour",
		MarksPerQuestion: 2,
		Font:             "Times New Roman",
		FontSize:         "14px",
	}
}

func TestRender_QuestionPaper(t *testing.T) {
	q1 := newQuestion("Physics", "Optics", "JEE", model.AnswerB)
	q1.Question = "<p>Which lens <strong>converges</strong> light?</p>"
	q1.Options = []richtext.HTML{"Convex", "Concave", "Plane", "None"}
	q2 := newQuestion("Physics", "Waves", "JEE", model.AnswerD)

	doc, err := Render([]model.Question{q1, q2}, paperOptions(), QuestionPaper)
	require.NoError(t, err)

	body := string(doc.Body)
	assert.Equal(t, QuestionPaper, doc.Variant)
	assert.Equal(t, "Physics Unit Test", doc.Title)
	assert.Contains(t, body, `<h2 style="text-align: center;">Physics Unit Test</h2>`)
	assert.Contains(t, body, "<p><strong>Marks Per Question:</strong> 2</p>")
	assert.Contains(t, body, "<p><strong>Total Marks:</strong> 4</p>")
	assert.Contains(t, body, "<p><strong>Time:</strong> 1 hour</p>")
	assert.Contains(t, body, "<hr>")
	assert.Contains(t, body, "<strong>1. </strong><span><p>Which lens <strong>converges</strong> light?</p></span>")
	assert.Contains(t, body, "<strong>2. </strong>")
	assert.Contains(t, body, `<ol type="a">`)
	assert.Contains(t, body, "<li>Convex</li>\n<li>Concave</li>\n<li>Plane</li>\n<li>None</li>")
	assert.Less(t, strings.Index(body, "1. "), strings.Index(body, "2. "))
	assert.NotContains(t, body, "Answer Key")

	assert.Equal(t, "body { font-family: Times New Roman; font-size: 14px; }", string(doc.Style))
}

func TestRender_EscapesPlainFields(t *testing.T) {
	opts := paperOptions()
	opts.Title = "<script>alert(1)</script>"
	opts.TimeAllowed = "3 > 2"

	doc, err := Render(nil, opts, QuestionPaper)
	require.NoError(t, err)
	assert.NotContains(t, string(doc.Body), "<script>")
	assert.Contains(t, string(doc.Body), "&lt;script&gt;")
	assert.Contains(t, string(doc.Body), "3 &gt; 2")
	assert.Contains(t, string(doc.Body), "<p><strong>Total Marks:</strong> 0</p>")
}

func TestRender_AnswerKey(t *testing.T) {
	keys := []model.AnswerKey{model.AnswerC, model.AnswerA, model.AnswerD}
	qs := make([]model.Question, len(keys))
	for i, k := range keys {
		qs[i] = newQuestion("Chemistry", "Solutions", "NEET", k)
	}

	doc, err := Render(qs, paperOptions(), AnswerKey)
	require.NoError(t, err)

	body := string(doc.Body)
	assert.Equal(t, "Answer Key", doc.Title)
	assert.Contains(t, body, `<h2 style="text-align: center;">Answer Key</h2>`)

	chip := `<div style="border: 1px solid black; padding: 8px; margin-bottom: 4px; display: inline-block; white-space: nowrap;">`
	assert.Equal(t, 3, strings.Count(body, chip))
	first := strings.Index(body, chip+"1) c</div>")
	second := strings.Index(body, chip+"2) a</div>")
	third := strings.Index(body, chip+"3) d</div>")
	require.True(t, first >= 0 && second >= 0 && third >= 0, body)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
	assert.NotContains(t, body, "Marks Per Question")
}

func TestRender_RejectsInvalidInput(t *testing.T) {
	bad := newQuestion("Physics", "Optics", "JEE", model.AnswerA)
	bad.AnswerKey = "z"

	_, err := Render([]model.Question{newQuestion("Physics", "", "", model.AnswerA), bad}, paperOptions(), QuestionPaper)
	require.ErrorIs(t, err, model.ErrInvalidQuestion)
	assert.Contains(t, err.Error(), "question 2")

	_, err = Render(nil, paperOptions(), Variant("summary"))
	assert.Error(t, err)

	opts := paperOptions()
	opts.Font = "Arial; } body { display: none"
	_, err = Render(nil, opts, QuestionPaper)
	assert.Error(t, err)

	opts = paperOptions()
	opts.FontSize = "12px;color:red"
	_, err = Render(nil, opts, QuestionPaper)
	assert.Error(t, err)

	opts = paperOptions()
	opts.MarksPerQuestion = -1
	_, err = Render(nil, opts, QuestionPaper)
	assert.Error(t, err)
}

func TestRender_DoesNotMutateSelection(t *testing.T) {
	qs := []model.Question{
		newQuestion("Physics", "Optics", "JEE", model.AnswerA),
		newQuestion("Physics", "Waves", "JEE", model.AnswerB),
	}
	before := ids(qs)

	doc, err := Render(qs, paperOptions(), QuestionPaper)
	require.NoError(t, err)
	doc.Questions[0].Subject = "changed"

	assert.Equal(t, before, ids(qs))
	assert.Equal(t, "Physics", qs[0].Subject)
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("answer_key")
	require.NoError(t, err)
	assert.Equal(t, AnswerKey, v)
	assert.Equal(t, "Answer_Key", v.FileStem())
	assert.Equal(t, "Question_Paper", QuestionPaper.FileStem())

	_, err = ParseVariant("")
	assert.Error(t, err)
}

func TestEnvelope(t *testing.T) {
	doc, err := Render(nil, paperOptions(), QuestionPaper)
	require.NoError(t, err)

	out, err := Envelope(doc)
	require.NoError(t, err)

	page := string(out)
	assert.True(t, strings.HasPrefix(page, "<html><head>"))
	assert.Contains(t, page, "<style>body { font-family: Times New Roman; font-size: 14px; }</style>")
	assert.Contains(t, page, "<body>"+string(doc.Body)+"</body>")
	assert.NotContains(t, page, "window.print")
	assert.Contains(t, page, "<title>Physics Unit Test</title>")
}

func TestEnvelope_UntitledPaper(t *testing.T) {
	opts := paperOptions()
	opts.Title = ""
	doc, err := Render(nil, opts, QuestionPaper)
	require.NoError(t, err)

	out, err := Envelope(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<title>")
}
