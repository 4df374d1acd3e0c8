package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/qpaper-backend/internal/config"
	"github.com/stemsi/qpaper-backend/internal/model"
	"github.com/stemsi/qpaper-backend/internal/paper"
	"github.com/stemsi/qpaper-backend/internal/response"
	"github.com/stemsi/qpaper-backend/internal/service"
	"github.com/stemsi/qpaper-backend/internal/validator"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	catalog, err := config.LoadCatalog("")
	if err != nil {
		panic(err)
	}
	if err := validator.Setup(catalog); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// do sends a request through a fresh engine that registers one route.
func do(t *testing.T, method, route, target string, h gin.HandlerFunc, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.Use(response.RequestIDMiddleware())
	r.Handle(method, route, h)

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func multipartBody(t *testing.T, field, name string, content []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

type mockQuestionManager struct {
	mock.Mock
}

func (m *mockQuestionManager) List(ctx context.Context) ([]model.Question, error) {
	args := m.Called(ctx)
	qs, _ := args.Get(0).([]model.Question)
	return qs, args.Error(1)
}

func (m *mockQuestionManager) Browse(ctx context.Context, c model.Criteria) ([]model.Question, error) {
	args := m.Called(ctx, c)
	qs, _ := args.Get(0).([]model.Question)
	return qs, args.Error(1)
}

func (m *mockQuestionManager) Get(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	args := m.Called(ctx, id)
	q, _ := args.Get(0).(*model.Question)
	return q, args.Error(1)
}

func (m *mockQuestionManager) Create(ctx context.Context, req model.QuestionRequest) (*model.Question, error) {
	args := m.Called(ctx, req)
	q, _ := args.Get(0).(*model.Question)
	return q, args.Error(1)
}

func (m *mockQuestionManager) Update(ctx context.Context, id uuid.UUID, req model.QuestionRequest) (*model.Question, error) {
	args := m.Called(ctx, id, req)
	q, _ := args.Get(0).(*model.Question)
	return q, args.Error(1)
}

func (m *mockQuestionManager) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockChapterCatalog struct {
	mock.Mock
}

func (m *mockChapterCatalog) List(ctx context.Context) ([]model.Chapter, error) {
	args := m.Called(ctx)
	chs, _ := args.Get(0).([]model.Chapter)
	return chs, args.Error(1)
}

func (m *mockChapterCatalog) Tree(ctx context.Context) (model.ChapterTree, error) {
	args := m.Called(ctx)
	tree, _ := args.Get(0).(model.ChapterTree)
	return tree, args.Error(1)
}

func (m *mockChapterCatalog) Propose(ctx context.Context, req model.ProposeChapterRequest) (*model.Chapter, bool, error) {
	args := m.Called(ctx, req)
	ch, _ := args.Get(0).(*model.Chapter)
	return ch, args.Bool(1), args.Error(2)
}

type mockMediaUploader struct {
	mock.Mock
}

func (m *mockMediaUploader) SaveUpload(file multipart.File, header *multipart.FileHeader) (*service.Upload, error) {
	args := m.Called(file, header)
	u, _ := args.Get(0).(*service.Upload)
	return u, args.Error(1)
}

type mockPaperWorkflow struct {
	mock.Mock
}

func (m *mockPaperWorkflow) view(args mock.Arguments) (*model.PaperSessionView, error) {
	v, _ := args.Get(0).(*model.PaperSessionView)
	return v, args.Error(1)
}

func (m *mockPaperWorkflow) Create(ctx context.Context, req model.PaperSettingsRequest) (*model.PaperSessionView, error) {
	return m.view(m.Called(ctx, req))
}

func (m *mockPaperWorkflow) Get(ctx context.Context, id uuid.UUID) (*model.PaperSessionView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *mockPaperWorkflow) UpdateSettings(ctx context.Context, id uuid.UUID, req model.PaperSettingsRequest) (*model.PaperSessionView, error) {
	return m.view(m.Called(ctx, id, req))
}

func (m *mockPaperWorkflow) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPaperWorkflow) Candidates(ctx context.Context, id uuid.UUID, c model.Criteria) (*model.CandidateList, error) {
	args := m.Called(ctx, id, c)
	l, _ := args.Get(0).(*model.CandidateList)
	return l, args.Error(1)
}

func (m *mockPaperWorkflow) Toggle(ctx context.Context, id, questionID uuid.UUID) (*model.PaperSessionView, error) {
	return m.view(m.Called(ctx, id, questionID))
}

func (m *mockPaperWorkflow) Remove(ctx context.Context, id, questionID uuid.UUID) (*model.PaperSessionView, error) {
	return m.view(m.Called(ctx, id, questionID))
}

func (m *mockPaperWorkflow) Render(ctx context.Context, id uuid.UUID, variant, channel string) (*paper.Artifact, error) {
	args := m.Called(ctx, id, variant, channel)
	a, _ := args.Get(0).(*paper.Artifact)
	return a, args.Error(1)
}

func (m *mockPaperWorkflow) RenderSelection(ctx context.Context, req model.RenderRequest) (*paper.Artifact, error) {
	args := m.Called(ctx, req)
	a, _ := args.Get(0).(*paper.Artifact)
	return a, args.Error(1)
}
