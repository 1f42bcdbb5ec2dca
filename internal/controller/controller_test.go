package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/reansql/config"
	"github.com/lshigami/reansql/internal/dto"
	"github.com/lshigami/reansql/internal/pipeline"
	"github.com/lshigami/reansql/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploadService struct {
	lastInput service.UploadInput
	err       error
}

func (f *fakeUploadService) ProcessUpload(_ context.Context, in service.UploadInput) (*dto.UploadResponse, error) {
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &dto.UploadResponse{
		ID:          1,
		SourceLabel: in.SourceLabel,
		FileName:    in.FileName,
		Mode:        "ai",
		Summary:     "Generated answers and explanations for all 1 questions.",
		Questions:   []dto.QuestionResponse{{ID: 10, Position: 1, QuestionText: "1. q"}},
	}, nil
}

func (f *fakeUploadService) GetUpload(_ context.Context, id uint) (*dto.UploadResponse, error) {
	if id != 1 {
		return nil, fmt.Errorf("upload %d: %w", id, service.ErrNotFound)
	}
	return &dto.UploadResponse{ID: 1}, nil
}

func (f *fakeUploadService) ListUploads(context.Context) ([]dto.UploadSummaryResponse, error) {
	return []dto.UploadSummaryResponse{{ID: 1, QuestionCount: 3}}, nil
}

type fakeQuestionService struct {
	lastLabel string
}

func (f *fakeQuestionService) GetQuestion(_ context.Context, id uint) (*dto.QuestionResponse, error) {
	if id != 10 {
		return nil, service.ErrNotFound
	}
	return &dto.QuestionResponse{ID: 10, QuestionText: "1. q"}, nil
}

func (f *fakeQuestionService) ListQuestions(_ context.Context, label string) ([]dto.QuestionResponse, error) {
	f.lastLabel = label
	return []dto.QuestionResponse{}, nil
}

type fakeSubmissionService struct{}

func (fakeSubmissionService) Submit(_ context.Context, id uint, req dto.SubmitAnswerRequest) (*dto.SubmissionResponse, error) {
	if id != 10 {
		return nil, service.ErrNotFound
	}
	return &dto.SubmissionResponse{QuestionID: id, SubmittedCode: req.SubmittedCode, IsCorrect: true, AttemptCount: 1}, nil
}

func (fakeSubmissionService) History(context.Context, uint) ([]dto.SubmissionResponse, error) {
	return []dto.SubmissionResponse{{AttemptCount: 2}, {AttemptCount: 1}}, nil
}

func (fakeSubmissionService) Progress(_ context.Context, id uint) (*dto.ProgressResponse, error) {
	return &dto.ProgressResponse{UploadID: id, Total: 2, Correct: 1, Unattempted: 1}, nil
}

type fakeHintService struct {
	err error
}

func (f fakeHintService) GetHint(context.Context, dto.HintRequest) (*dto.HintResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.HintResponse{Hint: "Use GROUP BY."}, nil
}

func newRouter(uploads *fakeUploadService, questions *fakeQuestionService, hints fakeHintService, maxBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthz", Health)
	api := r.Group("/api/v1")
	cfg := &config.Config{Upload: config.Upload{MaxBytes: maxBytes}}
	NewUploadController(uploads, fakeSubmissionService{}, cfg).RegisterRoutes(api)
	NewQuestionController(questions, fakeSubmissionService{}).RegisterRoutes(api)
	NewHintController(hints).RegisterRoutes(api)
	return r
}

func multipartBody(t *testing.T, fileName string, content []byte, label string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	if label != "" {
		require.NoError(t, w.WriteField("source_label", label))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func do(r http.Handler, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateUpload_Success(t *testing.T) {
	uploads := &fakeUploadService{}
	r := newRouter(uploads, &fakeQuestionService{}, fakeHintService{}, 1<<20)
	body, ct := multipartBody(t, "week1.txt", []byte("1. q"), "week-1")

	rec := do(r, http.MethodPost, "/api/v1/uploads", body, ct)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp dto.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "week-1", resp.SourceLabel)
	assert.Len(t, resp.Questions, 1)
	assert.Equal(t, "week1.txt", uploads.lastInput.FileName)
	assert.Equal(t, []byte("1. q"), uploads.lastInput.Data)
}

func TestCreateUpload_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		message  string
		fileName string
	}{
		{"missing file", nil, http.StatusBadRequest, dto.CodeBadRequest, "", ""},
		{"extraction", fmt.Errorf("%w: bad xref", service.ErrExtractionFailed), http.StatusUnprocessableEntity, dto.CodeExtractionFailed, "failed to parse document", "a.pdf"},
		{"no questions", pipeline.ErrNoQuestionsFound, http.StatusUnprocessableEntity, dto.CodeNoQuestions, "no questions found in document", "a.pdf"},
		{"storage", fmt.Errorf("%w: %w", pipeline.ErrStorage, errors.New("db down")), http.StatusInternalServerError, dto.CodeStorageFailure, "", "a.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&fakeUploadService{err: tt.err}, &fakeQuestionService{}, fakeHintService{}, 1<<20)
			body, ct := multipartBody(t, tt.fileName, []byte("data"), "")

			rec := do(r, http.MethodPost, "/api/v1/uploads", body, ct)

			assert.Equal(t, tt.status, rec.Code)
			got := decodeError(t, rec)
			assert.Equal(t, tt.code, got.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, got.Message)
			}
		})
	}
}

func TestCreateUpload_TooLarge(t *testing.T) {
	r := newRouter(&fakeUploadService{}, &fakeQuestionService{}, fakeHintService{}, 8)
	body, ct := multipartBody(t, "big.txt", []byte(strings.Repeat("x", 64)), "")

	rec := do(r, http.MethodPost, "/api/v1/uploads", body, ct)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, dto.CodeFileTooLarge, decodeError(t, rec).Code)
}

func TestUploadReads(t *testing.T) {
	r := newRouter(&fakeUploadService{}, &fakeQuestionService{}, fakeHintService{}, 0)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/uploads", nil, "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/uploads/1", nil, "").Code)

	rec := do(r, http.MethodGet, "/api/v1/uploads/2", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, dto.CodeNotFound, decodeError(t, rec).Code)

	rec = do(r, http.MethodGet, "/api/v1/uploads/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodGet, "/api/v1/uploads/1/progress", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var progress dto.ProgressResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &progress))
	assert.Equal(t, 1, progress.Correct)
}

func TestQuestionRoutes(t *testing.T) {
	questions := &fakeQuestionService{}
	r := newRouter(&fakeUploadService{}, questions, fakeHintService{}, 0)

	rec := do(r, http.MethodGet, "/api/v1/questions?source_label=week1", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
	assert.Equal(t, "week1", questions.lastLabel)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/questions/10", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/questions/11", nil, "").Code)

	rec = do(r, http.MethodPost, "/api/v1/questions/10/submissions",
		bytes.NewBufferString(`{"submitted_code":"SELECT 1"}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)
	var sub dto.SubmissionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
	assert.True(t, sub.IsCorrect)

	rec = do(r, http.MethodPost, "/api/v1/questions/10/submissions", bytes.NewBufferString(`{}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodGet, "/api/v1/questions/10/submissions", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHintRoute(t *testing.T) {
	r := newRouter(&fakeUploadService{}, &fakeQuestionService{}, fakeHintService{}, 0)
	rec := do(r, http.MethodPost, "/api/v1/hints", bytes.NewBufferString(`{"question_text":"Count rows"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hint":"Use GROUP BY."}`, rec.Body.String())

	r = newRouter(&fakeUploadService{}, &fakeQuestionService{}, fakeHintService{err: service.ErrAIUnavailable}, 0)
	rec = do(r, http.MethodPost, "/api/v1/hints", bytes.NewBufferString(`{"question_text":"Count rows"}`), "application/json")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, dto.CodeAIUnavailable, decodeError(t, rec).Code)
}

func TestHealth(t *testing.T) {
	r := newRouter(&fakeUploadService{}, &fakeQuestionService{}, fakeHintService{}, 0)
	rec := do(r, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateUpload_RateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := &config.Config{Upload: config.Upload{MaxBytes: 1 << 20, RateLimit: 1}}
	NewUploadController(&fakeUploadService{}, fakeSubmissionService{}, cfg).RegisterRoutes(r.Group("/api/v1"))

	body, ct := multipartBody(t, "a.txt", []byte("1. q"), "")
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/v1/uploads", body, ct).Code)

	body, ct = multipartBody(t, "a.txt", []byte("1. q"), "")
	rec := do(r, http.MethodPost, "/api/v1/uploads", body, ct)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, dto.CodeRateLimited, decodeError(t, rec).Code)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/uploads", nil, "").Code)
}
