package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lshigami/reansql/internal/database"
	"github.com/lshigami/reansql/internal/dto"
	"github.com/lshigami/reansql/internal/llm"
	"github.com/lshigami/reansql/internal/model"
	"github.com/lshigami/reansql/internal/pipeline"
	"github.com/lshigami/reansql/internal/refine"
	"github.com/lshigami/reansql/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubExtractor struct {
	text string
	err  error
}

func (e stubExtractor) ExtractText(string, string, []byte) (string, error) {
	return e.text, e.err
}

type recordingArchiver struct {
	keys []string
	err  error
}

func (a *recordingArchiver) Archive(_ context.Context, key string, _ []byte, _ string) (string, error) {
	a.keys = append(a.keys, key)
	if a.err != nil {
		return "", a.err
	}
	return "bucket/" + key, nil
}

type explainerFunc func(ctx context.Context, prompt string) string

func (f explainerFunc) Refine(ctx context.Context, prompt string) refine.Result {
	return refine.Result{Text: f(ctx, prompt), Calls: 1}
}

type env struct {
	db          *gorm.DB
	uploads     repository.UploadRepository
	questions   repository.QuestionRepository
	submissions repository.SubmissionRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := database.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return &env{
		db:          db,
		uploads:     repository.NewUploadRepository(db),
		questions:   repository.NewQuestionRepository(db),
		submissions: repository.NewSubmissionRepository(db),
	}
}

func (e *env) uploadService(extractor stubExtractor, archiver *recordingArchiver, gen llm.Generator) UploadService {
	orch := pipeline.New(gen, explainerFunc(func(context.Context, string) string { return "Summary.\n- bullet" }), e.uploads, 0)
	return NewUploadService(extractor, archiver, orch, e.uploads)
}

func (e *env) seed(t *testing.T, questions ...model.Question) *model.Upload {
	t.Helper()
	u := &model.Upload{SourceLabel: "seed", FileName: "seed.pdf", Mode: model.ModePartial, Questions: questions}
	require.NoError(t, e.uploads.SaveUpload(context.Background(), u))
	return u
}

func TestProcessUpload_Success(t *testing.T) {
	e := newEnv(t)
	gen := llm.GeneratorFunc(func(context.Context, string) (string, error) {
		return "```sql\nSELECT * FROM users; -- all\n```", nil
	})
	archiver := &recordingArchiver{}
	svc := e.uploadService(stubExtractor{text: "Intro\n1. List users.\n2. Count users."}, archiver, gen)

	resp, err := svc.ProcessUpload(context.Background(), UploadInput{FileName: "week3.pdf", Data: []byte("%PDF-")})

	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "week3", resp.SourceLabel)
	assert.Equal(t, model.ModeAI, resp.Mode)
	require.Len(t, resp.Questions, 2)
	assert.Equal(t, "1. List users.", resp.Questions[0].QuestionText)
	assert.Equal(t, "```sql\nSELECT * FROM users;\n```", resp.Questions[0].AIAnswer)
	assert.NotZero(t, resp.Questions[1].ID)
	require.Len(t, archiver.keys, 1)
	assert.True(t, strings.HasPrefix(resp.ArchiveKey, "bucket/uploads/week3/"))

	saved, err := e.uploads.FindByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ArchiveKey, saved.ArchiveKey)

	stored, err := e.questions.FindBySourceLabel(context.Background(), "week3")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestProcessUpload_ArchiveFailureIsNotFatal(t *testing.T) {
	e := newEnv(t)
	gen := llm.GeneratorFunc(func(context.Context, string) (string, error) { return "SELECT 1;", nil })
	svc := e.uploadService(stubExtractor{text: "1. q"}, &recordingArchiver{err: errors.New("minio down")}, gen)

	resp, err := svc.ProcessUpload(context.Background(), UploadInput{FileName: "a.txt", SourceLabel: "custom"})

	require.NoError(t, err)
	assert.Equal(t, "custom", resp.SourceLabel)
	assert.Empty(t, resp.ArchiveKey)
}

func TestProcessUpload_Errors(t *testing.T) {
	e := newEnv(t)
	gen := llm.NewMockGenerator()

	archiver := &recordingArchiver{}

	_, err := e.uploadService(stubExtractor{err: errors.New("bad xref")}, archiver, gen).
		ProcessUpload(context.Background(), UploadInput{FileName: "a.pdf"})
	assert.ErrorIs(t, err, ErrExtractionFailed)

	_, err = e.uploadService(stubExtractor{text: "no numbered lines"}, archiver, gen).
		ProcessUpload(context.Background(), UploadInput{FileName: "a.pdf"})
	assert.ErrorIs(t, err, pipeline.ErrNoQuestionsFound)
	assert.Zero(t, gen.CallCount())
	assert.Empty(t, archiver.keys, "rejected documents are not archived")
}

func TestProcessUpload_ManualMode(t *testing.T) {
	e := newEnv(t)
	gen := llm.GeneratorFunc(func(context.Context, string) (string, error) {
		return "", &llm.ExhaustedError{Last: errors.New("quota")}
	})
	svc := e.uploadService(stubExtractor{text: "1. a\n2. b\n3. c\n4. d"}, &recordingArchiver{}, gen)

	resp, err := svc.ProcessUpload(context.Background(), UploadInput{FileName: "x.pdf"})

	require.NoError(t, err)
	assert.Equal(t, model.ModeManual, resp.Mode)
	require.Len(t, resp.Questions, 4)
	for _, q := range resp.Questions {
		assert.Equal(t, pipeline.ManualAnswer, q.AIAnswer)
	}
}

func TestGetAndListUploads(t *testing.T) {
	e := newEnv(t)
	u := e.seed(t,
		model.Question{SourceLabel: "seed", Position: 1, QuestionText: "1. a", Status: model.QuestionGenerated},
		model.Question{SourceLabel: "seed", Position: 2, QuestionText: "2. b", Status: model.QuestionFailed},
	)
	svc := NewUploadService(stubExtractor{}, &recordingArchiver{}, nil, e.uploads)

	got, err := svc.GetUpload(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Len(t, got.Questions, 2)

	_, err = svc.GetUpload(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.ListUploads(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].QuestionCount)
}

func TestDefaultSourceLabel(t *testing.T) {
	assert.Equal(t, "week1", DefaultSourceLabel("week1.pdf"))
	assert.Equal(t, "sheet", DefaultSourceLabel("C:\\docs\\sheet.txt"))
	assert.True(t, strings.HasPrefix(DefaultSourceLabel(""), "upload-"))
}

func TestQuestionService(t *testing.T) {
	e := newEnv(t)
	u := e.seed(t, model.Question{SourceLabel: "seed", Position: 1, QuestionText: "1. a", Status: model.QuestionGenerated})
	svc := NewQuestionService(e.questions)

	q, err := svc.GetQuestion(context.Background(), u.Questions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "1. a", q.QuestionText)
	assert.Equal(t, u.ID, q.UploadID)

	_, err = svc.GetQuestion(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.ListQuestions(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	all, err := svc.ListQuestions(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSubmissionService_GradingAndProgress(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.seed(t,
		model.Question{SourceLabel: "seed", Position: 1, QuestionText: "1. all users", Status: model.QuestionGenerated,
			AIAnswer: "Here you go:\n```sql\nSELECT *\nFROM users;\n```\nReturns every user."},
		model.Question{SourceLabel: "seed", Position: 2, QuestionText: "2. manual", Status: model.QuestionManual,
			AIAnswer: pipeline.ManualAnswer},
		model.Question{SourceLabel: "seed", Position: 3, QuestionText: "3. untouched", Status: model.QuestionGenerated,
			AIAnswer: "SELECT 3;"},
	)
	q1, q2 := u.Questions[0].ID, u.Questions[1].ID
	svc := NewSubmissionService(e.questions, e.submissions, e.uploads)

	wrong, err := svc.Submit(ctx, q1, dto.SubmitAnswerRequest{SubmittedCode: "select name from users"})
	require.NoError(t, err)
	assert.False(t, wrong.IsCorrect)
	assert.Equal(t, 1, wrong.AttemptCount)
	assert.True(t, wrong.ReferenceAvailable)

	right, err := svc.Submit(ctx, q1, dto.SubmitAnswerRequest{SubmittedCode: "select * from USERS"})
	require.NoError(t, err)
	assert.True(t, right.IsCorrect)
	assert.Equal(t, 2, right.AttemptCount)

	manual, err := svc.Submit(ctx, q2, dto.SubmitAnswerRequest{SubmittedCode: pipeline.ManualAnswer})
	require.NoError(t, err)
	assert.False(t, manual.IsCorrect)
	assert.False(t, manual.ReferenceAvailable)

	_, err = svc.Submit(ctx, q1, dto.SubmitAnswerRequest{SubmittedCode: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Submit(ctx, 12345, dto.SubmitAnswerRequest{SubmittedCode: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	history, err := svc.History(ctx, q1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].AttemptCount)

	progress, err := svc.Progress(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, progress.Total)
	assert.Equal(t, 1, progress.Correct)
	assert.Equal(t, 1, progress.Incorrect)
	assert.Equal(t, 1, progress.Unattempted)
	assert.Equal(t, dto.ProgressCorrect, progress.Questions[0].Status)
	assert.Equal(t, 2, progress.Questions[0].Attempts)
	assert.Equal(t, dto.ProgressIncorrect, progress.Questions[1].Status)
	assert.Equal(t, dto.ProgressUnattempted, progress.Questions[2].Status)

	_, err = svc.Progress(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHintService(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.seed(t, model.Question{SourceLabel: "seed", Position: 1, QuestionText: "1. Count rows", Status: model.QuestionGenerated})
	gen := llm.NewMockGenerator(
		llm.MockResponse{Text: "  Try COUNT(*).  "},
		llm.MockResponse{Text: "Think about GROUP BY."},
		llm.MockResponse{Err: llm.ErrGenerationExhausted},
	)
	svc := NewHintService(gen, NewQuestionService(e.questions))

	id := u.Questions[0].ID
	hint, err := svc.GetHint(ctx, dto.HintRequest{QuestionID: &id, UserSQL: strings.Repeat("x", 300)})
	require.NoError(t, err)
	assert.Equal(t, "Try COUNT(*).", hint.Hint)
	prompt := gen.Prompts()[0]
	assert.Contains(t, prompt, "\"1. Count rows\"")
	assert.Contains(t, prompt, strings.Repeat("x", 200))
	assert.NotContains(t, prompt, strings.Repeat("x", 201))

	_, err = svc.GetHint(ctx, dto.HintRequest{QuestionText: "Group orders"})
	require.NoError(t, err)
	assert.NotContains(t, gen.Prompts()[1], "User's attempt")

	_, err = svc.GetHint(ctx, dto.HintRequest{QuestionText: "anything"})
	assert.ErrorIs(t, err, ErrAIUnavailable)
	assert.ErrorIs(t, err, llm.ErrGenerationExhausted)

	_, err = svc.GetHint(ctx, dto.HintRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	missing := uint(999)
	_, err = svc.GetHint(ctx, dto.HintRequest{QuestionID: &missing})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 3, gen.CallCount())
}
