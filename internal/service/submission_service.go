package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/reansql/internal/dto"
	"github.com/lshigami/reansql/internal/grading"
	"github.com/lshigami/reansql/internal/model"
	"github.com/lshigami/reansql/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type SubmissionService interface {
	Submit(ctx context.Context, questionID uint, req dto.SubmitAnswerRequest) (*dto.SubmissionResponse, error)
	History(ctx context.Context, questionID uint) ([]dto.SubmissionResponse, error)
	Progress(ctx context.Context, uploadID uint) (*dto.ProgressResponse, error)
}

type submissionService struct {
	questionRepo   repository.QuestionRepository
	submissionRepo repository.SubmissionRepository
	uploadRepo     repository.UploadRepository
}

func NewSubmissionService(questionRepo repository.QuestionRepository, submissionRepo repository.SubmissionRepository, uploadRepo repository.UploadRepository) SubmissionService {
	return &submissionService{questionRepo: questionRepo, submissionRepo: submissionRepo, uploadRepo: uploadRepo}
}

func (s *submissionService) findQuestion(ctx context.Context, id uint) (*model.Question, error) {
	q, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return q, nil
}

func (s *submissionService) Submit(ctx context.Context, questionID uint, req dto.SubmitAnswerRequest) (*dto.SubmissionResponse, error) {
	if strings.TrimSpace(req.SubmittedCode) == "" {
		return nil, fmt.Errorf("%w: submitted_code is empty", ErrInvalidInput)
	}
	q, err := s.findQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	// Placeholder answers are never a valid reference.
	var reference string
	if q.Status == model.QuestionGenerated {
		reference = grading.ReferenceSQL(q.AIAnswer)
	}
	available := reference != ""

	submission := &model.Submission{
		QuestionID:    q.ID,
		SubmittedCode: req.SubmittedCode,
		IsCorrect:     available && grading.IsMatch(req.SubmittedCode, reference),
	}
	if err := s.submissionRepo.CreateNextAttempt(ctx, submission); err != nil {
		log.Error().Err(err).Uint("question_id", q.ID).Msg("Failed to store submission")
		return nil, err
	}
	log.Info().
		Uint("question_id", q.ID).
		Int("attempt", submission.AttemptCount).
		Bool("correct", submission.IsCorrect).
		Msg("Submission graded")

	resp := toSubmissionResponse(submission)
	resp.ReferenceAvailable = available
	return &resp, nil
}

func (s *submissionService) History(ctx context.Context, questionID uint) ([]dto.SubmissionResponse, error) {
	q, err := s.findQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	submissions, err := s.submissionRepo.FindByQuestionID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	available := q.Status == model.QuestionGenerated && grading.ReferenceSQL(q.AIAnswer) != ""
	resp := make([]dto.SubmissionResponse, len(submissions))
	for i := range submissions {
		resp[i] = toSubmissionResponse(&submissions[i])
		resp[i].ReferenceAvailable = available
	}
	return resp, nil
}

func (s *submissionService) Progress(ctx context.Context, uploadID uint) (*dto.ProgressResponse, error) {
	if _, err := s.uploadRepo.FindByID(ctx, uploadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("upload %d: %w", uploadID, ErrNotFound)
		}
		return nil, err
	}
	questions, err := s.questionRepo.FindByUploadID(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	latest, err := s.submissionRepo.LatestByQuestionIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProgressResponse{
		UploadID:  uploadID,
		Total:     len(questions),
		Questions: make([]dto.QuestionProgress, len(questions)),
	}
	for i, q := range questions {
		p := dto.QuestionProgress{QuestionID: q.ID, Position: q.Position, Status: dto.ProgressUnattempted}
		if sub, ok := latest[q.ID]; ok {
			p.Attempts = sub.AttemptCount
			if sub.IsCorrect {
				p.Status = dto.ProgressCorrect
			} else {
				p.Status = dto.ProgressIncorrect
			}
		}
		switch p.Status {
		case dto.ProgressCorrect:
			resp.Correct++
		case dto.ProgressIncorrect:
			resp.Incorrect++
		default:
			resp.Unattempted++
		}
		resp.Questions[i] = p
	}
	return resp, nil
}

func toSubmissionResponse(s *model.Submission) dto.SubmissionResponse {
	var resp dto.SubmissionResponse
	copier.Copy(&resp, s)
	return resp
}
