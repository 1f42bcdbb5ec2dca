package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/reansql/internal/dto"
	"github.com/lshigami/reansql/internal/model"
	"github.com/lshigami/reansql/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type QuestionService interface {
	GetQuestion(ctx context.Context, id uint) (*dto.QuestionResponse, error)
	// ListQuestions returns questions oldest first. An empty sourceLabel
	// lists every question.
	ListQuestions(ctx context.Context, sourceLabel string) ([]dto.QuestionResponse, error)
}

type questionService struct {
	repo repository.QuestionRepository
}

func NewQuestionService(repo repository.QuestionRepository) QuestionService {
	return &questionService{repo: repo}
}

func (s *questionService) GetQuestion(ctx context.Context, id uint) (*dto.QuestionResponse, error) {
	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	var resp dto.QuestionResponse
	copier.Copy(&resp, question)
	return &resp, nil
}

func (s *questionService) ListQuestions(ctx context.Context, sourceLabel string) ([]dto.QuestionResponse, error) {
	var (
		questions []model.Question
		err       error
	)
	if sourceLabel != "" {
		questions, err = s.repo.FindBySourceLabel(ctx, sourceLabel)
	} else {
		questions, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		log.Error().Err(err).Str("source_label", sourceLabel).Msg("Failed to list questions")
		return nil, err
	}
	return toQuestionResponses(questions), nil
}

func toQuestionResponses(questions []model.Question) []dto.QuestionResponse {
	resp := make([]dto.QuestionResponse, len(questions))
	for i := range questions {
		copier.Copy(&resp[i], &questions[i])
	}
	return resp
}
