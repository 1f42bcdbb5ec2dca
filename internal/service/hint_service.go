package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lshigami/reansql/internal/dto"
	"github.com/lshigami/reansql/internal/llm"
	"github.com/rs/zerolog/log"
)

const maxHintSQL = 200

type HintService interface {
	GetHint(ctx context.Context, req dto.HintRequest) (*dto.HintResponse, error)
}

type hintService struct {
	gen       llm.Generator
	questions QuestionService
}

func NewHintService(gen llm.Generator, questions QuestionService) HintService {
	return &hintService{gen: gen, questions: questions}
}

func (s *hintService) GetHint(ctx context.Context, req dto.HintRequest) (*dto.HintResponse, error) {
	questionText := req.QuestionText
	if req.QuestionID != nil {
		q, err := s.questions.GetQuestion(ctx, *req.QuestionID)
		if err != nil {
			return nil, err
		}
		questionText = q.QuestionText
	}
	if strings.TrimSpace(questionText) == "" {
		return nil, fmt.Errorf("%w: question_id or question_text is required", ErrInvalidInput)
	}

	hint, err := s.gen.Generate(ctx, HintPrompt(questionText, req.UserSQL))
	if err != nil {
		log.Error().Err(err).Msg("Hint generation failed")
		return nil, fmt.Errorf("%w: %w", ErrAIUnavailable, err)
	}
	return &dto.HintResponse{Hint: strings.TrimSpace(hint)}, nil
}

// HintPrompt builds the tutoring prompt. The user's SQL is cut to its first
// 200 characters.
func HintPrompt(questionText, userSQL string) string {
	prompt := "You are an SQL tutor. Give a concise, helpful hint for this SQL question :\n\"" + questionText + "\""
	if sql := []rune(strings.TrimSpace(userSQL)); len(sql) > 0 {
		if len(sql) > maxHintSQL {
			sql = sql[:maxHintSQL]
		}
		prompt += "\nUser's attempt (truncated): " + string(sql)
	}
	return prompt
}
