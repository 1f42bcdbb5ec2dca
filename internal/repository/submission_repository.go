package repository

import (
	"context"

	"github.com/lshigami/reansql/internal/model"
	"gorm.io/gorm"
)

type SubmissionRepository interface {
	// CreateNextAttempt stores the submission with AttemptCount set to the
	// number of earlier submissions for the same question plus one.
	CreateNextAttempt(ctx context.Context, submission *model.Submission) error
	FindByQuestionID(ctx context.Context, questionID uint) ([]model.Submission, error)
	// LatestByQuestionIDs maps each question to its most recent submission.
	LatestByQuestionIDs(ctx context.Context, questionIDs []uint) (map[uint]model.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) CreateNextAttempt(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prior int64
		if err := tx.Model(&model.Submission{}).
			Where("question_id = ?", submission.QuestionID).
			Count(&prior).Error; err != nil {
			return err
		}
		submission.AttemptCount = int(prior) + 1
		return tx.Omit("Question").Create(submission).Error
	})
}

func (r *submissionRepository) FindByQuestionID(ctx context.Context, questionID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	if err := r.db.WithContext(ctx).Where("question_id = ?", questionID).
		Order("attempt_count DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) LatestByQuestionIDs(ctx context.Context, questionIDs []uint) (map[uint]model.Submission, error) {
	latest := make(map[uint]model.Submission, len(questionIDs))
	if len(questionIDs) == 0 {
		return latest, nil
	}

	var submissions []model.Submission
	if err := r.db.WithContext(ctx).Where("question_id IN ?", questionIDs).
		Order("question_id ASC").Order("attempt_count DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	for _, s := range submissions {
		if _, seen := latest[s.QuestionID]; !seen {
			latest[s.QuestionID] = s
		}
	}
	return latest, nil
}
