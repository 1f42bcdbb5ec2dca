package repository

import (
	"context"

	"github.com/lshigami/reansql/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Question, error)
	FindAll(ctx context.Context) ([]model.Question, error)
	FindBySourceLabel(ctx context.Context, sourceLabel string) ([]model.Question, error)
	FindByUploadID(ctx context.Context, uploadID uint) ([]model.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// FindAll lists questions oldest first, in upload order.
func (r *questionRepository) FindAll(ctx context.Context) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").Order("upload_id ASC").Order("position ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindBySourceLabel(ctx context.Context, sourceLabel string) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.WithContext(ctx).Where("source_label = ?", sourceLabel).
		Order("created_at ASC").Order("upload_id ASC").Order("position ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindByUploadID(ctx context.Context, uploadID uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.WithContext(ctx).Where("upload_id = ?", uploadID).
		Order("position ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}
