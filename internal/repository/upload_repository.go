package repository

import (
	"context"

	"github.com/lshigami/reansql/internal/model"
	"gorm.io/gorm"
)

type UploadWithCount struct {
	model.Upload
	QuestionCount int
}

type UploadRepository interface {
	// SaveUpload creates the upload and all of its questions atomically.
	SaveUpload(ctx context.Context, upload *model.Upload) error
	FindByID(ctx context.Context, id uint) (*model.Upload, error)
	SetArchiveKey(ctx context.Context, id uint, key string) error
	FindByIDWithQuestions(ctx context.Context, id uint) (*model.Upload, error)
	FindAllWithQuestionCount(ctx context.Context) ([]UploadWithCount, error)
}

type uploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) SaveUpload(ctx context.Context, upload *model.Upload) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Questions are created through the association and get UploadID set.
		return tx.Create(upload).Error
	})
}

func (r *uploadRepository) FindByID(ctx context.Context, id uint) (*model.Upload, error) {
	var upload model.Upload
	if err := r.db.WithContext(ctx).First(&upload, id).Error; err != nil {
		return nil, err
	}
	return &upload, nil
}

func (r *uploadRepository) SetArchiveKey(ctx context.Context, id uint, key string) error {
	res := r.db.WithContext(ctx).Model(&model.Upload{}).Where("id = ?", id).Update("archive_key", key)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *uploadRepository) FindByIDWithQuestions(ctx context.Context, id uint) (*model.Upload, error) {
	var upload model.Upload
	err := r.db.WithContext(ctx).Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.position ASC")
	}).First(&upload, id).Error
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

func (r *uploadRepository) FindAllWithQuestionCount(ctx context.Context) ([]UploadWithCount, error) {
	var results []UploadWithCount
	err := r.db.WithContext(ctx).Model(&model.Upload{}).
		Select("uploads.*, (SELECT COUNT(*) FROM questions WHERE questions.upload_id = uploads.id AND questions.deleted_at IS NULL) as question_count").
		Where("uploads.deleted_at IS NULL").
		Order("uploads.created_at DESC").
		Order("uploads.id DESC").
		Scan(&results).Error
	return results, err
}
