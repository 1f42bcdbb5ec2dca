package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/lshigami/reansql/internal/archive"
	"github.com/lshigami/reansql/internal/document"
	"github.com/lshigami/reansql/internal/dto"
	"github.com/lshigami/reansql/internal/model"
	"github.com/lshigami/reansql/internal/pipeline"
	"github.com/lshigami/reansql/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type UploadInput struct {
	FileName    string
	ContentType string
	SourceLabel string
	Data        []byte
}

// PipelineRunner is satisfied by *pipeline.Orchestrator.
type PipelineRunner interface {
	Run(ctx context.Context, in pipeline.Input) (*pipeline.Result, error)
}

type UploadService interface {
	// ProcessUpload extracts, generates and stores the questions of one
	// document. It fails with ErrExtractionFailed, pipeline.ErrNoQuestionsFound
	// or pipeline.ErrStorage.
	ProcessUpload(ctx context.Context, in UploadInput) (*dto.UploadResponse, error)
	GetUpload(ctx context.Context, id uint) (*dto.UploadResponse, error)
	ListUploads(ctx context.Context) ([]dto.UploadSummaryResponse, error)
}

type uploadService struct {
	extractor document.Extractor
	archiver  archive.Archiver
	runner    PipelineRunner
	repo      repository.UploadRepository
}

func NewUploadService(extractor document.Extractor, archiver archive.Archiver, runner PipelineRunner, repo repository.UploadRepository) UploadService {
	return &uploadService{extractor: extractor, archiver: archiver, runner: runner, repo: repo}
}

func (s *uploadService) ProcessUpload(ctx context.Context, in UploadInput) (*dto.UploadResponse, error) {
	label := strings.TrimSpace(in.SourceLabel)
	if label == "" {
		label = DefaultSourceLabel(in.FileName)
	}
	logger := log.With().Str("source_label", label).Str("file", in.FileName).Logger()

	text, err := s.extractor.ExtractText(in.FileName, in.ContentType, in.Data)
	if err != nil {
		logger.Warn().Err(err).Msg("Document extraction failed")
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	res, err := s.runner.Run(ctx, pipeline.Input{
		SourceLabel: label,
		FileName:    in.FileName,
		Text:        text,
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrNoQuestionsFound) {
			logger.Info().Msg("No numbered questions found in document")
		}
		return nil, err
	}

	// Rejected documents are never archived.
	s.archive(ctx, res.Upload, in)

	var resp dto.UploadResponse
	copier.Copy(&resp, res.Upload)
	resp.Questions = toQuestionResponses(res.Upload.Questions)
	return &resp, nil
}

func (s *uploadService) archive(ctx context.Context, upload *model.Upload, in UploadInput) {
	logger := log.With().Uint("upload_id", upload.ID).Str("file", in.FileName).Logger()
	loc, err := s.archiver.Archive(ctx, archive.ObjectKey(upload.SourceLabel, in.FileName), in.Data, in.ContentType)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to archive raw document, continuing")
		return
	}
	if loc == "" {
		return
	}
	if err := s.repo.SetArchiveKey(ctx, upload.ID, loc); err != nil {
		logger.Warn().Err(err).Str("archive_key", loc).Msg("Failed to record archive key")
		return
	}
	upload.ArchiveKey = loc
}

func (s *uploadService) GetUpload(ctx context.Context, id uint) (*dto.UploadResponse, error) {
	upload, err := s.repo.FindByIDWithQuestions(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("upload %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	var resp dto.UploadResponse
	copier.Copy(&resp, upload)
	resp.Questions = toQuestionResponses(upload.Questions)
	return &resp, nil
}

func (s *uploadService) ListUploads(ctx context.Context) ([]dto.UploadSummaryResponse, error) {
	uploads, err := s.repo.FindAllWithQuestionCount(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list uploads")
		return nil, err
	}
	resp := make([]dto.UploadSummaryResponse, len(uploads))
	for i, u := range uploads {
		resp[i] = dto.UploadSummaryResponse{
			ID:            u.ID,
			SourceLabel:   u.SourceLabel,
			FileName:      u.FileName,
			Mode:          u.Mode,
			Summary:       u.Summary,
			QuestionCount: u.QuestionCount,
			CreatedAt:     u.CreatedAt,
		}
	}
	return resp, nil
}

// DefaultSourceLabel derives a label from the file name, or a random one when
// the name is unusable.
func DefaultSourceLabel(fileName string) string {
	base := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	base = strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if base == "" || base == "." || base == "/" {
		return "upload-" + uuid.NewString()[:8]
	}
	return base
}
