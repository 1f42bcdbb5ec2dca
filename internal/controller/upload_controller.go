package controller

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/reansql/config"
	"github.com/lshigami/reansql/internal/dto"
	"github.com/lshigami/reansql/internal/middleware"
	"github.com/lshigami/reansql/internal/service"
	"github.com/rs/zerolog/log"
)

// multipartOverhead leaves room for form boundaries and headers.
const multipartOverhead = 1 << 20

type UploadController struct {
	uploadService     service.UploadService
	submissionService service.SubmissionService
	maxBytes          int64
	rateLimit         int
}

func NewUploadController(uploadService service.UploadService, submissionService service.SubmissionService, cfg *config.Config) *UploadController {
	return &UploadController{
		uploadService:     uploadService,
		submissionService: submissionService,
		maxBytes:          cfg.Upload.MaxBytes,
		rateLimit:         cfg.Upload.RateLimit,
	}
}

func (c *UploadController) RegisterRoutes(rg *gin.RouterGroup) {
	uploads := rg.Group("/uploads")
	if c.rateLimit > 0 {
		uploads.POST("", middleware.RateLimiter(c.rateLimit, time.Minute), c.CreateUpload)
	} else {
		uploads.POST("", c.CreateUpload)
	}
	uploads.GET("", c.ListUploads)
	uploads.GET("/:upload_id", c.GetUpload)
	uploads.GET("/:upload_id/progress", c.GetProgress)
}

// CreateUpload godoc
// @Summary Upload a question document
// @Description Extracts numbered SQL questions from a PDF or text file, generates answers and explanations, and stores them.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF or plain text document"
// @Param source_label formData string false "Label grouping the questions (defaults to the file name)"
// @Success 201 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse "Missing file"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 429 {object} dto.ErrorResponse "Too many uploads from this client"
// @Failure 422 {object} dto.ErrorResponse "Document could not be parsed or has no questions"
// @Failure 500 {object} dto.ErrorResponse "Storage failure"
// @Router /uploads [post]
func (c *UploadController) CreateUpload(ctx *gin.Context) {
	if c.maxBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxBytes+multipartOverhead)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.fileTooLarge(ctx)
			return
		}
		log.Warn().Err(err).Msg("CreateUpload: missing file")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    dto.CodeBadRequest,
			Message: "A document must be sent in the 'file' form field",
			Details: []string{err.Error()},
		})
		return
	}
	if c.maxBytes > 0 && fileHeader.Size > c.maxBytes {
		c.fileTooLarge(ctx)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(ctx, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respondError(ctx, err)
		return
	}

	resp, err := c.uploadService.ProcessUpload(ctx.Request.Context(), service.UploadInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		SourceLabel: ctx.PostForm("source_label"),
		Data:        data,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

func (c *UploadController) fileTooLarge(ctx *gin.Context) {
	ctx.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
		Code:    dto.CodeFileTooLarge,
		Message: "Uploaded file is too large",
	})
}

// ListUploads godoc
// @Summary List uploads
// @Tags uploads
// @Produce json
// @Success 200 {array} dto.UploadSummaryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /uploads [get]
func (c *UploadController) ListUploads(ctx *gin.Context) {
	uploads, err := c.uploadService.ListUploads(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, uploads)
}

// GetUpload godoc
// @Summary Get an upload with its questions
// @Tags uploads
// @Produce json
// @Param upload_id path int true "Upload ID"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /uploads/{upload_id} [get]
func (c *UploadController) GetUpload(ctx *gin.Context) {
	id, ok := parseID(ctx, "upload_id")
	if !ok {
		return
	}
	upload, err := c.uploadService.GetUpload(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, upload)
}

// GetProgress godoc
// @Summary Practice progress of an upload
// @Description Per question status derived from the latest submission.
// @Tags uploads
// @Produce json
// @Param upload_id path int true "Upload ID"
// @Success 200 {object} dto.ProgressResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /uploads/{upload_id}/progress [get]
func (c *UploadController) GetProgress(ctx *gin.Context) {
	id, ok := parseID(ctx, "upload_id")
	if !ok {
		return
	}
	progress, err := c.submissionService.Progress(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, progress)
}
