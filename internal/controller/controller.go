package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/reansql/internal/dto"
	"github.com/lshigami/reansql/internal/pipeline"
	"github.com/lshigami/reansql/internal/service"
	"github.com/rs/zerolog/log"
)

// parseID reads a numeric path parameter, answering 400 when it is invalid.
func parseID(ctx *gin.Context, param string) (uint, bool) {
	raw := ctx.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    dto.CodeBadRequest,
			Message: "Invalid " + param + " format",
			Details: []string{raw},
		})
		return 0, false
	}
	return uint(id), true
}

// respondError maps service and pipeline errors onto HTTP responses.
func respondError(ctx *gin.Context, err error) {
	status, body := http.StatusInternalServerError, dto.ErrorResponse{Code: dto.CodeInternal, Message: "Internal server error"}

	switch {
	case errors.Is(err, service.ErrNotFound):
		status, body = http.StatusNotFound, dto.ErrorResponse{Code: dto.CodeNotFound, Message: "Resource not found"}
	case errors.Is(err, service.ErrInvalidInput):
		status, body = http.StatusBadRequest, dto.ErrorResponse{Code: dto.CodeBadRequest, Message: "Invalid request"}
	case errors.Is(err, service.ErrExtractionFailed):
		status, body = http.StatusUnprocessableEntity, dto.ErrorResponse{Code: dto.CodeExtractionFailed, Message: "failed to parse document"}
	case errors.Is(err, pipeline.ErrNoQuestionsFound):
		status, body = http.StatusUnprocessableEntity, dto.ErrorResponse{Code: dto.CodeNoQuestions, Message: "no questions found in document"}
	case errors.Is(err, pipeline.ErrStorage):
		status, body = http.StatusInternalServerError, dto.ErrorResponse{Code: dto.CodeStorageFailure, Message: "failed to store questions"}
	case errors.Is(err, service.ErrAIUnavailable):
		status, body = http.StatusServiceUnavailable, dto.ErrorResponse{Code: dto.CodeAIUnavailable, Message: "AI service is unavailable, try again later"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, body = http.StatusServiceUnavailable, dto.ErrorResponse{Code: dto.CodeInternal, Message: "Request was cancelled"}
	}
	body.Details = []string{err.Error()}

	evt := log.Warn()
	if status >= http.StatusInternalServerError {
		evt = log.Error()
	}
	evt.Err(err).Int("status", status).Str("path", ctx.FullPath()).Msg("Request failed")
	ctx.JSON(status, body)
}

// Health godoc
// @Summary Liveness check
// @Tags ops
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /healthz [get]
func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
