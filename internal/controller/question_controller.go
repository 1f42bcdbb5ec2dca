package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/reansql/internal/dto"
	"github.com/lshigami/reansql/internal/service"
	"github.com/rs/zerolog/log"
)

type QuestionController struct {
	questionService   service.QuestionService
	submissionService service.SubmissionService
}

func NewQuestionController(questionService service.QuestionService, submissionService service.SubmissionService) *QuestionController {
	return &QuestionController{questionService: questionService, submissionService: submissionService}
}

func (c *QuestionController) RegisterRoutes(rg *gin.RouterGroup) {
	questions := rg.Group("/questions")
	questions.GET("", c.ListQuestions)
	questions.GET("/:question_id", c.GetQuestion)
	questions.POST("/:question_id/submissions", c.SubmitAnswer)
	questions.GET("/:question_id/submissions", c.ListSubmissions)
}

// ListQuestions godoc
// @Summary List questions
// @Description Questions ordered by creation time, optionally filtered by source label.
// @Tags questions
// @Produce json
// @Param source_label query string false "Source label of the upload"
// @Success 200 {array} dto.QuestionResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	questions, err := c.questionService.ListQuestions(ctx.Request.Context(), ctx.Query("source_label"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// GetQuestion godoc
// @Summary Get a question
// @Tags questions
// @Produce json
// @Param question_id path int true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{question_id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	id, ok := parseID(ctx, "question_id")
	if !ok {
		return
	}
	question, err := c.questionService.GetQuestion(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, question)
}

// SubmitAnswer godoc
// @Summary Grade a submitted query
// @Description Compares the submission with the reference query after normalizing whitespace, quotes, semicolons and case, then stores it.
// @Tags submissions
// @Accept json
// @Produce json
// @Param question_id path int true "Question ID"
// @Param submission body dto.SubmitAnswerRequest true "Submitted SQL"
// @Success 201 {object} dto.SubmissionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{question_id}/submissions [post]
func (c *QuestionController) SubmitAnswer(ctx *gin.Context) {
	id, ok := parseID(ctx, "question_id")
	if !ok {
		return
	}
	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAnswer: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    dto.CodeBadRequest,
			Message: "Invalid request body",
			Details: []string{err.Error()},
		})
		return
	}
	submission, err := c.submissionService.Submit(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, submission)
}

// ListSubmissions godoc
// @Summary Submission history of a question
// @Tags submissions
// @Produce json
// @Param question_id path int true "Question ID"
// @Success 200 {array} dto.SubmissionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{question_id}/submissions [get]
func (c *QuestionController) ListSubmissions(ctx *gin.Context) {
	id, ok := parseID(ctx, "question_id")
	if !ok {
		return
	}
	history, err := c.submissionService.History(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, history)
}
