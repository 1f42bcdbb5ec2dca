package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/reansql/internal/dto"
	"github.com/lshigami/reansql/internal/service"
)

type HintController struct {
	hintService service.HintService
}

func NewHintController(hintService service.HintService) *HintController {
	return &HintController{hintService: hintService}
}

func (c *HintController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/hints", c.GetHint)
}

// GetHint godoc
// @Summary Ask the tutor for a hint
// @Tags hints
// @Accept json
// @Produce json
// @Param hint body dto.HintRequest true "Question and optional current SQL"
// @Success 200 {object} dto.HintResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse "Every API key failed"
// @Router /hints [post]
func (c *HintController) GetHint(ctx *gin.Context) {
	var req dto.HintRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    dto.CodeBadRequest,
			Message: "Invalid request body",
			Details: []string{err.Error()},
		})
		return
	}
	hint, err := c.hintService.GetHint(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, hint)
}
