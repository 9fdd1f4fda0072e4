package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"logsieve/internal/dto"
	"logsieve/internal/model"
	"logsieve/internal/service"
)

type ParseController struct {
	parseService service.ParseService
}

func NewParseController(parseService service.ParseService) *ParseController {
	return &ParseController{
		parseService: parseService,
	}
}

func RegisterParseRoutes(router *gin.Engine, controller *ParseController) {
	v1 := router.Group("/api/v1/parse")
	{
		v1.POST("", controller.Parse)
	}
}

// Parse godoc
// @Summary      Parse log content
// @Description  Runs raw log text through the filter pipeline. The best chain is selected from content and the optional file path hint, or forced via the plugin field.
// @Tags         parse
// @Accept       json
// @Produce      json
// @Param        request  body      dto.ParseRequest  true  "Log content to parse"
// @Success      200      {object}  dto.ParseResponse "Structured parse result"
// @Failure      400      {object}  model.Response "Invalid request body"
// @Failure      422      {object}  model.Response "No chain could process the input"
// @Router       /api/v1/parse [post]
func (c *ParseController) Parse(ctx *gin.Context) {
	var req dto.ParseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body: content is required", nil))
		return
	}

	result, err := c.parseService.Parse(ctx.Request.Context(), req)
	if err != nil {
		log.Warn().Err(err).Str("plugin", req.Plugin).Msg("Parse request failed")
		ctx.JSON(http.StatusUnprocessableEntity, model.NewResponse(err.Error(), nil))
		return
	}

	ctx.JSON(http.StatusOK, result)
}
