package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"logsieve/internal/service"
)

type ChainController struct {
	parseService service.ParseService
}

func NewChainController(parseService service.ParseService) *ChainController {
	return &ChainController{
		parseService: parseService,
	}
}

func RegisterChainRoutes(router *gin.Engine, controller *ChainController) {
	v1 := router.Group("/api/v1/chains")
	{
		v1.GET("", controller.ListChains)
	}
}

// ListChains godoc
// @Summary      List processing chains
// @Description  Returns every registered chain with its filter order, enabled flag and whether it is the fallback.
// @Tags         chains
// @Produce      json
// @Success      200  {object}  dto.ChainListResponse "Registered chains"
// @Router       /api/v1/chains [get]
func (c *ChainController) ListChains(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.parseService.ListChains())
}
