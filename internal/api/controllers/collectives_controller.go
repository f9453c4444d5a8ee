package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"fundly/internal/services"
	"fundly/pkg/utils"
)

type CollectivesController struct {
	collectiveService services.CollectiveServiceInterface
}

func NewCollectivesController(collectiveService services.CollectiveServiceInterface) *CollectivesController {
	return &CollectivesController{
		collectiveService: collectiveService,
	}
}

func (cc *CollectivesController) GetCollectiveHandler(c *gin.Context) {
	collective, err := cc.collectiveService.GetCollective(c.Request.Context(), c.Param("slug"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, collective, "Fetched collective successfully")
}

func (cc *CollectivesController) ListActivitiesHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	activities, err := cc.collectiveService.ListActivities(c.Request.Context(), c.Param("slug"), limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, activities, "Fetched activities successfully")
}
