package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fundly/internal/models/request_models"
	"fundly/internal/services"
	"fundly/pkg/middleware"
	"fundly/pkg/utils"
)

type NotificationsController struct {
	notificationService services.NotificationServiceInterface
}

func NewNotificationsController(notificationService services.NotificationServiceInterface) *NotificationsController {
	return &NotificationsController{
		notificationService: notificationService,
	}
}

// UnsubscribeHandler toggles the caller's opt-out for one collective and one
// activity type or channel.
func (nc *NotificationsController) UnsubscribeHandler(c *gin.Context) {
	var req request_models.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid unsubscribe payload")
		return
	}

	err := nc.notificationService.Unsubscribe(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Unsubscribed")
}
