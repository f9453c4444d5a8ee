package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fundly/internal/models/request_models"
	"fundly/internal/services"
	"fundly/pkg/middleware"
	"fundly/pkg/utils"
)

type OrdersController struct {
	orderService services.OrderServiceInterface
}

func NewOrdersController(orderService services.OrderServiceInterface) *OrdersController {
	return &OrdersController{
		orderService: orderService,
	}
}

// CreateOrderHandler accepts a contribution request and drives it through
// the fulfillment pipeline.
func (oc *OrdersController) CreateOrderHandler(c *gin.Context) {
	var req request_models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid order payload")
		return
	}

	if slug := c.Param("slug"); slug != "" && req.CollectiveID == nil {
		req.CollectiveSlug = slug
	}

	order, err := oc.orderService.CreateOrder(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, order, "Order processed")
}
