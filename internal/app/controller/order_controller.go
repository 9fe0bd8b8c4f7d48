package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vellalasercare/storefront-gateway/internal/app/service"
	apperrors "github.com/vellalasercare/storefront-gateway/internal/errors"
	"github.com/vellalasercare/storefront-gateway/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// GetSubmissions returns the user's order attempts, newest first
// GET /api/v1/orders/submissions
func (ctrl *OrderController) GetSubmissions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized access to order submissions", nil)
		apperrors.Unauthorized(c, "")
		return
	}

	submissions, err := ctrl.orderService.ListSubmissions(userID)
	if err != nil {
		log.Error("Failed to fetch order submissions", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"count":       len(submissions),
	})
}

// GetSessionSubmissions returns the guest order attempts of the cart session
// GET /api/v1/checkout/submissions
func (ctrl *OrderController) GetSessionSubmissions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID := middleware.GetSessionID(c)

	submissions, err := ctrl.orderService.ListGuestSubmissions(sessionID)
	if err != nil {
		log.Error("Failed to fetch session submissions", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.InternalError(c, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"count":       len(submissions),
	})
}
