package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vellalasercare/storefront-gateway/internal/app/model"
	"github.com/vellalasercare/storefront-gateway/internal/app/service"
	apperrors "github.com/vellalasercare/storefront-gateway/internal/errors"
	"github.com/vellalasercare/storefront-gateway/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
	orderService    service.OrderService
}

func NewCheckoutController(checkoutService service.CheckoutService, orderService service.OrderService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

type TransitionRequest struct {
	Action string `json:"action" binding:"required"`
}

type SubmitOrderRequest struct {
	TermsAccepted bool `json:"terms_accepted"`
}

// GetCheckout returns the open panel and the current quote
// GET /api/v1/checkout
func (ctrl *CheckoutController) GetCheckout(c *gin.Context) {
	view, err := ctrl.checkoutService.GetFlow(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		apperrors.ParseAndRespond(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetQuote returns the order totals for the session's cart
// GET /api/v1/checkout/quote
func (ctrl *CheckoutController) GetQuote(c *gin.Context) {
	quote, err := ctrl.checkoutService.Quote(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		apperrors.ParseAndRespond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quote": quote,
	})
}

// Transition moves the checkout flow
// POST /api/v1/checkout/transitions
func (ctrl *CheckoutController) Transition(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid checkout action")
		return
	}

	action, ok := model.ParseFlowAction(req.Action)
	if !ok {
		log.Warn("Unknown checkout action", map[string]interface{}{
			"action": req.Action,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid checkout action")
		return
	}

	view, err := ctrl.checkoutService.Transition(c.Request.Context(), middleware.GetSessionID(c), middleware.GetIdentity(c), action)
	if err != nil {
		apperrors.ParseAndRespond(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetCities lists the cities the storefront delivers to
// GET /api/v1/checkout/cities
func (ctrl *CheckoutController) GetCities(c *gin.Context) {
	cities, err := ctrl.checkoutService.Cities(c.Request.Context())
	if err != nil {
		apperrors.ParseAndRespond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cities": cities,
		"count":  len(cities),
	})
}

// SubmitOrder places the order for the session's cart
// POST /api/v1/checkout/orders
func (ctrl *CheckoutController) SubmitOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid order request")
		return
	}

	result, err := ctrl.orderService.SubmitOrder(c.Request.Context(), middleware.GetSessionID(c), middleware.GetIdentity(c), req.TermsAccepted)
	if err != nil {
		apperrors.ParseAndRespond(c, err)
		return
	}

	log.Info("Order placed", map[string]interface{}{
		"redirect": result.Redirect,
	})

	c.JSON(http.StatusCreated, result)
}
