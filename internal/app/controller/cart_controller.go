package controller

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vellalasercare/storefront-gateway/internal/app/model"
	"github.com/vellalasercare/storefront-gateway/internal/app/service"
	apperrors "github.com/vellalasercare/storefront-gateway/internal/errors"
	"github.com/vellalasercare/storefront-gateway/internal/middleware"
	"github.com/vellalasercare/storefront-gateway/pkg/quote"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CartController struct {
	cartService     service.CartService
	checkoutService service.CheckoutService
}

func NewCartController(cartService service.CartService, checkoutService service.CheckoutService) *CartController {
	return &CartController{
		cartService:     cartService,
		checkoutService: checkoutService,
	}
}

type AddItemRequest struct {
	ProductID        string `json:"product_id" binding:"required"`
	Name             string `json:"name" binding:"required"`
	ShortDescription string `json:"short_description"`
	Thumbnail        string `json:"thumbnail"`
	Price            int64  `json:"price" binding:"gte=0"`
	DiscountAmount   int64  `json:"discount_amount" binding:"gte=0"`
	Quantity         int    `json:"quantity" binding:"required,gt=0"`
}

// Quantities below one are accepted and ignored by the service.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type UpdateFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// GetCart returns the session's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	snapshot, err := ctrl.cartService.GetCart(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		log.Error("Failed to fetch cart", err)
		apperrors.ParseAndRespond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": snapshot,
	})
}

// AddItem adds a product, replacing any entry for the same product
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add item request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid item")
		return
	}

	snapshot, err := ctrl.cartService.AddItem(c.Request.Context(), middleware.GetSessionID(c), model.LineItem{
		ProductID:        req.ProductID,
		Name:             req.Name,
		ShortDescription: req.ShortDescription,
		Thumbnail:        req.Thumbnail,
		Price:            req.Price,
		DiscountAmount:   req.DiscountAmount,
		Quantity:         req.Quantity,
	})
	if err != nil {
		apperrors.ParseAndRespond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": snapshot,
	})
}

// UpdateQuantity sets the quantity of the entry at :index
// PUT /api/v1/cart/items/:index
func (ctrl *CartController) UpdateQuantity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	index, ok := parseIndex(c)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid quantity request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid quantity")
		return
	}

	snapshot, err := ctrl.cartService.UpdateQuantity(c.Request.Context(), middleware.GetSessionID(c), index, req.Quantity)
	if err != nil {
		apperrors.ParseAndRespond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": snapshot,
	})
}

// RemoveItem hides the entry at :index
// DELETE /api/v1/cart/items/:index
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	index, ok := parseIndex(c)
	if !ok {
		return
	}

	snapshot, err := ctrl.cartService.RemoveItem(c.Request.Context(), middleware.GetSessionID(c), index)
	if err != nil {
		apperrors.ParseAndRespond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": snapshot,
	})
}

// UpdateField sets one contact, delivery or payment field
// PATCH /api/v1/cart/fields
func (ctrl *CartController) UpdateField(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid field update")
		return
	}

	// Unknown names and payment values are dropped; the cart comes back unchanged.
	update, ok := model.ParseFieldUpdate(req.Field, req.Value)
	if !ok {
		log.Debug("Ignoring unknown cart field", map[string]interface{}{
			"field": req.Field,
		})
		snapshot, err := ctrl.cartService.GetCart(c.Request.Context(), middleware.GetSessionID(c))
		if err != nil {
			apperrors.ParseAndRespond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"cart": snapshot,
		})
		return
	}

	snapshot, err := ctrl.cartService.UpdateField(c.Request.Context(), middleware.GetSessionID(c), middleware.GetIdentity(c), update)
	if err != nil {
		apperrors.ParseAndRespond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": snapshot,
	})
}

// ToggleOpen flips the cart panel
// POST /api/v1/cart/toggle
func (ctrl *CartController) ToggleOpen(c *gin.Context) {
	snapshot, err := ctrl.cartService.ToggleOpen(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		apperrors.ParseAndRespond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": snapshot,
	})
}

// ToggleAsProfile flips the use-profile-details flag
// POST /api/v1/cart/as-profile
func (ctrl *CartController) ToggleAsProfile(c *gin.Context) {
	snapshot, err := ctrl.cartService.ToggleAsProfile(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		apperrors.ParseAndRespond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": snapshot,
	})
}

// ResetCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ResetCart(c *gin.Context) {
	snapshot, err := ctrl.cartService.ResetCart(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		apperrors.ParseAndRespond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": snapshot,
	})
}

// ExportQuote downloads the priced cart as a spreadsheet
// GET /api/v1/cart/export
func (ctrl *CartController) ExportQuote(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID := middleware.GetSessionID(c)

	view, err := ctrl.checkoutService.GetFlow(c.Request.Context(), sessionID)
	if err != nil {
		apperrors.ParseAndRespond(c, err)
		return
	}
	if view.Cart.IsEmpty {
		apperrors.ParseAndRespond(c, service.ErrEmptyCart)
		return
	}

	q := quote.Quote{
		Subtotal:      view.Quote.Subtotal,
		TotalDiscount: view.Quote.TotalDiscount,
		Shipping:      view.Quote.Shipping,
		Total:         view.Quote.Total,
		GeneratedAt:   time.Now(),
	}
	for _, item := range view.Cart.VisibleItems {
		q.Lines = append(q.Lines, quote.Line{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Discount:  item.DiscountAmount,
			Quantity:  item.Quantity,
		})
	}

	var buf bytes.Buffer
	if err := quote.Write(&buf, q); err != nil {
		log.Error("Failed to build quote workbook", err)
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Quote exported", map[string]interface{}{
		"lines": len(q.Lines),
		"total": q.Total,
	})

	c.Header("Content-Disposition", `attachment; filename="quote.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func parseIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid item index")
		return 0, false
	}
	return index, true
}
