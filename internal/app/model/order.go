package model

import (
	"time"

	"github.com/vellalasercare/storefront-gateway/pkg/storefront"
)

const (
	soldFromCustomer = "customer"
	orderItemProduct = "product"
)

// CheckoutForm is the contact and delivery part of a cart, as validated
// before an order goes out.
type CheckoutForm struct {
	Name    string `json:"name" validate:"required,min=2,max=50"`
	Email   string `json:"email" validate:"required,mailbox"`
	Phone   string `json:"phone" validate:"required,min=10,phone_chars,phone_digits"`
	Address string `json:"address" validate:"required,min=10,max=200"`
	City    string `json:"city" validate:"required"`
	Postal  string `json:"postal" validate:"required,postal"`
}

func (c *Cart) CheckoutForm() CheckoutForm {
	return CheckoutForm{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
		City:    c.City,
		Postal:  c.Postal,
	}
}

// BuildOrderPayload renders the cart as the storefront order body.
// Tombstoned items are left out; total is sub_total plus shipping.
func BuildOrderPayload(cart *Cart, shipping int64) storefront.OrderPayload {
	visible := cart.VisibleItems()
	items := make([]storefront.OrderItem, 0, len(visible))
	for _, item := range visible {
		items = append(items, storefront.OrderItem{
			Product:        item.ProductID,
			Quantity:       item.Quantity,
			SellingPrice:   item.Price,
			DiscountAmount: item.DiscountAmount,
			Type:           orderItemProduct,
		})
	}

	subtotal := cart.Subtotal()
	return storefront.OrderPayload{
		Name:          cart.Name,
		City:          cart.City,
		Postal:        cart.Postal,
		Phone:         cart.Phone,
		Address:       cart.Address,
		Email:         cart.Email,
		SubTotal:      subtotal,
		Total:         subtotal + shipping,
		Shipping:      shipping,
		SoldFrom:      soldFromCustomer,
		PaymentMethod: string(cart.PaymentMethod),
		Items:         items,
	}
}

type SubmissionStatus string
type OrderEndpoint string

const (
	SubmissionSucceeded SubmissionStatus = "succeeded"
	SubmissionFailed    SubmissionStatus = "failed"

	EndpointGuest    OrderEndpoint = "guest"
	EndpointCustomer OrderEndpoint = "customer"
)

// OrderSubmission is one ledger row per order attempt, successful or not.
type OrderSubmission struct {
	ID             uint             `gorm:"primarykey" json:"id"`
	SessionID      string           `gorm:"type:varchar(36);not null;index" json:"session_id"`
	UserID         string           `gorm:"type:varchar(64);index" json:"user_id,omitempty"` // empty for guests
	Endpoint       OrderEndpoint    `gorm:"type:varchar(16);not null" json:"endpoint"`
	PaymentMethod  string           `gorm:"type:varchar(16)" json:"payment_method"`
	ItemCount      int              `gorm:"not null" json:"item_count"`
	SubTotal       int64            `gorm:"not null" json:"sub_total"`
	Shipping       int64            `gorm:"not null" json:"shipping"`
	Total          int64            `gorm:"not null" json:"total"`
	Status         SubmissionStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	UpstreamStatus int              `json:"upstream_status,omitempty"`
	ErrorMessage   string           `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

func (OrderSubmission) TableName() string {
	return "order_submissions"
}

// NewOrderSubmission records the payload side of an attempt; the outcome
// is filled in by Succeed or Fail.
func NewOrderSubmission(sessionID, userID string, endpoint OrderEndpoint, payload storefront.OrderPayload) *OrderSubmission {
	count := 0
	for _, item := range payload.Items {
		count += item.Quantity
	}
	return &OrderSubmission{
		SessionID:     sessionID,
		UserID:        userID,
		Endpoint:      endpoint,
		PaymentMethod: payload.PaymentMethod,
		ItemCount:     count,
		SubTotal:      payload.SubTotal,
		Shipping:      payload.Shipping,
		Total:         payload.Total,
	}
}

func (s *OrderSubmission) Succeed() {
	s.Status = SubmissionSucceeded
}

func (s *OrderSubmission) Fail(upstreamStatus int, message string) {
	s.Status = SubmissionFailed
	s.UpstreamStatus = upstreamStatus
	s.ErrorMessage = message
}
