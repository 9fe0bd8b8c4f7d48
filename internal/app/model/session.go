package model

import "time"

// ShippingQuote caches the delivery charge for the city it was looked up for.
type ShippingQuote struct {
	City   string `json:"city"`
	Charge int64  `json:"charge"`
	Days   int    `json:"days"`
}

// Matches reports whether the quote still belongs to city.
func (q ShippingQuote) Matches(city string) bool {
	return q.City == city
}

// Session is everything the gateway keeps for one visitor.
type Session struct {
	ID        string        `json:"id"`
	Cart      *Cart         `json:"cart"`
	Flow      *CheckoutFlow `json:"flow"`
	Shipping  ShippingQuote `json:"shipping"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Cart:      NewCart(),
		Flow:      NewCheckoutFlow(),
		UpdatedAt: time.Now(),
	}
}

// ShippingCharge is the cached charge when it matches the cart's city, else 0.
func (s *Session) ShippingCharge() int64 {
	if s.Cart.City == "" || !s.Shipping.Matches(s.Cart.City) {
		return 0
	}
	return s.Shipping.Charge
}

func (s *Session) Touch() {
	s.UpdatedAt = time.Now()
}

// CheckoutQuote is what the checkout panel shows next to the cart.
type CheckoutQuote struct {
	Subtotal      int64 `json:"subtotal"`
	TotalDiscount int64 `json:"total_discount"`
	Shipping      int64 `json:"shipping"`
	DeliveryDays  int   `json:"delivery_days"`
	Total         int64 `json:"total"`
}

func (s *Session) Quote() CheckoutQuote {
	shipping := s.ShippingCharge()
	days := 0
	if s.Cart.City != "" && s.Shipping.Matches(s.Cart.City) {
		days = s.Shipping.Days
	}
	return CheckoutQuote{
		Subtotal:      s.Cart.Subtotal(),
		TotalDiscount: s.Cart.TotalDiscount(),
		Shipping:      shipping,
		DeliveryDays:  days,
		Total:         s.Cart.Subtotal() + shipping,
	}
}
