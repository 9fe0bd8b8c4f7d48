package storefront

import "encoding/json"

// Shipping is the delivery quote for one city.
type Shipping struct {
	Charge int64 `json:"charge"`
	Days   int   `json:"days"`
}

// City is one entry of the delivery city list.
type City struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Profile is the subset of the authenticated user record used for prefill.
type Profile struct {
	ID      string `json:"_id,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Postal  string `json:"postal"`
	City    string `json:"city"`
}

// OrderItem is one line of an order payload.
type OrderItem struct {
	Product        string `json:"product"`
	Quantity       int    `json:"quantity"`
	SellingPrice   int64  `json:"selling_price"`
	DiscountAmount int64  `json:"discount_amount"`
	Type           string `json:"type"`
}

// OrderPayload is the body accepted by both order endpoints.
type OrderPayload struct {
	Name          string      `json:"name"`
	City          string      `json:"city"`
	Postal        string      `json:"postal"`
	Phone         string      `json:"phone"`
	Address       string      `json:"address"`
	Email         string      `json:"email"`
	SubTotal      int64       `json:"sub_total"`
	Total         int64       `json:"total"`
	Shipping      int64       `json:"shipping"`
	SoldFrom      string      `json:"sold_from"`
	PaymentMethod string      `json:"payment_method"`
	Items         []OrderItem `json:"items"`
}

// OrderResponse is the storefront's confirmation or payment-init object, kept raw
// because its shape depends on the payment method.
type OrderResponse struct {
	Raw json.RawMessage
}

// MarshalJSON emits the raw upstream body unchanged.
func (r OrderResponse) MarshalJSON() ([]byte, error) {
	if len(r.Raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

// errorBody matches the storefront's error envelope.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
