package model

type PaymentMethod string

const (
	PaymentMethodUnset   PaymentMethod = ""
	PaymentMethodOnline  PaymentMethod = "online"  // SSL gateway
	PaymentMethodOffline PaymentMethod = "offline" // cash on delivery
)

// ParsePaymentMethod accepts only the two selectable methods.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PaymentMethodOnline, PaymentMethodOffline:
		return PaymentMethod(s), true
	}
	return PaymentMethodUnset, false
}

// LineItem is one product entry of a cart. Quantity 0 marks a removed entry
// that keeps its slot so indices stay stable.
type LineItem struct {
	ProductID        string `json:"product_id"`
	Name             string `json:"name"`
	ShortDescription string `json:"short_description,omitempty"`
	Thumbnail        string `json:"thumbnail"`
	Price            int64  `json:"price"`
	DiscountAmount   int64  `json:"discount_amount"`
	Quantity         int    `json:"quantity"`
}

// Cart holds line items plus contact, delivery and payment fields.
// Totals are never stored; see Subtotal, TotalDiscount and TotalItemCount.
type Cart struct {
	Items         []LineItem    `json:"items"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	City          string        `json:"city"`
	Postal        string        `json:"postal"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	IsOpen        bool          `json:"is_open"`
	AsProfile     bool          `json:"as_profile"`
}

func NewCart() *Cart {
	return &Cart{
		Items:         []LineItem{},
		PaymentMethod: PaymentMethodOnline,
	}
}

// AddOrReplaceItem drops any entry with the same product id and appends item.
func (c *Cart) AddOrReplaceItem(item LineItem) {
	kept := c.Items[:0]
	for _, existing := range c.Items {
		if existing.ProductID != item.ProductID {
			kept = append(kept, existing)
		}
	}
	c.Items = append(kept, item)
}

// SetQuantity overwrites the quantity at index. Quantities below 1 and
// indices out of range are ignored; removal goes through RemoveItem.
func (c *Cart) SetQuantity(index, quantity int) bool {
	if quantity < 1 || index < 0 || index >= len(c.Items) {
		return false
	}
	c.Items[index].Quantity = quantity
	return true
}

// RemoveItem zeroes the quantity at index without splicing the slice.
func (c *Cart) RemoveItem(index int) bool {
	if index < 0 || index >= len(c.Items) {
		return false
	}
	c.Items[index].Quantity = 0
	return true
}

// Apply routes a field update to its setter.
func (c *Cart) Apply(update FieldUpdate) {
	update.apply(c)
}

// Reset clears items, contact and delivery fields. The payment method is
// left unset rather than restored to online.
func (c *Cart) Reset() {
	c.Items = []LineItem{}
	c.Name = ""
	c.Email = ""
	c.Phone = ""
	c.Address = ""
	c.City = ""
	c.Postal = ""
	c.PaymentMethod = PaymentMethodUnset
	c.IsOpen = false
	c.AsProfile = false
}

func (c *Cart) ToggleOpen() {
	c.IsOpen = !c.IsOpen
}

func (c *Cart) ToggleAsProfile() {
	c.AsProfile = !c.AsProfile
}

// VisibleItems returns the entries with a positive quantity.
func (c *Cart) VisibleItems() []LineItem {
	visible := make([]LineItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.Quantity > 0 {
			visible = append(visible, item)
		}
	}
	return visible
}

func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, item := range c.VisibleItems() {
		sum += item.Price * int64(item.Quantity)
	}
	return sum
}

func (c *Cart) TotalDiscount() int64 {
	var sum int64
	for _, item := range c.VisibleItems() {
		sum += item.DiscountAmount * int64(item.Quantity)
	}
	return sum
}

func (c *Cart) TotalItemCount() int {
	var sum int
	for _, item := range c.VisibleItems() {
		sum += item.Quantity
	}
	return sum
}

func (c *Cart) IsEmpty() bool {
	return len(c.VisibleItems()) == 0
}

// CartSnapshot is the rendered view of a cart.
type CartSnapshot struct {
	Cart
	VisibleItems   []LineItem `json:"visible_items"`
	Subtotal       int64      `json:"subtotal"`
	TotalDiscount  int64      `json:"total_discount"`
	TotalItemCount int        `json:"total_item_count"`
	IsEmpty        bool       `json:"is_empty"`
}

func (c *Cart) Snapshot() CartSnapshot {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	cp := *c
	cp.Items = items

	return CartSnapshot{
		Cart:           cp,
		VisibleItems:   c.VisibleItems(),
		Subtotal:       c.Subtotal(),
		TotalDiscount:  c.TotalDiscount(),
		TotalItemCount: c.TotalItemCount(),
		IsEmpty:        c.IsEmpty(),
	}
}
