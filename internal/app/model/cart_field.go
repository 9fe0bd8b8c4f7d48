package model

// FieldUpdate is a single contact, delivery or payment field assignment.
// The set of variants is closed: only types in this package implement it.
type FieldUpdate interface {
	apply(c *Cart)
	FieldName() string
}

type SetName struct{ Value string }
type SetEmail struct{ Value string }
type SetPhone struct{ Value string }
type SetAddress struct{ Value string }
type SetCity struct{ Value string }
type SetPostal struct{ Value string }
type SetPaymentMethod struct{ Value PaymentMethod }

func (u SetName) apply(c *Cart)          { c.Name = u.Value }
func (u SetEmail) apply(c *Cart)         { c.Email = u.Value }
func (u SetPhone) apply(c *Cart)         { c.Phone = u.Value }
func (u SetAddress) apply(c *Cart)       { c.Address = u.Value }
func (u SetCity) apply(c *Cart)          { c.City = u.Value }
func (u SetPostal) apply(c *Cart)        { c.Postal = u.Value }
func (u SetPaymentMethod) apply(c *Cart) { c.PaymentMethod = u.Value }

func (SetName) FieldName() string          { return "name" }
func (SetEmail) FieldName() string         { return "email" }
func (SetPhone) FieldName() string         { return "phone" }
func (SetAddress) FieldName() string       { return "address" }
func (SetCity) FieldName() string          { return "city" }
func (SetPostal) FieldName() string        { return "postal" }
func (SetPaymentMethod) FieldName() string { return "payment_method" }

// ParseFieldUpdate maps a wire field name to its update. ok is false for
// unknown names and for payment methods other than online/offline.
func ParseFieldUpdate(field, value string) (update FieldUpdate, ok bool) {
	switch field {
	case "name":
		return SetName{Value: value}, true
	case "email":
		return SetEmail{Value: value}, true
	case "phone":
		return SetPhone{Value: value}, true
	case "address":
		return SetAddress{Value: value}, true
	case "city":
		return SetCity{Value: value}, true
	case "postal":
		return SetPostal{Value: value}, true
	case "payment_method":
		method, valid := ParsePaymentMethod(value)
		if !valid {
			return nil, false
		}
		return SetPaymentMethod{Value: method}, true
	}
	return nil, false
}
