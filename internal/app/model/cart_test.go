package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItem(id string, price, discount int64, quantity int) LineItem {
	return LineItem{
		ProductID:      id,
		Name:           "Product " + id,
		Thumbnail:      id + ".jpg",
		Price:          price,
		DiscountAmount: discount,
		Quantity:       quantity,
	}
}

func TestNewCart_Defaults(t *testing.T) {
	cart := NewCart()

	assert.Empty(t, cart.Items)
	assert.Equal(t, PaymentMethodOnline, cart.PaymentMethod)
	assert.False(t, cart.IsOpen)
	assert.True(t, cart.IsEmpty())
}

func TestCart_AddOrReplaceItem(t *testing.T) {
	cart := NewCart()
	cart.AddOrReplaceItem(sampleItem("a", 100, 10, 1))
	cart.AddOrReplaceItem(sampleItem("b", 200, 0, 1))

	// Re-adding a product replaces its entry and moves it to the end
	cart.AddOrReplaceItem(sampleItem("a", 100, 10, 5))

	require.Len(t, cart.Items, 2)
	assert.Equal(t, "b", cart.Items[0].ProductID)
	assert.Equal(t, "a", cart.Items[1].ProductID)
	assert.Equal(t, 5, cart.Items[1].Quantity)
}

func TestCart_AddOrReplaceItem_UniqueProductIDs(t *testing.T) {
	cart := NewCart()
	for i := 0; i < 5; i++ {
		cart.AddOrReplaceItem(sampleItem("a", 100, 0, i+1))
		cart.AddOrReplaceItem(sampleItem("b", 50, 0, 1))
	}

	seen := map[string]int{}
	for _, item := range cart.Items {
		seen[item.ProductID]++
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, seen)
}

func TestCart_SetQuantity(t *testing.T) {
	cart := NewCart()
	cart.AddOrReplaceItem(sampleItem("a", 100, 0, 1))

	assert.True(t, cart.SetQuantity(0, 3))
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// Below one is a no-op
	assert.False(t, cart.SetQuantity(0, 0))
	assert.False(t, cart.SetQuantity(0, -2))
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// Out of range is ignored
	assert.False(t, cart.SetQuantity(4, 2))
	assert.False(t, cart.SetQuantity(-1, 2))
}

func TestCart_RemoveItem_KeepsIndices(t *testing.T) {
	cart := NewCart()
	cart.AddOrReplaceItem(sampleItem("a", 100, 0, 1))
	cart.AddOrReplaceItem(sampleItem("b", 200, 0, 2))
	cart.AddOrReplaceItem(sampleItem("c", 300, 0, 3))

	require.True(t, cart.RemoveItem(1))

	assert.Len(t, cart.Items, 3)
	assert.Equal(t, 0, cart.Items[1].Quantity)
	assert.Equal(t, "c", cart.Items[2].ProductID)

	// Index 2 still addresses the same product
	require.True(t, cart.SetQuantity(2, 4))
	assert.Equal(t, "c", cart.Items[2].ProductID)
	assert.Equal(t, 4, cart.Items[2].Quantity)

	visible := cart.VisibleItems()
	require.Len(t, visible, 2)
	assert.Equal(t, "a", visible[0].ProductID)
	assert.Equal(t, "c", visible[1].ProductID)

	assert.False(t, cart.RemoveItem(9))
}

func TestCart_Totals(t *testing.T) {
	cart := NewCart()
	cart.AddOrReplaceItem(sampleItem("a", 450, 50, 2))
	cart.AddOrReplaceItem(sampleItem("b", 300, 0, 1))
	cart.AddOrReplaceItem(sampleItem("c", 1000, 100, 3))
	cart.RemoveItem(2)

	assert.Equal(t, int64(1200), cart.Subtotal())
	assert.Equal(t, int64(100), cart.TotalDiscount())
	assert.Equal(t, 3, cart.TotalItemCount())
	assert.False(t, cart.IsEmpty())
}

func TestCart_IsEmpty_AllTombstoned(t *testing.T) {
	cart := NewCart()
	cart.AddOrReplaceItem(sampleItem("a", 100, 0, 1))
	cart.RemoveItem(0)

	assert.Len(t, cart.Items, 1)
	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.Subtotal())
	assert.Zero(t, cart.TotalItemCount())
}

func TestCart_Apply(t *testing.T) {
	cart := NewCart()

	updates := []FieldUpdate{
		SetName{Value: "Rina Akter"},
		SetEmail{Value: "rina@example.com"},
		SetPhone{Value: "+880 1700-000000"},
		SetAddress{Value: "House 12, Road 5, Dhanmondi"},
		SetCity{Value: "c1"},
		SetPostal{Value: "1209"},
		SetPaymentMethod{Value: PaymentMethodOffline},
	}
	for _, u := range updates {
		cart.Apply(u)
	}

	assert.Equal(t, "Rina Akter", cart.Name)
	assert.Equal(t, "rina@example.com", cart.Email)
	assert.Equal(t, "+880 1700-000000", cart.Phone)
	assert.Equal(t, "House 12, Road 5, Dhanmondi", cart.Address)
	assert.Equal(t, "c1", cart.City)
	assert.Equal(t, "1209", cart.Postal)
	assert.Equal(t, PaymentMethodOffline, cart.PaymentMethod)
}

func TestParseFieldUpdate(t *testing.T) {
	tests := []struct {
		field  string
		value  string
		want   FieldUpdate
		wantOK bool
	}{
		{"name", "Rina", SetName{Value: "Rina"}, true},
		{"postal", "1209", SetPostal{Value: "1209"}, true},
		{"payment_method", "offline", SetPaymentMethod{Value: PaymentMethodOffline}, true},
		{"payment_method", "crypto", nil, false},
		{"nickname", "x", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			got, ok := ParseFieldUpdate(tt.field, tt.value)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCart_Reset(t *testing.T) {
	cart := NewCart()
	cart.AddOrReplaceItem(sampleItem("a", 100, 0, 1))
	cart.AddOrReplaceItem(sampleItem("b", 250, 20, 3))
	for _, u := range []FieldUpdate{
		SetName{Value: "Rina"},
		SetEmail{Value: "rina@example.com"},
		SetPhone{Value: "01712345678"},
		SetAddress{Value: "House 12, Road 5"},
		SetCity{Value: "c1"},
		SetPostal{Value: "1205"},
		SetPaymentMethod{Value: PaymentMethodOffline},
	} {
		cart.Apply(u)
	}
	cart.ToggleOpen()
	cart.ToggleAsProfile()

	cart.Reset()

	assert.Empty(t, cart.Items)
	assert.Empty(t, cart.VisibleItems())
	assert.Zero(t, cart.TotalItemCount())
	assert.Zero(t, cart.Subtotal())
	assert.Empty(t, cart.Name)
	assert.Empty(t, cart.Email)
	assert.Empty(t, cart.Phone)
	assert.Empty(t, cart.Address)
	assert.Empty(t, cart.City)
	assert.Empty(t, cart.Postal)
	assert.Equal(t, PaymentMethodUnset, cart.PaymentMethod)
	assert.False(t, cart.IsOpen)
	assert.False(t, cart.AsProfile)
	assert.True(t, cart.IsEmpty())
}

func TestCart_Reset_AfterRemove(t *testing.T) {
	cart := NewCart()
	cart.AddOrReplaceItem(sampleItem("a", 100, 0, 1))
	cart.AddOrReplaceItem(sampleItem("b", 200, 0, 2))
	require.True(t, cart.RemoveItem(0))

	// the removed entry is kept as a zero-quantity tombstone
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 2, cart.TotalItemCount())

	cart.Reset()

	assert.Empty(t, cart.Items)
	assert.Empty(t, cart.VisibleItems())
	assert.Zero(t, cart.TotalItemCount())
	assert.Zero(t, cart.TotalDiscount())
	assert.True(t, cart.IsEmpty())

	snap := cart.Snapshot()
	assert.Empty(t, snap.VisibleItems)
	assert.Zero(t, snap.TotalItemCount)
	assert.True(t, snap.IsEmpty)
}

func TestCart_Snapshot_IsDetached(t *testing.T) {
	cart := NewCart()
	cart.AddOrReplaceItem(sampleItem("a", 100, 10, 2))

	snap := cart.Snapshot()
	cart.SetQuantity(0, 9)

	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, int64(200), snap.Subtotal)
	assert.Equal(t, int64(20), snap.TotalDiscount)
	assert.Equal(t, 2, snap.TotalItemCount)
	assert.False(t, snap.IsEmpty)
}
