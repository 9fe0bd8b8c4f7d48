package service

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/vellalasercare/storefront-gateway/internal/app/model"
	"github.com/vellalasercare/storefront-gateway/internal/app/repository"
	"github.com/vellalasercare/storefront-gateway/pkg/storefront"
)

// fakeStorefront answers from fixed data and counts calls per endpoint.
type fakeStorefront struct {
	mu sync.Mutex

	shipping   map[string]storefront.Shipping
	profile    *storefront.Profile
	orderBody  string
	shipErr    error
	profileErr error
	orderErr   error

	// block, when set, holds calls until closed.
	block   chan struct{}
	pending atomic.Int32

	shippingCalls      atomic.Int32
	citiesCalls        atomic.Int32
	profileCalls       atomic.Int32
	guestOrders        []storefront.OrderPayload
	customerOrders     []storefront.OrderPayload
	customerOrderToken string
}

func newFakeStorefront() *fakeStorefront {
	return &fakeStorefront{
		shipping: map[string]storefront.Shipping{
			"c1": {Charge: 120, Days: 3},
			"c2": {Charge: 60, Days: 1},
		},
		orderBody: `{"order_id":"o-1","gateway_url":"https://pay.example/abc"}`,
	}
}

func (f *fakeStorefront) wait(ctx context.Context) error {
	if f.block == nil {
		return nil
	}
	f.pending.Add(1)
	defer f.pending.Add(-1)
	select {
	case <-f.block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeStorefront) GetShipping(ctx context.Context, city string) (*storefront.Shipping, error) {
	f.shippingCalls.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.shipErr != nil {
		return nil, f.shipErr
	}
	shipping, ok := f.shipping[city]
	if !ok {
		return nil, storefront.ErrNotFound
	}
	return &shipping, nil
}

func (f *fakeStorefront) GetCities(ctx context.Context) ([]storefront.City, error) {
	f.citiesCalls.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return []storefront.City{{ID: "c1", Name: "Dhaka"}, {ID: "c2", Name: "Sylhet"}}, nil
}

func (f *fakeStorefront) GetProfile(ctx context.Context, token string) (*storefront.Profile, error) {
	f.profileCalls.Add(1)
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if f.profile == nil {
		return nil, storefront.ErrNotFound
	}
	p := *f.profile
	return &p, nil
}

func (f *fakeStorefront) AddGuestOrder(ctx context.Context, payload storefront.OrderPayload) (*storefront.OrderResponse, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.guestOrders = append(f.guestOrders, payload)
	f.mu.Unlock()
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return &storefront.OrderResponse{Raw: json.RawMessage(f.orderBody)}, nil
}

func (f *fakeStorefront) AddCustomerOrder(ctx context.Context, token string, payload storefront.OrderPayload) (*storefront.OrderResponse, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.customerOrders = append(f.customerOrders, payload)
	f.customerOrderToken = token
	f.mu.Unlock()
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return &storefront.OrderResponse{Raw: json.RawMessage(f.orderBody)}, nil
}

func (f *fakeStorefront) orderCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.guestOrders) + len(f.customerOrders)
}

type recordingNotifier struct {
	mu        sync.Mutex
	snapshots map[string][]model.CartSnapshot
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{snapshots: make(map[string][]model.CartSnapshot)}
}

func (n *recordingNotifier) Publish(sessionID string, snapshot model.CartSnapshot) {
	n.mu.Lock()
	n.snapshots[sessionID] = append(n.snapshots[sessionID], snapshot)
	n.mu.Unlock()
}

func (n *recordingNotifier) count(sessionID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.snapshots[sessionID])
}

func newTestSessionStore() (*SessionStore, *recordingNotifier) {
	notifier := newRecordingNotifier()
	return NewSessionStore(repository.NewMemorySessionRepository(), notifier), notifier
}

func lineItem(id string, price, discount int64, quantity int) model.LineItem {
	return model.LineItem{
		ProductID:      id,
		Name:           "Product " + id,
		Thumbnail:      id + ".jpg",
		Price:          price,
		DiscountAmount: discount,
		Quantity:       quantity,
	}
}
