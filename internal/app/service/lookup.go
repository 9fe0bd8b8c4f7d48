package service

import (
	"context"
	"sync"
	"time"

	"github.com/vellalasercare/storefront-gateway/internal/app/model"
	"github.com/vellalasercare/storefront-gateway/pkg/logger"
	"github.com/vellalasercare/storefront-gateway/pkg/storefront"
	"golang.org/x/sync/singleflight"
)

// StorefrontAPI is the remote storefront as the services use it.
type StorefrontAPI interface {
	GetShipping(ctx context.Context, city string) (*storefront.Shipping, error)
	GetCities(ctx context.Context) ([]storefront.City, error)
	GetProfile(ctx context.Context, token string) (*storefront.Profile, error)
	AddGuestOrder(ctx context.Context, payload storefront.OrderPayload) (*storefront.OrderResponse, error)
	AddCustomerOrder(ctx context.Context, token string, payload storefront.OrderPayload) (*storefront.OrderResponse, error)
}

const citiesKey = "\x00cities"

type cachedShipping struct {
	quote   model.ShippingQuote
	expires time.Time
}

// Lookups resolves shipping quotes, city lists and profiles. Concurrent
// requests for the same key share one upstream call; shipping quotes are
// cached per city for ttl.
type Lookups struct {
	api   StorefrontAPI
	ttl   time.Duration
	group singleflight.Group
	now   func() time.Time

	mu    sync.Mutex
	cache map[string]cachedShipping
}

func NewLookups(api StorefrontAPI, ttl time.Duration) *Lookups {
	return &Lookups{
		api:   api,
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[string]cachedShipping),
	}
}

// Shipping returns the quote for city. An empty city resolves to a zero quote
// without a network call.
func (l *Lookups) Shipping(ctx context.Context, city string) (model.ShippingQuote, error) {
	if city == "" {
		return model.ShippingQuote{}, nil
	}
	if quote, ok := l.cached(city); ok {
		return quote, nil
	}

	ch := l.group.DoChan(city, func() (interface{}, error) {
		// The call is shared and must not inherit one waiter's cancellation.
		shipping, err := l.api.GetShipping(context.WithoutCancel(ctx), city)
		if err != nil {
			return nil, err
		}
		quote := model.ShippingQuote{City: city, Charge: shipping.Charge, Days: shipping.Days}
		l.store(quote)
		return quote, nil
	})

	select {
	case <-ctx.Done():
		return model.ShippingQuote{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return model.ShippingQuote{}, res.Err
		}
		logger.Debug("Shipping quote resolved", logger.Fields{
			"city":   city,
			"shared": res.Shared,
		})
		return res.Val.(model.ShippingQuote), nil
	}
}

func (l *Lookups) cached(city string) (model.ShippingQuote, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.cache[city]
	if !ok || l.now().After(entry.expires) {
		return model.ShippingQuote{}, false
	}
	return entry.quote, true
}

func (l *Lookups) store(quote model.ShippingQuote) {
	if l.ttl <= 0 {
		return
	}
	l.mu.Lock()
	l.cache[quote.City] = cachedShipping{quote: quote, expires: l.now().Add(l.ttl)}
	l.mu.Unlock()
}

func (l *Lookups) Cities(ctx context.Context) ([]storefront.City, error) {
	v, err, _ := l.group.Do(citiesKey, func() (interface{}, error) {
		return l.api.GetCities(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.([]storefront.City), nil
}

func (l *Lookups) Profile(ctx context.Context, token string) (*storefront.Profile, error) {
	return l.api.GetProfile(ctx, token)
}
