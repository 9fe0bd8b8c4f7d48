package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vellalasercare/storefront-gateway/internal/app/model"
)

func TestLookups_Shipping_Deduplicates(t *testing.T) {
	api := newFakeStorefront()
	api.block = make(chan struct{})
	lookups := NewLookups(api, time.Minute)

	const callers = 10
	results := make([]model.ShippingQuote, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			quote, err := lookups.Shipping(context.Background(), "c1")
			assert.NoError(t, err)
			results[i] = quote
		}(i)
	}

	require.Eventually(t, func() bool { return api.shippingCalls.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(api.block)
	wg.Wait()

	// Late callers may miss the in-flight call but then hit the cache
	assert.EqualValues(t, 1, api.shippingCalls.Load())
	for _, quote := range results {
		assert.Equal(t, int64(120), quote.Charge)
	}
}

func TestLookups_Shipping_CacheExpires(t *testing.T) {
	api := newFakeStorefront()
	lookups := NewLookups(api, time.Minute)
	now := time.Now()
	lookups.now = func() time.Time { return now }

	ctx := context.Background()
	_, err := lookups.Shipping(ctx, "c1")
	require.NoError(t, err)
	_, err = lookups.Shipping(ctx, "c1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, api.shippingCalls.Load())

	now = now.Add(2 * time.Minute)
	_, err = lookups.Shipping(ctx, "c1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, api.shippingCalls.Load())
}

func TestLookups_Shipping_EmptyCity(t *testing.T) {
	api := newFakeStorefront()
	lookups := NewLookups(api, time.Minute)

	quote, err := lookups.Shipping(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, quote.Charge)
	assert.Zero(t, api.shippingCalls.Load())
}

func TestLookups_Shipping_Cancelled(t *testing.T) {
	api := newFakeStorefront()
	api.block = make(chan struct{})
	defer close(api.block)
	lookups := NewLookups(api, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := lookups.Shipping(ctx, "c1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
