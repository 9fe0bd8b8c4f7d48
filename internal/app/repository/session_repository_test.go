package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vellalasercare/storefront-gateway/internal/app/model"
)

func setupRedisSessionTest(t *testing.T) (SessionRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisSessionRepository(client, time.Hour), mr
}

func sampleSession(id string) *model.Session {
	session := model.NewSession(id)
	session.Cart.AddOrReplaceItem(model.LineItem{ProductID: "p1", Name: "Serum", Price: 450, DiscountAmount: 50, Quantity: 2})
	session.Cart.Apply(model.SetCity{Value: "c1"})
	session.Flow.State = model.FlowShipping
	session.Shipping = model.ShippingQuote{City: "c1", Charge: 120, Days: 3}
	return session
}

func runSessionRepositoryContract(t *testing.T, repo SessionRepository) {
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	session := sampleSession("s1")
	require.NoError(t, repo.Save(ctx, session))

	loaded, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, session.Cart.Items, loaded.Cart.Items)
	assert.Equal(t, "c1", loaded.Cart.City)
	assert.Equal(t, model.FlowShipping, loaded.Flow.State)
	assert.Equal(t, session.Shipping, loaded.Shipping)

	// Mutating a loaded copy does not touch stored state
	loaded.Cart.RemoveItem(0)
	again, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Cart.Items[0].Quantity)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionRepository(t *testing.T) {
	runSessionRepositoryContract(t, NewMemorySessionRepository())
}

func TestRedisSessionRepository(t *testing.T) {
	repo, _ := setupRedisSessionTest(t)
	runSessionRepositoryContract(t, repo)
}

func TestMemorySessionRepository_Sweep(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()

	stale := sampleSession("stale")
	stale.UpdatedAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, repo.Save(ctx, stale))
	require.NoError(t, repo.Save(ctx, sampleSession("fresh")))

	removed, err := repo.Sweep(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = repo.Get(ctx, "stale")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = repo.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestRedisSessionRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	repo, mr := setupRedisSessionTest(t)

	require.NoError(t, repo.Save(ctx, sampleSession("s1")))
	assert.Equal(t, time.Hour, mr.TTL("cart_session:s1"))

	mr.FastForward(2 * time.Hour)
	_, err := repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
