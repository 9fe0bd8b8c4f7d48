package service

import (
	"context"
	"errors"

	"github.com/vellalasercare/storefront-gateway/internal/app/model"
	"github.com/vellalasercare/storefront-gateway/pkg/logger"
	"github.com/vellalasercare/storefront-gateway/pkg/storefront"
	"golang.org/x/sync/errgroup"
)

var ErrEmptyCart = errors.New("cart is empty")

// CheckoutView is the checkout panel state together with what it displays.
type CheckoutView struct {
	State model.FlowState    `json:"state"`
	Quote model.CheckoutQuote `json:"quote"`
	Cart  model.CartSnapshot  `json:"cart"`
}

type CheckoutService interface {
	GetFlow(ctx context.Context, sessionID string) (*CheckoutView, error)
	Transition(ctx context.Context, sessionID string, identity *model.Identity, action model.FlowAction) (*CheckoutView, error)
	Quote(ctx context.Context, sessionID string) (model.CheckoutQuote, error)
	Cities(ctx context.Context) ([]storefront.City, error)
}

type checkoutService struct {
	sessions *SessionStore
	lookups  *Lookups
}

func NewCheckoutService(sessions *SessionStore, lookups *Lookups) CheckoutService {
	return &checkoutService{sessions: sessions, lookups: lookups}
}

// GetFlow returns the current panel. A shipping quote cached for another
// city is refreshed first.
func (s *checkoutService) GetFlow(ctx context.Context, sessionID string) (*CheckoutView, error) {
	session, err := s.sessions.View(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	city := session.Cart.City
	if city == "" || session.Shipping.Matches(city) {
		return newCheckoutView(session), nil
	}

	quote, ok := s.resolveShipping(ctx, sessionID, city)
	if !ok {
		return newCheckoutView(session), nil
	}

	session, err = s.sessions.Update(ctx, sessionID, func(session *model.Session) error {
		applyShipping(session, quote)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newCheckoutView(session), nil
}

// Transition fires action on the session's flow. The complete action is
// reserved for order submission and rejected here.
func (s *checkoutService) Transition(ctx context.Context, sessionID string, identity *model.Identity, action model.FlowAction) (*CheckoutView, error) {
	if action == model.ActionComplete {
		return nil, model.ErrInvalidTransition
	}

	var from model.FlowState
	session, err := s.sessions.Update(ctx, sessionID, func(session *model.Session) error {
		if action == model.ActionOpenCheckout && session.Cart.IsEmpty() {
			return ErrEmptyCart
		}
		prev, err := session.Flow.Fire(action)
		from = prev
		return err
	})
	if err != nil {
		if errors.Is(err, model.ErrInvalidTransition) || errors.Is(err, ErrEmptyCart) {
			logger.Warn("Checkout transition rejected", logger.Fields{
				"session_id": sessionID,
				"action":     action,
				"error":      err.Error(),
			})
		}
		return nil, err
	}

	logger.Info("Checkout transition", logger.Fields{
		"session_id": sessionID,
		"action":     action,
		"from":       from,
		"to":         session.Flow.State,
	})

	return s.enter(ctx, session, identity)
}

// Quote is the totals the checkout panel shows, shipping refreshed as in GetFlow.
func (s *checkoutService) Quote(ctx context.Context, sessionID string) (model.CheckoutQuote, error) {
	view, err := s.GetFlow(ctx, sessionID)
	if err != nil {
		return model.CheckoutQuote{}, err
	}
	return view.Quote, nil
}

func (s *checkoutService) Cities(ctx context.Context) ([]storefront.City, error) {
	cities, err := s.lookups.Cities(ctx)
	if err != nil {
		logger.Error("Failed to fetch cities", err)
		return nil, err
	}
	return cities, nil
}

// enter runs the lookups the new panel needs, concurrently, and applies
// each result only if the session still matches the key it was fetched for.
func (s *checkoutService) enter(ctx context.Context, session *model.Session, identity *model.Identity) (*CheckoutView, error) {
	state := session.Flow.State
	city := session.Cart.City

	wantShipping := city != "" && (state == model.FlowCheckout || state == model.FlowShipping)
	wantProfile := identity != nil && identity.Token != "" && (state == model.FlowCheckout || state == model.FlowAddress)
	if !wantShipping && !wantProfile {
		return newCheckoutView(session), nil
	}

	var (
		quote     model.ShippingQuote
		haveQuote bool
		profile   *storefront.Profile
	)

	g, gctx := errgroup.WithContext(ctx)
	if wantShipping {
		g.Go(func() error {
			quote, haveQuote = s.resolveShipping(gctx, session.ID, city)
			return nil
		})
	}
	if wantProfile {
		g.Go(func() error {
			p, err := s.lookups.Profile(gctx, identity.Token)
			if err != nil {
				logger.Warn("Profile lookup failed, skipping prefill", logger.Fields{
					"session_id": session.ID,
					"user_id":    identity.UserID,
					"error":      err.Error(),
				})
				return nil
			}
			profile = p
			return nil
		})
	}
	_ = g.Wait()

	if !haveQuote && profile == nil {
		return newCheckoutView(session), nil
	}

	updated, err := s.sessions.Update(ctx, session.ID, func(current *model.Session) error {
		if haveQuote {
			applyShipping(current, quote)
		}
		if profile != nil && current.Flow.State == state {
			prefillFromProfile(current.Cart, profile, state)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newCheckoutView(updated), nil
}

// resolveShipping reports false when the lookup failed; the charge then
// stays at 0.
func (s *checkoutService) resolveShipping(ctx context.Context, sessionID, city string) (model.ShippingQuote, bool) {
	quote, err := s.lookups.Shipping(ctx, city)
	if err != nil {
		logger.Warn("Shipping lookup failed, charge falls back to 0", logger.Fields{
			"session_id": sessionID,
			"city":       city,
			"error":      err.Error(),
		})
		return model.ShippingQuote{}, false
	}
	return quote, true
}

// applyShipping stores quote unless the cart moved to another city while
// it was in flight.
func applyShipping(session *model.Session, quote model.ShippingQuote) {
	if session.Cart.City != quote.City {
		logger.Debug("Discarding stale shipping quote", logger.Fields{
			"session_id": session.ID,
			"quote_city": quote.City,
			"cart_city":  session.Cart.City,
		})
		return
	}
	session.Shipping = quote
}

// prefillFromProfile fills only empty fields, and only the ones the panel shows.
func prefillFromProfile(cart *model.Cart, profile *storefront.Profile, state model.FlowState) {
	fill := func(current string, value string, update func(string) model.FieldUpdate) {
		if current == "" && value != "" {
			cart.Apply(update(value))
		}
	}

	switch state {
	case model.FlowCheckout:
		fill(cart.Name, profile.Name, func(v string) model.FieldUpdate { return model.SetName{Value: v} })
		fill(cart.Email, profile.Email, func(v string) model.FieldUpdate { return model.SetEmail{Value: v} })
		fill(cart.Phone, profile.Phone, func(v string) model.FieldUpdate { return model.SetPhone{Value: v} })
	case model.FlowAddress:
		fill(cart.City, profile.City, func(v string) model.FieldUpdate { return model.SetCity{Value: v} })
		fill(cart.Postal, profile.Postal, func(v string) model.FieldUpdate { return model.SetPostal{Value: v} })
		fill(cart.Address, profile.Address, func(v string) model.FieldUpdate { return model.SetAddress{Value: v} })
	}
}

func newCheckoutView(session *model.Session) *CheckoutView {
	return &CheckoutView{
		State: session.Flow.State,
		Quote: session.Quote(),
		Cart:  session.Cart.Snapshot(),
	}
}
