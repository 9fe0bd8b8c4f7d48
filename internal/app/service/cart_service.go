package service

import (
	"context"
	"errors"
	"strings"

	"github.com/vellalasercare/storefront-gateway/internal/app/model"
	"github.com/vellalasercare/storefront-gateway/pkg/logger"
)

var (
	ErrInvalidItem         = errors.New("invalid cart item")
	ErrPaymentMethodLocked = errors.New("payment method cannot be changed for this account")
)

type CartService interface {
	GetCart(ctx context.Context, sessionID string) (model.CartSnapshot, error)
	AddItem(ctx context.Context, sessionID string, item model.LineItem) (model.CartSnapshot, error)
	UpdateQuantity(ctx context.Context, sessionID string, index, quantity int) (model.CartSnapshot, error)
	RemoveItem(ctx context.Context, sessionID string, index int) (model.CartSnapshot, error)
	UpdateField(ctx context.Context, sessionID string, identity *model.Identity, update model.FieldUpdate) (model.CartSnapshot, error)
	ToggleOpen(ctx context.Context, sessionID string) (model.CartSnapshot, error)
	ToggleAsProfile(ctx context.Context, sessionID string) (model.CartSnapshot, error)
	ResetCart(ctx context.Context, sessionID string) (model.CartSnapshot, error)
}

type cartService struct {
	sessions *SessionStore
}

func NewCartService(sessions *SessionStore) CartService {
	return &cartService{sessions: sessions}
}

func (s *cartService) GetCart(ctx context.Context, sessionID string) (model.CartSnapshot, error) {
	session, err := s.sessions.View(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to load cart", err, logger.Fields{
			"session_id": sessionID,
		})
		return model.CartSnapshot{}, err
	}
	return session.Cart.Snapshot(), nil
}

func (s *cartService) AddItem(ctx context.Context, sessionID string, item model.LineItem) (model.CartSnapshot, error) {
	item.ProductID = strings.TrimSpace(item.ProductID)
	if item.ProductID == "" || item.Quantity < 1 || item.Price < 0 || item.DiscountAmount < 0 {
		logger.Warn("Rejected cart item", logger.Fields{
			"session_id": sessionID,
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
		})
		return model.CartSnapshot{}, ErrInvalidItem
	}

	snapshot, err := s.mutate(ctx, sessionID, func(cart *model.Cart) error {
		cart.AddOrReplaceItem(item)
		return nil
	})
	if err != nil {
		return snapshot, err
	}

	logger.Info("Item added to cart", logger.Fields{
		"session_id": sessionID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})
	return snapshot, nil
}

// UpdateQuantity ignores quantities below one and unknown indices.
func (s *cartService) UpdateQuantity(ctx context.Context, sessionID string, index, quantity int) (model.CartSnapshot, error) {
	return s.mutate(ctx, sessionID, func(cart *model.Cart) error {
		if !cart.SetQuantity(index, quantity) {
			logger.Debug("Quantity update ignored", logger.Fields{
				"session_id": sessionID,
				"index":      index,
				"quantity":   quantity,
			})
		}
		return nil
	})
}

func (s *cartService) RemoveItem(ctx context.Context, sessionID string, index int) (model.CartSnapshot, error) {
	return s.mutate(ctx, sessionID, func(cart *model.Cart) error {
		if cart.RemoveItem(index) {
			logger.Info("Item removed from cart", logger.Fields{
				"session_id": sessionID,
				"index":      index,
			})
		}
		return nil
	})
}

func (s *cartService) UpdateField(ctx context.Context, sessionID string, identity *model.Identity, update model.FieldUpdate) (model.CartSnapshot, error) {
	if _, ok := update.(model.SetPaymentMethod); ok && identity.IsParlor() {
		return model.CartSnapshot{}, ErrPaymentMethodLocked
	}

	return s.mutate(ctx, sessionID, func(cart *model.Cart) error {
		cart.Apply(update)
		return nil
	})
}

func (s *cartService) ToggleOpen(ctx context.Context, sessionID string) (model.CartSnapshot, error) {
	return s.mutate(ctx, sessionID, func(cart *model.Cart) error {
		cart.ToggleOpen()
		return nil
	})
}

func (s *cartService) ToggleAsProfile(ctx context.Context, sessionID string) (model.CartSnapshot, error) {
	return s.mutate(ctx, sessionID, func(cart *model.Cart) error {
		cart.ToggleAsProfile()
		return nil
	})
}

func (s *cartService) ResetCart(ctx context.Context, sessionID string) (model.CartSnapshot, error) {
	snapshot, err := s.mutate(ctx, sessionID, func(cart *model.Cart) error {
		cart.Reset()
		return nil
	})
	if err == nil {
		logger.Info("Cart reset", logger.Fields{
			"session_id": sessionID,
		})
	}
	return snapshot, err
}

func (s *cartService) mutate(ctx context.Context, sessionID string, fn func(*model.Cart) error) (model.CartSnapshot, error) {
	session, err := s.sessions.Update(ctx, sessionID, func(session *model.Session) error {
		return fn(session.Cart)
	})
	if err != nil {
		return model.CartSnapshot{}, err
	}
	return session.Cart.Snapshot(), nil
}
