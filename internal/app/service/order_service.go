package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vellalasercare/storefront-gateway/internal/app/model"
	"github.com/vellalasercare/storefront-gateway/internal/app/repository"
	"github.com/vellalasercare/storefront-gateway/pkg/logger"
	"github.com/vellalasercare/storefront-gateway/pkg/storefront"
)

const (
	MsgOrderPlaced        = "Order placed successfully!"
	MsgSubmissionFallback = "Something went wrong!"
	MsgNetworkError       = "Network Error"
	PaymentRedirectPath   = "/payment"
)

var (
	ErrTermsNotAccepted     = errors.New("terms and conditions not accepted")
	ErrCheckoutNotOpen      = errors.New("checkout is not open")
	ErrSubmissionInProgress = errors.New("order submission already in progress")
)

// SubmissionError is a rejected or failed upstream order call. Message is
// what the visitor sees.
type SubmissionError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("order submission failed: %s", e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// OrderResult is what a successful submission returns. Offline orders carry
// a message; online ones carry the payment redirect and the storefront's
// response for the payment page.
type OrderResult struct {
	Message  string                    `json:"message,omitempty"`
	Redirect string                    `json:"redirect,omitempty"`
	Payment  *storefront.OrderResponse `json:"payment,omitempty"`
	Cart     model.CartSnapshot        `json:"cart"`
}

type OrderService interface {
	SubmitOrder(ctx context.Context, sessionID string, identity *model.Identity, termsAccepted bool) (*OrderResult, error)
	ListSubmissions(userID string) ([]model.OrderSubmission, error)
	ListGuestSubmissions(sessionID string) ([]model.OrderSubmission, error)
}

type orderService struct {
	sessions    *SessionStore
	lookups     *Lookups
	api         StorefrontAPI
	submissions repository.SubmissionRepository
	validator   *formValidator
	inFlight    sync.Map
}

func NewOrderService(
	sessions *SessionStore,
	lookups *Lookups,
	api StorefrontAPI,
	submissions repository.SubmissionRepository,
) OrderService {
	return &orderService{
		sessions:    sessions,
		lookups:     lookups,
		api:         api,
		submissions: submissions,
		validator:   newFormValidator(),
	}
}

func (s *orderService) SubmitOrder(ctx context.Context, sessionID string, identity *model.Identity, termsAccepted bool) (*OrderResult, error) {
	if !termsAccepted {
		return nil, ErrTermsNotAccepted
	}

	if _, busy := s.inFlight.LoadOrStore(sessionID, struct{}{}); busy {
		logger.Warn("Duplicate order submission rejected", logger.Fields{
			"session_id": sessionID,
		})
		return nil, ErrSubmissionInProgress
	}
	defer s.inFlight.Delete(sessionID)

	// The session stays locked until the cart is reset, so a change made
	// from another tab lands after the order instead of being wiped by it.
	result := &OrderResult{}
	var record *model.OrderSubmission
	placed := false
	session, err := s.sessions.Update(ctx, sessionID, func(session *model.Session) error {
		if session.Flow.State != model.FlowCheckout {
			return ErrCheckoutNotOpen
		}
		if session.Cart.IsEmpty() {
			return ErrEmptyCart
		}
		if err := s.validator.Check(session.Cart.CheckoutForm()); err != nil {
			logger.Info("Checkout form rejected", logger.Fields{
				"session_id": sessionID,
				"error":      err.Error(),
			})
			return err
		}

		payload := model.BuildOrderPayload(session.Cart, s.shippingCharge(ctx, session))

		endpoint := model.EndpointGuest
		userID := ""
		if identity != nil {
			endpoint = model.EndpointCustomer
			userID = identity.UserID
		}
		record = model.NewOrderSubmission(sessionID, userID, endpoint, payload)

		logger.Info("Submitting order", logger.Fields{
			"session_id":     sessionID,
			"endpoint":       endpoint,
			"payment_method": payload.PaymentMethod,
			"total":          payload.Total,
			"items":          len(payload.Items),
		})

		var (
			resp *storefront.OrderResponse
			err  error
		)
		if endpoint == model.EndpointCustomer {
			resp, err = s.api.AddCustomerOrder(ctx, identity.Token, payload)
		} else {
			resp, err = s.api.AddGuestOrder(ctx, payload)
		}
		if err != nil {
			subErr := newSubmissionError(err)
			record.Fail(subErr.StatusCode, subErr.Message)
			s.record(record)

			logger.Error("Order submission failed", err, logger.Fields{
				"session_id":  sessionID,
				"endpoint":    endpoint,
				"status_code": subErr.StatusCode,
			})
			return subErr
		}

		placed = true
		record.Succeed()
		s.record(record)

		if model.PaymentMethod(payload.PaymentMethod) == model.PaymentMethodOffline {
			result.Message = MsgOrderPlaced
		} else {
			result.Redirect = PaymentRedirectPath
			result.Payment = resp
		}

		session.Cart.Reset()
		if _, err := session.Flow.Fire(model.ActionComplete); err != nil {
			session.Flow.State = model.FlowClosed
		}
		return nil
	})
	if err != nil {
		if placed {
			// The order exists upstream; only the local cleanup failed.
			logger.Error("Failed to reset cart after order", err, logger.Fields{
				"session_id": sessionID,
			})
		}
		return nil, err
	}

	result.Cart = session.Cart.Snapshot()

	logger.Info("Order submitted", logger.Fields{
		"session_id":    sessionID,
		"endpoint":      record.Endpoint,
		"submission_id": record.ID,
		"redirect":      result.Redirect,
	})
	return result, nil
}

func (s *orderService) ListSubmissions(userID string) ([]model.OrderSubmission, error) {
	return s.submissions.FindByUserID(userID)
}

// ListGuestSubmissions returns the attempts made from the session without a
// login. Customer attempts stay behind authentication.
func (s *orderService) ListGuestSubmissions(sessionID string) ([]model.OrderSubmission, error) {
	all, err := s.submissions.FindBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	guest := make([]model.OrderSubmission, 0, len(all))
	for _, submission := range all {
		if submission.UserID == "" {
			guest = append(guest, submission)
		}
	}
	return guest, nil
}

// shippingCharge is the charge for the cart's city, or 0 when it cannot
// be resolved.
func (s *orderService) shippingCharge(ctx context.Context, session *model.Session) int64 {
	if session.Cart.City == "" || session.Shipping.Matches(session.Cart.City) {
		return session.ShippingCharge()
	}

	quote, err := s.lookups.Shipping(ctx, session.Cart.City)
	if err != nil {
		logger.Warn("Shipping lookup failed at submission, charge falls back to 0", logger.Fields{
			"session_id": session.ID,
			"city":       session.Cart.City,
			"error":      err.Error(),
		})
		return 0
	}
	return quote.Charge
}

func (s *orderService) record(submission *model.OrderSubmission) {
	if s.submissions == nil {
		return
	}
	if err := s.submissions.Create(submission); err != nil {
		logger.Warn("Order submission not recorded", logger.Fields{
			"session_id": submission.SessionID,
			"status":     submission.Status,
		})
	}
}

func newSubmissionError(err error) *SubmissionError {
	subErr := &SubmissionError{Message: MsgSubmissionFallback, Err: err}

	var apiErr *storefront.APIError
	switch {
	case errors.As(err, &apiErr):
		subErr.StatusCode = apiErr.StatusCode
		if apiErr.Message != "" {
			subErr.Message = apiErr.Message
		}
	case errors.Is(err, storefront.ErrNetworkError):
		subErr.Message = MsgNetworkError
	}
	return subErr
}
