package errors

import (
	"errors"
	"net/http"

	"github.com/vellalasercare/storefront-gateway/internal/app/model"
	"github.com/vellalasercare/storefront-gateway/internal/app/service"
	"github.com/vellalasercare/storefront-gateway/pkg/storefront"
)

// ErrorInfo is an error translated for the client
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

// ParseError maps service errors to a status, code and visitor-facing
// message. Unknown errors become a generic 500.
func ParseError(err error) ErrorInfo {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    CheckoutInvalidForm,
			Message: "Please correct the highlighted fields",
			Fields:  validationErr.Fields,
		}
	}

	var submissionErr *service.SubmissionError
	if errors.As(err, &submissionErr) {
		code := OrderUpstreamFailed
		if submissionErr.StatusCode >= 400 && submissionErr.StatusCode < 500 {
			code = OrderRejected
		}
		return ErrorInfo{Status: http.StatusBadGateway, Code: code, Message: submissionErr.Message}
	}

	switch {
	case errors.Is(err, service.ErrEmptyCart):
		return ErrorInfo{Status: http.StatusBadRequest, Code: CartEmpty, Message: "Your cart is empty"}
	case errors.Is(err, service.ErrInvalidItem):
		return ErrorInfo{Status: http.StatusBadRequest, Code: CartInvalidItem, Message: "The item could not be added to the cart"}
	case errors.Is(err, service.ErrPaymentMethodLocked):
		return ErrorInfo{Status: http.StatusForbidden, Code: CartPaymentMethodLocked, Message: "Payment method cannot be changed for this account"}
	case errors.Is(err, service.ErrTermsNotAccepted):
		return ErrorInfo{Status: http.StatusBadRequest, Code: CheckoutTermsRequired, Message: "Please accept the terms and conditions"}
	case errors.Is(err, service.ErrCheckoutNotOpen):
		return ErrorInfo{Status: http.StatusConflict, Code: CheckoutNotOpen, Message: "Open checkout before placing the order"}
	case errors.Is(err, model.ErrInvalidTransition):
		return ErrorInfo{Status: http.StatusConflict, Code: CheckoutInvalidTransition, Message: "That step is not available right now"}
	case errors.Is(err, service.ErrSubmissionInProgress):
		return ErrorInfo{Status: http.StatusConflict, Code: OrderInProgress, Message: "Your order is already being placed"}
	case errors.Is(err, storefront.ErrNetworkError), errors.Is(err, storefront.ErrUpstream):
		return ErrorInfo{Status: http.StatusBadGateway, Code: InternalExternalAPI, Message: "The store is unreachable. Please try again shortly"}
	}

	return ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    InternalServerError,
		Message: "Something went wrong. Please try again later",
	}
}

// ParseAndRespond writes the parsed error as the response
func ParseAndRespond(c interface{ JSON(int, interface{}) }, err error) {
	info := ParseError(err)
	if len(info.Fields) > 0 {
		c.JSON(info.Status, ValidationError{
			Error:   info.Code,
			Message: info.Message,
			Fields:  info.Fields,
		})
		return
	}
	c.JSON(info.Status, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
