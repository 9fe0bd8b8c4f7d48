package errors

// Error codes returned in the "error" field.
// Format: CATEGORY_SPECIFIC_DETAIL
// Clients map these codes to their own messages.

const (
	// ==================== AUTH_ ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// ==================== VALIDATION_ ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID" // bad line index

	// ==================== SESSION_ ====================
	SessionInvalid = "SESSION_INVALID"

	// ==================== CART_ ====================
	CartEmpty               = "CART_EMPTY"
	CartInvalidItem         = "CART_INVALID_ITEM"
	CartPaymentMethodLocked = "CART_PAYMENT_METHOD_LOCKED"

	// ==================== CHECKOUT_ ====================
	CheckoutTermsRequired     = "CHECKOUT_TERMS_REQUIRED"
	CheckoutInvalidTransition = "CHECKOUT_INVALID_TRANSITION"
	CheckoutNotOpen           = "CHECKOUT_NOT_OPEN"
	CheckoutInvalidForm       = "CHECKOUT_INVALID_FORM"

	// ==================== ORDER_ ====================
	OrderInProgress     = "ORDER_IN_PROGRESS"
	OrderRejected       = "ORDER_REJECTED" // storefront refused the order
	OrderUpstreamFailed = "ORDER_UPSTREAM_FAILED"

	// ==================== INTERNAL_ ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalExternalAPI = "INTERNAL_EXTERNAL_API"
)
