package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON             = "INVALID_JSON"
	ErrCodeMissingField            = "MISSING_FIELD"
	ErrCodeEmptyCart               = "EMPTY_CART"
	ErrCodeNoWarehouse             = "NO_WAREHOUSE"
	ErrCodeProductNotFound         = "PRODUCT_NOT_FOUND"
	ErrCodeCustomerNotFound        = "CUSTOMER_NOT_FOUND"
	ErrCodeCustomerNameRequired    = "CUSTOMER_NAME_REQUIRED"
	ErrCodeOrderNotFound           = "ORDER_NOT_FOUND"
	ErrCodeDuplicateOrderNumber    = "DUPLICATE_ORDER_NUMBER"
	ErrCodeCheckoutInProgress      = "CHECKOUT_IN_PROGRESS"
	ErrCodeNotAwaitingConfirmation = "NOT_AWAITING_CONFIRMATION"
	ErrCodeCheckoutFailed          = "CHECKOUT_FAILED"
	ErrCodeSessionNotFound         = "SESSION_NOT_FOUND"
	ErrCodeInvalidCoupon           = "INVALID_COUPON"
	ErrCodeCouponExpired           = "COUPON_EXPIRED"
	ErrCodeUnauthorised            = "UNAUTHORIZED"
	ErrCodeInternalError           = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart               = NewDomainError(ErrCodeEmptyCart, "Empty Cart")
	ErrNoWarehouse             = NewDomainError(ErrCodeNoWarehouse, "No Warehouse Available")
	ErrProductNotFound         = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrCustomerNotFound        = NewDomainError(ErrCodeCustomerNotFound, "Customer not found")
	ErrCustomerNameRequired    = NewDomainError(ErrCodeCustomerNameRequired, "First name and last name are required")
	ErrOrderNotFound           = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrDuplicateOrderNumber    = NewDomainError(ErrCodeDuplicateOrderNumber, "Order number already exists")
	ErrCheckoutInProgress      = NewDomainError(ErrCodeCheckoutInProgress, "A sale is already being submitted")
	ErrNotAwaitingConfirmation = NewDomainError(ErrCodeNotAwaitingConfirmation, "Sale is not awaiting confirmation")
	ErrCheckoutFailed          = NewDomainError(ErrCodeCheckoutFailed, "Failed to complete sale")
	ErrSessionNotFound         = NewDomainError(ErrCodeSessionNotFound, "POS session not found")
	ErrInvalidCoupon           = NewDomainError(ErrCodeInvalidCoupon, "Coupon code is not valid")
	ErrCouponExpired           = NewDomainError(ErrCodeCouponExpired, "Coupon is not valid at this time")
)
