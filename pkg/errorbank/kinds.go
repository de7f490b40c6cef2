package errorbank

import "fmt"

// BadRequest constructs a 400 error.
func BadRequest(message string, opts ...Option) *AppError {
	return New(KindBadRequest, message, opts...)
}

// Unauthorized constructs a 401 error.
func Unauthorized(message string, opts ...Option) *AppError {
	return New(KindUnauthorized, message, opts...)
}

// Conflict constructs a 409 error.
func Conflict(message string, opts ...Option) *AppError {
	return New(KindConflict, message, opts...)
}

// NotFound constructs a 404 error.
func NotFound(message string, opts ...Option) *AppError {
	return New(KindNotFound, message, opts...)
}

// ItemNotFound reports a menu item reference that does not resolve.
func ItemNotFound(itemID string, opts ...Option) *AppError {
	opts = append([]Option{WithDetail("menu_item_id", itemID)}, opts...)
	return New(KindItemNotFound, fmt.Sprintf("menu item not found: %s", itemID), opts...)
}

// OrderLocked reports a mutation attempted on a settled order past its edit window.
func OrderLocked(message string, opts ...Option) *AppError {
	return New(KindOrderLocked, message, opts...)
}

// Unprocessable constructs a 422 error.
func Unprocessable(message string, opts ...Option) *AppError {
	return New(KindUnprocessableEntity, message, opts...)
}

// RateLimited constructs a 429 error.
func RateLimited(message string, opts ...Option) *AppError {
	return New(KindRateLimited, message, opts...)
}

// Unavailable constructs a 503 error for timeouts and transient backend failures.
func Unavailable(message string, opts ...Option) *AppError {
	return New(KindUnavailable, message, opts...)
}

// Internal constructs a generic 500 error.
func Internal(message string, opts ...Option) *AppError {
	return New(KindInternal, message, opts...)
}
