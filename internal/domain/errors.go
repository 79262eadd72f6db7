package domain

import "errors"

// Domain errors
var (
	// Event errors
	ErrEventNotFound      = errors.New("event not found")
	ErrEventExists        = errors.New("event already exists")
	ErrTicketTypeNotFound = errors.New("ticket type not found")

	// Registration errors
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrNotRegistered     = errors.New("user is not registered for this event")
	ErrSoldOut           = errors.New("tickets sold out")
	ErrInventoryConflict = errors.New("ticket inventory exhausted after charge")

	// Payment errors
	ErrPaymentNotFound = errors.New("payment not found")
	ErrPaymentExists   = errors.New("payment already exists")
	ErrPaymentDeclined = errors.New("payment declined by gateway")
	ErrRefundDeclined  = errors.New("refund declined by gateway")
	ErrNotRefundable   = errors.New("payment is not eligible for refund")

	// Review errors
	ErrNotEligible     = errors.New("must attend event to leave a review")
	ErrAlreadyReviewed = errors.New("already reviewed this event")

	// Authorization errors
	ErrNotAuthorized = errors.New("not authorized")

	// Validation errors
	ErrInvalidEventID    = errors.New("invalid event id")
	ErrInvalidUserID     = errors.New("invalid user id")
	ErrInvalidTitle      = errors.New("title is required")
	ErrInvalidCapacity   = errors.New("capacity must be greater than zero")
	ErrInvalidTicketType = errors.New("ticket type name is required")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInvalidPrice      = errors.New("price cannot be negative")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrInvalidComment    = errors.New("comment is required")
	ErrInvalidStatus     = errors.New("invalid status")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrTicketTypeNotFound) ||
		errors.Is(err, ErrPaymentNotFound) ||
		errors.Is(err, ErrNotRegistered)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidEventID) ||
		errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidTitle) ||
		errors.Is(err, ErrInvalidCapacity) ||
		errors.Is(err, ErrInvalidTicketType) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, ErrInvalidComment) ||
		errors.Is(err, ErrInvalidStatus)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyRegistered) ||
		errors.Is(err, ErrEventExists) ||
		errors.Is(err, ErrSoldOut) ||
		errors.Is(err, ErrInventoryConflict) ||
		errors.Is(err, ErrPaymentExists) ||
		errors.Is(err, ErrNotRefundable) ||
		errors.Is(err, ErrAlreadyReviewed)
}
