package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInsufficientStock indicates a requested quantity exceeds stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrValidation indicates a request failed input validation.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized indicates the caller is not authenticated.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the caller lacks the required permission.
	ErrForbidden = errors.New("forbidden")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
