package domain

import "errors"

// Error taxonomy surfaced to the boundary layer. Services wrap these with
// fmt.Errorf and %w so callers match with errors.Is.
var (
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller lacks the required role or ownership.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState means the operation is not legal for the auction's
	// current status, e.g. bidding on a pending or closed auction.
	ErrInvalidState = errors.New("auction is not active")

	// ErrInvalidBid means the amount fails the strict-increase rule.
	ErrInvalidBid = errors.New("bid must exceed current price")

	// ErrInvalidTransition means the requested status edge is not in the
	// allowed set.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConflict means a concurrent write was detected. The operation did
	// not apply and is safe to retry.
	ErrConflict = errors.New("concurrent update conflict")

	// ErrEmailTaken means the registration email is already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials means login failed. The caller cannot tell
	// whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrValidation means the input failed field validation.
	ErrValidation = errors.New("validation failed")
)
