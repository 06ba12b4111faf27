package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal is returned when the caller should not see the underlying cause.
var ErrInternal = errors.New("internal error")

// Points ledger and reward redemption errors.
var (
	ErrUnknownReason         = errors.New("unknown points reason")
	ErrMissingAmount         = errors.New("points amount could not be determined")
	ErrRewardNotFound        = errors.New("reward not found or inactive")
	ErrRoleMismatch          = errors.New("reward is not available for this account role")
	ErrInsufficientPoints    = errors.New("insufficient points")
	ErrUnsupportedRewardType = errors.New("unsupported reward type")
	ErrListingRequired       = errors.New("a listing is required for this reward")
	ErrListingNotOwned       = errors.New("listing is not owned by this account")
	ErrAlreadyPriority       = errors.New("listing is already a priority listing")
	ErrLedgerWriteFailure    = errors.New("points ledger write failed")
	ErrInvalidReferralCode   = errors.New("invalid referral code")
	ErrSelfReview            = errors.New("cannot review your own listing")
)

// AppError carries an HTTP-ish status code alongside an infrastructure error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
