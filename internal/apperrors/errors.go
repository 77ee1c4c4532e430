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

// ErrForbidden indicates that the authenticated principal may not perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyFinalized indicates that a requisition has already reached a terminal
// state (approved or rejected) and no further decision may be recorded on it.
var ErrAlreadyFinalized = errors.New("requisition already finalized")

// ErrNotAuthorizedForStage indicates that the acting role does not match the
// requisition's current pending stage. It covers both a wrong role and a stage
// that has already been passed.
var ErrNotAuthorizedForStage = errors.New("role not authorized for current stage")

// ErrNotAuthorizedForAnyStage indicates that a principal resolves to no approval
// role at all.
var ErrNotAuthorizedForAnyStage = errors.New("principal holds no approval role")

// ErrCommentRequired indicates a rejection without a comment.
var ErrCommentRequired = errors.New("comment is required when rejecting")

// ErrQuantityIncrease indicates a line item adjustment above the current quantity.
// Quantities may only ever be revised downward.
var ErrQuantityIncrease = errors.New("quantity may not be increased")

// ErrNotDeliverable indicates a delivery attempt on a requisition that is not
// fully approved yet.
var ErrNotDeliverable = errors.New("requisition is not approved for delivery")

// AppError wraps a lower-level failure (typically storage I/O) with an HTTP-ish
// status code so handlers can map it without inspecting driver errors.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
