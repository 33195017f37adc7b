package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError and returned to API clients.
const (
	CodeNotFound             = "NOT_FOUND"
	CodeValidation           = "VALIDATION_ERROR"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeInvalidToken         = "INVALID_TOKEN"
	CodeUnknownSubject       = "UNKNOWN_SUBJECT"
	CodeAccountInactive      = "ACCOUNT_INACTIVE"
	CodeAccountBanned        = "ACCOUNT_BANNED"
	CodeInsufficientRole     = "INSUFFICIENT_ROLE"
	CodeForbidden            = "FORBIDDEN"
	CodeConflict             = "CONFLICT"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeInvalidRating        = "INVALID_RATING"
	CodeInvalidReceiver      = "INVALID_RECEIVER"
	CodeSelfFeedback         = "SELF_FEEDBACK"
	CodeDuplicateFeedback    = "DUPLICATE_FEEDBACK"
	CodePayloadTooLarge      = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	CodeInternal             = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Details string
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

// HasCode reports whether err wraps an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewInvalidTokenError(err error) *AppError {
	return &AppError{
		Code:    CodeInvalidToken,
		Message: "Invalid or expired token",
		Err:     err,
	}
}

func NewUnknownSubjectError(subject interface{}) *AppError {
	return &AppError{
		Code:    CodeUnknownSubject,
		Message: fmt.Sprintf("Token subject %v does not match any user", subject),
	}
}

func NewAccountInactiveError() *AppError {
	return &AppError{
		Code:    CodeAccountInactive,
		Message: "Account is inactive",
	}
}

func NewAccountBannedError() *AppError {
	return &AppError{
		Code:    CodeAccountBanned,
		Message: "Account is banned",
	}
}

func NewInsufficientRoleError() *AppError {
	return &AppError{
		Code:    CodeInsufficientRole,
		Message: "Admin access required",
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

// NewInvalidTransitionError reports an attempt to move a swap out of a terminal status.
func NewInvalidTransitionError(current, attempted SwapStatus) *AppError {
	return &AppError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("Cannot change swap status from %s to %s", current, attempted),
		Details: fmt.Sprintf("current=%s attempted=%s", current, attempted),
	}
}

func NewInvalidRatingError(rating float64) *AppError {
	return &AppError{
		Code:    CodeInvalidRating,
		Message: fmt.Sprintf("Rating %.1f is outside the allowed range %.1f-%.1f", rating, MinRating, MaxRating),
	}
}

func NewInvalidReceiverError() *AppError {
	return &AppError{
		Code:    CodeInvalidReceiver,
		Message: "Feedback receiver must be a participant in the swap",
	}
}

func NewSelfFeedbackError() *AppError {
	return &AppError{
		Code:    CodeSelfFeedback,
		Message: "Cannot give feedback to yourself",
	}
}

func NewDuplicateFeedbackError() *AppError {
	return &AppError{
		Code:    CodeDuplicateFeedback,
		Message: "Feedback already submitted for this swap",
	}
}

func NewPayloadTooLargeError(limitBytes int64) *AppError {
	return &AppError{
		Code:    CodePayloadTooLarge,
		Message: fmt.Sprintf("File exceeds the %d MB upload limit", limitBytes/(1024*1024)),
	}
}

func NewUnsupportedMediaTypeError(contentType string) *AppError {
	return &AppError{
		Code:    CodeUnsupportedMediaType,
		Message: "Only JPEG, PNG and GIF images are allowed",
		Details: contentType,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error:   appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		}
		// Internal causes are never echoed to clients.
		if response.Details == "" && appErr.Err != nil && appErr.Code != CodeInternal {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
