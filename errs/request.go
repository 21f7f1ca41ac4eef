package errs

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Authentication Errors
var (
	ErrMissingToken = errors.New("missing access token")
	ErrInvalidToken = errors.New("invalid access token")
	ErrExpiredToken = errors.New("expired access token")
	ErrValidation   = errors.New("validation failed")
)

func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        fmt.Errorf("%w: %w", ErrMissingToken, ErrUnauthorized),
		Details:    "Missing access token",
		Field:      "authorization",
	}
}

func NewInvalidTokenError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        fmt.Errorf("%w: %w", ErrInvalidToken, ErrUnauthorized),
		Details:    "Invalid access token",
		Field:      "authorization",
		Cause:      cause,
	}
}

func NewExpiredTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        fmt.Errorf("%w: %w", ErrExpiredToken, ErrUnauthorized),
		Details:    "Access token has expired",
		Field:      "authorization",
	}
}

// NewValidationError carries one message per offending field. An empty map is a programming error;
// callers check len(fields) first.
func NewValidationError(fields map[string]string) *ApiErr {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	return &ApiErr{
		StatusCode: http.StatusUnprocessableEntity,
		err:        ErrValidation,
		Details:    "invalid " + strings.Join(names, ", "),
		Fields:     fields,
	}
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// FieldMessages returns the per-field messages of a validation error, or nil.
func FieldMessages(err error) map[string]string {
	var apiErr *ApiErr
	if !errors.As(err, &apiErr) {
		return nil
	}
	return apiErr.Fields
}

func IsMissingTokenError(err error) bool {
	return errors.Is(err, ErrMissingToken)
}

func IsInvalidTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsExpiredTokenError(err error) bool {
	return errors.Is(err, ErrExpiredToken)
}
