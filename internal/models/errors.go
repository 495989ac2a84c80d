package models

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrValidation       = errors.New("invalid input")
	ErrDuplicateAccount = errors.New("account already exists with this email and role")
	ErrAuthentication   = errors.New("invalid email, password, or role")
	ErrIneligible       = errors.New("khata is not yet unlocked")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNotFound         = errors.New("not found")
	ErrWrongRole        = errors.New("action not available for this account role")
)

// reasons are the messages shown to the acting user for each sentinel.
var reasons = []struct {
	err error
	msg string
}{
	{ErrDuplicateAccount, "Account already exists with this email and role."},
	{ErrAuthentication, "Invalid email, password, or role."},
	{ErrIneligible, "Khata is not yet unlocked."},
	{ErrEmptyCart, "Add items to place prepaid or khata orders."},
	{ErrWrongRole, "This action is not available for your account."},
	{ErrNotFound, "Not found."},
}

// Reason returns the human-readable message for err.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.msg
		}
	}
	return "Something went wrong. Please try again."
}

// ValidationError describes rejected input. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError with a single message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
