package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAddressNotFound    = errors.New("address not found")
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrStorageUnavailable = errors.New("object storage not configured")

	// ErrDefaultConsistency marks a default-address promotion that stopped
	// half way and may have left more than one default behind.
	ErrDefaultConsistency = errors.New("default address consistency")
)

// ValidationError lists the offending fields of an input. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// requireFields returns a *ValidationError naming every blank field, or nil.
func requireFields(fields map[string]string) error {
	missing := map[string]string{}
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing[name] = "is required"
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Fields: missing}
}

// DefaultConsistencyError reports which demotions failed after the target
// address was already promoted. Re-running the promotion repairs the state.
type DefaultConsistencyError struct {
	UserID    string
	AddressID string
	Pending   []string
	Err       error
}

func (e *DefaultConsistencyError) Error() string {
	return fmt.Sprintf("default address consistency: user %s promoted %s but could not demote %s: %v",
		e.UserID, e.AddressID, strings.Join(e.Pending, ","), e.Err)
}

func (e *DefaultConsistencyError) Unwrap() []error { return []error{ErrDefaultConsistency, e.Err} }
