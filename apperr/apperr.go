// Package apperr defines the three error kinds the API distinguishes:
// authentication (no valid credential), authorization (valid credential,
// insufficient scope) and domain (well-authorized but invariant-violating).
// Handlers map them to 401, 403 and 422 respectively.
package apperr

import "fmt"

// AuthenticationError means the request carried no usable credential. It is
// never used for scope failures.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	if e.Reason == "" {
		return "not authenticated"
	}
	return "not authenticated: " + e.Reason
}

// AuthorizationError means the actor's effective scopes do not cover the
// target record. It names the record for audit logging but deliberately
// carries no explanation of what scope would have been needed.
type AuthorizationError struct {
	Resource string
	ID       uint
}

func (e *AuthorizationError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("access denied to %s", e.Resource)
	}
	return fmt.Sprintf("access denied to %s %d", e.Resource, e.ID)
}

// DomainError means the operation was authorized but violates a state-machine
// precondition or a data invariant. It always names the invariant and, for
// status transitions, the current vs required state.
type DomainError struct {
	Invariant string
	Current   string
	Required  string
}

func (e *DomainError) Error() string {
	if e.Current != "" || e.Required != "" {
		return fmt.Sprintf("%s (current: %s, required: %s)", e.Invariant, e.Current, e.Required)
	}
	return e.Invariant
}

// NotAuthenticated builds an AuthenticationError.
func NotAuthenticated(reason string) error {
	return &AuthenticationError{Reason: reason}
}

// Forbidden builds an AuthorizationError for one record.
func Forbidden(resource string, id uint) error {
	return &AuthorizationError{Resource: resource, ID: id}
}

// Invariant builds a DomainError with no state context.
func Invariant(msg string) error {
	return &DomainError{Invariant: msg}
}

// WrongState builds a DomainError reporting current vs required state.
func WrongState(msg, current, required string) error {
	return &DomainError{Invariant: msg, Current: current, Required: required}
}
