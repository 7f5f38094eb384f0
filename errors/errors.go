package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnauthenticated = fmt.Errorf("invalid or expired session")
	ErrUsernameTaken   = fmt.Errorf("username is already taken")
	ErrEmailTaken      = fmt.Errorf("email is already taken")
	ErrTokenGeneration = fmt.Errorf("token generation failed")
)

// FieldErrors maps an input field name to a human-readable message.
// It is the error kind for every recoverable validation failure, so the
// caller always receives the full set of problems in one round trip.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, f[k]))
	}
	return "bad input: " + strings.Join(parts, ", ")
}

// AsFieldErrors extracts a FieldErrors from an error chain.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fields FieldErrors
	if stderrors.As(err, &fields) {
		return fields, true
	}
	return nil, false
}

// ConflictFields translates the store's uniqueness sentinels into the
// field-scoped "already taken" messages shown to the caller.
// Returns nil if the error carries no uniqueness conflict.
func ConflictFields(err error) FieldErrors {
	fields := FieldErrors{}
	if stderrors.Is(err, ErrUsernameTaken) {
		fields["username"] = ErrUsernameTaken.Error()
	}
	if stderrors.Is(err, ErrEmailTaken) {
		fields["email"] = ErrEmailTaken.Error()
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// IsUnauthenticated reports whether err denotes a missing or invalid session.
func IsUnauthenticated(err error) bool {
	return stderrors.Is(err, ErrUnauthenticated)
}
