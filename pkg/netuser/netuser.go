// Package netuser wraps the NetUser* account APIs: password changes, group
// membership and profile lookup. Its Directory resolves accounts for the
// server-side authentication packages.
package netuser

import (
	"errors"
	"fmt"

	"github.com/ineffectivecoder/LogonGooser/pkg/ntstatus"
)

// Errors
var (
	ErrUserNotFound    = fmt.Errorf("%w: user name not found", ntstatus.ErrLookup)
	ErrInvalidPassword = fmt.Errorf("%w: invalid password", ntstatus.ErrAuthentication)
	ErrAccessDenied    = fmt.Errorf("%w: access denied", ntstatus.ErrAuthorization)
	ErrNotSupported    = errors.New("NetUser APIs are only available on Windows")
)

// NET_API_STATUS values
const (
	NerrSuccess          uint32 = 0
	ErrorAccessDenied    uint32 = 5
	ErrorInvalidPassword uint32 = 86
	NerrGroupNotFound    uint32 = 2220
	NerrUserNotFound     uint32 = 2221
	NerrPasswordTooShort uint32 = 2245
)

// StatusError is a NET_API_STATUS without a dedicated sentinel
type StatusError struct {
	Op   string
	Code uint32
}

func (e *StatusError) Error() string {
	switch e.Code {
	case NerrGroupNotFound:
		return fmt.Sprintf("%s: group name not found (%d)", e.Op, e.Code)
	case NerrPasswordTooShort:
		return fmt.Sprintf("%s: password does not meet policy (%d)", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: NET_API_STATUS %d", e.Op, e.Code)
}

// FromNetStatus maps a NET_API_STATUS to an error, nil on NERR_Success
func FromNetStatus(op string, code uint32) error {
	switch code {
	case NerrSuccess:
		return nil
	case NerrUserNotFound:
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	case ErrorInvalidPassword:
		return fmt.Errorf("%s: %w", op, ErrInvalidPassword)
	case ErrorAccessDenied:
		return fmt.Errorf("%s: %w", op, ErrAccessDenied)
	default:
		return &StatusError{Op: op, Code: code}
	}
}
