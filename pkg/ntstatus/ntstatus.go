// Package ntstatus defines the NTSTATUS codes exchanged with LSA and the
// error values the logon tools classify them into.
package ntstatus

import (
	"errors"
	"fmt"
)

// NTStatus is an NT status code as returned by LSA and authentication packages
type NTStatus uint32

const (
	StatusSuccess               NTStatus = 0x00000000
	StatusNotImplemented        NTStatus = 0xC0000002
	StatusInvalidParameter      NTStatus = 0xC000000D
	StatusAccessDenied          NTStatus = 0xC0000022
	StatusBufferTooSmall        NTStatus = 0xC0000023
	StatusNoSuchLogonSession    NTStatus = 0xC000005F
	StatusPrivilegeNotHeld      NTStatus = 0xC0000061
	StatusNoSuchUser            NTStatus = 0xC0000064
	StatusWrongPassword         NTStatus = 0xC000006A
	StatusLogonFailure          NTStatus = 0xC000006D
	StatusAccountRestriction    NTStatus = 0xC000006E
	StatusPasswordExpired       NTStatus = 0xC0000071
	StatusAccountDisabled       NTStatus = 0xC0000072
	StatusInsufficientResources NTStatus = 0xC000009A
	StatusInternalError         NTStatus = 0xC00000E5
	StatusNoSuchPackage         NTStatus = 0xC00000FE
	StatusInvalidLogonType      NTStatus = 0xC000010B
	StatusAccountLockedOut      NTStatus = 0xC0000234
	StatusFailFastException     NTStatus = 0xC0000602

	// SecEUnsupportedFunction is an SSPI HRESULT that packages return
	// through the same status channel.
	SecEUnsupportedFunction NTStatus = 0x80090302
)

// IsSuccess returns true if the status indicates success
func (s NTStatus) IsSuccess() bool {
	return s&0xC0000000 != 0xC0000000 && s&0x80000000 == 0
}

// Name returns the symbolic name of the status
func (s NTStatus) Name() string {
	switch s {
	case StatusSuccess:
		return "STATUS_SUCCESS"
	case StatusNotImplemented:
		return "STATUS_NOT_IMPLEMENTED"
	case StatusInvalidParameter:
		return "STATUS_INVALID_PARAMETER"
	case StatusAccessDenied:
		return "STATUS_ACCESS_DENIED"
	case StatusBufferTooSmall:
		return "STATUS_BUFFER_TOO_SMALL"
	case StatusNoSuchLogonSession:
		return "STATUS_NO_SUCH_LOGON_SESSION"
	case StatusPrivilegeNotHeld:
		return "STATUS_PRIVILEGE_NOT_HELD"
	case StatusNoSuchUser:
		return "STATUS_NO_SUCH_USER"
	case StatusWrongPassword:
		return "STATUS_WRONG_PASSWORD"
	case StatusLogonFailure:
		return "STATUS_LOGON_FAILURE"
	case StatusAccountRestriction:
		return "STATUS_ACCOUNT_RESTRICTION"
	case StatusPasswordExpired:
		return "STATUS_PASSWORD_EXPIRED"
	case StatusAccountDisabled:
		return "STATUS_ACCOUNT_DISABLED"
	case StatusInsufficientResources:
		return "STATUS_INSUFFICIENT_RESOURCES"
	case StatusInternalError:
		return "STATUS_INTERNAL_ERROR"
	case StatusNoSuchPackage:
		return "STATUS_NO_SUCH_PACKAGE"
	case StatusInvalidLogonType:
		return "STATUS_INVALID_LOGON_TYPE"
	case StatusAccountLockedOut:
		return "STATUS_ACCOUNT_LOCKED_OUT"
	case StatusFailFastException:
		return "STATUS_FAIL_FAST_EXCEPTION"
	case SecEUnsupportedFunction:
		return "SEC_E_UNSUPPORTED_FUNCTION"
	default:
		return "UNKNOWN"
	}
}

// String implements fmt.Stringer
func (s NTStatus) String() string {
	return fmt.Sprintf("0x%08X (%s)", uint32(s), s.Name())
}

// Category groups failures by the stage of the logon flow they belong to
type Category int

const (
	CategoryNone Category = iota
	CategoryLookup
	CategoryMarshal
	CategoryAuthentication
	CategoryAuthorization
	CategoryLaunch
	CategoryInternal
)

// Error category sentinels. *Error values match these through errors.Is.
var (
	ErrLookup         = errors.New("package lookup failed")
	ErrMarshal        = errors.New("logon buffer malformed")
	ErrAuthentication = errors.New("authentication failed")
	ErrAuthorization  = errors.New("not authorized")
	ErrLaunch         = errors.New("process launch failed")
	ErrInternal       = errors.New("internal failure")
)

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryLookup:
		return "lookup"
	case CategoryMarshal:
		return "marshal"
	case CategoryAuthentication:
		return "authentication"
	case CategoryAuthorization:
		return "authorization"
	case CategoryLaunch:
		return "launch"
	default:
		return "internal"
	}
}

// Sentinel returns the category sentinel error, nil for CategoryNone
func (c Category) Sentinel() error {
	switch c {
	case CategoryNone:
		return nil
	case CategoryLookup:
		return ErrLookup
	case CategoryMarshal:
		return ErrMarshal
	case CategoryAuthentication:
		return ErrAuthentication
	case CategoryAuthorization:
		return ErrAuthorization
	case CategoryLaunch:
		return ErrLaunch
	default:
		return ErrInternal
	}
}

// CategoryOf classifies a status
func CategoryOf(s NTStatus) Category {
	switch s {
	case StatusSuccess:
		return CategoryNone
	case StatusNoSuchPackage:
		return CategoryLookup
	case StatusInvalidParameter, StatusBufferTooSmall:
		return CategoryMarshal
	case StatusLogonFailure, StatusNoSuchUser, StatusWrongPassword,
		StatusAccountRestriction, StatusAccountDisabled, StatusPasswordExpired,
		StatusAccountLockedOut, StatusInvalidLogonType, StatusNotImplemented:
		return CategoryAuthentication
	case StatusAccessDenied, StatusPrivilegeNotHeld:
		return CategoryAuthorization
	default:
		return CategoryInternal
	}
}

// Error wraps an NT status code as an error
type Error struct {
	Op     string
	Status NTStatus
	// SubStatus carries the LsaLogonUser sub-status when one was reported
	SubStatus NTStatus
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := "NT status error: " + e.Status.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.SubStatus != StatusSuccess {
		msg += ", sub-status " + e.SubStatus.String()
	}
	return msg
}

// Is matches the category sentinel of the status
func (e *Error) Is(target error) bool {
	s := CategoryOf(e.Status).Sentinel()
	return s != nil && s == target
}

// New creates a new *Error for op
func New(op string, status NTStatus) *Error {
	return &Error{Op: op, Status: status}
}

// StatusOf extracts the status carried by err. Errors that carry none map
// to StatusInternalError, nil maps to StatusSuccess.
func StatusOf(err error) NTStatus {
	if err == nil {
		return StatusSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return StatusInternalError
}
