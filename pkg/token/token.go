// Package token inspects logon tokens: the logon session SID and the
// privileges needed to start a process under another user's token.
package token

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
)

var (
	// ErrNoLogonSID is returned when a token has no SE_GROUP_LOGON_ID group
	ErrNoLogonSID = errors.New("token has no logon SID")
	// ErrNotPrimary is returned when a primary token is required
	ErrNotPrimary = errors.New("token is not a primary token")
	// ErrNotSupported is returned on platforms without access tokens
	ErrNotSupported = errors.New("access tokens are only available on Windows")
	// ErrPrivilegeNotHeld is returned when enabling a privilege the token
	// does not hold
	ErrPrivilegeNotHeld = errors.New("privilege not held")
)

// ERROR_NOT_ALL_ASSIGNED
const errorNotAllAssigned syscall.Errno = 1300

// Privileges checked before launching a process under a token
const (
	SeIncreaseQuota      = "SeIncreaseQuotaPrivilege"
	SeAssignPrimaryToken = "SeAssignPrimaryTokenPrivilege"
	SeImpersonate        = "SeImpersonatePrivilege"
)

// LaunchPrivileges are the privileges CreateProcessWithTokenW and
// CreateProcessAsUserW look for
var LaunchPrivileges = []string{SeIncreaseQuota, SeAssignPrimaryToken, SeImpersonate}

// PrivilegeState is whether a token holds a privilege and if it is enabled
type PrivilegeState int

const (
	PrivilegeMissing PrivilegeState = iota
	PrivilegeDisabled
	PrivilegeEnabled
)

func (s PrivilegeState) String() string {
	switch s {
	case PrivilegeEnabled:
		return "enabled"
	case PrivilegeDisabled:
		return "disabled"
	default:
		return "missing"
	}
}

// StateFromAttributes maps SE_PRIVILEGE_* attributes to a state
func StateFromAttributes(attrs uint32) PrivilegeState {
	const enabled = 0x00000002
	if attrs&enabled != 0 {
		return PrivilegeEnabled
	}
	return PrivilegeDisabled
}

// PrivilegeReport is the state of a set of privileges in one token
type PrivilegeReport map[string]PrivilegeState

// Missing returns the privileges the token does not hold, in names order
func (r PrivilegeReport) Missing(names ...string) []string {
	var out []string
	for _, n := range names {
		if r[n] == PrivilegeMissing {
			out = append(out, n)
		}
	}
	return out
}

// Format renders the report for names as "Name: state" lines
func (r PrivilegeReport) Format(names ...string) string {
	var sb strings.Builder
	for _, n := range names {
		fmt.Fprintf(&sb, "%s: %s\n", n, r[n])
	}
	return sb.String()
}

// adjustResult interprets the return value and last error of one
// AdjustTokenPrivileges call. The call succeeds with ERROR_NOT_ALL_ASSIGNED
// when a privilege is not held.
func adjustResult(name string, ok bool, errno syscall.Errno) error {
	switch {
	case !ok:
		return fmt.Errorf("AdjustTokenPrivileges(%s): %w", name, errno)
	case errno == errorNotAllAssigned:
		return fmt.Errorf("AdjustTokenPrivileges(%s): %w", name, ErrPrivilegeNotHeld)
	}
	return nil
}
