//go:build !windows

package netuser

import (
	"github.com/ineffectivecoder/LogonGooser/pkg/authpkg"
	"github.com/ineffectivecoder/LogonGooser/pkg/sid"
)

// ChangePassword is only available on Windows
func ChangePassword(domain, user, oldPassword, newPassword string) error {
	return ErrNotSupported
}

// Groups is only available on Windows
func Groups(user string) ([]authpkg.GroupMembership, error) {
	return nil, ErrNotSupported
}

// LocalGroups is only available on Windows
func LocalGroups(user string) ([]string, error) {
	return nil, ErrNotSupported
}

// ProfilePath is only available on Windows
func ProfilePath(user string) (string, error) {
	return "", ErrNotSupported
}

// LookupAccountName is only available on Windows
func LookupAccountName(name string) (*sid.SID, error) {
	return nil, ErrNotSupported
}

func computerName() (string, error) {
	return "", ErrNotSupported
}
