//go:build !windows

package launch

import (
	"github.com/ineffectivecoder/LogonGooser/pkg/lsa"
	"github.com/ineffectivecoder/LogonGooser/pkg/sid"
)

// GrantDesktopAccess is only available on Windows
func GrantDesktopAccess(*sid.SID) error {
	return ErrNotSupported
}

// StartWithToken is only available on Windows
func StartWithToken(lsa.Token, *sid.SID, Options) (*Process, error) {
	return nil, ErrNotSupported
}
