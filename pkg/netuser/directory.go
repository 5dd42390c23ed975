package netuser

import (
	"github.com/ineffectivecoder/LogonGooser/pkg/authpkg"
	"github.com/ineffectivecoder/LogonGooser/pkg/sid"
)

// Directory resolves accounts against the local SAM. Every method fails
// with ErrNotSupported off Windows.
type Directory struct{}

// LookupAccountName implements authpkg.Directory
func (Directory) LookupAccountName(name string) (*sid.SID, error) {
	return LookupAccountName(name)
}

// UserGroups implements authpkg.Directory
func (Directory) UserGroups(user string) ([]authpkg.GroupMembership, error) {
	return Groups(user)
}

// UserLocalGroups implements authpkg.Directory
func (Directory) UserLocalGroups(user string) ([]string, error) {
	return LocalGroups(user)
}

// ComputerName implements authpkg.Directory
func (Directory) ComputerName() (string, error) {
	return computerName()
}

var _ authpkg.Directory = Directory{}
