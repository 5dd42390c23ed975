//go:build !windows

package netuser

import (
	"errors"
	"testing"
)

func TestDirectoryNotSupported(t *testing.T) {
	var d Directory
	if _, err := d.LookupAccountName("alice"); !errors.Is(err, ErrNotSupported) {
		t.Errorf("LookupAccountName error = %v", err)
	}
	if _, err := d.UserGroups("alice"); !errors.Is(err, ErrNotSupported) {
		t.Errorf("UserGroups error = %v", err)
	}
	if _, err := d.UserLocalGroups("alice"); !errors.Is(err, ErrNotSupported) {
		t.Errorf("UserLocalGroups error = %v", err)
	}
	if _, err := d.ComputerName(); !errors.Is(err, ErrNotSupported) {
		t.Errorf("ComputerName error = %v", err)
	}
}
