package ntstatus

import (
	"errors"
	"fmt"
	"testing"
)

func TestStatusName(t *testing.T) {
	if n := StatusNoSuchPackage.Name(); n != "STATUS_NO_SUCH_PACKAGE" {
		t.Errorf("Name() = %s", n)
	}
	if n := NTStatus(0xC0FFEE00).Name(); n != "UNKNOWN" {
		t.Errorf("unknown status Name() = %s", n)
	}
}

func TestIsSuccess(t *testing.T) {
	if !StatusSuccess.IsSuccess() {
		t.Error("STATUS_SUCCESS not a success")
	}
	if StatusLogonFailure.IsSuccess() {
		t.Error("STATUS_LOGON_FAILURE reported as success")
	}
	if SecEUnsupportedFunction.IsSuccess() {
		t.Error("SEC_E_UNSUPPORTED_FUNCTION reported as success")
	}
}

func TestErrorCategory(t *testing.T) {
	err := error(New("LsaLogonUser", StatusLogonFailure))
	if !errors.Is(err, ErrAuthentication) {
		t.Errorf("logon failure not classified as authentication: %v", err)
	}
	if errors.Is(err, ErrLookup) {
		t.Error("logon failure classified as lookup")
	}

	wrapped := fmt.Errorf("outer: %w", New("lookup", StatusNoSuchPackage))
	if !errors.Is(wrapped, ErrLookup) {
		t.Error("wrapped no-such-package not classified as lookup")
	}
	if s := StatusOf(wrapped); s != StatusNoSuchPackage {
		t.Errorf("StatusOf(wrapped) = %v", s)
	}
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		status NTStatus
		want   Category
	}{
		{StatusSuccess, CategoryNone},
		{StatusNoSuchPackage, CategoryLookup},
		{StatusInvalidParameter, CategoryMarshal},
		{StatusLogonFailure, CategoryAuthentication},
		{StatusAccountLockedOut, CategoryAuthentication},
		{StatusPrivilegeNotHeld, CategoryAuthorization},
		{StatusAccessDenied, CategoryAuthorization},
		{StatusFailFastException, CategoryInternal},
	}

	for _, tt := range tests {
		if got := CategoryOf(tt.status); got != tt.want {
			t.Errorf("CategoryOf(%v) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestErrorString(t *testing.T) {
	e := &Error{Op: "LsaLogonUser", Status: StatusAccountRestriction, SubStatus: StatusPasswordExpired}
	want := "LsaLogonUser: NT status error: 0xC000006E (STATUS_ACCOUNT_RESTRICTION), sub-status 0xC0000071 (STATUS_PASSWORD_EXPIRED)"
	if e.Error() != want {
		t.Errorf("Error() = %q", e.Error())
	}
	if StatusOf(errors.New("plain")) != StatusInternalError {
		t.Error("plain error did not map to STATUS_INTERNAL_ERROR")
	}
}
