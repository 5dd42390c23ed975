package netuser

import (
	"errors"
	"testing"

	"github.com/ineffectivecoder/LogonGooser/pkg/ntstatus"
)

func TestFromNetStatus(t *testing.T) {
	if err := FromNetStatus("op", NerrSuccess); err != nil {
		t.Errorf("NERR_Success = %v", err)
	}

	tests := []struct {
		code     uint32
		sentinel error
		category error
	}{
		{NerrUserNotFound, ErrUserNotFound, ntstatus.ErrLookup},
		{ErrorInvalidPassword, ErrInvalidPassword, ntstatus.ErrAuthentication},
		{ErrorAccessDenied, ErrAccessDenied, ntstatus.ErrAuthorization},
	}
	for _, tt := range tests {
		err := FromNetStatus("NetUserChangePassword", tt.code)
		if !errors.Is(err, tt.sentinel) {
			t.Errorf("%d: %v is not %v", tt.code, err, tt.sentinel)
		}
		if !errors.Is(err, tt.category) {
			t.Errorf("%d: %v is not %v", tt.code, err, tt.category)
		}
	}
}

func TestFromNetStatusOther(t *testing.T) {
	err := FromNetStatus("NetUserChangePassword", NerrPasswordTooShort)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != NerrPasswordTooShort {
		t.Fatalf("error = %v", err)
	}
	if errors.Is(err, ErrUserNotFound) {
		t.Error("policy failure matched ErrUserNotFound")
	}
}
