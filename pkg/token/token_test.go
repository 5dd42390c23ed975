package token

import (
	"errors"
	"strings"
	"syscall"
	"testing"
)

func TestStateFromAttributes(t *testing.T) {
	if StateFromAttributes(0x2) != PrivilegeEnabled {
		t.Error("SE_PRIVILEGE_ENABLED not enabled")
	}
	if StateFromAttributes(0x3) != PrivilegeEnabled {
		t.Error("ENABLED|ENABLED_BY_DEFAULT not enabled")
	}
	if StateFromAttributes(0) != PrivilegeDisabled {
		t.Error("no attributes not disabled")
	}
}

func TestPrivilegeReport(t *testing.T) {
	r := PrivilegeReport{
		SeImpersonate:   PrivilegeEnabled,
		SeIncreaseQuota: PrivilegeDisabled,
	}

	missing := r.Missing(LaunchPrivileges...)
	if len(missing) != 1 || missing[0] != SeAssignPrimaryToken {
		t.Errorf("Missing = %v", missing)
	}

	out := r.Format(LaunchPrivileges...)
	for _, want := range []string{
		"SeIncreaseQuotaPrivilege: disabled",
		"SeAssignPrimaryTokenPrivilege: missing",
		"SeImpersonatePrivilege: enabled",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format output missing %q:\n%s", want, out)
		}
	}
}

func TestAdjustResult(t *testing.T) {
	if err := adjustResult(SeImpersonate, true, 0); err != nil {
		t.Errorf("success = %v", err)
	}
	if err := adjustResult(SeImpersonate, true, errorNotAllAssigned); !errors.Is(err, ErrPrivilegeNotHeld) {
		t.Errorf("ERROR_NOT_ALL_ASSIGNED = %v", err)
	}
	err := adjustResult(SeImpersonate, false, 6)
	if !errors.Is(err, syscall.Errno(6)) || !strings.Contains(err.Error(), SeImpersonate) {
		t.Errorf("failure = %v", err)
	}
}
