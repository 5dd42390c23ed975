package lsa

import (
	"errors"
	"strings"
	"testing"

	"github.com/ineffectivecoder/LogonGooser/pkg/msv1_0"
	"github.com/ineffectivecoder/LogonGooser/pkg/ntstatus"
)

// TestLookupErrorNotFound tests that an unknown package is a distinct outcome
func TestLookupErrorNotFound(t *testing.T) {
	err := LookupError("NoSuchPkg", ntstatus.StatusNoSuchPackage)
	if !errors.Is(err, ErrPackageNotFound) {
		t.Errorf("LookupError(no such package) = %v", err)
	}
	if !errors.Is(err, ntstatus.ErrLookup) {
		t.Error("not-found is not a lookup failure")
	}

	other := LookupError("Kerberos", ntstatus.StatusAccessDenied)
	if errors.Is(other, ErrPackageNotFound) {
		t.Error("access denied reported as not found")
	}
	var nt *ntstatus.Error
	if !errors.As(other, &nt) || nt.Status != ntstatus.StatusAccessDenied {
		t.Errorf("LookupError(access denied) = %v", other)
	}

	if LookupError("Kerberos", ntstatus.StatusSuccess) != nil {
		t.Error("success returned an error")
	}
}

func TestLogonError(t *testing.T) {
	err := LogonError("alice", ntstatus.StatusLogonFailure, ntstatus.StatusSuccess)
	if !errors.Is(err, ntstatus.ErrAuthentication) {
		t.Errorf("LogonError = %v", err)
	}
	if !strings.Contains(err.Error(), `"alice"`) {
		t.Errorf("LogonError does not name the user: %v", err)
	}
}

func TestNewTokenSource(t *testing.T) {
	ts, err := NewTokenSource(DefaultTokenSource)
	if err != nil {
		t.Fatalf("NewTokenSource error: %v", err)
	}
	if ts.Name() != "APtest" {
		t.Errorf("Name() = %q", ts.Name())
	}

	for _, bad := range []string{"", "TooLongName", "Ünïcode"} {
		if _, err := NewTokenSource(bad); !errors.Is(err, ErrBadSourceName) {
			t.Errorf("NewTokenSource(%q) error = %v", bad, err)
		}
	}
}

func TestLUID(t *testing.T) {
	l := LUID{LowPart: 0x3e7, HighPart: 1}
	if LUIDFromUint64(l.Uint64()) != l {
		t.Error("LUID round trip")
	}
	if l.String() != "0x1:0x3E7" {
		t.Errorf("String() = %s", l.String())
	}
}

func TestCapabilityNames(t *testing.T) {
	got := strings.Join(CapabilityNames(FlagLogon|FlagClientOnly|FlagNegotiable|0x80000000), "|")
	if got != "CLIENT_ONLY|NEGOTIABLE|LOGON|0x80000000" {
		t.Errorf("CapabilityNames = %s", got)
	}
}

func TestLogonRequestDefaults(t *testing.T) {
	req := &LogonRequest{User: "alice", Password: "secret"}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if req.Package != msv1_0.PackageMSV1_0 || req.LogonType != Interactive || req.OriginName != "APtest" {
		t.Errorf("defaults = %+v", req)
	}

	buf, err := req.SubmitBuffer()
	if err != nil {
		t.Fatalf("SubmitBuffer error: %v", err)
	}
	in, err := msv1_0.Decode(buf)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if in.UserName != "alice" || in.Password != "secret" || in.LogonDomainName != "" {
		t.Errorf("decoded %+v", in)
	}

	if err := (&LogonRequest{}).Validate(); err == nil {
		t.Error("Validate accepted empty user")
	}
}

func TestInteractiveProfileFromResult(t *testing.T) {
	const base = 0x10000
	buf, _ := msv1_0.NativeLayout.EncodeInteractiveProfile(&msv1_0.InteractiveProfile{
		MessageType: msv1_0.MsV1_0InteractiveProfile,
		LogonCount:  42,
		FullName:    "alice",
	}, base)

	res := &LogonResult{Profile: buf, ProfileBase: base}
	p, err := res.InteractiveProfile()
	if err != nil {
		t.Fatalf("InteractiveProfile error: %v", err)
	}
	if p.LogonCount != 42 || p.FullName != "alice" {
		t.Errorf("profile = %+v", p)
	}

	if _, err := (&LogonResult{}).InteractiveProfile(); !errors.Is(err, ErrNoProfile) {
		t.Errorf("empty profile error = %v", err)
	}
}
