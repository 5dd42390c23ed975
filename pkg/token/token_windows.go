package token

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/ineffectivecoder/LogonGooser/pkg/sid"
)

var (
	modadvapi32 = windows.NewLazySystemDLL("advapi32.dll")

	procAdjustTokenPrivileges = modadvapi32.NewProc("AdjustTokenPrivileges")
)

// IsPrimary reports whether t is a primary token
func IsPrimary(t windows.Token) (bool, error) {
	var typ uint32
	var n uint32
	if err := windows.GetTokenInformation(t, windows.TokenType, (*byte)(unsafe.Pointer(&typ)), uint32(unsafe.Sizeof(typ)), &n); err != nil {
		return false, fmt.Errorf("GetTokenInformation(TokenType): %w", err)
	}
	return typ == windows.TokenPrimary, nil
}

// LogonSID returns the logon session SID (S-1-5-5-X-Y) from the token groups
func LogonSID(t windows.Token) (*sid.SID, error) {
	groups, err := t.GetTokenGroups()
	if err != nil {
		return nil, fmt.Errorf("GetTokenInformation(TokenGroups): %w", err)
	}
	for _, g := range groups.AllGroups() {
		if g.Attributes&windows.SE_GROUP_LOGON_ID == windows.SE_GROUP_LOGON_ID {
			s, err := sid.Parse(g.Sid.String())
			if err != nil {
				return nil, err
			}
			if !s.IsLogonSessionSID() {
				return nil, fmt.Errorf("%w: unexpected logon SID %s", ErrNoLogonSID, s)
			}
			return s, nil
		}
	}
	return nil, ErrNoLogonSID
}

func privilegeValue(name string) (windows.LUID, error) {
	var luid windows.LUID
	n, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return luid, err
	}
	if err := windows.LookupPrivilegeValue(nil, n, &luid); err != nil {
		return luid, fmt.Errorf("LookupPrivilegeValue(%s): %w", name, err)
	}
	return luid, nil
}

// Privileges reports the state of each named privilege in t
func Privileges(t windows.Token, names ...string) (PrivilegeReport, error) {
	var n uint32
	windows.GetTokenInformation(t, windows.TokenPrivileges, nil, 0, &n)
	if n == 0 {
		n = 1024
	}
	buf := make([]byte, n)
	if err := windows.GetTokenInformation(t, windows.TokenPrivileges, &buf[0], n, &n); err != nil {
		return nil, fmt.Errorf("GetTokenInformation(TokenPrivileges): %w", err)
	}
	tp := (*windows.Tokenprivileges)(unsafe.Pointer(&buf[0]))
	held := unsafe.Slice(&tp.Privileges[0], tp.PrivilegeCount)

	report := make(PrivilegeReport, len(names))
	for _, name := range names {
		luid, err := privilegeValue(name)
		if err != nil {
			return nil, err
		}
		report[name] = PrivilegeMissing
		for _, p := range held {
			if p.Luid == luid {
				report[name] = StateFromAttributes(p.Attributes)
				break
			}
		}
	}
	return report, nil
}

// EnablePrivilege enables a privilege the token already holds
func EnablePrivilege(t windows.Token, name string) error {
	luid, err := privilegeValue(name)
	if err != nil {
		return err
	}
	tp := windows.Tokenprivileges{PrivilegeCount: 1}
	tp.Privileges[0] = windows.LUIDAndAttributes{Luid: luid, Attributes: windows.SE_PRIVILEGE_ENABLED}
	r1, _, e1 := procAdjustTokenPrivileges.Call(uintptr(t), 0, uintptr(unsafe.Pointer(&tp)), 0, 0, 0)
	errno, _ := e1.(syscall.Errno)
	return adjustResult(name, r1 != 0, errno)
}

// Current opens the token of the running process
func Current() (windows.Token, error) {
	var t windows.Token
	err := windows.OpenProcessToken(windows.CurrentProcess(), windows.TOKEN_QUERY|windows.TOKEN_ADJUST_PRIVILEGES, &t)
	return t, err
}
