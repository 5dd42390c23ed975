package launch

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/ineffectivecoder/LogonGooser/pkg/lsa"
	"github.com/ineffectivecoder/LogonGooser/pkg/sid"
)

var (
	moduser32   = windows.NewLazySystemDLL("user32.dll")
	modadvapi32 = windows.NewLazySystemDLL("advapi32.dll")

	procOpenWindowStationW      = moduser32.NewProc("OpenWindowStationW")
	procCloseWindowStation      = moduser32.NewProc("CloseWindowStation")
	procOpenDesktopW            = moduser32.NewProc("OpenDesktopW")
	procCloseDesktop            = moduser32.NewProc("CloseDesktop")
	procCreateProcessWithTokenW = modadvapi32.NewProc("CreateProcessWithTokenW")
)

const (
	_LOGON_WITH_PROFILE = 0x00000001
	_READ_CONTROL       = 0x00020000
	_WRITE_DAC          = 0x00040000
)

func codeOf(err error) uint32 {
	if errno, ok := err.(windows.Errno); ok {
		return uint32(errno)
	}
	return 0xFFFFFFFF
}

func wrap(op string, err error) error {
	return &Error{Op: op, Code: codeOf(err), Err: err}
}

// grantObject adds a GENERIC_ALL ACE for logonSID to a user object's DACL
func grantObject(h windows.Handle, logonSID *windows.SID) error {
	sd, err := windows.GetSecurityInfo(h, windows.SE_WINDOW_OBJECT, windows.DACL_SECURITY_INFORMATION)
	if err != nil {
		return wrap("GetSecurityInfo", err)
	}
	dacl, _, err := sd.DACL()
	if err != nil {
		return wrap("GetSecurityDescriptorDacl", err)
	}

	ea := []windows.EXPLICIT_ACCESS{{
		AccessPermissions: windows.GENERIC_ALL,
		AccessMode:        windows.GRANT_ACCESS,
		Inheritance:       windows.NO_INHERITANCE,
		Trustee: windows.TRUSTEE{
			MultipleTrusteeOperation: windows.NO_MULTIPLE_TRUSTEE,
			TrusteeForm:              windows.TRUSTEE_IS_SID,
			TrusteeType:              windows.TRUSTEE_IS_WELL_KNOWN_GROUP,
			TrusteeValue:             windows.TrusteeValueFromSID(logonSID),
		},
	}}
	newDACL, err := windows.ACLFromEntries(ea, dacl)
	if err != nil {
		return wrap("SetEntriesInAcl", err)
	}

	if err := windows.SetSecurityInfo(h, windows.SE_WINDOW_OBJECT, windows.DACL_SECURITY_INFORMATION, nil, nil, newDACL, nil); err != nil {
		return wrap("SetSecurityInfo", err)
	}
	return nil
}

// GrantDesktopAccess grants the logon session GENERIC_ALL on the
// interactive window station (winsta0) and its default desktop.
func GrantDesktopAccess(logonSID *sid.SID) error {
	wsid, err := windows.StringToSid(logonSID.String())
	if err != nil {
		return wrap("ConvertStringSidToSid", err)
	}

	name, _ := windows.UTF16PtrFromString("winsta0")
	ws, _, e := procOpenWindowStationW.Call(uintptr(unsafe.Pointer(name)), 0, _READ_CONTROL|_WRITE_DAC)
	if ws == 0 {
		return wrap("OpenWindowStationW(winsta0)", e)
	}
	err = grantObject(windows.Handle(ws), wsid)
	procCloseWindowStation.Call(ws)
	if err != nil {
		return fmt.Errorf("window station: %w", err)
	}

	name, _ = windows.UTF16PtrFromString("default")
	desk, _, e := procOpenDesktopW.Call(uintptr(unsafe.Pointer(name)), 0, 0, _READ_CONTROL|_WRITE_DAC)
	if desk == 0 {
		return wrap("OpenDesktopW(default)", e)
	}
	err = grantObject(windows.Handle(desk), wsid)
	procCloseDesktop.Call(desk)
	if err != nil {
		return fmt.Errorf("desktop: %w", err)
	}
	return nil
}

// StartWithToken grants the logon session desktop access and starts the
// process under tok with CreateProcessWithTokenW. The caller needs
// SeImpersonatePrivilege. When opts.Wait is set it returns after the
// process exits.
func StartWithToken(tok lsa.Token, logonSID *sid.SID, opts Options) (*Process, error) {
	if err := GrantDesktopAccess(logonSID); err != nil {
		return nil, err
	}

	app, err := windows.UTF16PtrFromString(opts.Executable)
	if err != nil {
		return nil, err
	}
	cmdLine, err := windows.UTF16FromString(opts.CommandLine())
	if err != nil {
		return nil, err
	}
	var dir *uint16
	if opts.WorkDir != "" {
		if dir, err = windows.UTF16PtrFromString(opts.WorkDir); err != nil {
			return nil, err
		}
	}

	si := windows.StartupInfo{Cb: uint32(unsafe.Sizeof(windows.StartupInfo{}))}
	if opts.Desktop != "" {
		if si.Desktop, err = windows.UTF16PtrFromString(opts.Desktop); err != nil {
			return nil, err
		}
	}

	flags := uint32(windows.CREATE_DEFAULT_ERROR_MODE | windows.CREATE_NEW_PROCESS_GROUP)
	if opts.NewConsole {
		flags |= windows.CREATE_NEW_CONSOLE
	} else {
		flags |= windows.CREATE_NO_WINDOW
		si.Flags = windows.STARTF_USESTDHANDLES
		si.StdInput, _ = windows.GetStdHandle(windows.STD_INPUT_HANDLE)
		si.StdOutput, _ = windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
		si.StdErr, _ = windows.GetStdHandle(windows.STD_ERROR_HANDLE)
	}

	var logonFlags uint32
	if opts.WithProfile {
		logonFlags = _LOGON_WITH_PROFILE
	}

	var pi windows.ProcessInformation
	r, _, e := procCreateProcessWithTokenW.Call(
		uintptr(tok),
		uintptr(logonFlags),
		uintptr(unsafe.Pointer(app)),
		uintptr(unsafe.Pointer(&cmdLine[0])),
		uintptr(flags),
		0, // environment
		uintptr(unsafe.Pointer(dir)),
		uintptr(unsafe.Pointer(&si)),
		uintptr(unsafe.Pointer(&pi)),
	)
	if r == 0 {
		return nil, wrap("CreateProcessWithTokenW", e)
	}
	defer windows.CloseHandle(pi.Thread)
	defer windows.CloseHandle(pi.Process)

	p := &Process{PID: pi.ProcessId}
	if !opts.Wait {
		return p, nil
	}

	if _, err := windows.WaitForSingleObject(pi.Process, windows.INFINITE); err != nil {
		return p, wrap("WaitForSingleObject", err)
	}
	if err := windows.GetExitCodeProcess(pi.Process, &p.ExitCode); err != nil {
		return p, wrap("GetExitCodeProcess", err)
	}
	p.Exited = true
	return p, nil
}
