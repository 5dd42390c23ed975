package netuser

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/ineffectivecoder/LogonGooser/pkg/authpkg"
	"github.com/ineffectivecoder/LogonGooser/pkg/sid"
)

var (
	modnetapi32 = windows.NewLazySystemDLL("netapi32.dll")

	procNetUserChangePassword = modnetapi32.NewProc("NetUserChangePassword")
	procNetUserGetGroups      = modnetapi32.NewProc("NetUserGetGroups")
	procNetUserGetLocalGroups = modnetapi32.NewProc("NetUserGetLocalGroups")
	procNetUserGetInfo        = modnetapi32.NewProc("NetUserGetInfo")
	procNetApiBufferFree      = modnetapi32.NewProc("NetApiBufferFree")
)

const (
	_MAX_PREFERRED_LENGTH = 0xFFFFFFFF
	_LG_INCLUDE_INDIRECT  = 0x0001
)

// GROUP_USERS_INFO_1
type groupUsersInfo1 struct {
	name       *uint16
	attributes uint32
}

// LOCALGROUP_USERS_INFO_0
type localGroupUsersInfo0 struct {
	name *uint16
}

func utf16Ptr(s string) (*uint16, error) {
	if s == "" {
		return nil, nil
	}
	return windows.UTF16PtrFromString(s)
}

// ChangePassword changes user's password on domain, or the local machine
// when domain is empty.
func ChangePassword(domain, user, oldPassword, newPassword string) error {
	d, err := utf16Ptr(domain)
	if err != nil {
		return err
	}
	u, err := windows.UTF16PtrFromString(user)
	if err != nil {
		return err
	}
	o, err := windows.UTF16PtrFromString(oldPassword)
	if err != nil {
		return err
	}
	n, err := windows.UTF16PtrFromString(newPassword)
	if err != nil {
		return err
	}

	r, _, _ := procNetUserChangePassword.Call(
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(u)),
		uintptr(unsafe.Pointer(o)),
		uintptr(unsafe.Pointer(n)),
	)
	return FromNetStatus("NetUserChangePassword", uint32(r))
}

// Groups lists the global groups user belongs to with their attributes
func Groups(user string) ([]authpkg.GroupMembership, error) {
	u, err := windows.UTF16PtrFromString(user)
	if err != nil {
		return nil, err
	}

	var buf *byte
	var read, total uint32
	r, _, _ := procNetUserGetGroups.Call(
		0,
		uintptr(unsafe.Pointer(u)),
		1,
		uintptr(unsafe.Pointer(&buf)),
		_MAX_PREFERRED_LENGTH,
		uintptr(unsafe.Pointer(&read)),
		uintptr(unsafe.Pointer(&total)),
	)
	if err := FromNetStatus("NetUserGetGroups", uint32(r)); err != nil {
		return nil, err
	}
	defer procNetApiBufferFree.Call(uintptr(unsafe.Pointer(buf)))

	if read == 0 || buf == nil {
		return nil, nil
	}
	entries := unsafe.Slice((*groupUsersInfo1)(unsafe.Pointer(buf)), read)
	groups := make([]authpkg.GroupMembership, 0, read)
	for _, e := range entries {
		groups = append(groups, authpkg.GroupMembership{
			Name:       windows.UTF16PtrToString(e.name),
			Attributes: e.attributes,
		})
	}
	return groups, nil
}

// LocalGroups lists the local groups user belongs to, including indirect
// membership through global groups.
func LocalGroups(user string) ([]string, error) {
	u, err := windows.UTF16PtrFromString(user)
	if err != nil {
		return nil, err
	}

	var buf *byte
	var read, total uint32
	r, _, _ := procNetUserGetLocalGroups.Call(
		0,
		uintptr(unsafe.Pointer(u)),
		0,
		_LG_INCLUDE_INDIRECT,
		uintptr(unsafe.Pointer(&buf)),
		_MAX_PREFERRED_LENGTH,
		uintptr(unsafe.Pointer(&read)),
		uintptr(unsafe.Pointer(&total)),
	)
	if err := FromNetStatus("NetUserGetLocalGroups", uint32(r)); err != nil {
		return nil, err
	}
	defer procNetApiBufferFree.Call(uintptr(unsafe.Pointer(buf)))

	if read == 0 || buf == nil {
		return nil, nil
	}
	entries := unsafe.Slice((*localGroupUsersInfo0)(unsafe.Pointer(buf)), read)
	names := make([]string, 0, read)
	for _, e := range entries {
		names = append(names, windows.UTF16PtrToString(e.name))
	}
	return names, nil
}

// ProfilePath returns usri4_profile for user on the local machine. An
// empty path means the default profile location is used.
func ProfilePath(user string) (string, error) {
	u, err := windows.UTF16PtrFromString(user)
	if err != nil {
		return "", err
	}

	var buf *byte
	r, _, _ := procNetUserGetInfo.Call(0, uintptr(unsafe.Pointer(u)), 4, uintptr(unsafe.Pointer(&buf)))
	if err := FromNetStatus("NetUserGetInfo", uint32(r)); err != nil {
		return "", err
	}
	defer procNetApiBufferFree.Call(uintptr(unsafe.Pointer(buf)))

	info := (*userInfo4)(unsafe.Pointer(buf))
	return windows.UTF16PtrToString(info.profile), nil
}

// USER_INFO_4
type userInfo4 struct {
	name            *uint16
	password        *uint16
	passwordAge     uint32
	priv            uint32
	homeDir         *uint16
	comment         *uint16
	flags           uint32
	scriptPath      *uint16
	authFlags       uint32
	fullName        *uint16
	usrComment      *uint16
	parms           *uint16
	workstations    *uint16
	lastLogon       uint32
	lastLogoff      uint32
	acctExpires     uint32
	maxStorage      uint32
	unitsPerWeek    uint32
	logonHours      *byte
	badPwCount      uint32
	numLogons       uint32
	logonServer     *uint16
	countryCode     uint32
	codePage        uint32
	userSid         *windows.SID
	primaryGroupID  uint32
	profile         *uint16
	homeDirDrive    *uint16
	passwordExpired uint32
}

// LookupAccountName resolves name on the local machine
func LookupAccountName(name string) (*sid.SID, error) {
	s, _, _, err := windows.LookupSID("", name)
	if err != nil {
		if err == windows.ERROR_NONE_MAPPED {
			return nil, fmt.Errorf("LookupAccountName(%s): %w", name, ErrUserNotFound)
		}
		return nil, fmt.Errorf("LookupAccountName(%s): %w", name, err)
	}
	return sid.Parse(s.String())
}

func computerName() (string, error) {
	return windows.ComputerName()
}
