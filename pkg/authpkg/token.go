package authpkg

import (
	"fmt"

	"github.com/ineffectivecoder/LogonGooser/pkg/msv1_0"
	"github.com/ineffectivecoder/LogonGooser/pkg/ntstatus"
	"github.com/ineffectivecoder/LogonGooser/pkg/sid"
)

// SE_GROUP_* attributes
const (
	GroupMandatory        uint32 = 0x00000001
	GroupEnabledByDefault uint32 = 0x00000002
	GroupEnabled          uint32 = 0x00000004
	GroupOwner            uint32 = 0x00000008
	GroupLogonID          uint32 = 0xC0000000
)

// Group is a SID_AND_ATTRIBUTES entry
type Group struct {
	SID        *sid.SID
	Attributes uint32
}

// Privilege is a LUID_AND_ATTRIBUTES entry, by name
type Privilege struct {
	Name       string
	Attributes uint32
}

// TokenInformation is LSA_TOKEN_INFORMATION_V1
type TokenInformation struct {
	ExpirationTime int64
	User           *sid.SID
	Groups         []Group
	PrimaryGroup   *sid.SID
	Privileges     []Privilege
	Owner          *sid.SID
	DefaultDACL    []byte
}

// BuildTokenInformation resolves user through dir and fills in the user
// SID, its global and local groups, and a primary group derived from the
// user SID. Privileges, owner and default DACL are left for LSA to fill.
func BuildTokenInformation(dir Directory, user string, log *Log) (*TokenInformation, error) {
	userSID, err := dir.LookupAccountName(user)
	if err != nil {
		log.Error("LookupAccountName(%q) failed: %s", user, err)
		return nil, &ntstatus.Error{Op: "LookupAccountName", Status: ntstatus.StatusFailFastException}
	}
	log.Debug("User.User: %s (%s)", user, userSID)

	groups, err := dir.UserGroups(user)
	if err != nil {
		log.Error("NetUserGetGroups(%q) failed: %s", user, err)
		return nil, &ntstatus.Error{Op: "NetUserGetGroups", Status: ntstatus.StatusFailFastException}
	}
	log.Debug("NumberOfGroups: %d", len(groups))

	local, err := dir.UserLocalGroups(user)
	if err != nil {
		log.Error("NetUserGetLocalGroups(%q) failed: %s", user, err)
		return nil, &ntstatus.Error{Op: "NetUserGetLocalGroups", Status: ntstatus.StatusFailFastException}
	}
	log.Debug("NumberOfLocalGroups: %d", len(local))

	primary, err := sid.PrimaryGroupFromUser(userSID)
	if err != nil {
		return nil, &ntstatus.Error{Op: fmt.Sprintf("primary group of %s", userSID), Status: ntstatus.StatusFailFastException}
	}

	ti := &TokenInformation{
		ExpirationTime: msv1_0.Forever,
		User:           userSID,
		PrimaryGroup:   primary,
		Groups:         make([]Group, 0, len(groups)+len(local)),
	}

	for _, g := range groups {
		s, err := dir.LookupAccountName(g.Name)
		if err != nil {
			log.Warning("Skipping group %q: %s", g.Name, err)
			continue
		}
		ti.Groups = append(ti.Groups, Group{SID: s, Attributes: g.Attributes})
	}
	for _, name := range local {
		s, err := dir.LookupAccountName(name)
		if err != nil {
			log.Warning("Skipping local group %q: %s", name, err)
			continue
		}
		// NetUserGetLocalGroups reports no attributes. BUILTIN aliases
		// are added disabled.
		var attrs uint32
		if !s.IsBuiltin() {
			attrs = GroupEnabled | GroupEnabledByDefault
		}
		ti.Groups = append(ti.Groups, Group{SID: s, Attributes: attrs})
	}

	return ti, nil
}
