// Package sid parses, formats and derives security identifiers without
// calling into the OS.
package sid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidSID = errors.New("invalid SID")
	ErrNoRID      = errors.New("SID has no sub-authorities")
)

// Well-known values
const (
	Revision = 1

	MaxSubAuthorities = 15

	// SecurityNTAuthority is the NT authority value (5)
	SecurityNTAuthority = 5
	// SecurityLogonIDsRID prefixes logon session SIDs (S-1-5-5-X-Y)
	SecurityLogonIDsRID = 5
	// SecurityBuiltinDomainRID identifies BUILTIN\ groups (S-1-5-32-...)
	SecurityBuiltinDomainRID = 32

	// DomainGroupRIDUsers is the "Domain Users" / "None" primary group RID
	DomainGroupRIDUsers = 513
)

// SID is a decoded security identifier
type SID struct {
	Revision       uint8
	Authority      [6]byte
	SubAuthorities []uint32
}

// New creates an NT authority SID with the given sub-authorities
func New(subAuthorities ...uint32) *SID {
	s := &SID{Revision: Revision, SubAuthorities: append([]uint32(nil), subAuthorities...)}
	s.Authority[5] = SecurityNTAuthority
	return s
}

// Parse parses the S-R-I-S-S... string form
func Parse(str string) (*SID, error) {
	parts := strings.Split(str, "-")
	if len(parts) < 3 || !strings.EqualFold(parts[0], "S") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSID, str)
	}

	rev, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil || rev != Revision {
		return nil, fmt.Errorf("%w: revision %q", ErrInvalidSID, parts[1])
	}

	var auth uint64
	if strings.HasPrefix(parts[2], "0x") || strings.HasPrefix(parts[2], "0X") {
		auth, err = strconv.ParseUint(parts[2][2:], 16, 48)
	} else {
		auth, err = strconv.ParseUint(parts[2], 10, 48)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: authority %q", ErrInvalidSID, parts[2])
	}

	subs := parts[3:]
	if len(subs) > MaxSubAuthorities {
		return nil, fmt.Errorf("%w: %d sub-authorities", ErrInvalidSID, len(subs))
	}

	s := &SID{Revision: uint8(rev)}
	for i := 0; i < 6; i++ {
		s.Authority[5-i] = byte(auth >> (8 * i))
	}
	for _, p := range subs {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: sub-authority %q", ErrInvalidSID, p)
		}
		s.SubAuthorities = append(s.SubAuthorities, uint32(v))
	}
	return s, nil
}

func (s *SID) authority() uint64 {
	var v uint64
	for _, c := range s.Authority {
		v = v<<8 | uint64(c)
	}
	return v
}

// String returns the S-R-I-S-S... form
func (s *SID) String() string {
	var sb strings.Builder
	sb.WriteString("S-")
	sb.WriteString(strconv.FormatUint(uint64(s.Revision), 10))
	sb.WriteByte('-')
	if a := s.authority(); a >= 1<<32 {
		fmt.Fprintf(&sb, "0x%012X", a)
	} else {
		sb.WriteString(strconv.FormatUint(a, 10))
	}
	for _, v := range s.SubAuthorities {
		sb.WriteByte('-')
		sb.WriteString(strconv.FormatUint(uint64(v), 10))
	}
	return sb.String()
}

// RID returns the last sub-authority
func (s *SID) RID() (uint32, error) {
	if len(s.SubAuthorities) == 0 {
		return 0, ErrNoRID
	}
	return s.SubAuthorities[len(s.SubAuthorities)-1], nil
}

// WithRID returns a copy of s with the last sub-authority replaced
func (s *SID) WithRID(rid uint32) (*SID, error) {
	if len(s.SubAuthorities) == 0 {
		return nil, ErrNoRID
	}
	out := &SID{Revision: s.Revision, Authority: s.Authority, SubAuthorities: append([]uint32(nil), s.SubAuthorities...)}
	out.SubAuthorities[len(out.SubAuthorities)-1] = rid
	return out, nil
}

// IsBuiltin reports whether s is in the BUILTIN domain (S-1-5-32-...)
func (s *SID) IsBuiltin() bool {
	return len(s.SubAuthorities) > 0 && s.SubAuthorities[0] == SecurityBuiltinDomainRID
}

// PrimaryGroupFromUser derives the default primary group of an account:
// the account SID with its RID replaced by DOMAIN_GROUP_RID_USERS.
func PrimaryGroupFromUser(user *SID) (*SID, error) {
	return user.WithRID(DomainGroupRIDUsers)
}

// LogonSessionSID returns S-1-5-5-<high>-<low> for a logon session LUID
func LogonSessionSID(high int32, low uint32) *SID {
	return New(SecurityLogonIDsRID, uint32(high), low)
}

// IsLogonSessionSID reports whether s has the S-1-5-5-X-Y shape
func (s *SID) IsLogonSessionSID() bool {
	return s.authority() == SecurityNTAuthority && len(s.SubAuthorities) == 3 && s.SubAuthorities[0] == SecurityLogonIDsRID
}
