package sid

import (
	"errors"
	"testing"
)

func TestParseString(t *testing.T) {
	for _, str := range []string{
		"S-1-5-21-1004336348-1177238915-682003330-1000",
		"S-1-5-32-544",
		"S-1-5-5-0-123456",
		"S-1-1-0",
	} {
		s, err := Parse(str)
		if err != nil {
			t.Fatalf("Parse(%s) error: %v", str, err)
		}
		if s.String() != str {
			t.Errorf("Parse(%s).String() = %s", str, s.String())
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, str := range []string{"", "S-1", "X-1-5", "S-2-5-32", "S-1-5-abc", "S-1-5-1-2-3-4-5-6-7-8-9-10-11-12-13-14-15-16"} {
		if _, err := Parse(str); !errors.Is(err, ErrInvalidSID) {
			t.Errorf("Parse(%q) error = %v", str, err)
		}
	}
}

func TestPrimaryGroup(t *testing.T) {
	user, _ := Parse("S-1-5-21-1-2-3-1001")
	g, err := PrimaryGroupFromUser(user)
	if err != nil {
		t.Fatalf("PrimaryGroupFromUser error: %v", err)
	}
	if g.String() != "S-1-5-21-1-2-3-513" {
		t.Errorf("primary group = %s", g)
	}
	if user.String() != "S-1-5-21-1-2-3-1001" {
		t.Error("PrimaryGroupFromUser modified the user SID")
	}

	if _, err := PrimaryGroupFromUser(&SID{Revision: 1}); !errors.Is(err, ErrNoRID) {
		t.Errorf("empty SID error = %v", err)
	}
}

func TestBuiltin(t *testing.T) {
	admins, _ := Parse("S-1-5-32-544")
	if !admins.IsBuiltin() {
		t.Error("S-1-5-32-544 not BUILTIN")
	}
	users, _ := Parse("S-1-5-21-1-2-3-513")
	if users.IsBuiltin() {
		t.Error("domain users reported as BUILTIN")
	}
}

func TestLogonSessionSID(t *testing.T) {
	s := LogonSessionSID(0, 0x3e7)
	if s.String() != "S-1-5-5-0-999" {
		t.Errorf("LogonSessionSID = %s", s)
	}
	if !s.IsLogonSessionSID() {
		t.Error("IsLogonSessionSID false")
	}
}
