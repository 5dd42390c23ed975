package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ineffectivecoder/LogonGooser/pkg/authpkg"
	"github.com/ineffectivecoder/LogonGooser/pkg/authpkg/custom"
	"github.com/ineffectivecoder/LogonGooser/pkg/lsa"
	"github.com/ineffectivecoder/LogonGooser/pkg/netuser"
	"github.com/ineffectivecoder/LogonGooser/pkg/ntstatus"
)

const testConfig = `
computer = "WS01"
log_level = "trace"

[accounts]
Users = "S-1-5-32-545"
None = "S-1-5-21-1000-2000-3000-513"

[[users]]
name = "alice"
password = "secret"
groups = ["None"]
local_groups = ["Users"]

[[users]]
name = "bob"
sid = "S-1-5-21-9-9-9-1105"
`

func testSetup(t *testing.T) (*config, *authpkg.Log, string) {
	t.Helper()
	cfg, err := parseConfig([]byte(testConfig))
	if err != nil {
		t.Fatalf("parseConfig error: %v", err)
	}
	cfg.LogFile = filepath.Join(t.TempDir(), "authpkg.log")
	log, err := openLog(cfg, cfg.Package, false)
	if err != nil {
		t.Fatalf("openLog error: %v", err)
	}
	return cfg, log, cfg.LogFile
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig([]byte(testConfig))
	if err != nil {
		t.Fatalf("parseConfig error: %v", err)
	}
	if cfg.Package != "NoPasswordAuthPkg" {
		t.Errorf("Package = %s", cfg.Package)
	}
	if cfg.LSA.Version != authpkg.InterfaceVersion || cfg.LSA.FirstID != 1 {
		t.Errorf("LSA = %+v", cfg.LSA)
	}
	if cfg.Client.PointerSize != 4 && cfg.Client.PointerSize != 8 {
		t.Errorf("PointerSize = %d", cfg.Client.PointerSize)
	}
	if cfg.Gate.Timeout != 3 {
		t.Errorf("Gate.Timeout = %d", cfg.Gate.Timeout)
	}
	if len(cfg.Users) != 2 {
		t.Errorf("Users = %d", len(cfg.Users))
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []string{
		"[client]\npointer_size = 6\n",
		"log_level = \"loud\"\n",
		"[[users]]\npassword = \"x\"\n",
		"[[users]]\nname = \"a\"\n[[users]]\nname = \"A\"\n",
		"computer = \n",
	}
	for _, tt := range tests {
		if _, err := parseConfig([]byte(tt)); err == nil {
			t.Errorf("parseConfig(%q) accepted", tt)
		}
	}
}

func TestDirectory(t *testing.T) {
	cfg, err := parseConfig([]byte(testConfig))
	if err != nil {
		t.Fatalf("parseConfig error: %v", err)
	}
	dir, err := cfg.directory()
	if err != nil {
		t.Fatalf("directory error: %v", err)
	}

	alice, err := dir.LookupAccountName("alice")
	if err != nil || alice.String() != "S-1-5-21-1000-2000-3000-1001" {
		t.Errorf("alice = %v, %v", alice, err)
	}
	bob, err := dir.LookupAccountName("BOB")
	if err != nil || bob.String() != "S-1-5-21-9-9-9-1105" {
		t.Errorf("bob = %v, %v", bob, err)
	}
	groups, _ := dir.UserGroups("alice")
	if len(groups) != 1 || groups[0].Name != "None" {
		t.Errorf("alice groups = %+v", groups)
	}
}

func TestSimulateNoPassword(t *testing.T) {
	cfg, log, logFile := testSetup(t)

	out, err := simulate(cfg, log, "", "alice", "secret")
	if err != nil {
		t.Fatalf("simulate error: %v", err)
	}
	if out.LogonErr != nil {
		t.Fatalf("LogonUser error: %v", out.LogonErr)
	}
	if out.PackageID != 1 {
		t.Errorf("PackageID = %d", out.PackageID)
	}
	if out.Profile == nil || out.Profile.LogonCount != 42 || out.Profile.LogonServer != "WS01" {
		t.Errorf("profile = %+v", out.Profile)
	}
	if len(out.Logon.Token.Groups) != 2 {
		t.Errorf("groups = %+v", out.Logon.Token.Groups)
	}
	if out.Filter != nil || out.Routine != nil {
		t.Errorf("sub-auth = %v, %v", out.Filter, out.Routine)
	}
	id := out.Logon.LogonID
	want := fmt.Sprintf("S-1-5-5-%d-%d", id.HighPart, id.LowPart)
	if out.SessionSID == nil || out.SessionSID.String() != want || !out.SessionSID.IsLogonSessionSID() {
		t.Errorf("SessionSID = %v, want %s", out.SessionSID, want)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "[authpkg/NoPasswordAuthPkg] ") {
		t.Errorf("log missing package prefix:\n%s", data)
	}
}

// TestSimulateNameCase tests that groups follow the account when the
// logon name differs in case from the configured one
func TestSimulateNameCase(t *testing.T) {
	cfg, log, _ := testSetup(t)

	out, err := simulate(cfg, log, "", "ALICE", "secret")
	if err != nil {
		t.Fatalf("simulate error: %v", err)
	}
	if out.LogonErr != nil {
		t.Fatalf("LogonUser error: %v", out.LogonErr)
	}
	if out.Logon.Token.User.String() != "S-1-5-21-1000-2000-3000-1001" {
		t.Errorf("user = %s", out.Logon.Token.User)
	}
	if len(out.Logon.Token.Groups) != 2 {
		t.Errorf("groups = %+v", out.Logon.Token.Groups)
	}
	if out.Routine != nil {
		t.Errorf("routine = %v", out.Routine)
	}
}

func TestSimulateWrongPassword(t *testing.T) {
	cfg, log, _ := testSetup(t)

	out, err := simulate(cfg, log, "", "alice", "wrong")
	if err != nil {
		t.Fatalf("simulate error: %v", err)
	}
	if out.LogonErr != nil {
		t.Errorf("NoPasswordAuthPkg checked the password: %v", out.LogonErr)
	}
	if out.Filter != nil {
		t.Errorf("filter = %v", out.Filter)
	}
	if ntstatus.StatusOf(out.Routine) != ntstatus.StatusWrongPassword {
		t.Errorf("routine = %v", out.Routine)
	}
}

func TestSimulateGateBlocked(t *testing.T) {
	cfg, log, _ := testSetup(t)
	cfg.Gate.Blocked = true

	out, err := simulate(cfg, log, "", "alice", "secret")
	if err != nil {
		t.Fatalf("simulate error: %v", err)
	}
	for name, err := range map[string]error{"filter": out.Filter, "routine": out.Routine} {
		if ntstatus.StatusOf(err) != ntstatus.StatusAccountLockedOut {
			t.Errorf("%s = %v", name, err)
		}
	}
}

func TestSimulateCustomAbsolute(t *testing.T) {
	cfg, log, _ := testSetup(t)
	cfg.Package = custom.Name
	cfg.Client.Absolute = true
	cfg.Client.PointerSize = 4
	cfg.LSA.FirstID = 7

	out, err := simulate(cfg, log, "WS01", "bob", "")
	if err != nil {
		t.Fatalf("simulate error: %v", err)
	}
	if out.LogonErr != nil {
		t.Fatalf("LogonUser error: %v", out.LogonErr)
	}
	if out.PackageID != 8 {
		t.Errorf("PackageID = %d, want 8", out.PackageID)
	}
	if out.Profile != nil || out.Logon.ProfileBuffer != 0 {
		t.Errorf("CustomAuthPkg returned a profile")
	}
	if out.Logon.AccountName != "bob" || out.Logon.AuthenticatingAuthority != "WS01" {
		t.Errorf("result = %+v", out.Logon)
	}
}

func TestAccountsHostDirectory(t *testing.T) {
	cfg, err := parseConfig([]byte("host_directory = true\n" + testConfig))
	if err != nil {
		t.Fatalf("parseConfig error: %v", err)
	}
	dir, err := cfg.accounts()
	if err != nil {
		t.Fatalf("accounts error: %v", err)
	}
	if _, ok := dir.(netuser.Directory); !ok {
		t.Errorf("accounts = %T, want netuser.Directory", dir)
	}

	cfg.HostDirectory = false
	if dir, _ = cfg.accounts(); dir == nil {
		t.Fatal("accounts returned nil")
	}
	if _, ok := dir.(*authpkg.StaticDirectory); !ok {
		t.Errorf("accounts = %T, want *authpkg.StaticDirectory", dir)
	}
}

func TestSimulateUnknownUser(t *testing.T) {
	cfg, log, _ := testSetup(t)

	out, err := simulate(cfg, log, "", "mallory", "x")
	if err != nil {
		t.Fatalf("simulate error: %v", err)
	}
	if ntstatus.StatusOf(out.LogonErr) != ntstatus.StatusFailFastException {
		t.Errorf("LogonUser error = %v", out.LogonErr)
	}
}

func TestSimulateUnknownPackage(t *testing.T) {
	cfg, log, _ := testSetup(t)
	cfg.Package = "Nope"

	if _, err := simulate(cfg, log, "", "alice", "x"); !errors.Is(err, lsa.ErrPackageNotFound) {
		t.Errorf("simulate error = %v", err)
	}
}
