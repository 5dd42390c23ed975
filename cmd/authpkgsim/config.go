package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/PurpleSec/logx"
	"github.com/pelletier/go-toml"

	"github.com/ineffectivecoder/LogonGooser/internal/crypto"
	"github.com/ineffectivecoder/LogonGooser/pkg/authpkg"
	"github.com/ineffectivecoder/LogonGooser/pkg/authpkg/nopassword"
	"github.com/ineffectivecoder/LogonGooser/pkg/msv1_0"
	"github.com/ineffectivecoder/LogonGooser/pkg/netuser"
	"github.com/ineffectivecoder/LogonGooser/pkg/sid"
)

type userConfig struct {
	Name        string   `toml:"name"`
	SID         string   `toml:"sid"`
	Password    string   `toml:"password"`
	Groups      []string `toml:"groups"`
	LocalGroups []string `toml:"local_groups"`
}

type config struct {
	Computer string `toml:"computer"`
	// Package is the server-side package to drive
	Package  string `toml:"package"`
	LogFile  string `toml:"log_file"`
	LogLevel string `toml:"log_level"`

	// HostDirectory resolves accounts against the local SAM instead of
	// the users below
	HostDirectory bool `toml:"host_directory"`

	Client struct {
		// PointerSize selects the client layout, 4 or 8
		PointerSize int `toml:"pointer_size"`
		// Absolute submits descriptors holding client addresses
		Absolute bool `toml:"absolute"`
	} `toml:"client"`

	LSA struct {
		Version      uint32 `toml:"version"`
		MachineState uint32 `toml:"machine_state"`
		FirstID      uint32 `toml:"first_package_id"`
	} `toml:"lsa"`

	Gate struct {
		// Bluetooth probes the radio, otherwise Blocked is used as is
		Bluetooth bool `toml:"bluetooth"`
		Blocked   bool `toml:"blocked"`
		Timeout   int  `toml:"timeout"`
	} `toml:"gate"`

	// Accounts maps group names to SIDs
	Accounts map[string]string `toml:"accounts"`
	Users    []userConfig      `toml:"users"`
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path) // #nosec
	if err != nil {
		return nil, err
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*config, error) {
	cfg := new(config)
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Computer == "" {
		cfg.Computer = "WORKSTATION"
	}
	if cfg.Package == "" {
		cfg.Package = nopassword.Name
	}
	switch cfg.Client.PointerSize {
	case 0:
		cfg.Client.PointerSize = msv1_0.NativeLayout.PointerSize
	case 4, 8:
	default:
		return nil, fmt.Errorf("client.pointer_size must be 4 or 8, not %d", cfg.Client.PointerSize)
	}
	if cfg.LSA.Version == 0 {
		cfg.LSA.Version = authpkg.InterfaceVersion
	}
	if cfg.LSA.FirstID == 0 {
		cfg.LSA.FirstID = 1
	}
	if cfg.LSA.MachineState == 0 {
		cfg.LSA.MachineState = authpkg.StateEncryptionPermitted | authpkg.StateStrongEncryptionPermitted | authpkg.StateStandalone
	}
	if cfg.Gate.Timeout == 0 {
		cfg.Gate.Timeout = 3
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(cfg.Users))
	for _, u := range cfg.Users {
		if u.Name == "" {
			return nil, fmt.Errorf("user without a name")
		}
		key := strings.ToLower(u.Name)
		if seen[key] {
			return nil, fmt.Errorf("user %q defined twice", u.Name)
		}
		seen[key] = true
	}
	return cfg, nil
}

func (c *config) layout() msv1_0.Layout {
	return msv1_0.Layout{PointerSize: c.Client.PointerSize}
}

func (c *config) user(name string) (*userConfig, bool) {
	for i := range c.Users {
		if strings.EqualFold(c.Users[i].Name, name) {
			return &c.Users[i], true
		}
	}
	return nil, false
}

// storedHash is the NT OWF of the configured password, zero when the user
// has none.
func (u *userConfig) storedHash() [16]byte {
	if u == nil || u.Password == "" {
		return [16]byte{}
	}
	return crypto.NTOWF(u.Password)
}

// accounts returns the directory logons are resolved against
func (c *config) accounts() (authpkg.Directory, error) {
	if c.HostDirectory {
		return netuser.Directory{}, nil
	}
	dir, err := c.directory()
	if err != nil {
		return nil, err
	}
	return dir, nil
}

// directory builds the account database. Users without a SID get RIDs
// from 1001 under a machine domain SID.
func (c *config) directory() (*authpkg.StaticDirectory, error) {
	dir := &authpkg.StaticDirectory{
		Computer:    c.Computer,
		Accounts:    make(map[string]*sid.SID),
		Groups:      make(map[string][]authpkg.GroupMembership),
		LocalGroups: make(map[string][]string),
	}

	machine, err := sid.Parse("S-1-5-21-1000-2000-3000-500")
	if err != nil {
		return nil, err
	}
	for name, s := range c.Accounts {
		v, err := sid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", name, err)
		}
		dir.Accounts[name] = v
	}

	rid := uint32(1001)
	for _, u := range c.Users {
		var v *sid.SID
		if u.SID != "" {
			if v, err = sid.Parse(u.SID); err != nil {
				return nil, fmt.Errorf("user %q: %w", u.Name, err)
			}
		} else {
			if v, err = machine.WithRID(rid); err != nil {
				return nil, err
			}
			rid++
		}
		dir.Accounts[u.Name] = v

		for _, g := range u.Groups {
			dir.Groups[u.Name] = append(dir.Groups[u.Name], authpkg.GroupMembership{
				Name:       g,
				Attributes: authpkg.GroupMandatory | authpkg.GroupEnabledByDefault | authpkg.GroupEnabled,
			})
		}
		dir.LocalGroups[u.Name] = append(dir.LocalGroups[u.Name], u.LocalGroups...)
	}
	return dir, nil
}

func parseLevel(s string) (logx.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return logx.Trace, nil
	case "debug", "":
		return logx.Debug, nil
	case "info":
		return logx.Info, nil
	case "warning", "warn":
		return logx.Warning, nil
	case "error":
		return logx.Error, nil
	}
	return 0, fmt.Errorf("unknown log_level %q", s)
}
