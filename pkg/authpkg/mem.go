package authpkg

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ineffectivecoder/LogonGooser/pkg/lsa"
	"github.com/ineffectivecoder/LogonGooser/pkg/sid"
)

var (
	ErrNoSuchSession = errors.New("no such logon session")
	ErrBadAddress    = errors.New("address outside any client buffer")
	ErrNoSuchAccount = errors.New("no such account")
)

// MemDispatch is an in-process stand-in for the LSA function table. Client
// buffers live in a map keyed by fake addresses.
type MemDispatch struct {
	mu       sync.Mutex
	nextLUID uint64
	nextAddr uint64
	sessions map[lsa.LUID]bool
	buffers  map[uint64][]byte
}

// NewMemDispatch creates a MemDispatch. LUIDs start above the well-known
// system session IDs.
func NewMemDispatch() *MemDispatch {
	return &MemDispatch{
		nextLUID: 0x10000,
		nextAddr: 0x10000,
		sessions: make(map[lsa.LUID]bool),
		buffers:  make(map[uint64][]byte),
	}
}

// AllocateLocallyUniqueID returns a fresh LUID
func (m *MemDispatch) AllocateLocallyUniqueID() (lsa.LUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextLUID++
	return lsa.LUIDFromUint64(m.nextLUID), nil
}

// CreateLogonSession records a logon session
func (m *MemDispatch) CreateLogonSession(id lsa.LUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[id] {
		return fmt.Errorf("logon session %s already exists", id)
	}
	m.sessions[id] = true
	return nil
}

// DeleteLogonSession removes a logon session
func (m *MemDispatch) DeleteLogonSession(id lsa.LUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.sessions[id] {
		return fmt.Errorf("%w: %s", ErrNoSuchSession, id)
	}
	delete(m.sessions, id)
	return nil
}

// HasSession reports whether a logon session exists
func (m *MemDispatch) HasSession(id lsa.LUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

// AllocateClientBuffer reserves size bytes and returns their address
func (m *MemDispatch) AllocateClientBuffer(size int) (uint64, error) {
	if size < 0 {
		return 0, fmt.Errorf("invalid client buffer size %d", size)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	addr := m.nextAddr
	m.buffers[addr] = make([]byte, size)
	// Keep buffers 16-byte aligned with a gap between them
	m.nextAddr += uint64(size+16+15) &^ 15
	return addr, nil
}

// FreeClientBuffer releases a client buffer
func (m *MemDispatch) FreeClientBuffer(addr uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buffers[addr]; !ok {
		return fmt.Errorf("%w: 0x%X", ErrBadAddress, addr)
	}
	delete(m.buffers, addr)
	return nil
}

// CopyToClientBuffer copies data into an allocated client buffer
func (m *MemDispatch) CopyToClientBuffer(addr uint64, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for base, buf := range m.buffers {
		if addr >= base && addr-base+uint64(len(data)) <= uint64(len(buf)) {
			copy(buf[addr-base:], data)
			return nil
		}
	}
	return fmt.Errorf("%w: 0x%X+%d", ErrBadAddress, addr, len(data))
}

// ClientBuffer returns a copy of the client buffer at addr
func (m *MemDispatch) ClientBuffer(addr uint64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf, ok := m.buffers[addr]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%X", ErrBadAddress, addr)
	}
	return append([]byte(nil), buf...), nil
}

// StaticDirectory is a fixed account database
type StaticDirectory struct {
	Computer string
	// Accounts maps account and group names to SIDs
	Accounts map[string]*sid.SID
	// Groups maps user names to global group memberships
	Groups map[string][]GroupMembership
	// LocalGroups maps user names to local group names
	LocalGroups map[string][]string
}

// foldGet looks name up in m, falling back to a case-insensitive match the
// way SAM resolves account names.
func foldGet[V any](m map[string]V, name string) (V, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	var zero V
	return zero, false
}

func (d *StaticDirectory) lookup(name string) (*sid.SID, bool) {
	return foldGet(d.Accounts, name)
}

// LookupAccountName resolves a name to its SID
func (d *StaticDirectory) LookupAccountName(name string) (*sid.SID, error) {
	if s, ok := d.lookup(name); ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNoSuchAccount, name)
}

// UserGroups returns the global groups of user
func (d *StaticDirectory) UserGroups(user string) ([]GroupMembership, error) {
	if _, ok := d.lookup(user); !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchAccount, user)
	}
	groups, _ := foldGet(d.Groups, user)
	return groups, nil
}

// UserLocalGroups returns the local groups of user
func (d *StaticDirectory) UserLocalGroups(user string) ([]string, error) {
	if _, ok := d.lookup(user); !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchAccount, user)
	}
	local, _ := foldGet(d.LocalGroups, user)
	return local, nil
}

// ComputerName returns the configured computer name
func (d *StaticDirectory) ComputerName() (string, error) {
	if d.Computer == "" {
		return "", errors.New("computer name not configured")
	}
	return d.Computer, nil
}
