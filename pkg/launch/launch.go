// Package launch starts a process under a logon token after granting the
// token's logon session access to the interactive window station and
// desktop.
package launch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ineffectivecoder/LogonGooser/pkg/ntstatus"
)

// ErrNotSupported is returned on platforms without CreateProcessWithTokenW
var ErrNotSupported = errors.New("process launch under a token is only available on Windows")

// Win32 error codes that mean the caller lacks rights, not that the
// launch itself failed
const (
	errorAccessDenied      = 5
	errorPrivilegeNotHeld  = 1314
	errorLogonTypeNotGrant = 1385
)

// Options describes the process to start
type Options struct {
	Executable string
	Args       []string
	WorkDir    string
	// NewConsole opens a separate console window. Without it the child
	// shares our standard handles and gets no window.
	NewConsole bool
	// Wait blocks until the process exits
	Wait bool
	// WithProfile loads the user's profile (HKEY_CURRENT_USER)
	WithProfile bool
	// Desktop is the window station and desktop the process starts on
	Desktop string
}

// DefaultOptions starts cmd.exe in C:\ on a new console and waits for it
func DefaultOptions() Options {
	return Options{
		Executable:  `C:\Windows\System32\cmd.exe`,
		WorkDir:     `C:\`,
		NewConsole:  true,
		Wait:        true,
		WithProfile: true,
		Desktop:     `winsta0\default`,
	}
}

// CommandLine quotes the executable and arguments into one command line
func (o Options) CommandLine() string {
	parts := make([]string, 0, len(o.Args)+1)
	parts = append(parts, quoteArg(o.Executable))
	for _, a := range o.Args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

// quoteArg follows the CommandLineToArgvW rules
func quoteArg(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n\v\"") {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	slashes := 0
	for _, c := range s {
		switch c {
		case '\\':
			slashes++
		case '"':
			b.WriteString(strings.Repeat(`\`, slashes+1))
			slashes = 0
		default:
			slashes = 0
		}
		if c != '\\' {
			b.WriteRune(c)
		} else {
			b.WriteByte('\\')
		}
	}
	b.WriteString(strings.Repeat(`\`, slashes))
	b.WriteByte('"')
	return b.String()
}

// Classify maps a Win32 error from the launch path to a failure category
func Classify(code uint32) ntstatus.Category {
	switch code {
	case 0:
		return ntstatus.CategoryNone
	case errorAccessDenied, errorPrivilegeNotHeld, errorLogonTypeNotGrant:
		return ntstatus.CategoryAuthorization
	default:
		return ntstatus.CategoryLaunch
	}
}

// Process is a started process
type Process struct {
	PID      uint32
	ExitCode uint32
	Exited   bool
}

// Error is a failed launch step
type Error struct {
	Op   string
	Code uint32
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches ntstatus.ErrAuthorization or ntstatus.ErrLaunch
func (e *Error) Is(target error) bool {
	s := Classify(e.Code).Sentinel()
	return s != nil && s == target
}
