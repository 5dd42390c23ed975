package launch

import (
	"errors"
	"testing"

	"github.com/ineffectivecoder/LogonGooser/pkg/ntstatus"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if o.Executable != `C:\Windows\System32\cmd.exe` || o.WorkDir != `C:\` {
		t.Errorf("defaults = %+v", o)
	}
	if !o.NewConsole || !o.Wait || !o.WithProfile {
		t.Errorf("default flags = %+v", o)
	}
}

func TestCommandLine(t *testing.T) {
	tests := []struct {
		exe  string
		args []string
		want string
	}{
		{`C:\Windows\System32\cmd.exe`, nil, `C:\Windows\System32\cmd.exe`},
		{`C:\Program Files\x.exe`, []string{"/c", "echo hi"}, `"C:\Program Files\x.exe" /c "echo hi"`},
		{`a.exe`, []string{`say "x"`}, `a.exe "say \"x\""`},
		{`a.exe`, []string{`dir\ `}, `a.exe "dir\ "`},
		{`a.exe`, []string{`end\`, ""}, `a.exe end\ ""`},
	}

	for _, tt := range tests {
		o := Options{Executable: tt.exe, Args: tt.args}
		if got := o.CommandLine(); got != tt.want {
			t.Errorf("CommandLine(%q %q) = %s, want %s", tt.exe, tt.args, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	if Classify(5) != ntstatus.CategoryAuthorization {
		t.Error("ERROR_ACCESS_DENIED not authorization")
	}
	if Classify(1314) != ntstatus.CategoryAuthorization {
		t.Error("ERROR_PRIVILEGE_NOT_HELD not authorization")
	}
	if Classify(2) != ntstatus.CategoryLaunch {
		t.Error("ERROR_FILE_NOT_FOUND not launch")
	}

	err := error(&Error{Op: "CreateProcessWithTokenW", Code: 1314, Err: errors.New("A required privilege is not held by the client.")})
	if !errors.Is(err, ntstatus.ErrAuthorization) || errors.Is(err, ntstatus.ErrLaunch) {
		t.Errorf("privilege error classification wrong: %v", err)
	}
}
