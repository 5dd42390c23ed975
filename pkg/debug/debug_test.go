package debug

import (
	"bytes"
	"strings"
	"testing"
)

func capture(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	oldOut, oldVerbose := Output, Verbose
	Output, Verbose = &buf, verbose
	t.Cleanup(func() { Output, Verbose = oldOut, oldVerbose })
	return &buf
}

func TestHexdump(t *testing.T) {
	buf := capture(t, true)
	Hexdump("submit", []byte("a\x00l\x00i\x00c\x00e\x00 \x00b\x00o\x00b\x00"))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf)
	}
	if lines[0] != "[DEBUG] submit (18 bytes)" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "[DEBUG]   00000000  61 00 6c 00") || !strings.HasSuffix(lines[1], "|a.l.i.c.e. .b.o.|") {
		t.Errorf("first row = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "[DEBUG]   00000010  62 00") {
		t.Errorf("second row = %q", lines[2])
	}
}

func TestQuiet(t *testing.T) {
	buf := capture(t, false)
	Printf("hidden %d\n", 1)
	Hexdump("hidden", []byte{1, 2, 3})
	if buf.Len() != 0 {
		t.Errorf("output while not verbose: %q", buf)
	}
}
