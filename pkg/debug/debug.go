// Package debug provides global verbose output control for the CLI tools
package debug

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Verbose controls whether debug output is enabled
var Verbose bool

// Output receives debug output
var Output io.Writer = os.Stdout

// Printf prints debug output if verbose mode is enabled
func Printf(format string, args ...interface{}) {
	if Verbose {
		fmt.Fprintf(Output, "[DEBUG] "+format, args...)
	}
}

// Hexdump prints a labelled hex dump of b if verbose mode is enabled
func Hexdump(label string, b []byte) {
	if !Verbose {
		return
	}
	fmt.Fprintf(Output, "[DEBUG] %s (%d bytes)\n", label, len(b))
	s := bufio.NewScanner(strings.NewReader(hex.Dump(b)))
	for s.Scan() {
		fmt.Fprintf(Output, "[DEBUG]   %s\n", s.Text())
	}
}
