// Package console holds the colored status printers shared by the CLIs
package console

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/ineffectivecoder/LogonGooser/pkg/debug"
)

// Colors for output
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// Info prints a status line
func Info(format string, args ...interface{}) {
	fmt.Printf(colorCyan+"[*]"+colorReset+" "+format+"\n", args...)
}

// Success prints a success line
func Success(format string, args ...interface{}) {
	fmt.Printf(colorGreen+"[+]"+colorReset+" "+format+"\n", args...)
}

// Error prints an error line
func Error(format string, args ...interface{}) {
	fmt.Printf(colorRed+"[!]"+colorReset+" "+format+"\n", args...)
}

// Warn prints a warning line
func Warn(format string, args ...interface{}) {
	fmt.Printf(colorYellow+"[-]"+colorReset+" "+format+"\n", args...)
}

// Debug prints a line when verbose output is on
func Debug(format string, args ...interface{}) {
	if debug.Verbose {
		fmt.Printf(colorBlue+"[D]"+colorReset+" "+format+"\n", args...)
	}
}

// Header prints a bold section title
func Header(title string) {
	fmt.Printf("\n%s%s%s\n", colorBold, title, colorReset)
}

// PromptPassword reads a password from the terminal without echo
func PromptPassword(prompt string) string {
	fmt.Print(prompt)
	passBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		Error("Failed to read password: %v", err)
		os.Exit(1)
	}
	return string(passBytes)
}
