//go:build !windows

package main

import (
	"github.com/ineffectivecoder/LogonGooser/internal/console"
	"github.com/ineffectivecoder/LogonGooser/pkg/launch"
	"github.com/ineffectivecoder/LogonGooser/pkg/lsa"
)

func listPackages() int {
	console.Error("%v", lsa.ErrNotSupported)
	return exitFailure
}

func logon(*invocation, launch.Options, bool) int {
	console.Error("%v", lsa.ErrNotSupported)
	return exitFailure
}
