package main

import (
	"fmt"
	"os"

	"github.com/mjwhitta/cli"

	"github.com/ineffectivecoder/LogonGooser/internal/console"
	"github.com/ineffectivecoder/LogonGooser/pkg/bluetooth"
	"github.com/ineffectivecoder/LogonGooser/pkg/debug"
)

// Exit codes
const (
	exitAllowed = 0
	exitUsage   = 1
	exitError   = 2
	exitBlocked = 3
)

func main() {
	var multiplier int

	cli.Align = true
	cli.Banner = "btcheck [OPTIONS]"
	cli.Info("Run the Bluetooth logon gate: logons are refused while a device is in range")
	cli.Authors = []string{"LogonGooser Team"}

	cli.Flag(&multiplier, "t", "timeout", 3, "Inquiry duration in 1.28 second units (1-48)")
	cli.Flag(&debug.Verbose, "v", "verbose", false, "Verbose output")
	cli.Parse()

	if multiplier < 1 || multiplier > 48 {
		console.Error("Timeout must be between 1 and 48")
		cli.Usage(exitUsage)
	}

	probe := &bluetooth.Probe{
		TimeoutMultiplier: uint8(multiplier),
		OnDevice: func(d bluetooth.Device) {
			fmt.Printf("* %s [%s] class 0x%06X connected=%t remembered=%t authenticated=%t\n",
				d.Name, d.AddressString(), d.Class, d.Connected, d.Remembered, d.Authenticated)
		},
	}

	console.Info("Searching for Bluetooth devices...")
	blocked, err := probe.Blocked()
	if err != nil {
		console.Error("%v", err)
		console.Warn("The logon gate fails closed: logons would be refused")
		os.Exit(exitError)
	}
	if blocked {
		console.Warn("Device in range: logons would be refused (STATUS_ACCOUNT_LOCKED_OUT)")
		os.Exit(exitBlocked)
	}
	console.Success("No device in range: logons allowed")
	os.Exit(exitAllowed)
}
