package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mjwhitta/cli"

	"github.com/ineffectivecoder/LogonGooser/internal/console"
	"github.com/ineffectivecoder/LogonGooser/pkg/debug"
	"github.com/ineffectivecoder/LogonGooser/pkg/lsa"
)

func main() {
	var long bool

	cli.Align = true
	cli.Banner = "querysecpkg [OPTIONS] [package...]"
	cli.Info("List installed security packages, or query the named ones")
	cli.Authors = []string{"LogonGooser Team"}

	cli.Flag(&long, "l", "long", false, "Show version, RPC ID, max token size and capabilities")
	cli.Flag(&debug.Verbose, "v", "verbose", false, "Verbose output")
	cli.Parse()

	if cli.NArg() > 0 {
		failed := false
		for _, name := range cli.Args() {
			p, err := lsa.QueryPackage(name)
			if err != nil {
				console.Error("%v", err)
				failed = true
				continue
			}
			printPackage(*p, true)
		}
		if failed {
			os.Exit(2)
		}
		return
	}

	pkgs, err := lsa.EnumeratePackages()
	if err != nil {
		console.Error("%v", err)
		os.Exit(2)
	}
	console.Info("Installed security packages:")
	for _, p := range pkgs {
		printPackage(p, long)
	}
}

func printPackage(p lsa.PackageInfo, long bool) {
	fmt.Printf("* %s (%s)\n", p.Name, p.Comment)
	if !long {
		return
	}
	fmt.Printf("  Version:      %d\n", p.Version)
	fmt.Printf("  RPC ID:       %d\n", p.RPCID)
	fmt.Printf("  Max token:    %d\n", p.MaxToken)
	fmt.Printf("  Capabilities: 0x%08X %s\n", p.Capabilities, strings.Join(lsa.CapabilityNames(p.Capabilities), "|"))
}
