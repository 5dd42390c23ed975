package authpkg

import (
	"fmt"
	"strings"
)

// Table is the package table handed to LSA by SpLsaModeInitialize
type Table struct {
	Version  uint32
	Packages []Package
	firstID  uint32
	log      *Log
}

// ModeInitialize mirrors SpLsaModeInitialize: it records the LSA version
// and returns the table of packages this DLL exports.
func ModeInitialize(lsaVersion uint32, log *Log, pkgs ...Package) *Table {
	log.Info("SpLsaModeInitialize: LsaVersion %d, %d package(s)", lsaVersion, len(pkgs))
	return &Table{Version: InterfaceVersion, Packages: pkgs, log: log}
}

// Initialize calls SpInitialize on every package, numbering them from
// firstID in table order.
func (t *Table) Initialize(firstID uint32, params *Parameters) error {
	t.firstID = firstID
	for i, p := range t.Packages {
		if err := p.Initialize(firstID+uint32(i), params); err != nil {
			return fmt.Errorf("initialize %s: %w", p.Info().Name, err)
		}
	}
	return nil
}

// Lookup returns the package registered under name and the ID it was
// assigned by Initialize.
func (t *Table) Lookup(name string) (Package, uint32, bool) {
	for i, p := range t.Packages {
		if strings.EqualFold(p.Info().Name, name) {
			return p, t.firstID + uint32(i), true
		}
	}
	return nil, 0, false
}

// Shutdown calls SpShutdown on every package
func (t *Table) Shutdown() error {
	var first error
	for _, p := range t.Packages {
		if err := p.Shutdown(); err != nil && first == nil {
			first = err
		}
	}
	t.log.Info("SpShutdown complete")
	return first
}
