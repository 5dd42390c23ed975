//go:build !windows

package lsa

// Conn is an untrusted LSA connection
type Conn struct{}

// Connect opens an untrusted LSA connection
func Connect() (*Conn, error) {
	return nil, ErrNotSupported
}

// LookupPackage resolves an authentication package name to its ID
func (c *Conn) LookupPackage(name string) (uint32, error) {
	return 0, ErrNotSupported
}

// LogonUser is not available on this platform
func (c *Conn) LogonUser(req *LogonRequest) (*LogonResult, error) {
	return nil, ErrNotSupported
}

// Close deregisters the connection
func (c *Conn) Close() error {
	return nil
}

// EnumeratePackages lists installed security packages
func EnumeratePackages() ([]PackageInfo, error) {
	return nil, ErrNotSupported
}

// QueryPackage returns information about one security package
func QueryPackage(name string) (*PackageInfo, error) {
	return nil, ErrNotSupported
}
