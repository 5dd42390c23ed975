//go:build !windows

package lsa

// Token is a primary access token handle
type Token uintptr

// Close closes the token handle
func (t Token) Close() error {
	return nil
}
