// Package crypto provides the one-way password functions used by the
// sub-authentication checks.
package crypto

import (
	"github.com/ineffectivecoder/LogonGooser/internal/encoding"

	"golang.org/x/crypto/md4"
)

// MD4Hash computes the MD4 hash of data
func MD4Hash(data []byte) []byte {
	h := md4.New()
	h.Write(data)
	return h.Sum(nil)
}

// NTOWF computes the NT one-way function of a password (MD4 over UTF-16LE).
func NTOWF(password string) [16]byte {
	var out [16]byte
	copy(out[:], MD4Hash(encoding.ToUTF16LE(password)))
	return out
}
