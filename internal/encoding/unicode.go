// Package encoding provides the UTF-16LE and little-endian helpers used by
// the LSA buffer codecs. Every string LSA sees is counted UTF-16LE.
package encoding

import (
	"unicode/utf16"
)

// ToUTF16LE converts a Go string to UTF-16LE encoded bytes.
func ToUTF16LE(s string) []byte {
	units := utf16.Encode([]rune(s))

	b := make([]byte, len(units)*2)
	for i, r := range units {
		b[i*2] = byte(r)
		b[i*2+1] = byte(r >> 8)
	}
	return b
}

// FromUTF16LE converts UTF-16LE encoded bytes to a Go string.
// A trailing odd byte is ignored.
func FromUTF16LE(b []byte) string {
	if len(b) == 0 {
		return ""
	}

	if len(b)%2 != 0 {
		b = b[:len(b)-1]
	}

	u16s := make([]uint16, len(b)/2)
	for i := range u16s {
		u16s[i] = uint16(b[i*2]) | uint16(b[i*2+1])<<8
	}

	return string(utf16.Decode(u16s))
}
