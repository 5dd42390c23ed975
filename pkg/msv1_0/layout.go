// Package msv1_0 encodes and decodes the MSV1_0 / Kerberos interactive logon
// submit buffer and the MSV1_0 interactive profile buffer.
//
// Both structures are self-relative: a fixed header of UNICODE_STRING
// descriptors followed by the string data. Descriptors in a submit buffer
// hold offsets from the buffer start; the receiving package relocates them
// before use. Profile buffers are written straight into client memory and
// hold addresses relative to the client buffer base.
package msv1_0

import (
	"fmt"
	"math/bits"
	"unicode/utf8"

	"github.com/ineffectivecoder/LogonGooser/internal/encoding"
	"github.com/ineffectivecoder/LogonGooser/pkg/ntstatus"
)

// Codec errors. All of them match ntstatus.ErrMarshal.
var (
	ErrBufferTooSmall  = fmt.Errorf("%w: buffer too small", ntstatus.ErrMarshal)
	ErrStringTooLong   = fmt.Errorf("%w: string exceeds UNICODE_STRING length", ntstatus.ErrMarshal)
	ErrSpanOutOfBounds = fmt.Errorf("%w: string span out of bounds", ntstatus.ErrMarshal)
	ErrOddLength       = fmt.Errorf("%w: odd UTF-16 byte length", ntstatus.ErrMarshal)
	ErrBadLayout       = fmt.Errorf("%w: unsupported pointer size", ntstatus.ErrMarshal)
	ErrAddressOverflow = fmt.Errorf("%w: address does not fit the pointer size", ntstatus.ErrMarshal)
	ErrInvalidUTF8     = fmt.Errorf("%w: string is not valid UTF-8", ntstatus.ErrMarshal)
)

// MaxStringUnits is the longest string a UNICODE_STRING can describe, in
// UTF-16 code units (Length is a 16-bit byte count).
const MaxStringUnits = 0xFFFF / 2

// Layout describes the pointer width of the process the buffer is built for.
type Layout struct {
	PointerSize int
}

var (
	// Layout64 is the x64 / arm64 layout
	Layout64 = Layout{PointerSize: 8}
	// Layout32 is the x86 layout
	Layout32 = Layout{PointerSize: 4}
	// NativeLayout matches the running process
	NativeLayout = Layout{PointerSize: bits.UintSize / 8}
)

func (l Layout) valid() bool {
	return l.PointerSize == 4 || l.PointerSize == 8
}

func (l Layout) align(n int) int {
	return (n + l.PointerSize - 1) &^ (l.PointerSize - 1)
}

// UnicodeStringSize returns sizeof(UNICODE_STRING)
func (l Layout) UnicodeStringSize() int {
	return l.align(4) + l.PointerSize
}

// UnicodeString is a decoded UNICODE_STRING descriptor
type UnicodeString struct {
	Length        uint16
	MaximumLength uint16
	Buffer        uint64
}

func (l Layout) putUnicodeString(b []byte, us UnicodeString) {
	encoding.PutUint16LE(b[0:], us.Length)
	encoding.PutUint16LE(b[2:], us.MaximumLength)
	encoding.PutUintptrLE(b[l.align(4):], us.Buffer, l.PointerSize)
}

func (l Layout) readUnicodeString(b []byte) UnicodeString {
	return UnicodeString{
		Length:        encoding.Uint16LE(b[0:]),
		MaximumLength: encoding.Uint16LE(b[2:]),
		Buffer:        encoding.UintptrLE(b[l.align(4):], l.PointerSize),
	}
}

// Span is the location of one string inside a buffer
type Span struct {
	Offset int
	Length int
}

// End returns the offset one past the last byte of the span
func (s Span) End() int {
	return s.Offset + s.Length
}

// span resolves a descriptor against base and checks it against the data
// region [min, size).
func (us UnicodeString) span(base uint64, min, size int) (Span, error) {
	if us.Length == 0 {
		// Empty strings may carry a null or dangling pointer.
		if us.Buffer >= base && us.Buffer-base >= uint64(min) && us.Buffer-base <= uint64(size) {
			return Span{Offset: int(us.Buffer - base)}, nil
		}
		return Span{}, nil
	}
	if us.Length%2 != 0 {
		return Span{}, ErrOddLength
	}
	if us.Buffer < base {
		return Span{}, ErrSpanOutOfBounds
	}
	rel := us.Buffer - base
	if rel < uint64(min) || rel > uint64(size) || uint64(us.Length) > uint64(size)-rel {
		return Span{}, ErrSpanOutOfBounds
	}
	return Span{Offset: int(rel), Length: int(us.Length)}, nil
}

// checkRange fails when a buffer of size bytes at base would hold addresses
// the layout cannot store.
func (l Layout) checkRange(base uint64, size int) error {
	end := base + uint64(size)
	if end < base || (l.PointerSize == 4 && end > 1<<32) {
		return fmt.Errorf("%w: 0x%X+%d with %d-byte pointers", ErrAddressOverflow, base, size, l.PointerSize)
	}
	return nil
}

// stringUnits converts s and checks that it fits a descriptor
func stringUnits(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, ErrInvalidUTF8
	}
	b := encoding.ToUTF16LE(s)
	if len(b)/2 > MaxStringUnits {
		return nil, fmt.Errorf("%w: %d UTF-16 units", ErrStringTooLong, len(b)/2)
	}
	return b, nil
}
