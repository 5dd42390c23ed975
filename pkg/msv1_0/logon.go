package msv1_0

import (
	"fmt"
	"strings"

	"github.com/ineffectivecoder/LogonGooser/internal/encoding"
)

// MessageType tags the submit and profile buffers
type MessageType uint32

const (
	MsV1_0InteractiveLogon   MessageType = 2
	MsV1_0Lm20Logon          MessageType = 3
	MsV1_0NetworkLogon       MessageType = 4
	MsV1_0SubAuthLogon       MessageType = 5
	KerbInteractiveLogon     MessageType = 2
	MsV1_0InteractiveProfile MessageType = 2
)

// Well-known authentication package names
const (
	PackageMSV1_0    = "MICROSOFT_AUTHENTICATION_PACKAGE_V1_0"
	PackageKerberos  = "Kerberos"
	PackageNegotiate = "Negotiate"
)

// SubmitTypeFor returns the interactive submit type understood by a package.
// Unknown packages get the MSV1_0 layout, which the custom packages parse.
func SubmitTypeFor(pkg string) MessageType {
	switch {
	case strings.EqualFold(pkg, PackageKerberos), strings.EqualFold(pkg, PackageNegotiate):
		return KerbInteractiveLogon
	default:
		return MsV1_0InteractiveLogon
	}
}

// InteractiveLogon is MSV1_0_INTERACTIVE_LOGON / KERB_INTERACTIVE_LOGON
type InteractiveLogon struct {
	MessageType     MessageType
	LogonDomainName string
	UserName        string
	Password        string
}

// HeaderSize returns the fixed part of an interactive logon buffer
func (l Layout) HeaderSize() int {
	return l.align(4) + 3*l.UnicodeStringSize()
}

func (l Layout) descriptorOffset(i int) int {
	return l.align(4) + i*l.UnicodeStringSize()
}

// Encode builds a native-layout MsV1_0InteractiveLogon submit buffer.
func Encode(domain, user, password string) ([]byte, error) {
	return NativeLayout.EncodeInteractiveLogon(InteractiveLogon{
		MessageType:     MsV1_0InteractiveLogon,
		LogonDomainName: domain,
		UserName:        user,
		Password:        password,
	})
}

// EncodeInteractiveLogon builds one contiguous buffer holding the header
// followed by the domain, user and password strings. Descriptor Buffer
// fields hold offsets from the start of the returned slice.
func (l Layout) EncodeInteractiveLogon(in InteractiveLogon) ([]byte, error) {
	if !l.valid() {
		return nil, ErrBadLayout
	}

	var strs [3][]byte
	for i, s := range []string{in.LogonDomainName, in.UserName, in.Password} {
		b, err := stringUnits(s)
		if err != nil {
			return nil, err
		}
		strs[i] = b
	}

	hdr := l.HeaderSize()
	buf := make([]byte, hdr+len(strs[0])+len(strs[1])+len(strs[2]))
	encoding.PutUint32LE(buf[0:], uint32(in.MessageType))

	off := hdr
	for i, s := range strs {
		l.putUnicodeString(buf[l.descriptorOffset(i):], UnicodeString{
			Length:        uint16(len(s)),
			MaximumLength: uint16(len(s)),
			Buffer:        uint64(off),
		})
		off += copy(buf[off:], s)
	}

	return buf, nil
}

// Decode parses a native-layout submit buffer with relative offsets.
func Decode(buf []byte) (*InteractiveLogon, error) {
	return NativeLayout.DecodeInteractiveLogon(buf)
}

// DecodeInteractiveLogon parses a submit buffer whose descriptors hold
// offsets relative to the buffer start.
func (l Layout) DecodeInteractiveLogon(buf []byte) (*InteractiveLogon, error) {
	return l.DecodeInteractiveLogonAt(buf, 0)
}

// DecodeInteractiveLogonAt parses a submit buffer whose descriptors hold
// addresses, buf being located at base.
func (l Layout) DecodeInteractiveLogonAt(buf []byte, base uint64) (*InteractiveLogon, error) {
	spans, err := l.SpansAt(buf, base)
	if err != nil {
		return nil, err
	}

	out := &InteractiveLogon{MessageType: MessageType(encoding.Uint32LE(buf[0:]))}
	fields := []*string{&out.LogonDomainName, &out.UserName, &out.Password}
	for i, sp := range spans {
		*fields[i] = encoding.FromUTF16LE(buf[sp.Offset:sp.End()])
	}
	return out, nil
}

// Spans returns the domain, user and password spans of a relative buffer.
func (l Layout) Spans(buf []byte) ([3]Span, error) {
	return l.SpansAt(buf, 0)
}

// SpansAt returns the string spans of a buffer located at base. Every span
// must lie after the header and inside buf.
func (l Layout) SpansAt(buf []byte, base uint64) ([3]Span, error) {
	var spans [3]Span
	if !l.valid() {
		return spans, ErrBadLayout
	}

	hdr := l.HeaderSize()
	if len(buf) < hdr {
		return spans, fmt.Errorf("%w: %d bytes, header is %d", ErrBufferTooSmall, len(buf), hdr)
	}

	for i := range spans {
		us := l.readUnicodeString(buf[l.descriptorOffset(i):])
		sp, err := us.span(base, hdr, len(buf))
		if err != nil {
			return spans, fmt.Errorf("descriptor %d: %w", i, err)
		}
		spans[i] = sp
	}
	return spans, nil
}

// Relocate returns a copy of a relative submit buffer with every descriptor
// rebased to base, the address the copy will live at.
func (l Layout) Relocate(buf []byte, base uint64) ([]byte, error) {
	if _, err := l.Spans(buf); err != nil {
		return nil, err
	}
	if err := l.checkRange(base, len(buf)); err != nil {
		return nil, err
	}

	out := append([]byte(nil), buf...)
	for i := 0; i < 3; i++ {
		d := out[l.descriptorOffset(i):]
		us := l.readUnicodeString(d)
		us.Buffer += base
		l.putUnicodeString(d, us)
	}
	return out, nil
}
