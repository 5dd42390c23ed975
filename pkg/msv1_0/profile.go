package msv1_0

import (
	"fmt"

	"github.com/ineffectivecoder/LogonGooser/internal/encoding"
)

// Forever is the LARGE_INTEGER value LSA uses for "never"
const Forever int64 = 0x7FFFFFFFFFFFFFFF

// InteractiveProfile is MSV1_0_INTERACTIVE_PROFILE
type InteractiveProfile struct {
	MessageType        MessageType
	LogonCount         uint16
	BadPasswordCount   uint16
	LogonTime          int64
	LogoffTime         int64
	KickOffTime        int64
	PasswordLastSet    int64
	PasswordCanChange  int64
	PasswordMustChange int64
	LogonScript        string
	HomeDirectory      string
	FullName           string
	ProfilePath        string
	HomeDirectoryDrive string
	LogonServer        string
	UserFlags          uint32
}

const (
	profileTimesOffset   = 8
	profileStringsOffset = profileTimesOffset + 6*8
)

func (l Layout) profileFlagsOffset() int {
	return profileStringsOffset + 6*l.UnicodeStringSize()
}

// ProfileHeaderSize returns sizeof(MSV1_0_INTERACTIVE_PROFILE)
func (l Layout) ProfileHeaderSize() int {
	return (l.profileFlagsOffset() + 4 + 7) &^ 7
}

func (p *InteractiveProfile) times() []*int64 {
	return []*int64{
		&p.LogonTime, &p.LogoffTime, &p.KickOffTime,
		&p.PasswordLastSet, &p.PasswordCanChange, &p.PasswordMustChange,
	}
}

func (p *InteractiveProfile) strings() []*string {
	return []*string{
		&p.LogonScript, &p.HomeDirectory, &p.FullName,
		&p.ProfilePath, &p.HomeDirectoryDrive, &p.LogonServer,
	}
}

// EncodeInteractiveProfile serializes p with its strings placed after the
// header. String descriptors hold base plus the string offset, so the
// result is valid once copied to address base. Empty strings are written
// as zero descriptors.
func (l Layout) EncodeInteractiveProfile(p *InteractiveProfile, base uint64) ([]byte, error) {
	if !l.valid() {
		return nil, ErrBadLayout
	}

	var data [6][]byte
	total := l.ProfileHeaderSize()
	for i, s := range p.strings() {
		b, err := stringUnits(*s)
		if err != nil {
			return nil, fmt.Errorf("profile string %d: %w", i, err)
		}
		data[i] = b
		total += len(b)
	}
	if err := l.checkRange(base, total); err != nil {
		return nil, err
	}

	buf := make([]byte, total)
	encoding.PutUint32LE(buf[0:], uint32(p.MessageType))
	encoding.PutUint16LE(buf[4:], p.LogonCount)
	encoding.PutUint16LE(buf[6:], p.BadPasswordCount)
	for i, t := range p.times() {
		encoding.PutUint64LE(buf[profileTimesOffset+i*8:], uint64(*t))
	}

	off := l.ProfileHeaderSize()
	for i, s := range data {
		var us UnicodeString
		if len(s) > 0 {
			us = UnicodeString{Length: uint16(len(s)), MaximumLength: uint16(len(s)), Buffer: base + uint64(off)}
			off += copy(buf[off:], s)
		}
		l.putUnicodeString(buf[profileStringsOffset+i*l.UnicodeStringSize():], us)
	}
	encoding.PutUint32LE(buf[l.profileFlagsOffset():], p.UserFlags)

	return buf, nil
}

// DecodeInteractiveProfile parses a profile buffer that lives at base.
// Every non-empty string must lie inside buf after the header.
func (l Layout) DecodeInteractiveProfile(buf []byte, base uint64) (*InteractiveProfile, error) {
	if !l.valid() {
		return nil, ErrBadLayout
	}
	hdr := l.ProfileHeaderSize()
	if len(buf) < hdr {
		return nil, fmt.Errorf("%w: %d bytes, profile header is %d", ErrBufferTooSmall, len(buf), hdr)
	}

	p := &InteractiveProfile{
		MessageType:      MessageType(encoding.Uint32LE(buf[0:])),
		LogonCount:       encoding.Uint16LE(buf[4:]),
		BadPasswordCount: encoding.Uint16LE(buf[6:]),
		UserFlags:        encoding.Uint32LE(buf[l.profileFlagsOffset():]),
	}
	for i, t := range p.times() {
		*t = int64(encoding.Uint64LE(buf[profileTimesOffset+i*8:]))
	}
	for i, s := range p.strings() {
		us := l.readUnicodeString(buf[profileStringsOffset+i*l.UnicodeStringSize():])
		sp, err := us.span(base, hdr, len(buf))
		if err != nil {
			return nil, fmt.Errorf("profile string %d: %w", i, err)
		}
		*s = encoding.FromUTF16LE(buf[sp.Offset:sp.End()])
	}
	return p, nil
}
