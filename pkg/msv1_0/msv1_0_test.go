package msv1_0

import (
	"errors"
	"strings"
	"testing"

	"github.com/ineffectivecoder/LogonGooser/pkg/ntstatus"
)

func TestHeaderSizes(t *testing.T) {
	if n := Layout64.HeaderSize(); n != 56 {
		t.Errorf("Layout64.HeaderSize() = %d, want 56", n)
	}
	if n := Layout32.HeaderSize(); n != 28 {
		t.Errorf("Layout32.HeaderSize() = %d, want 28", n)
	}
	if n := Layout64.ProfileHeaderSize(); n != 160 {
		t.Errorf("Layout64.ProfileHeaderSize() = %d, want 160", n)
	}
	if n := Layout32.ProfileHeaderSize(); n != 112 {
		t.Errorf("Layout32.ProfileHeaderSize() = %d, want 112", n)
	}
}

// TestEncodeExample tests the empty-domain interactive logon example
func TestEncodeExample(t *testing.T) {
	buf, err := Layout64.EncodeInteractiveLogon(InteractiveLogon{
		MessageType: MsV1_0InteractiveLogon,
		UserName:    "alice",
		Password:    "secret",
	})
	if err != nil {
		t.Fatalf("EncodeInteractiveLogon error: %v", err)
	}

	// 56 header + 10 (alice) + 12 (secret)
	if len(buf) != 78 {
		t.Errorf("buffer is %d bytes, want 78", len(buf))
	}
	if buf[0] != 2 {
		t.Errorf("MessageType = %d, want 2", buf[0])
	}

	spans, err := Layout64.Spans(buf)
	if err != nil {
		t.Fatalf("Spans error: %v", err)
	}
	if spans[0].Length != 0 {
		t.Errorf("domain length = %d, want 0", spans[0].Length)
	}
	if spans[1] != (Span{Offset: 56, Length: 10}) {
		t.Errorf("user span = %+v", spans[1])
	}
	if spans[2] != (Span{Offset: 66, Length: 12}) {
		t.Errorf("password span = %+v", spans[2])
	}

	got, err := Layout64.DecodeInteractiveLogon(buf)
	if err != nil {
		t.Fatalf("DecodeInteractiveLogon error: %v", err)
	}
	if got.LogonDomainName != "" || got.UserName != "alice" || got.Password != "secret" {
		t.Errorf("decoded %+v", got)
	}
}

func TestRoundTripBothLayouts(t *testing.T) {
	in := InteractiveLogon{
		MessageType:     KerbInteractiveLogon,
		LogonDomainName: "CONTOSO",
		UserName:        "jürgen",
		Password:        "p\U0001F511ss",
	}
	for _, l := range []Layout{Layout32, Layout64} {
		buf, err := l.EncodeInteractiveLogon(in)
		if err != nil {
			t.Fatalf("ptr %d: encode error: %v", l.PointerSize, err)
		}

		spans, err := l.Spans(buf)
		if err != nil {
			t.Fatalf("ptr %d: spans error: %v", l.PointerSize, err)
		}
		// Strings follow the header back to back
		next := l.HeaderSize()
		for i, sp := range spans {
			if sp.Offset != next {
				t.Errorf("ptr %d: span %d starts at %d, want %d", l.PointerSize, i, sp.Offset, next)
			}
			next = sp.End()
		}
		if next != len(buf) {
			t.Errorf("ptr %d: strings end at %d, buffer is %d", l.PointerSize, next, len(buf))
		}

		out, err := l.DecodeInteractiveLogon(buf)
		if err != nil {
			t.Fatalf("ptr %d: decode error: %v", l.PointerSize, err)
		}
		if *out != in {
			t.Errorf("ptr %d: round trip got %+v", l.PointerSize, out)
		}
	}
}

func TestEmptyPassword(t *testing.T) {
	buf, err := Encode("", "bob", "")
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	out, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if out.Password != "" || out.UserName != "bob" {
		t.Errorf("decoded %+v", out)
	}
}

func TestStringTooLong(t *testing.T) {
	long := strings.Repeat("a", MaxStringUnits+1)
	_, err := Encode("", "alice", long)
	if !errors.Is(err, ErrStringTooLong) {
		t.Errorf("Encode(long) error = %v, want ErrStringTooLong", err)
	}
	if !errors.Is(err, ntstatus.ErrMarshal) {
		t.Error("ErrStringTooLong does not match ntstatus.ErrMarshal")
	}

	// The limit itself still fits
	if _, err := Encode("", "alice", long[1:]); err != nil {
		t.Errorf("Encode(max) error: %v", err)
	}
}

func TestDecodeTooSmall(t *testing.T) {
	_, err := Layout64.DecodeInteractiveLogon(make([]byte, 55))
	if !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("decode of short buffer error = %v", err)
	}
}

func TestDecodeOutOfBounds(t *testing.T) {
	buf, _ := Layout64.EncodeInteractiveLogon(InteractiveLogon{UserName: "alice", Password: "secret"})

	// Truncate the password
	_, err := Layout64.DecodeInteractiveLogon(buf[:len(buf)-2])
	if !errors.Is(err, ErrSpanOutOfBounds) {
		t.Errorf("truncated buffer error = %v", err)
	}

	// Point the user name into the header
	bad := append([]byte(nil), buf...)
	bad[Layout64.descriptorOffset(1)+8] = 4
	if _, err := Layout64.DecodeInteractiveLogon(bad); !errors.Is(err, ErrSpanOutOfBounds) {
		t.Errorf("header-overlapping span error = %v", err)
	}

	// Odd length
	odd := append([]byte(nil), buf...)
	odd[Layout64.descriptorOffset(2)] = 11
	if _, err := Layout64.DecodeInteractiveLogon(odd); !errors.Is(err, ErrOddLength) {
		t.Errorf("odd length error = %v", err)
	}
}

func TestRelocate(t *testing.T) {
	buf, _ := Layout64.EncodeInteractiveLogon(InteractiveLogon{LogonDomainName: "D", UserName: "u", Password: "p"})
	const base = 0x7FF000001000

	moved, err := Layout64.Relocate(buf, base)
	if err != nil {
		t.Fatalf("Relocate error: %v", err)
	}
	if _, err := Layout64.DecodeInteractiveLogon(moved); err == nil {
		t.Error("relocated buffer decoded as relative")
	}
	out, err := Layout64.DecodeInteractiveLogonAt(moved, base)
	if err != nil {
		t.Fatalf("DecodeInteractiveLogonAt error: %v", err)
	}
	if out.LogonDomainName != "D" || out.UserName != "u" || out.Password != "p" {
		t.Errorf("decoded %+v", out)
	}
}

func TestRelocateAddressOverflow(t *testing.T) {
	buf, _ := Layout32.EncodeInteractiveLogon(InteractiveLogon{UserName: "u", Password: "p"})

	if _, err := Layout32.Relocate(buf, 0x100000000); !errors.Is(err, ErrAddressOverflow) {
		t.Errorf("Relocate above 4GiB error = %v", err)
	}
	// The buffer would run past the last 32-bit address
	if _, err := Layout32.Relocate(buf, 0x100000000-uint64(len(buf))+1); !errors.Is(err, ErrAddressOverflow) {
		t.Errorf("Relocate across 4GiB error = %v", err)
	}
	if _, err := Layout64.Relocate(buf, ^uint64(0)); err == nil {
		t.Error("Relocate wrapped a 64-bit address")
	}

	// The last base that still fits
	last := uint64(0x100000000) - uint64(len(buf))
	moved, err := Layout32.Relocate(buf, last)
	if err != nil {
		t.Fatalf("Relocate error: %v", err)
	}
	if out, err := Layout32.DecodeInteractiveLogonAt(moved, last); err != nil || out.UserName != "u" {
		t.Errorf("decoded %+v, %v", out, err)
	}

	if _, err := Layout32.EncodeInteractiveProfile(&InteractiveProfile{FullName: "alice"}, 0xFFFFFFC0); !errors.Is(err, ErrAddressOverflow) {
		t.Errorf("profile above 4GiB error = %v", err)
	}
}

func TestInvalidUTF8(t *testing.T) {
	_, err := Encode("", "al\xffice", "")
	if !errors.Is(err, ErrInvalidUTF8) || !errors.Is(err, ntstatus.ErrMarshal) {
		t.Errorf("Encode(invalid UTF-8) error = %v", err)
	}
	if _, err := Layout64.EncodeInteractiveProfile(&InteractiveProfile{FullName: "\xc3"}, 0); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("EncodeInteractiveProfile(invalid UTF-8) error = %v", err)
	}
	if _, err := Encode("", "pässwörd", ""); err != nil {
		t.Errorf("Encode(valid UTF-8) error = %v", err)
	}
}

func TestSubmitTypeFor(t *testing.T) {
	if SubmitTypeFor("kerberos") != KerbInteractiveLogon {
		t.Error("kerberos submit type")
	}
	if SubmitTypeFor("NoPasswordAuthPkg") != MsV1_0InteractiveLogon {
		t.Error("custom package submit type")
	}
}

func TestProfileRoundTrip(t *testing.T) {
	const base = 0x20000
	in := &InteractiveProfile{
		MessageType: MsV1_0InteractiveProfile,
		LogonCount:  42,
		LogoffTime:  Forever,
		KickOffTime: Forever,
		FullName:    "alice",
		LogonServer: "WS01",
	}

	for _, l := range []Layout{Layout32, Layout64} {
		buf, err := l.EncodeInteractiveProfile(in, base)
		if err != nil {
			t.Fatalf("ptr %d: encode error: %v", l.PointerSize, err)
		}
		if len(buf) != l.ProfileHeaderSize()+10+8 {
			t.Errorf("ptr %d: profile is %d bytes", l.PointerSize, len(buf))
		}

		out, err := l.DecodeInteractiveProfile(buf, base)
		if err != nil {
			t.Fatalf("ptr %d: decode error: %v", l.PointerSize, err)
		}
		if *out != *in {
			t.Errorf("ptr %d: round trip got %+v", l.PointerSize, out)
		}

		// Empty strings are zero descriptors
		us := l.readUnicodeString(buf[profileStringsOffset:])
		if us != (UnicodeString{}) {
			t.Errorf("ptr %d: empty LogonScript descriptor = %+v", l.PointerSize, us)
		}
	}
}

func TestProfileTooSmall(t *testing.T) {
	_, err := Layout64.DecodeInteractiveProfile(make([]byte, 100), 0)
	if !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("short profile error = %v", err)
	}
}
