package encoding

import (
	"testing"
)

func TestUTF16RoundTrip(t *testing.T) {
	for _, s := range []string{"", "alice", "CONTOSO", "pässwörd", "\U0001F600"} {
		if got := FromUTF16LE(ToUTF16LE(s)); got != s {
			t.Errorf("round trip of %q returned %q", s, got)
		}
	}
}

func TestUTF16SurrogatePair(t *testing.T) {
	if n := len(ToUTF16LE("\U0001F600")); n != 4 {
		t.Errorf("ToUTF16LE(emoji) returned %d bytes, want 4", n)
	}
}

func TestUintptrLE(t *testing.T) {
	b := make([]byte, 8)
	PutUintptrLE(b, 0x1122334455667788, 8)
	if v := UintptrLE(b, 8); v != 0x1122334455667788 {
		t.Errorf("UintptrLE(8) = %#x", v)
	}

	b = make([]byte, 8)
	PutUintptrLE(b, 0x55667788, 4)
	if b[4] != 0 {
		t.Error("PutUintptrLE(4) wrote past 4 bytes")
	}
	if v := UintptrLE(b, 4); v != 0x55667788 {
		t.Errorf("UintptrLE(4) = %#x", v)
	}
}
