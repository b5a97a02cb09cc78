package wire

import (
	"bytes"
	"testing"
)

func TestMakeEncryptionKeyShortPassword(t *testing.T) {
	got := MakeEncryptionKey("short")
	want := make([]byte, 16)
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want all-zero", got)
	}
}

func TestMakeEncryptionKeyLengths(t *testing.T) {
	cases := map[string]int{
		"AAAAAAAAAAAABBBBBBBBBBBB":                 16,
		"AAAAAAAAAAAABBBBBBBBBBBBCCCCCCCCCCCC":       24,
		"AAAAAAAAAAAABBBBBBBBBBBBCCCCCCCCCCCCDDDDDDDDDDDD": 32,
	}
	for pw, wantLen := range cases {
		if got := len(MakeEncryptionKey(pw)); got != wantLen {
			t.Errorf("MakeEncryptionKey(%q): got len %d, want %d", pw, got, wantLen)
		}
	}
}

func TestMakeEncryptionKeyPrefixStable(t *testing.T) {
	// The first n password blocks determine the first n*8 key bytes,
	// regardless of how many further blocks follow.
	short := MakeEncryptionKey("AAAAAAAAAAAABBBBBBBBBBBB")
	long := MakeEncryptionKey("AAAAAAAAAAAABBBBBBBBBBBBCCCCCCCCCCCC")
	if !bytes.Equal(short, long[:16]) {
		t.Errorf("prefix mismatch: short=% x long[:16]=% x", short, long[:16])
	}
}

func TestMakeEncryptionKeyRepeatedBlockPattern(t *testing.T) {
	// Within one 12-char block of a single repeated character, the four
	// "hi" slots (even byte indices) share one packed value and the four
	// "lo" slots (odd byte indices) share another.
	key := MakeEncryptionKey("AAAAAAAAAAAABBBBBBBBBBBB")
	for _, i := range []int{0, 2, 4, 6} {
		if key[i] != key[0] {
			t.Errorf("hi-slot byte %d = %#x, want %#x", i, key[i], key[0])
		}
	}
	for _, i := range []int{1, 3, 5, 7} {
		if key[i] != key[1] {
			t.Errorf("lo-slot byte %d = %#x, want %#x", i, key[i], key[1])
		}
	}
	for _, i := range []int{8, 10, 12, 14} {
		if key[i] != key[8] {
			t.Errorf("hi-slot byte %d = %#x, want %#x", i, key[i], key[8])
		}
	}
}

func TestDecodeSerial(t *testing.T) {
	serial, ok := DecodeSerial("ABCDEFGHIJKLMNOP")
	if !ok {
		t.Fatal("decode failed")
	}
	decoded, err := serialEncoding.DecodeString("ABCDEFGHIJKLMNOP")
	if err != nil {
		t.Fatalf("reference decode failed: %v", err)
	}
	if len(decoded) != 12 {
		t.Fatalf("reference decode gave %d bytes, want 12", len(decoded))
	}
	var want [6]byte
	for i := 0; i < 6; i++ {
		want[i] = decoded[i] ^ decoded[i+6]
	}
	if serial != want {
		t.Errorf("got % x, want % x", serial, want)
	}
}

func TestDecodeSerialRejectsWrongLength(t *testing.T) {
	if _, ok := DecodeSerial("short"); ok {
		t.Error("expected failure for non-16-char input")
	}
}

func TestDecodeSerialAliasesURLSafeChars(t *testing.T) {
	a, ok := DecodeSerial("ABCDEFGHIJKL----")
	if !ok {
		t.Fatal("decode with '-' alias failed")
	}
	b, ok := DecodeSerial("ABCDEFGHIJKL++++")
	if !ok {
		t.Fatal("decode with '+' failed")
	}
	if a != b {
		t.Errorf("'-' alias diverged from '+': % x vs % x", a, b)
	}
}
