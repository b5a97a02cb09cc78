package wire

import (
	"bytes"
	"testing"
)

func TestEncodeSLIP(t *testing.T) {
	got := EncodeSLIP([]byte{0xC0, 0xDB, 0x00})
	want := []byte{End, Esc, EscEnd, Esc, EscEsc, 0x00, End}
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestSLIPRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x01},
		{0xC0, 0xDB, 0x00},
		{0x00, 0x00, 0xFF, 0xC0, 0xC0, 0xDB, 0xDB},
		bytes.Repeat([]byte{0xAB}, 300),
	}
	for _, s := range cases {
		enc := EncodeSLIP(s)
		got, consumed, ok := DecodeSLIP(enc)
		if !ok {
			t.Fatalf("decode failed for % x", s)
		}
		if consumed != len(enc) {
			t.Errorf("consumed %d, want %d", consumed, len(enc))
		}
		if !bytes.Equal(got, s) {
			t.Errorf("got % x, want % x", got, s)
		}
	}
}

func TestDecodeSLIPTolerant(t *testing.T) {
	// An unrecognized escape sequence passes through unchanged.
	frame := []byte{End, Esc, 0x01, End}
	got, _, ok := DecodeSLIP(frame)
	if !ok {
		t.Fatal("decode failed")
	}
	if !bytes.Equal(got, []byte{Esc, 0x01}) {
		t.Errorf("got % x", got)
	}
}

func TestDecodeSLIPMultipleFrames(t *testing.T) {
	buf := append(EncodeSLIP([]byte{0x01}), EncodeSLIP([]byte{0x02})...)
	first, consumed, ok := DecodeSLIP(buf)
	if !ok || !bytes.Equal(first, []byte{0x01}) {
		t.Fatalf("first frame got % x ok=%v", first, ok)
	}
	second, _, ok := DecodeSLIP(buf[consumed:])
	if !ok || !bytes.Equal(second, []byte{0x02}) {
		t.Fatalf("second frame got % x ok=%v", second, ok)
	}
}
