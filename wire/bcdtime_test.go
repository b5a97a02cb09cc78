package wire

import (
	"testing"
	"time"
)

func TestDecodeBCDTime(t *testing.T) {
	got := DecodeBCDTime([6]byte{0x25, 0x01, 0x31, 0x23, 0x59, 0x09})
	want := time.Date(2025, time.January, 31, 23, 59, 9, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBCDTimeRoundTrip(t *testing.T) {
	in := time.Date(2031, time.December, 5, 0, 0, 0, 0, time.Local)
	got := DecodeBCDTime(EncodeBCDTime(in))
	if !got.Equal(in) {
		t.Errorf("got %v, want %v", got, in)
	}
}
