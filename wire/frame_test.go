package wire

import (
	"bytes"
	"testing"
)

func TestFrameBytesAndParse(t *testing.T) {
	f := Frame{Header: HeaderRequest, MsgID: []byte{0x31}, Body: []byte{0x01, 0x02, 0x03}}
	payload := f.Bytes()

	parsed, ok := ParseFrame(payload, 1)
	if !ok {
		t.Fatal("parse failed")
	}
	if parsed.Header != f.Header || !bytes.Equal(parsed.MsgID, f.MsgID) || !bytes.Equal(parsed.Body, f.Body) {
		t.Errorf("got %+v, want %+v", parsed, f)
	}
}

func TestParseFrameTooShort(t *testing.T) {
	if _, ok := ParseFrame([]byte{0xC0}, 2); ok {
		t.Error("expected failure on truncated payload")
	}
}
