package ace2

import (
	"testing"

	"github.com/ace2go/ace2/wire"
)

func TestDecodeLogRecordStandard(t *testing.T) {
	body := make([]byte, standardRecordLen)
	body[0] = 0x00
	body[1], body[2], body[3], body[4] = 0x2A, 0, 0, 0 // sequence 42
	body[5] = 0x07                                     // code
	body[6] = 3                                        // area
	body[7] = 12                                        // zone
	ts := wire.EncodeBCDTime(wire.DecodeBCDTime([6]byte{0x24, 0x01, 0x15, 0x08, 0x30, 0x00}))
	copy(body[8:14], ts[:])

	rec, ok := decodeLogRecord(body)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if rec.Sequence != 42 || rec.Code != 0x07 || rec.Area != 3 || rec.Zone != 12 {
		t.Errorf("got %+v", rec)
	}
	if rec.Extended {
		t.Error("expected non-extended record")
	}
	if rec.Timestamp.Year() != 2024 || rec.Timestamp.Month().String() != "January" {
		t.Errorf("unexpected timestamp: %v", rec.Timestamp)
	}
}

func TestSameMsgIDMatches(t *testing.T) {
	if !sameMsgID(wire.LogEntry.MsgID, wire.LogEntry.MsgID) {
		t.Error("expected a message id to match itself")
	}
}

func TestSameMsgIDRejectsSelectLogEntryEchoedAsRequestID(t *testing.T) {
	// A reply carrying selectLogEntry's own request id back, rather than
	// logEntry's, must not be mistaken for a log record.
	if sameMsgID(wire.SelectLogEntry.MsgID, wire.LogEntry.MsgID) {
		t.Error("expected selectLogEntry's message id not to match logEntry's")
	}
}

func TestDecodeLogRecordTooShort(t *testing.T) {
	if _, ok := decodeLogRecord([]byte{0x00, 0x01}); ok {
		t.Error("expected ok=false for a truncated body")
	}
}

func TestDecodeLogRecordExtendedFlag(t *testing.T) {
	body := make([]byte, extendedRecordLen)
	body[0] = 0x01
	rec, ok := decodeLogRecord(body)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if !rec.Extended {
		t.Error("expected extended=true")
	}
	if len(rec.Raw) != extendedRecordLen {
		t.Errorf("got raw len %d, want %d", len(rec.Raw), extendedRecordLen)
	}
}
