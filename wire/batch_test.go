package wire

import (
	"bytes"
	"testing"
)

func TestEncodeBatch(t *testing.T) {
	emb1 := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	emb2 := []byte{0x11, 0x12, 0x13, 0x14, 0x15, 0x16}
	got := EncodeBatch(6, [][]byte{emb1, emb2})
	want := []byte{0x06, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x06, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16}
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestDecodeBatchSplit(t *testing.T) {
	// S7: "A0 EE EE 07 31 01 00 05 04 00 00 07 31 01 00 06 00 00 00"
	resp := Frame{
		Header: HeaderOK,
		MsgID:  []byte{0xEE, 0xEE},
		Body: []byte{
			0x07,
			0x31, 0x01, 0x00, 0x05, 0x04, 0x00, 0x00,
			0x07,
			0x31, 0x01, 0x00, 0x06, 0x00, 0x00, 0x00,
		},
	}
	msgs := DecodeBatch(resp)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}

	id1, ok := ObjectID(msgs[0])
	if !ok || id1 != 5 {
		t.Errorf("first object id = %v ok=%v, want 5", id1, ok)
	}
	id2, ok := ObjectID(msgs[1])
	if !ok || id2 != 6 {
		t.Errorf("second object id = %v ok=%v, want 6", id2, ok)
	}
}

func TestDecodeBatchPassThroughNonBatch(t *testing.T) {
	resp := Frame{Header: HeaderOK, MsgID: []byte{0x31}, Body: []byte{0x01, 0x05, 0x00, 0x00}}
	msgs := DecodeBatch(resp)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	want := []byte{0x31, 0x01, 0x05, 0x00, 0x00}
	if !bytes.Equal(msgs[0], want) {
		t.Errorf("got % x, want % x", msgs[0], want)
	}
}

func TestDecodeBatchExpectingRejectsWrongTypeIndicator(t *testing.T) {
	// areaStatus entries are AreaStatusLen bytes; a batch claiming some
	// other entry length for that query is corrupt, not just oddly sized.
	resp := Frame{
		Header: HeaderOK,
		MsgID:  []byte{0xEE, 0xEE},
		Body: []byte{
			byte(AreaStatusLen + 1),
			0x02, 0x00, 0x05,
		},
	}
	if msgs := DecodeBatchExpecting(resp, "areaStatus"); msgs != nil {
		t.Errorf("got %v, want nil for a mismatched typeIndicator", msgs)
	}
}

func TestDecodeBatchExpectingAcceptsMatchingTypeIndicator(t *testing.T) {
	resp := Frame{
		Header: HeaderOK,
		MsgID:  []byte{0xEE, 0xEE},
		Body: []byte{
			0x07,
			0x31, 0x01, 0x00, 0x05, 0x04, 0x00, 0x00,
		},
	}
	if msgs := DecodeBatchExpecting(resp, "zoneStatus"); len(msgs) != 1 {
		t.Errorf("got %d messages, want 1 for a typeIndicator matching zoneStatus's length", len(msgs))
	}
}

func TestDecodeBatchExpectingSkipsCheckForSingleResponsePassthrough(t *testing.T) {
	resp := Frame{Header: HeaderOK, MsgID: []byte{0x31}, Body: []byte{0x01, 0x05, 0x00, 0x00}}
	if msgs := DecodeBatchExpecting(resp, "areaStatus"); len(msgs) != 1 {
		t.Errorf("got %d messages, want 1 (non-batch passthrough unaffected)", len(msgs))
	}
}

func TestDecodeBatchTerminatesOnMissingSeparator(t *testing.T) {
	resp := Frame{
		Header: HeaderOK,
		MsgID:  []byte{0xEE, 0xEE},
		Body: []byte{
			0x06,
			0x01, 0x02, 0x03, 0x04, 0x05, 0x06,
			0xFF, // not a valid separator
			0x11, 0x12, 0x13, 0x14, 0x15, 0x16,
		},
	}
	msgs := DecodeBatch(resp)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1 (stop at missing separator)", len(msgs))
	}
}
