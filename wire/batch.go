package wire

// BatchHeader is the three leading bytes of every batch response, per
// section 4.F. The top-level batch request id is Batch.MsgID in messages.go.
var (
	BatchHeader = []byte{HeaderOK, 0xEE, 0xEE}
)

// responseLengthByName maps a status-query template to its fixed embedded
// response length (msgId + typeId + payload), used to validate a batch's
// typeIndicator before trusting it to split the body.
var responseLengthByName = map[string]int{
	"areaStatus":           AreaStatusLen,
	"zoneStatus":           ZoneStatusLen,
	"triggerStatus":        TriggerStatusLen,
	"outputStatus":         OutputStatusLen,
	"doorStatus":           DoorStatusLen,
	"filterStatus":         FilterStatusLen,
	"zonesAssignedToAreas": 32,
}

// EncodeBatch builds the body of a batch request: lenByte, then each
// embedded request (header already stripped by the caller) separated by a
// byte equal to lenByte. lenByte is 6 for status queries, 12 for
// zone-area queries. The result is wrapped by the caller into a full frame
// using Batch.MsgID.
func EncodeBatch(lenByte byte, embedded [][]byte) []byte {
	out := []byte{lenByte}
	for i, emb := range embedded {
		if i > 0 {
			out = append(out, lenByte)
		}
		out = append(out, emb...)
	}
	return out
}

// EncodeBatchRequest assembles a full batch request frame (header, message
// id, and body) from already-constructed embedded requests.
func EncodeBatchRequest(lenByte byte, embedded [][]byte) []byte {
	body := EncodeBatch(lenByte, embedded)
	out := make([]byte, 0, 1+len(Batch.MsgID)+len(body))
	out = append(out, HeaderRequest)
	out = append(out, Batch.MsgID...)
	out = append(out, body...)
	return out
}

// DecodeBatch splits a decrypted response body into its embedded messages.
//
// A batch response starts with "A0 EE EE <typeIndicator>"; the typeIndicator
// byte doubles as both the fixed length of every embedded response in this
// (homogeneous) batch and the separator between them. A response without
// the "EE EE" batch marker is passed through as a single-element result.
func DecodeBatch(resp Frame) [][]byte {
	if len(resp.MsgID) == 2 && resp.MsgID[0] == 0xEE && resp.MsgID[1] == 0xEE {
		return splitBatchBody(resp.Body)
	}
	whole := make([]byte, 0, len(resp.MsgID)+len(resp.Body))
	whole = append(whole, resp.MsgID...)
	whole = append(whole, resp.Body...)
	return [][]byte{whole}
}

// DecodeBatchExpecting is DecodeBatch plus a check, for genuine "EE EE"
// batch responses, that the typeIndicator byte (the declared entry length)
// matches templateName's known embedded response length. A panel that
// reports the wrong typeIndicator for the query it was just asked produces
// a batch that would otherwise split into garbage-length entries; this
// rejects it outright so callers fall back to querying one id at a time.
// Single-response passthroughs (no "EE EE" marker) skip the check: their
// leading byte is the response's own typeId, not a batch entry length.
func DecodeBatchExpecting(resp Frame, templateName string) [][]byte {
	if len(resp.MsgID) == 2 && resp.MsgID[0] == 0xEE && resp.MsgID[1] == 0xEE {
		want, ok := responseLengthByName[templateName]
		if ok && (len(resp.Body) < 1 || int(resp.Body[0]) != want) {
			return nil
		}
	}
	return DecodeBatch(resp)
}

func splitBatchBody(body []byte) [][]byte {
	if len(body) < 1 {
		return nil
	}
	entryLen := int(body[0])
	if entryLen <= 0 {
		return nil
	}
	rest := body[1:]

	var out [][]byte
	pos := 0
	for {
		if pos+entryLen > len(rest) {
			break
		}
		out = append(out, rest[pos:pos+entryLen])
		pos += entryLen
		if pos >= len(rest) {
			break
		}
		if rest[pos] != body[0] {
			break
		}
		pos++
	}
	return out
}

// ObjectID returns the entity id a status-style embedded response applies
// to: the byte at offset 3 of the embedded slice (msgId + typeId included).
func ObjectID(embedded []byte) (byte, bool) {
	if len(embedded) <= 3 {
		return 0, false
	}
	return embedded[3], true
}
