package ace2

import (
	"context"
	"time"

	"github.com/ace2go/ace2/wire"
)

// LogRecord is one decoded event-log entry.
type LogRecord struct {
	Sequence  uint32
	Code      byte
	Area      int
	Zone      int
	Timestamp time.Time
	Extended  bool
	Raw       []byte
}

const (
	standardRecordLen = 60
	extendedRecordLen = 70

	// maxConsecutiveLogErrors bounds how many transient read failures in a
	// row EventLog tolerates before giving up, rather than spinning forever
	// against a panel that has stopped answering.
	maxConsecutiveLogErrors = 3

	// hardEventCap is the absolute ceiling applied even when maxEvents<=0
	// requests an "unbounded" read, so a panel that never reports a
	// sequence-zero record can't wedge the caller forever.
	hardEventCap = 10000
)

// EventLog opens the panel's event log and reads up to maxEvents entries,
// newest first. maxEvents<=0 reads until the panel reports two consecutive
// sequence-zero records (its end-of-log signal) or hardEventCap is hit.
func (c *Client) EventLog(ctx context.Context, maxEvents int) ([]LogRecord, error) {
	if _, err := c.CallEncrypted(ctx, wire.StartMonitor, nil, false); err != nil {
		return nil, newError(CodeOperationFailed, "startMonitor failed", err)
	}
	if _, err := c.CallEncrypted(ctx, wire.OpenLog, nil, false); err != nil {
		return nil, newError(CodeOperationFailed, "openLog failed", err)
	}

	limit := maxEvents
	if limit <= 0 || limit > hardEventCap {
		limit = hardEventCap
	}

	var records []LogRecord
	direction := wire.LogDirectionFirst
	zeroStreak := 0
	errStreak := 0

	for len(records) < limit {
		frame, err := c.CallEncryptedFrame(ctx, wire.SelectLogEntry, map[string]any{
			"direction": uint64(direction),
		}, false)
		if err == nil && !sameMsgID(frame.MsgID, wire.LogEntry.MsgID) {
			err = newError(CodeProtocol, "selectLogEntry answered with an unexpected message id", nil)
		}
		if err != nil {
			errStreak++
			if errStreak >= maxConsecutiveLogErrors {
				break
			}
			continue
		}
		errStreak = 0

		rec, ok := decodeLogRecord(frame.Body)
		if !ok {
			break
		}

		if rec.Sequence == 0 {
			zeroStreak++
			if zeroStreak >= 2 {
				break
			}
		} else {
			zeroStreak = 0
		}

		records = append(records, rec)
		direction = wire.LogDirectionNext
	}

	return records, nil
}

// sameMsgID reports whether a response's message id matches the one
// expected for it. selectLogEntry's own message id doubles as its request
// id, so a reply is only trustworthy as a log record once this is checked —
// wire.LogEntry.TypeID can't substitute here since a log record's own
// leading byte already carries the standard/extended discriminator, not a
// fixed type tag.
func sameMsgID(got, want []byte) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// decodeLogRecord parses a logEntry response body: a leading typeId byte
// (0x00 standard/60-byte, 0x01 extended/70-byte), then sequence (4 bytes
// LE), event code, area, zone, and a 6-byte BCD timestamp.
func decodeLogRecord(body []byte) (LogRecord, bool) {
	if len(body) < 14 {
		return LogRecord{}, false
	}
	extended := body[0] != 0x00

	seq := uint32(body[1]) | uint32(body[2])<<8 | uint32(body[3])<<16 | uint32(body[4])<<24
	code := body[5]
	area := int(body[6])
	zone := int(body[7])

	var ts [6]byte
	copy(ts[:], body[8:14])

	recLen := standardRecordLen
	if extended {
		recLen = extendedRecordLen
	}
	end := recLen
	if end > len(body) {
		end = len(body)
	}

	return LogRecord{
		Sequence:  seq,
		Code:      code,
		Area:      area,
		Zone:      zone,
		Timestamp: wire.DecodeBCDTime(ts),
		Extended:  extended,
		Raw:       append([]byte(nil), body[:end]...),
	}, true
}
