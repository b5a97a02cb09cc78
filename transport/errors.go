package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned by a call* when no response arrives within
	// the configured call timeout.
	ErrTimeout = errors.New("transport: call timed out")

	// ErrClosed is returned by any call* issued after the connection has
	// been closed, and delivered to calls still in flight at close time.
	ErrClosed = errors.New("transport: connection closed")

	// ErrNotResponse signals that the frame extracted for a waiter could
	// not be decrypted or failed its CRC check.
	ErrNotResponse = errors.New("transport: frame could not be decoded as a response")
)

// PanelError wraps a 0xF0 (error-header) response: the panel rejected the
// request and returned its own error payload verbatim.
type PanelError struct {
	MsgID []byte
	Body  []byte
}

func (e *PanelError) Error() string {
	return fmt.Sprintf("transport: panel error for msgId % x: % x", e.MsgID, e.Body)
}
