package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/ace2go/ace2/wire"
)

func newTestPair(t *testing.T, onUnsolicited UnsolicitedHandler) (*Client, net.Conn) {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	c := newClient(clientConn, Config{CallTimeout: time.Second}, nil, onUnsolicited)
	t.Cleanup(func() { c.Close(nil) })
	return c, serverConn
}

func TestCallPlainRoundTrip(t *testing.T) {
	c, server := newTestPair(t, nil)

	go func() {
		buf := make([]byte, 256)
		n, err := server.Read(buf)
		if err != nil {
			return
		}
		req, _, ok := wire.DecodeSLIP(buf[:n])
		if !ok {
			t.Errorf("server failed to decode request")
			return
		}
		if !wire.VerifyCRC(req) {
			t.Errorf("server saw bad CRC on request")
		}
		resp := wire.AppendCRC([]byte{wire.HeaderOK, 0x01, 0x00, 0x00})
		server.Write(wire.EncodeSLIP(resp))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got, err := c.CallPlain(ctx, []byte{wire.HeaderRequest, 0x01}, true)
	if err != nil {
		t.Fatalf("CallPlain: %v", err)
	}
	want := []byte{wire.HeaderOK, 0x01, 0x00, 0x00}
	if string(got) != string(want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestCallPlainTimeout(t *testing.T) {
	c, server := newTestPair(t, nil)
	defer server.Close()

	// No response is ever sent.
	go func() {
		buf := make([]byte, 256)
		server.Read(buf)
	}()

	ctx := context.Background()
	_, err := c.CallPlain(ctx, []byte{wire.HeaderRequest, 0x01}, true)
	if err != ErrTimeout {
		t.Errorf("got %v, want ErrTimeout", err)
	}
}

func TestUnsolicitedFrameRoutedAwayFromWaiter(t *testing.T) {
	received := make(chan []byte, 1)
	c, server := newTestPair(t, func(payload []byte) {
		received <- payload
	})

	unsolicited := wire.AppendCRC([]byte{wire.HeaderRequest, 0xCA, 0x01})
	go server.Write(wire.EncodeSLIP(unsolicited))

	select {
	case payload := <-received:
		want := []byte{0xCA, 0x01}
		if string(payload) != string(want) {
			t.Errorf("got % x, want % x", payload, want)
		}
	case <-time.After(time.Second):
		t.Fatal("unsolicited handler never invoked")
	}

	// And it must not have been delivered as a response either.
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	go func() {
		buf := make([]byte, 256)
		server.Read(buf)
	}()
	_, err := c.CallPlain(ctx, []byte{wire.HeaderRequest, 0x02}, true)
	if err != ErrTimeout && err != context.DeadlineExceeded {
		t.Errorf("expected the unsolicited frame not to satisfy this call, got %v", err)
	}
}

// TestUnsolicitedHandlerCanCallBackWithoutDeadlock exercises the exact
// pattern the change-of-state notifier uses: the handler itself issues a
// blocking call on the same Client while still running. If unsolicited
// dispatch ran inline on the reader goroutine, that nested call's response
// could never be delivered (the reader would be stuck inside the handler)
// and this test would time out.
func TestUnsolicitedHandlerCanCallBackWithoutDeadlock(t *testing.T) {
	var c *Client
	done := make(chan error, 1)
	c, server := newTestPair(t, func(payload []byte) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_, err := c.CallPlain(ctx, []byte{wire.HeaderRequest, 0x09}, true)
		done <- err
	})

	go func() {
		buf := make([]byte, 256)
		for i := 0; i < 2; i++ {
			n, err := server.Read(buf)
			if err != nil {
				return
			}
			req, _, ok := wire.DecodeSLIP(buf[:n])
			if !ok || len(req) < 2 {
				continue
			}
			if req[1] == 0x09 {
				resp := wire.AppendCRC([]byte{wire.HeaderOK, 0x09})
				server.Write(wire.EncodeSLIP(resp))
			}
		}
	}()

	unsolicited := wire.AppendCRC([]byte{wire.HeaderRequest, 0xCA, 0x01})
	server.Write(wire.EncodeSLIP(unsolicited))

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("callback call failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("unsolicited handler's nested call deadlocked the reader loop")
	}
}

func TestCallSerializesConcurrentCallers(t *testing.T) {
	c, server := newTestPair(t, nil)

	go func() {
		buf := make([]byte, 256)
		for i := 0; i < 2; i++ {
			n, err := server.Read(buf)
			if err != nil {
				return
			}
			_, _, ok := wire.DecodeSLIP(buf[:n])
			if !ok {
				t.Errorf("server failed to decode request %d", i)
				return
			}
			resp := wire.AppendCRC([]byte{wire.HeaderOK, byte(i)})
			server.Write(wire.EncodeSLIP(resp))
		}
	}()

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_, err := c.CallPlain(ctx, []byte{wire.HeaderRequest, 0x03}, true)
			results <- err
		}()
	}
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			t.Errorf("call %d: %v", i, err)
		}
	}
}
