package transport

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/ace2go/ace2/wire"
)

// UnsolicitedHandler receives a decrypted frame whose plaintext header byte
// is 0xC0 but which was not claimed as a response to any outstanding call —
// a panel-originated change-of-state notification, with the header byte
// already stripped.
type UnsolicitedHandler func(payload []byte)

// Client owns one TCP connection to a panel: SLIP framing, optional
// AES-CTR session encryption, single-in-flight request serialization, and
// keep-alive.
type Client struct {
	cfg    Config
	conn   net.Conn
	logger *slog.Logger
	connID string

	sem *semaphore.Weighted // weight 1: serializes call* against each other

	mu        sync.Mutex
	sessionKey []byte
	serial     [6]byte
	respQueue  [][]byte
	waiter     chan frameResult
	closed     bool

	unsolicited   UnsolicitedHandler
	unsolicitedCh chan []byte

	keepAliveStop chan struct{}
	keepAliveDone chan struct{}
}

type frameResult struct {
	payload []byte
	err     error
}

// Dial opens a TCP connection to addr and starts its reader goroutine. The
// connection carries no session key until SetSessionKey is called.
func Dial(ctx context.Context, addr string, cfg Config, logger *slog.Logger, onUnsolicited UnsolicitedHandler) (*Client, error) {
	d := net.Dialer{Timeout: cfg.dialTimeout()}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return newClient(conn, cfg, logger, onUnsolicited), nil
}

// newClient wraps an already-established connection, starting its reader
// goroutine. Exposed for tests that drive the protocol over net.Pipe.
func newClient(conn net.Conn, cfg Config, logger *slog.Logger, onUnsolicited UnsolicitedHandler) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		cfg:           cfg,
		conn:          conn,
		logger:        logger,
		connID:        uuid.NewString(),
		sem:           semaphore.NewWeighted(1),
		unsolicited:   onUnsolicited,
		unsolicitedCh: make(chan []byte, 1),
	}
	go c.readLoop()
	go c.unsolicitedLoop()
	return c
}

// unsolicitedLoop runs the panel-originated change-of-state handler on its
// own goroutine, fed by handleFrame's bounded, drop-if-full channel. This
// keeps the reader goroutine free to service waiters even while a
// notification handler is itself blocked making outgoing calls (a COS
// handler commonly calls back into CallEncrypted to fetch change detail,
// which needs the reader loop to deliver its response).
func (c *Client) unsolicitedLoop() {
	for payload := range c.unsolicitedCh {
		if c.unsolicited != nil {
			c.unsolicited(payload)
		}
	}
}

// SetSessionKey installs the AES session key and panel serial to use for
// all subsequent traffic. Call once, right after enableEncryptionKey's
// response has been processed.
func (c *Client) SetSessionKey(key []byte, serial [6]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionKey = key
	c.serial = serial
}

func (c *Client) currentKey() ([]byte, [6]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionKey, c.serial, c.sessionKey != nil
}

// StartKeepAlive schedules a recurring ping, per section 4.D. Call once
// after login succeeds.
func (c *Client) StartKeepAlive(ping func(ctx context.Context) error) {
	if c.cfg.keepAliveInterval() < 0 {
		return
	}
	c.keepAliveStop = make(chan struct{})
	c.keepAliveDone = make(chan struct{})
	go func() {
		defer close(c.keepAliveDone)
		t := time.NewTicker(c.cfg.keepAliveInterval())
		defer t.Stop()
		for {
			select {
			case <-c.keepAliveStop:
				return
			case <-t.C:
				ctx, cancel := context.WithTimeout(context.Background(), c.cfg.callTimeout())
				if err := ping(ctx); err != nil {
					c.logger.Warn("keep-alive ping failed", "conn", c.connID, "error", err)
				}
				cancel()
			}
		}
	}()
}

// CallPlain is used only during pre-session boot (getDeviceInfo): appends
// a CRC, SLIP-encodes, sends, awaits a response, SLIP-decodes (implicitly,
// via the reader), verifies CRC, and returns the payload.
func (c *Client) CallPlain(ctx context.Context, request []byte, throwOnError bool) ([]byte, error) {
	return c.call(ctx, func() ([]byte, error) {
		framed := wire.AppendCRC(request)
		return wire.EncodeSLIP(framed), nil
	}, throwOnError)
}

// CallEncrypted registers a waiter, sends request encrypted with the
// current session key, awaits the response, decrypts it, and optionally
// raises PanelError on a 0xF0 header.
func (c *Client) CallEncrypted(ctx context.Context, request []byte, throwOnError bool) ([]byte, error) {
	return c.call(ctx, func() ([]byte, error) {
		key, serial, ok := c.currentKey()
		if !ok {
			return nil, ErrClosed
		}
		ciphertext, err := wire.EncryptMessage(key, serial, request)
		if err != nil {
			return nil, err
		}
		return wire.EncodeSLIP(ciphertext), nil
	}, throwOnError)
}

// Send encrypts and writes request without registering a waiter or
// awaiting any response — used for fire-and-forget acknowledgements such
// as the change-of-state ack frame.
func (c *Client) Send(request []byte) error {
	key, serial, ok := c.currentKey()
	if !ok {
		return ErrClosed
	}
	ciphertext, err := wire.EncryptMessage(key, serial, request)
	if err != nil {
		return err
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}

	_, err = c.conn.Write(wire.EncodeSLIP(ciphertext))
	return err
}

func (c *Client) call(ctx context.Context, encode func() ([]byte, error), throwOnError bool) ([]byte, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.mu.Unlock()

	encoded, err := encode()
	if err != nil {
		return nil, err
	}

	ch := c.registerWaiter()

	if _, err := c.conn.Write(encoded); err != nil {
		c.abortWaiter(ch, err)
		return nil, err
	}

	timeout := c.cfg.callTimeout()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		if throwOnError && len(res.payload) > 0 && res.payload[0] == wire.HeaderError {
			return res.payload, &PanelError{Body: res.payload}
		}
		return res.payload, nil
	case <-timer.C:
		c.clearWaiterIfMine(ch)
		return nil, ErrTimeout
	case <-ctx.Done():
		c.clearWaiterIfMine(ch)
		return nil, ctx.Err()
	}
}

func (c *Client) registerWaiter() chan frameResult {
	ch := make(chan frameResult, 1)
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.respQueue) > 0 {
		payload := c.respQueue[0]
		c.respQueue = c.respQueue[1:]
		ch <- frameResult{payload: payload}
		return ch
	}
	c.waiter = ch
	return ch
}

func (c *Client) clearWaiterIfMine(ch chan frameResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.waiter == ch {
		c.waiter = nil
	}
}

func (c *Client) abortWaiter(ch chan frameResult, err error) {
	c.clearWaiterIfMine(ch)
	select {
	case ch <- frameResult{err: err}:
	default:
	}
}

// readLoop extracts SLIP frames from the socket, decrypts them once a
// session key exists, and routes each by its plaintext header byte:
// 0xC0 to the unsolicited handler, 0xA0/0xF0 to the pending waiter or the
// response queue.
func (c *Client) readLoop() {
	buf := make([]byte, 0, 4096)
	tmp := make([]byte, 4096)
	for {
		n, err := c.conn.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
		}
		for {
			frame, consumed, ok := wire.DecodeSLIP(buf)
			if !ok {
				break
			}
			buf = buf[consumed:]
			c.handleFrame(frame)
		}
		if err != nil {
			c.teardown(err)
			return
		}
	}
}

func (c *Client) handleFrame(frame []byte) {
	key, serial, hasKey := c.currentKey()

	var payload []byte
	if hasKey {
		p, err := wire.DecryptMessage(key, serial, frame)
		if err != nil {
			c.logger.Debug("discarding undecryptable frame", "conn", c.connID, "error", err)
			return
		}
		payload = p
	} else {
		if !wire.VerifyCRC(frame) {
			c.logger.Debug("discarding frame with bad CRC", "conn", c.connID)
			return
		}
		payload = frame[:len(frame)-2]
	}

	if len(payload) == 0 {
		return
	}

	if payload[0] == wire.HeaderRequest {
		// Guarded by mu (rather than a plain send) so this can never race
		// teardown/Close closing unsolicitedCh out from under it.
		c.mu.Lock()
		if !c.closed {
			select {
			case c.unsolicitedCh <- payload[1:]:
			default:
				c.logger.Debug("dropping change-of-state frame: notifier busy", "conn", c.connID)
			}
		}
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	if c.waiter != nil {
		w := c.waiter
		c.waiter = nil
		c.mu.Unlock()
		w <- frameResult{payload: payload}
		return
	}
	c.respQueue = append(c.respQueue, payload)
	c.mu.Unlock()
}

func (c *Client) teardown(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	w := c.waiter
	c.waiter = nil
	close(c.unsolicitedCh) // stops unsolicitedLoop; guarded by mu against handleFrame's send
	c.mu.Unlock()

	if w != nil {
		w <- frameResult{err: ErrClosed}
	}
	if err != nil {
		c.logger.Debug("connection read loop ended", "conn", c.connID, "error", err)
	}
}

// Close stops keep-alive, best-effort sends logout, and closes the socket.
// logout may be nil to skip the best-effort logout frame.
func (c *Client) Close(logout func()) error {
	if c.keepAliveStop != nil {
		close(c.keepAliveStop)
		<-c.keepAliveDone
	}
	if logout != nil {
		logout()
	}

	c.mu.Lock()
	alreadyClosed := c.closed
	c.closed = true
	c.sessionKey = nil
	w := c.waiter
	c.waiter = nil
	if !alreadyClosed {
		close(c.unsolicitedCh)
	}
	c.mu.Unlock()

	if w != nil {
		w <- frameResult{err: ErrClosed}
	}
	return c.conn.Close()
}
