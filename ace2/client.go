package ace2

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ace2go/ace2/inventory"
	"github.com/ace2go/ace2/metrics"
	"github.com/ace2go/ace2/transport"
	"github.com/ace2go/ace2/wire"
)

// LoginMethod selects PIN-based or account-based authentication.
type LoginMethod int

const (
	LoginPIN LoginMethod = iota
	LoginAccount
)

// Config describes how to reach and authenticate to one panel.
type Config struct {
	Host           string
	Port           int
	EncryptionKey  string // 24/36/48-char password used to derive the initial key
	Method         LoginMethod
	PIN            string
	Username       string
	Password       string
	Permissions    byte
	ConnectionType byte // 0x03 = "mobile app", per section 4.E

	Transport transport.Config
}

const connectionMethodMobileApp byte = 0x03

// Client is a connected, authenticated session with one panel.
type Client struct {
	cfg     Config
	tc      *transport.Client
	logger  *slog.Logger
	metrics *metrics.Collector

	Panel PanelDescriptor

	notifier *Notifier
}

// Connect performs the full session handshake described in section 4.E:
// getDeviceInfo, createSession, enableEncryptionKey, login, and (for
// account logins) a post-login getUserInfo activation.
func Connect(ctx context.Context, cfg Config, logger *slog.Logger, mc *metrics.Collector) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if mc == nil {
		mc = metrics.NewNoop()
	}

	c := &Client{cfg: cfg, logger: logger, metrics: mc}
	c.notifier = newNotifier(c)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	tc, err := transport.Dial(ctx, addr, cfg.Transport, logger, c.notifier.handleUnsolicited)
	if err != nil {
		return nil, newError(CodeTransport, "dial failed", err)
	}
	c.tc = tc

	if err := c.handshake(ctx); err != nil {
		tc.Close(nil)
		return nil, err
	}

	if err := c.notifier.activate(ctx); err != nil {
		c.logger.Warn("change-of-state activation failed", "error", err)
	}

	tc.StartKeepAlive(func(ctx context.Context) error {
		_, err := c.CallEncrypted(ctx, wire.Ping, nil, false)
		return err
	})

	mc.ConnectionsOpened.Inc()
	return c, nil
}

func (c *Client) handshake(ctx context.Context) error {
	initialKey := wire.MakeEncryptionKey(c.cfg.EncryptionKey)

	devInfoResp, err := c.tc.CallPlain(ctx, wire.GetDeviceInfo.PackRequest(nil), true)
	if err != nil {
		return newError(CodeTransport, "getDeviceInfo failed", err)
	}
	frame, ok := wire.ParseFrame(devInfoResp, len(wire.GetDeviceInfo.MsgID))
	if !ok {
		return newError(CodeProtocol, "malformed getDeviceInfo response", nil)
	}
	c.Panel = ParsePanelDescriptor(frame.Body)
	if !c.Panel.HasSerial {
		return newError(CodeAuth, "panel serial could not be decoded", nil)
	}

	c.tc.SetSessionKey(initialKey, c.Panel.Serial)

	createReq := wire.CreateSession.PackRequest(map[string]any{
		"clientBytes": make([]byte, 8),
	})
	createResp, err := c.tc.CallEncrypted(ctx, createReq, true)
	if err != nil {
		return newError(CodeAuth, "createSession failed", err)
	}
	createFrame, ok := wire.ParseFrame(createResp, len(wire.CreateSession.MsgID))
	if !ok || len(createFrame.Body) < 11 {
		return newError(CodeProtocol, "malformed createSession response", nil)
	}
	sessionKey := make([]byte, 0, 16)
	sessionKey = append(sessionKey, make([]byte, 8)...)
	sessionKey = append(sessionKey, createFrame.Body[3:11]...)

	enableReq := wire.EnableEncryptionKey.PackRequest(nil)
	if _, err := c.tc.CallEncrypted(ctx, enableReq, true); err != nil {
		return newError(CodeAuth, "enableEncryptionKey failed", err)
	}
	c.tc.SetSessionKey(sessionKey, c.Panel.Serial)

	if err := c.login(ctx); err != nil {
		return err
	}

	if c.cfg.Method == LoginAccount {
		if _, err := c.CallEncrypted(ctx, wire.GetUserInfo, nil, true); err != nil {
			c.logger.Warn("post-login getUserInfo failed", "error", err)
		}
	}

	return nil
}

func (c *Client) login(ctx context.Context) error {
	method := c.cfg.ConnectionType
	if method == 0 {
		method = connectionMethodMobileApp
	}

	var tpl wire.Template
	var props map[string]any
	switch c.cfg.Method {
	case LoginPIN:
		tpl = wire.LoginPIN
		props = map[string]any{
			"permissions": uint64(c.cfg.Permissions),
			"pin":         []byte(c.cfg.PIN),
			"method":      uint64(method),
		}
	case LoginAccount:
		tpl = wire.LoginAccount
		props = map[string]any{
			"permissions": uint64(c.cfg.Permissions),
			"username":    []byte(c.cfg.Username),
			"password":    []byte(c.cfg.Password),
			"method":      uint64(method),
		}
	}

	resp, err := c.CallEncrypted(ctx, tpl, props, true)
	if err != nil {
		return newError(CodeAuth, "login rejected", err)
	}
	if status, ok := tpl.GetField(resp, "status"); !ok || status.(uint64) != 0 {
		return newError(CodeAuth, "login rejected by panel", nil)
	}
	return nil
}

// CallEncrypted packs tpl with props, sends it over the authenticated
// session, and returns the response body (header and message id already
// stripped by ParseFrame).
func (c *Client) CallEncrypted(ctx context.Context, tpl wire.Template, props map[string]any, throwOnError bool) ([]byte, error) {
	frame, err := c.CallEncryptedFrame(ctx, tpl, props, throwOnError)
	if err != nil {
		return nil, err
	}
	return frame.Body, nil
}

// CallEncryptedFrame is CallEncrypted but returns the full parsed frame
// instead of just its body, for callers that need to confirm the response's
// actual message id rather than assume it echoes the request's.
func (c *Client) CallEncryptedFrame(ctx context.Context, tpl wire.Template, props map[string]any, throwOnError bool) (wire.Frame, error) {
	req := tpl.PackRequest(props)
	resp, err := c.tc.CallEncrypted(ctx, req, throwOnError)
	if err != nil {
		return wire.Frame{}, err
	}
	frame, ok := wire.ParseFrame(resp, len(tpl.MsgID))
	if !ok {
		return wire.Frame{}, newError(CodeProtocol, fmt.Sprintf("malformed %s response", tpl.Name), nil)
	}
	return frame, nil
}

// OnChange registers the callback invoked for every change-of-state event
// the panel reports on this connection.
func (c *Client) OnChange(h ChangeHandler) {
	c.notifier.OnChange(h)
}

// Inventory exposes the connection's cached entity names, validity, and
// last-known status.
func (c *Client) Inventory() *inventory.Inventory {
	return c.notifier.Inventory()
}

// Close logs out (best effort) and tears down the connection.
func (c *Client) Close() error {
	return c.tc.Close(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, _ = c.CallEncrypted(ctx, wire.Logout, nil, false)
	})
}
