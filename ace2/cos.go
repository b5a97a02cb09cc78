package ace2

import (
	"context"
	"sync"
	"time"

	"github.com/ace2go/ace2/inventory"
	"github.com/ace2go/ace2/wire"
)

// ChangeHandler receives one inventory.ChangeEvent per entity whose status
// changed since it was last read.
type ChangeHandler func(inventory.ChangeEvent)

// settleDelay is how long the notifier waits after an unsolicited frame
// before reading back the affected bitmaps, per section 4.I — it lets the
// panel finish applying whatever triggered the notification.
const settleDelay = 50 * time.Millisecond

var changeTypeKinds = map[byte][]inventory.Kind{
	wire.ChangeTypeZone:    {inventory.Zone},
	wire.ChangeTypeArea:    {inventory.Area},
	wire.ChangeTypeOutput:  {inventory.Output},
	wire.ChangeTypeFilter:  {inventory.Filter},
	wire.ChangeTypeDoor:    {inventory.Door},
	wire.ChangeTypeTrigger: {inventory.Trigger},
	wire.ChangeTypeAll:     {inventory.Area, inventory.Zone, inventory.Output, inventory.Trigger, inventory.Door, inventory.Filter},
}

var statusTemplateByKind = map[inventory.Kind]wire.Template{
	inventory.Area:    wire.AreaStatus,
	inventory.Zone:    wire.ZoneStatus,
	inventory.Output:  wire.OutputStatus,
	inventory.Trigger: wire.TriggerStatus,
	inventory.Door:    wire.DoorStatus,
	inventory.Filter:  wire.FilterStatus,
}

// Notifier turns unsolicited change-of-state frames into inventory updates
// and ChangeEvent callbacks. At most one notification is processed at a
// time per connection. The transport holds one further frame in a
// one-slot queue while a notification is in flight, and drops any frame
// that arrives while that slot is full; the queued frame is processed
// after the current one finishes.
type Notifier struct {
	client *Client
	inv    *inventory.Inventory

	mu      sync.Mutex
	busy    bool
	handler ChangeHandler
}

func newNotifier(c *Client) *Notifier {
	return &Notifier{client: c, inv: inventory.New()}
}

// OnChange registers the callback invoked for every detected change. It is
// not safe to call concurrently with incoming notifications.
func (n *Notifier) OnChange(h ChangeHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handler = h
}

// Inventory exposes the notifier's entity cache to callers that need
// names, validity, or last-known state outside of a change callback.
func (n *Notifier) Inventory() *inventory.Inventory { return n.inv }

// activate issues the getUserInfo call that tells the panel this
// connection wants change-of-state notifications. Called once right after
// login.
func (n *Notifier) activate(ctx context.Context) error {
	_, err := n.client.CallEncrypted(ctx, wire.GetUserInfo, nil, false)
	return err
}

// handleUnsolicited is the transport.UnsolicitedHandler registered for this
// connection. payload is the decrypted frame with header already stripped
// by the transport layer.
func (n *Notifier) handleUnsolicited(payload []byte) {
	if len(payload) < 3 {
		return
	}

	n.mu.Lock()
	if n.busy {
		n.mu.Unlock()
		return
	}
	n.busy = true
	n.mu.Unlock()

	defer func() {
		n.mu.Lock()
		n.busy = false
		n.mu.Unlock()
	}()

	changeType := payload[2]
	kinds, ok := changeTypeKinds[changeType]
	if !ok {
		kinds = changeTypeKinds[wire.ChangeTypeAll]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := n.client.tc.Send(wire.COSAck); err != nil {
		n.client.logger.Warn("change-of-state ack failed", "error", err)
	}

	time.Sleep(settleDelay)

	for _, k := range kinds {
		n.refreshKind(ctx, k)
	}
}

func (n *Notifier) refreshKind(ctx context.Context, k inventory.Kind) {
	resp, err := n.client.CallEncrypted(ctx, wire.GetChanges, map[string]any{
		"typeByte": uint64(changeTypeByKind(k)),
	}, false)
	if err != nil {
		n.client.logger.Warn("getChanges failed", "kind", k, "error", err)
		return
	}

	var ids []int
	if len(resp) > 1 {
		ids = bitmapToIDs(resp[1:])
	}
	if len(ids) == 0 {
		ids = n.inv.KnownIDs(k)
	}

	for _, id := range ids {
		if !n.inv.IsValid(k, id) {
			continue
		}
		n.refreshOne(ctx, k, id)
	}
}

func (n *Notifier) refreshOne(ctx context.Context, k inventory.Kind, id int) {
	tpl, ok := statusTemplateByKind[k]
	if !ok {
		return
	}
	resp, err := n.client.CallEncrypted(ctx, tpl, map[string]any{"objectId": uint64(id)}, false)
	if err != nil {
		n.client.logger.Warn("status refresh failed", "kind", k, "id", id, "error", err)
		return
	}
	n.applyStatus(k, id, statusFlagBytes(resp))
}

// applyStatus diffs raw against the cache and, on a change, emits a
// ChangeEvent. Shared by the per-entity COS refresh path and the batched
// full-resync path in status.go, which already has raw bytes in hand and
// doesn't need a network round trip per entity.
func (n *Notifier) applyStatus(k inventory.Kind, id int, raw []byte) {
	changed, old, updated := n.inv.UpdateState(k, id, raw)
	if !changed {
		return
	}

	n.mu.Lock()
	h := n.handler
	n.mu.Unlock()
	if h == nil {
		return
	}
	name, _ := n.inv.Name(k, id)
	h(inventory.ChangeEvent{Kind: k, ID: id, Name: name, OldData: old, NewData: updated})
}

func changeTypeByKind(k inventory.Kind) byte {
	switch k {
	case inventory.Zone:
		return wire.ChangeTypeZone
	case inventory.Area:
		return wire.ChangeTypeArea
	case inventory.Output:
		return wire.ChangeTypeOutput
	case inventory.Filter:
		return wire.ChangeTypeFilter
	case inventory.Door:
		return wire.ChangeTypeDoor
	case inventory.Trigger:
		return wire.ChangeTypeTrigger
	default:
		return wire.ChangeTypeAll
	}
}

// statusFlagBytes strips the objectId byte(s) a status response carries
// ahead of its flag word, matching each status template's [typeId,
// objectId, flags...] layout.
func statusFlagBytes(body []byte) []byte {
	if len(body) < 2 {
		return nil
	}
	return body[2:]
}

// bitmapToIDs turns a change-bitmap body (section 4.I's "A0 30 <typeByte>
// <bitmap>") into a 1-based id list, one bit per entity number.
func bitmapToIDs(bitmap []byte) []int {
	var ids []int
	for byteIdx, b := range bitmap {
		for bit := 0; bit < 8; bit++ {
			if b&(1<<uint(bit)) != 0 {
				ids = append(ids, byteIdx*8+bit+1)
			}
		}
	}
	return ids
}
