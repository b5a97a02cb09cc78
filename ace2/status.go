package ace2

import (
	"context"

	"github.com/ace2go/ace2/inventory"
	"github.com/ace2go/ace2/wire"
)

// statusBatchLen is the separator byte for batched status-query requests,
// per section 4.F.
const statusBatchLen = 6

// RefreshAll repopulates names, validity, and status for every entity kind
// the panel exposes. It is meant to be called once after Connect, and
// again whenever a caller wants a full resync instead of relying solely on
// change-of-state notifications.
func (c *Client) RefreshAll(ctx context.Context) error {
	if err := c.refreshValidAreas(ctx); err != nil {
		return err
	}
	if err := c.refreshValidZones(ctx); err != nil {
		return err
	}

	for _, k := range []inventory.Kind{inventory.Area, inventory.Zone, inventory.Output, inventory.Trigger, inventory.Door, inventory.Filter} {
		if err := c.refreshNames(ctx, k); err != nil {
			c.logger.Warn("refreshNames failed", "kind", k, "error", err)
		}
		if err := c.refreshStatusAll(ctx, k); err != nil {
			c.logger.Warn("refreshStatusAll failed", "kind", k, "error", err)
		}
	}
	return nil
}

// refreshStatusAll reads the current status of every known-valid id of
// kind k, batching the requests where possible.
func (c *Client) refreshStatusAll(ctx context.Context, k inventory.Kind) error {
	tpl, ok := statusTemplateByKind[k]
	if !ok {
		return nil
	}
	ids := c.Inventory().ValidNumbers(k)
	if len(ids) == 0 {
		ids = sequentialRange(1, c.nameCap(k))
	}
	if len(ids) == 0 {
		return nil
	}

	if !c.fetchStatusBatched(ctx, tpl, k, ids) {
		for _, id := range ids {
			c.notifier.refreshOne(ctx, k, id)
		}
	}
	return nil
}

func (c *Client) fetchStatusBatched(ctx context.Context, tpl wire.Template, k inventory.Kind, ids []int) bool {
	embedded := make([][]byte, len(ids))
	for i, id := range ids {
		req := tpl.PackRequest(map[string]any{"objectId": uint64(id)})
		embedded[i] = req[1:]
	}
	full := wire.EncodeBatchRequest(statusBatchLen, embedded)

	resp, err := c.tc.CallEncrypted(ctx, full, false)
	if err != nil {
		return false
	}
	frame, ok := wire.ParseFrame(resp, 2)
	if !ok {
		return false
	}
	parts := wire.DecodeBatchExpecting(frame, tpl.Name)
	if len(parts) != len(ids) {
		return false
	}

	for i, part := range parts {
		if len(part) < len(tpl.MsgID) {
			return false
		}
		c.notifier.applyStatus(k, ids[i], statusFlagBytes(part[len(tpl.MsgID):]))
	}
	return true
}
