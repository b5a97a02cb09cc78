package ace2

import (
	"context"

	"github.com/ace2go/ace2/inventory"
	"github.com/ace2go/ace2/wire"
)

// zoneAreaBatchLen is the separator byte for batched
// getZonesAssignedToAreas requests, per section 4.F.
const zoneAreaBatchLen = 12

// refreshValidAreas populates the area validity bitmap. Extended-family
// panels (and x500 panels running a protocol new enough to use extended
// names) don't expose a getValidAreas query; every area up to MaxAreas is
// assumed installed.
func (c *Client) refreshValidAreas(ctx context.Context) error {
	inv := c.Inventory()
	if c.Panel.UsesExtendedNames() {
		inv.SetValid(inventory.Area, sequentialRange(1, c.Panel.MaxAreas))
		return nil
	}

	resp, err := c.CallEncrypted(ctx, wire.GetValidAreas, nil, true)
	if err != nil {
		return err
	}
	if len(resp) < 2 {
		inv.SetValid(inventory.Area, sequentialRange(1, c.Panel.MaxAreas))
		return nil
	}
	inv.SetValid(inventory.Area, bitmapToIDs(resp[1:]))
	return nil
}

// refreshValidZones queries which zones belong to which areas, batching
// the per-area requests where the transport supports it and falling back
// to one request per area when the batch response doesn't parse cleanly.
func (c *Client) refreshValidZones(ctx context.Context) error {
	inv := c.Inventory()
	areas := inv.ValidNumbers(inventory.Area)
	if len(areas) == 0 {
		areas = sequentialRange(1, c.Panel.MaxAreas)
	}

	zoneAreas := make(map[int][]int)
	if !c.fetchZoneAreasBatched(ctx, areas, zoneAreas) {
		c.fetchZoneAreasIndividually(ctx, areas, zoneAreas)
	}

	seen := make(map[int]bool)
	for zone, zAreas := range zoneAreas {
		inv.SetZoneAreas(zone, zAreas)
		seen[zone] = true
	}
	ids := make([]int, 0, len(seen))
	for z := range seen {
		ids = append(ids, z)
	}
	inv.SetValid(inventory.Zone, ids)
	return nil
}

// fetchZoneAreasBatched sends every area's getZonesAssignedToAreas request
// in one batch frame. It returns false (leaving zoneAreas untouched) if
// anything about the response fails to line up with the request count, so
// the caller can fall back to individual queries.
func (c *Client) fetchZoneAreasBatched(ctx context.Context, areas []int, zoneAreas map[int][]int) bool {
	if len(areas) == 0 {
		return true
	}

	embedded := make([][]byte, len(areas))
	for i, area := range areas {
		req := wire.GetZonesAssignedToAreas.PackRequest(map[string]any{"area": uint64(area)})
		embedded[i] = req[1:] // strip the per-message header byte; EncodeBatch adds its own
	}
	full := wire.EncodeBatchRequest(zoneAreaBatchLen, embedded)

	resp, err := c.tc.CallEncrypted(ctx, full, false)
	if err != nil {
		return false
	}
	frame, ok := wire.ParseFrame(resp, 2)
	if !ok {
		return false
	}
	parts := wire.DecodeBatchExpecting(frame, "zonesAssignedToAreas")
	if len(parts) != len(areas) {
		return false
	}

	tmp := make(map[int][]int, len(areas))
	for i, part := range parts {
		if len(part) < 3 {
			return false
		}
		bitmap := part[2:]
		for _, z := range bitmapToIDs(bitmap) {
			tmp[z] = append(tmp[z], areas[i])
		}
	}
	for z, as := range tmp {
		zoneAreas[z] = as
	}
	return true
}

func (c *Client) fetchZoneAreasIndividually(ctx context.Context, areas []int, zoneAreas map[int][]int) {
	for _, area := range areas {
		resp, err := c.CallEncrypted(ctx, wire.GetZonesAssignedToAreas, map[string]any{"area": uint64(area)}, false)
		if err != nil || len(resp) < 2 {
			continue
		}
		for _, z := range bitmapToIDs(resp[1:]) {
			zoneAreas[z] = append(zoneAreas[z], area)
		}
	}
}

func sequentialRange(start, count int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = start + i
	}
	return out
}
