package ace2

import (
	"bytes"
	"context"

	"github.com/ace2go/ace2/inventory"
	"github.com/ace2go/ace2/wire"
)

const (
	standardNameLen      = 16
	standardNamesPerPage = 16
	extendedNameLen      = 30
	extendedNamesPerPage = 4

	// unknownCapNumbers bounds pagination when neither a valid-number set
	// nor a model-derived max count is available.
	unknownCapNumbers = 256
)

var nameTypeByKind = map[inventory.Kind]byte{
	inventory.Area:    wire.TypeIDArea,
	inventory.Zone:    wire.TypeIDZone,
	inventory.Output:  wire.TypeIDOutput,
	inventory.Trigger: wire.TypeIDTrigger,
	inventory.Door:    wire.TypeIDDoor,
	inventory.Filter:  wire.TypeIDFilter,
}

// refreshNames pages through getNames (or getNamesExtended, for panels
// that need it) and records every non-empty name into the inventory.
// nameCap bounds how many numbers are paged through: the highest known
// valid number when available, a model-derived max otherwise, or
// unknownCapNumbers as a last resort.
func (c *Client) refreshNames(ctx context.Context, k inventory.Kind) error {
	typeID, ok := nameTypeByKind[k]
	if !ok {
		return nil
	}

	tpl := wire.GetNames
	nameLen, perPage := standardNameLen, standardNamesPerPage
	if c.Panel.UsesExtendedNames() {
		tpl = wire.GetNamesExtended
		nameLen, perPage = extendedNameLen, extendedNamesPerPage
	}

	limit := c.nameCap(k)

	inv := c.Inventory()
	for start := 0; start < limit; start += perPage {
		resp, err := c.CallEncrypted(ctx, tpl, map[string]any{
			"typeId":     uint64(typeID),
			"startIndex": uint64(start),
		}, false)
		if err != nil {
			return err
		}

		names := splitNamePage(resp, nameLen, perPage)
		if allEmpty(names) {
			break
		}
		for i, name := range names {
			if name == "" {
				continue
			}
			inv.SetName(k, start+i+1, name)
		}
	}
	return nil
}

// allEmpty reports whether names is empty or every entry in it is an empty
// string — either a short (physically truncated) page or a full page of
// unused name slots, both of which mean pagination should stop rather than
// keep going to nameCap's fallback bound.
func allEmpty(names []string) bool {
	for _, n := range names {
		if n != "" {
			return false
		}
	}
	return true
}

func (c *Client) nameCap(k inventory.Kind) int {
	if ids := c.Inventory().ValidNumbers(k); len(ids) > 0 {
		max := 0
		for _, id := range ids {
			if id > max {
				max = id
			}
		}
		return max
	}
	switch k {
	case inventory.Area:
		return c.Panel.MaxAreas
	case inventory.Zone:
		return c.Panel.MaxZones
	default:
		return unknownCapNumbers
	}
}

// splitNamePage reads up to perPage fixed-width, NUL-padded name slots
// starting at body offset 2 (past the typeId/startIndex echo).
func splitNamePage(body []byte, nameLen, perPage int) []string {
	const headerLen = 2
	var out []string
	for i := 0; i < perPage; i++ {
		off := headerLen + i*nameLen
		if off+nameLen > len(body) {
			break
		}
		out = append(out, string(bytes.TrimRight(body[off:off+nameLen], "\x00")))
	}
	return out
}
