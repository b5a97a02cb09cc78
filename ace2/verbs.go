package ace2

import (
	"context"

	"github.com/ace2go/ace2/control"
	"github.com/ace2go/ace2/wire"
)

// InhibitZone and UninhibitZone bypass/restore a zone for the duration of
// the current arm cycle.
func (c *Client) InhibitZone(ctx context.Context, zone int) error {
	return control.RunVerb(ctx, c, wire.InhibitZone, map[string]any{"zone": uint64(zone)})
}

func (c *Client) UninhibitZone(ctx context.Context, zone int) error {
	return control.RunVerb(ctx, c, wire.UninhibitZone, map[string]any{"zone": uint64(zone)})
}

// ActivateOutput and DeactivateOutput drive a programmable output on or
// off.
func (c *Client) ActivateOutput(ctx context.Context, output int) error {
	return control.RunVerb(ctx, c, wire.ActivateOutput, map[string]any{"output": uint64(output)})
}

func (c *Client) DeactivateOutput(ctx context.Context, output int) error {
	return control.RunVerb(ctx, c, wire.DeactivateOutput, map[string]any{"output": uint64(output)})
}

// ActivateTrigger and DeactivateTrigger fire or clear a software trigger.
func (c *Client) ActivateTrigger(ctx context.Context, trigger int) error {
	return control.RunVerb(ctx, c, wire.ActivateTrigger, map[string]any{"trigger": uint64(trigger)})
}

func (c *Client) DeactivateTrigger(ctx context.Context, trigger int) error {
	return control.RunVerb(ctx, c, wire.DeactivateTrigger, map[string]any{"trigger": uint64(trigger)})
}

// LockDoor, UnlockDoorStandard, UnlockDoorTime, DisableDoor, and
// EnableDoor cover the full door-control verb set.
func (c *Client) LockDoor(ctx context.Context, door int) error {
	return control.RunVerb(ctx, c, wire.LockDoor, map[string]any{"door": uint64(door)})
}

func (c *Client) UnlockDoorStandard(ctx context.Context, door int) error {
	return control.RunVerb(ctx, c, wire.UnlockDoorStandard, map[string]any{"door": uint64(door)})
}

func (c *Client) UnlockDoorTimed(ctx context.Context, door, seconds int) error {
	return control.RunVerb(ctx, c, wire.UnlockDoorTime, map[string]any{
		"door":    uint64(door),
		"seconds": uint64(seconds),
	})
}

func (c *Client) DisableDoor(ctx context.Context, door int) error {
	return control.RunVerb(ctx, c, wire.DisableDoor, map[string]any{"door": uint64(door)})
}

func (c *Client) EnableDoor(ctx context.Context, door int) error {
	return control.RunVerb(ctx, c, wire.EnableDoor, map[string]any{"door": uint64(door)})
}

// Arm arms the given areas (full, part1, or part2 per setType) and Disarm
// disarms them, delegating the supervised poll/force state machine to the
// control package.
func (c *Client) Arm(ctx context.Context, areaBitmap []byte, setType control.SetType, force bool) error {
	return control.Arm(ctx, c, control.ArmOptions{AreaBitmap: areaBitmap, SetType: setType, Force: force})
}

func (c *Client) Disarm(ctx context.Context, areaBitmap []byte) error {
	return control.Disarm(ctx, c, areaBitmap)
}
